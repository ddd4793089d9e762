package observability

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Errors are logged
// at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks backed by logger. A nil logger discards output.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

// Register installs h as every hook category.
func (h *LogHooks) Register() {
	SetFrameHooks(h)
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnMount(width, height, layers int) {
	h.logger.Debug("backdrop mounted", "width", width, "height", height, "layers", layers)
}

func (h *LogHooks) OnFrame(frame int, elapsed time.Duration) {
	// 60 fps would flood the log
	if frame%300 == 0 {
		h.logger.Debug("frame", "n", frame, "elapsed", elapsed)
	}
}

func (h *LogHooks) OnResize(width, height int) {
	h.logger.Debug("backdrop resized", "width", width, "height", height)
}

func (h *LogHooks) OnDispose(frames int, err error) {
	if err != nil {
		h.logger.Warn("backdrop disposed", "frames", frames, "err", err)
		return
	}
	h.logger.Debug("backdrop disposed", "frames", frames)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "duration", d, "err", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ FrameHooks    = (*LogHooks)(nil)
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
