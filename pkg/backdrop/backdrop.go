// Package backdrop animates layered wireframe terrain on a host surface.
//
// A [Backdrop] is mounted onto a [surface.Surface] together with the host's
// [Scheduler]. From then on it draws itself: every frame callback first
// requests the next one, then skips the work if the previous executed frame
// was less than Config.FrameInterval ago, and otherwise advances the
// animation [State] and redraws the scene. Unmount stops the loop and
// releases the surface exactly once.
//
//	b, _ := backdrop.New(backdrop.DefaultConfig(), backdrop.WithSeed(7))
//	sched := backdrop.NewRefreshScheduler(0, nil)
//	_ = b.Mount(surf, sched)
//	defer b.Unmount()
//	_ = sched.Run(ctx)
//
// All methods are safe for concurrent use; frame callbacks, resizes and
// unmount are serialised by one lock.
package backdrop

import (
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ridgeline/pkg/errors"
	"github.com/matzehuels/ridgeline/pkg/noise"
	"github.com/matzehuels/ridgeline/pkg/observability"
	"github.com/matzehuels/ridgeline/pkg/scene"
	"github.com/matzehuels/ridgeline/pkg/surface"
	"github.com/matzehuels/ridgeline/pkg/terrain"
)

// Option configures a [Backdrop].
type Option func(*Backdrop)

// WithRand sets the random source for terrain generation.
func WithRand(r *rand.Rand) Option {
	return func(b *Backdrop) { b.rng = r }
}

// WithSeed seeds terrain generation. Zero picks an entropy seed.
func WithSeed(seed uint64) Option {
	return func(b *Backdrop) { b.rng = noise.NewRand(seed) }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(b *Backdrop) {
		if l != nil {
			b.logger = l
		}
	}
}

// Backdrop is the animated terrain component.
type Backdrop struct {
	cfg    Config
	rng    *rand.Rand
	logger *log.Logger

	mu      sync.Mutex
	gen     uint64
	mounted bool
	surf    surface.Surface
	sched   Scheduler
	cancel  func()
	scene   *scene.Scene
	layers  []*terrain.Layer
	state   State
	last    scene.DrawStats
	err     error
}

// New validates cfg and returns an unmounted backdrop.
func New(cfg Config, opts ...Option) (*Backdrop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Backdrop{cfg: cfg}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = noise.NewRand(0)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b, nil
}

// Config returns the configuration.
func (b *Backdrop) Config() Config { return b.cfg }

// Mount builds the terrain, sizes the surface and schedules the first frame.
//
// Mounting onto a nil surface does nothing and returns nil, so hosts can
// mount unconditionally before their surface exists. Mounting twice without
// an Unmount in between is an error.
func (b *Backdrop) Mount(s surface.Surface, sched Scheduler) error {
	if s == nil {
		return nil
	}
	if sched == nil {
		return errors.New(errors.ErrCodeInvalidInput, "mount requires a scheduler")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mounted {
		return errors.New(errors.ErrCodeInvalidInput, "backdrop is already mounted")
	}

	layers, err := terrain.BuildLayers(b.cfg.buildOptions(), b.rng)
	if err != nil {
		if rerr := s.Release(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "build terrain")
	}

	w, h := s.Size()
	cw, ch := b.clamp(w, h)
	if cw != w || ch != h {
		s.Resize(cw, ch)
	}

	cam := scene.NewCamera(b.cfg.CameraPosition, b.cfg.FOV, b.cfg.Near, b.cfg.Far)
	if ch > 0 {
		cam.SetAspect(float64(cw) / float64(ch))
	}

	b.gen++
	b.mounted = true
	b.surf = s
	b.sched = sched
	b.layers = layers
	b.scene = &scene.Scene{Camera: cam, Layers: layers, Background: b.cfg.Background}
	b.state = State{}
	b.last = scene.DrawStats{}
	b.err = nil

	gen := b.gen
	b.cancel = sched.RequestFrame(func(now time.Time) { b.frame(gen, now) })

	b.logger.Debug("backdrop mounted", "width", cw, "height", ch, "layers", len(layers))
	observability.Frame().OnMount(cw, ch, len(layers))
	return nil
}

func (b *Backdrop) clamp(w, h int) (int, int) {
	return surface.ClampSize(w, h, b.cfg.MinSurfaceSize.Width, b.cfg.MinSurfaceSize.Height)
}

// frame is the scheduled callback. gen ties it to one mount so that a stale
// callback from an earlier mount can never drive a later one.
func (b *Backdrop) frame(gen uint64, now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.mounted || gen != b.gen {
		return
	}

	b.cancel = b.sched.RequestFrame(func(t time.Time) { b.frame(gen, t) })

	if !b.state.Due(now, b.cfg.FrameInterval) {
		b.state.Skipped++
		return
	}

	prev := b.state.LastFrame
	Advance(&b.state, b.layers, b.cfg.Motion, now)
	stats, err := b.scene.Draw(b.surf)
	b.last = stats
	if err != nil {
		b.logger.Warn("surface failed, disposing backdrop", "frame", b.state.Frames, "err", err)
		b.disposeLocked(errors.Wrap(errors.ErrCodeSurfaceUnavailable, err, "present frame %d", b.state.Frames))
		return
	}

	var elapsed time.Duration
	if !prev.IsZero() {
		elapsed = now.Sub(prev)
	}
	observability.Frame().OnFrame(b.state.Frames, elapsed)
}

// Resize adapts the camera and surface to a new viewport, applying the
// minimum surface size. Terrain is not regenerated. Resizing an unmounted
// backdrop does nothing.
func (b *Backdrop) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.mounted {
		return
	}
	w, h := b.clamp(width, height)
	if h > 0 {
		b.scene.Camera.SetAspect(float64(w) / float64(h))
	}
	b.surf.Resize(w, h)
	b.logger.Debug("backdrop resized", "width", w, "height", h)
	observability.Frame().OnResize(w, h)
}

// Unmount stops the loop and releases the surface. It is idempotent and
// returns the release error, if any, from the first call only.
func (b *Backdrop) Unmount() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.mounted {
		return nil
	}
	return b.disposeLocked(nil)
}

func (b *Backdrop) disposeLocked(cause error) error {
	b.mounted = false
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	frames := b.state.Frames
	b.err = cause

	var releaseErr error
	if b.surf != nil {
		releaseErr = b.surf.Release()
	}
	b.surf = nil
	b.sched = nil
	b.scene = nil
	b.layers = nil

	b.logger.Debug("backdrop disposed", "frames", frames, "cause", cause)
	observability.Frame().OnDispose(frames, cause)
	return releaseErr
}

// Mounted reports whether the loop is running.
func (b *Backdrop) Mounted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mounted
}

// State returns a snapshot of the loop state. It is kept after unmount
// until the next mount.
func (b *Backdrop) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Layers returns the mounted layers, or nil when unmounted. The layers are
// live: their rotations change with every executed frame.
func (b *Backdrop) Layers() []*terrain.Layer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.layers
}

// LastDraw returns the statistics of the most recent executed frame.
func (b *Backdrop) LastDraw() scene.DrawStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Err returns the error that made the backdrop dispose itself, or nil.
func (b *Backdrop) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}
