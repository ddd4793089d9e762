package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/matzehuels/ridgeline/pkg/backdrop"
	"github.com/matzehuels/ridgeline/pkg/errors"
	"github.com/matzehuels/ridgeline/pkg/surface"
	"github.com/matzehuels/ridgeline/pkg/surface/cells"
	"github.com/matzehuels/ridgeline/pkg/surface/raster"
	"github.com/matzehuels/ridgeline/pkg/surface/vector"
)

// epoch is the simulated clock's start. Any fixed instant works; it only
// has to be non-zero so the first frame is not mistaken for "never drawn".
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// target is an offscreen surface that can hand back its last frame.
type target interface {
	surface.Surface
	capture() ([]byte, error)
}

type vectorTarget struct{ *vector.Surface }

func (t vectorTarget) capture() ([]byte, error) {
	data := t.Bytes()
	if data == nil {
		return nil, errors.New(errors.ErrCodeInternal, "no frame was presented")
	}
	return append([]byte(nil), data...), nil
}

type rasterTarget struct{ *raster.Surface }

func (t rasterTarget) capture() ([]byte, error) { return t.PNG() }

type cellsTarget struct{ *cells.Surface }

func (t cellsTarget) capture() ([]byte, error) { return []byte(t.Grid().String() + "\n"), nil }

func newTarget(format string, opts Options) (target, error) {
	switch format {
	case FormatSVG:
		return vectorTarget{vector.New(opts.Width, opts.Height)}, nil
	case FormatPNG:
		w := int(math.Round(float64(opts.Width) * opts.Scale))
		h := int(math.Round(float64(opts.Height) * opts.Scale))
		return rasterTarget{raster.New(w, h, raster.WithLineWidth(opts.Scale))}, nil
	case FormatTXT:
		cols, rows := cells.PixelsToCells(opts.Width, opts.Height)
		return cellsTarget{cells.New(cols, rows)}, nil
	}
	return nil, ValidateFormat(format)
}

// frameStats describes one captured format.
type frameStats struct {
	Layers     int
	Edges      int
	Drawn      int
	Frames     int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// renderFormat mounts a fresh backdrop on an offscreen surface, steps the
// simulated clock one frame interval at a time until opts.Frames frames
// have executed and captures the final frame.
func renderFormat(ctx context.Context, opts Options, format string) ([]byte, frameStats, error) {
	var stats frameStats
	cfg, err := opts.Config()
	if err != nil {
		return nil, stats, err
	}
	if format == FormatTXT {
		// The floor is in pixels; a cell grid is never inflated by it.
		cfg.MinSurfaceSize = backdrop.Size{}
	}
	tgt, err := newTarget(format, opts)
	if err != nil {
		return nil, stats, err
	}

	b, err := backdrop.New(cfg, backdrop.WithSeed(opts.Seed), backdrop.WithLogger(opts.Logger))
	if err != nil {
		return nil, stats, err
	}

	buildStart := time.Now()
	sched := backdrop.NewManualScheduler()
	if err := b.Mount(tgt, sched); err != nil {
		return nil, stats, err
	}
	defer b.Unmount()
	stats.BuildTime = time.Since(buildStart)
	stats.Layers = len(b.Layers())

	renderStart := time.Now()
	step := cfg.FrameInterval
	if step <= 0 {
		step = backdrop.DefaultFrameInterval
	}
	now := epoch
	for b.State().Frames < opts.Frames {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		if sched.Step(now) == 0 || !b.Mounted() {
			if err := b.Err(); err != nil {
				return nil, stats, err
			}
			return nil, stats, errors.New(errors.ErrCodeDisposed, "backdrop stopped after %d frames", b.State().Frames)
		}
		now = now.Add(step)
	}
	stats.RenderTime = time.Since(renderStart)

	draw := b.LastDraw()
	stats.Edges = draw.Edges
	stats.Drawn = draw.Drawn
	stats.Frames = b.State().Frames

	data, err := tgt.capture()
	if err != nil {
		return nil, stats, err
	}
	return data, stats, nil
}
