// Package surfacetest provides a recording [surface.Surface] for tests.
package surfacetest

import (
	"image/color"
	"sync"

	"github.com/matzehuels/ridgeline/pkg/surface"
)

// Recorder is an in-memory surface that counts calls. It is safe for
// concurrent use so tests can inspect it while a scheduler goroutine draws.
type Recorder struct {
	mu sync.Mutex

	width, height int

	// PresentErr, when set, is returned from every Present call.
	PresentErr error

	clears    int
	lines     int
	frameLine int
	presents  int
	releases  int
	resizes   [][2]int
	colors    map[color.RGBA]int
}

// New returns a recorder with the given size.
func New(width, height int) *Recorder {
	return &Recorder{width: width, height: height, colors: make(map[color.RGBA]int)}
}

func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Recorder) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.resizes = append(r.resizes, [2]int{width, height})
}

func (r *Recorder) Clear(color.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
	r.frameLine = 0
}

func (r *Recorder) DrawLine(_, _, _, _ float64, c color.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines++
	r.frameLine++
	r.colors[c]++
}

func (r *Recorder) Present() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.releases > 0 {
		return surface.ErrReleased
	}
	r.presents++
	return r.PresentErr
}

func (r *Recorder) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releases++
	return nil
}

// Stats is a snapshot of recorded calls.
type Stats struct {
	Clears     int
	Lines      int
	FrameLines int
	Presents   int
	Releases   int
	Resizes    [][2]int
	Colors     int
}

// Stats returns the calls recorded so far.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		Clears:     r.clears,
		Lines:      r.lines,
		FrameLines: r.frameLine,
		Presents:   r.presents,
		Releases:   r.releases,
		Resizes:    append([][2]int(nil), r.resizes...),
		Colors:     len(r.colors),
	}
}

var _ surface.Surface = (*Recorder)(nil)
