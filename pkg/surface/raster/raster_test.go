package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/matzehuels/ridgeline/pkg/surface"
)

var (
	black = color.RGBA{A: 0xff}
	cyan  = color.RGBA{G: 0xff, B: 0xff, A: 0xff}
)

func TestSurfaceDraw(t *testing.T) {
	s := New(64, 32, WithLineWidth(2))
	if w, h := s.Size(); w != 64 || h != 32 {
		t.Fatalf("Size() = %dx%d, want 64x32", w, h)
	}

	s.Clear(black)
	s.DrawLine(0, 16, 64, 16, cyan)
	if err := s.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}

	r, g, b, _ := s.Image().At(32, 16).RGBA()
	if r>>8 != 0 || g>>8 < 0x80 || b>>8 < 0x80 {
		t.Errorf("pixel on line = (%d, %d, %d), want cyan", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = s.Image().At(32, 2).RGBA()
	if r|g|b != 0 {
		t.Errorf("pixel off line = (%d, %d, %d), want black", r>>8, g>>8, b>>8)
	}
	if s.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", s.Frames())
	}
}

func TestSurfacePNG(t *testing.T) {
	s := New(10, 10)
	s.Clear(black)
	s.DrawLine(0, 0, 10, 10, cyan)
	data, err := s.PNG()
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestSurfaceResize(t *testing.T) {
	s := New(10, 10)
	s.Resize(40, 20)
	if w, h := s.Size(); w != 40 || h != 20 {
		t.Errorf("Size() after Resize = %dx%d, want 40x20", w, h)
	}
}

func TestSurfaceOnPresent(t *testing.T) {
	calls := 0
	boom := errors.New("sink full")
	s := New(8, 8, WithOnPresent(func(img image.Image) error {
		calls++
		if img.Bounds().Dx() != 8 {
			t.Errorf("presented width = %d", img.Bounds().Dx())
		}
		return boom
	}))
	if err := s.Present(); !errors.Is(err, boom) {
		t.Errorf("Present() = %v, want %v", err, boom)
	}
	if calls != 1 {
		t.Errorf("callback calls = %d, want 1", calls)
	}
}

func TestSurfaceRelease(t *testing.T) {
	s := New(8, 8)
	if err := s.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := s.Present(); !errors.Is(err, surface.ErrReleased) {
		t.Errorf("Present after Release = %v, want ErrReleased", err)
	}
	if s.Image() != nil {
		t.Error("Image() should be nil after Release")
	}
	// drawing on a released surface is ignored
	s.Clear(black)
	s.DrawLine(0, 0, 1, 1, cyan)
}
