package vector

import (
	"bytes"
	"encoding/xml"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/matzehuels/ridgeline/pkg/surface"
)

func TestSurfaceSVG(t *testing.T) {
	s := New(200, 100, WithStrokeWidth(0.5))
	cyan := color.RGBA{G: 0xff, B: 0xff, A: 0xff}
	azure := color.RGBA{G: 0x80, B: 0xff, A: 0xff}

	s.Clear(color.RGBA{A: 0xff})
	s.DrawLine(0, 0, 10, 10, cyan)
	s.DrawLine(10, 10, 20, 5, cyan)
	s.DrawLine(5, 5, 50, 50, azure)
	if err := s.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}

	out := string(s.Bytes())
	for _, want := range []string{
		`viewBox="0 0 200 100"`,
		`fill="#000000"`,
		`stroke="#00ffff"`,
		`stroke="#0080ff"`,
		"M0.0 0.0L10.0 10.0M10.0 10.0L20.0 5.0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "<path"); n != 2 {
		t.Errorf("got %d paths, want one per colour (2)", n)
	}
	if err := xml.Unmarshal(s.Bytes(), new(struct{})); err != nil {
		t.Errorf("SVG is not well-formed XML: %v", err)
	}
}

func TestSurfaceClearStartsNewFrame(t *testing.T) {
	s := New(10, 10)
	s.DrawLine(0, 0, 1, 1, color.RGBA{R: 0xff, A: 0xff})
	s.Clear(color.RGBA{A: 0xff})
	_ = s.Present()
	if strings.Contains(string(s.Bytes()), "<path") {
		t.Error("Clear should discard lines from the previous frame")
	}
}

func TestSurfaceWriteTo(t *testing.T) {
	s := New(10, 10)
	_ = s.Present()
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), s.Bytes()) {
		t.Error("WriteTo output differs from Bytes")
	}
}

func TestSurfaceRelease(t *testing.T) {
	s := New(10, 10)
	_ = s.Release()
	if err := s.Present(); !errors.Is(err, surface.ErrReleased) {
		t.Errorf("Present after Release = %v, want ErrReleased", err)
	}
}
