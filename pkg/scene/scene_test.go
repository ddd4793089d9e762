package scene

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/ridgeline/pkg/surface/surfacetest"
	"github.com/matzehuels/ridgeline/pkg/terrain"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCameraBasis(t *testing.T) {
	c := NewCamera(r3.Vec{Z: 10}, 90, 0.1, 1000)

	if v := c.View(r3.Vec{}); !near(v.X, 0) || !near(v.Y, 0) || !near(v.Z, 10) {
		t.Errorf("View(origin) = %+v, want (0, 0, 10)", v)
	}
	if v := c.View(r3.Vec{X: 1, Y: 2}); !near(v.X, 1) || !near(v.Y, 2) {
		t.Errorf("View(1, 2, 0) = %+v, want X=1 Y=2", v)
	}
}

func TestCameraProject(t *testing.T) {
	c := NewCamera(r3.Vec{Z: 10}, 90, 0.1, 1000)
	c.SetAspect(2)

	x, y := c.Project(c.View(r3.Vec{}), 800, 400)
	if !near(x, 400) || !near(y, 200) {
		t.Errorf("origin projects to (%v, %v), want center (400, 200)", x, y)
	}

	// fov 90 → focal length 1; a point at 45° up lands on the top edge
	x, y = c.Project(r3.Vec{Y: 10, Z: 10}, 800, 400)
	if !near(x, 400) || !near(y, 0) {
		t.Errorf("top edge point projects to (%v, %v), want (400, 0)", x, y)
	}

	// horizontal extent is divided by the aspect ratio
	x, _ = c.Project(r3.Vec{X: 20, Z: 10}, 800, 400)
	if !near(x, 800) {
		t.Errorf("right edge point projects to x=%v, want 800", x)
	}
}

func TestCameraSetAspectIgnoresInvalid(t *testing.T) {
	c := NewCamera(r3.Vec{Z: 1}, 75, 0.1, 1000)
	c.SetAspect(1.5)
	c.SetAspect(0)
	c.SetAspect(-2)
	c.SetAspect(math.Inf(1))
	if c.Aspect != 1.5 {
		t.Errorf("Aspect = %v, want 1.5", c.Aspect)
	}
}

func TestCameraLookingDown(t *testing.T) {
	c := NewCamera(r3.Vec{Y: 100}, 75, 0.1, 1000)
	v := c.View(r3.Vec{})
	if !near(v.Z, 100) || math.IsNaN(v.X) || math.IsNaN(v.Y) {
		t.Errorf("View(origin) from above = %+v, want depth 100", v)
	}
}

func TestClipRect(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		wantOK         bool
		want           [4]float64
	}{
		{"inside", 1, 1, 9, 9, true, [4]float64{1, 1, 9, 9}},
		{"crosses left", -10, 5, 5, 5, true, [4]float64{0, 5, 5, 5}},
		{"crosses both", -10, 5, 20, 5, true, [4]float64{0, 5, 10, 5}},
		{"outside above", 1, -5, 9, -1, false, [4]float64{}},
		{"outside parallel", -5, 1, -5, 9, false, [4]float64{}},
		{"diagonal through corner", -5, -5, 15, 15, true, [4]float64{0, 0, 10, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0, y0, x1, y1, ok := clipRect(tt.x0, tt.y0, tt.x1, tt.y1, 0, 0, 10, 10)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			got := [4]float64{x0, y0, x1, y1}
			for i := range got {
				if !near(got[i], tt.want[i]) {
					t.Errorf("clipRect = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestClipDepth(t *testing.T) {
	behind := r3.Vec{X: 0, Z: -1}
	front := r3.Vec{X: 4, Z: 3}
	got := clipDepth(behind, front, 1, true)
	if !near(got.Z, 1) || !near(got.X, 2) {
		t.Errorf("clipDepth = %+v, want (2, _, 1)", got)
	}
	if got := clipDepth(front, behind, 1, true); got != front {
		t.Errorf("visible point moved: %+v", got)
	}
	if got := clipDepth(r3.Vec{Z: 20}, r3.Vec{Z: 0}, 10, false); !near(got.Z, 10) {
		t.Errorf("far clip Z = %v, want 10", got.Z)
	}
}

func flatLayer(c color.RGBA) *terrain.Layer {
	return &terrain.Layer{Mesh: terrain.NewPlane(2, 2), Scale: 1, Color: c}
}

func TestSceneDraw(t *testing.T) {
	cyan := color.RGBA{G: 0xff, B: 0xff, A: 0xff}
	s := &Scene{
		Camera: NewCamera(r3.Vec{Z: 5}, 75, 0.1, 1000),
		Layers: []*terrain.Layer{flatLayer(cyan)},
	}
	rec := surfacetest.New(200, 200)

	st, err := s.Draw(rec)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	// a 2×2 plane has 5 wireframe edges
	if st.Edges != 5 || st.Drawn != 5 || st.Culled != 0 {
		t.Errorf("stats = %+v, want 5 drawn", st)
	}
	got := rec.Stats()
	if got.Clears != 1 || got.Presents != 1 || got.Lines != 5 {
		t.Errorf("surface calls = %+v", got)
	}
}

func TestSceneDrawCullsBehindCamera(t *testing.T) {
	l := flatLayer(color.RGBA{A: 0xff})
	l.Position = r3.Vec{Z: 50}
	s := &Scene{
		Camera: NewCamera(r3.Vec{Z: 5}, 75, 0.1, 1000),
		Layers: []*terrain.Layer{l},
	}
	s.Camera.LookAt(r3.Vec{Z: -100})

	st, err := s.Draw(surfacetest.New(100, 100))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if st.Drawn != 0 || st.Culled != 5 {
		t.Errorf("stats = %+v, want all 5 culled", st)
	}
}

func TestSceneDrawPresentError(t *testing.T) {
	rec := surfacetest.New(10, 10)
	rec.PresentErr = errors.New("lost device")
	s := &Scene{Camera: NewCamera(r3.Vec{Z: 5}, 75, 0.1, 1000)}
	if _, err := s.Draw(rec); err == nil {
		t.Error("Draw should return the Present error")
	}
}
