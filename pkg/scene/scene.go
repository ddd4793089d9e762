package scene

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/ridgeline/pkg/surface"
	"github.com/matzehuels/ridgeline/pkg/terrain"
)

// Scene is a set of wireframe layers seen through one camera.
type Scene struct {
	Camera     *Camera
	Layers     []*terrain.Layer
	Background color.RGBA

	view []r3.Vec
}

// DrawStats counts the edges considered in one draw.
type DrawStats struct {
	Edges  int
	Drawn  int
	Culled int
}

// Draw clears dst, strokes every visible edge and presents the frame.
// Edges are clipped against the near and far planes and the viewport.
func (s *Scene) Draw(dst surface.Surface) (DrawStats, error) {
	var st DrawStats
	w, h := dst.Size()
	dst.Clear(s.Background)

	for _, l := range s.Layers {
		s.view = s.view[:0]
		tr := l.Transform()
		for _, v := range l.Mesh.Vertices {
			s.view = append(s.view, s.Camera.View(tr.Apply(v)))
		}
		for _, e := range l.Mesh.Edges {
			st.Edges++
			x0, y0, x1, y1, ok := s.project(s.view[e[0]], s.view[e[1]], w, h)
			if !ok {
				st.Culled++
				continue
			}
			dst.DrawLine(x0, y0, x1, y1, l.Color)
			st.Drawn++
		}
	}
	return st, dst.Present()
}

// project clips a view-space segment to the depth range, projects it, and
// clips the result to the viewport.
func (s *Scene) project(a, b r3.Vec, w, h int) (x0, y0, x1, y1 float64, ok bool) {
	near, far := s.Camera.Near, s.Camera.Far
	if (a.Z < near && b.Z < near) || (a.Z > far && b.Z > far) {
		return 0, 0, 0, 0, false
	}
	a, b = clipDepth(a, b, near, true), clipDepth(b, a, near, true)
	a, b = clipDepth(a, b, far, false), clipDepth(b, a, far, false)

	x0, y0 = s.Camera.Project(a, w, h)
	x1, y1 = s.Camera.Project(b, w, h)
	return clipRect(x0, y0, x1, y1, 0, 0, float64(w), float64(h))
}

// clipDepth moves p onto the plane Z = plane when it lies on the wrong side
// (in front of the near plane, or behind the far plane), sliding it toward q.
func clipDepth(p, q r3.Vec, plane float64, isNear bool) r3.Vec {
	outside := p.Z < plane
	if !isNear {
		outside = p.Z > plane
	}
	if !outside || p.Z == q.Z {
		return p
	}
	t := (plane - p.Z) / (q.Z - p.Z)
	return r3.Add(p, r3.Scale(t, r3.Sub(q, p)))
}

// clipRect is Liang–Barsky clipping of a segment to [minX, maxX]×[minY, maxY].
func clipRect(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - minX},
		{dx, maxX - x0},
		{-dy, y0 - minY},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
