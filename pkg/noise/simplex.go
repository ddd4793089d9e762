package noise

import (
	"math"
	"math/rand/v2"
)

// Skew and unskew factors for the 2D simplex grid.
var (
	f2 = 0.5 * (math.Sqrt(3) - 1)
	g2 = (3 - math.Sqrt(3)) / 6
)

// simplexScale maps the summed corner contributions to roughly [-1, 1].
const simplexScale = 70

// grad3 holds the 12 edge-midpoint gradients of a cube. Only the x and y
// components matter in 2D.
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// Simplex is 2D simplex noise over a shuffled permutation table.
type Simplex struct {
	perm      [512]int
	permMod12 [512]int
}

// NewSimplex builds a field whose permutation of 0..255 is a Fisher–Yates
// shuffle driven by r. A nil r seeds from system entropy.
func NewSimplex(r *rand.Rand) *Simplex {
	if r == nil {
		r = NewRand(0)
	}
	var p [256]int
	for i := range p {
		p[i] = i
	}
	for i := len(p) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		p[i], p[j] = p[j], p[i]
	}

	s := &Simplex{}
	for i := range s.perm {
		s.perm[i] = p[i&255]
		s.permMod12[i] = s.perm[i] % 12
	}
	return s
}

// Eval returns the noise value at (x, y). It is defined for every finite
// input and never fails.
func (s *Simplex) Eval(x, y float64) float64 {
	// Skew input space to find the containing simplex cell.
	k := (x + y) * f2
	i := int(math.Floor(x + k))
	j := int(math.Floor(y + k))

	t := float64(i+j) * g2
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)

	// Lower or upper triangle of the cell.
	i1, j1 := 0, 1
	if x0 > y0 {
		i1, j1 = 1, 0
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1 + 2*g2
	y2 := y0 - 1 + 2*g2

	ii := i & 255
	jj := j & 255
	gi0 := s.permMod12[ii+s.perm[jj]]
	gi1 := s.permMod12[ii+i1+s.perm[jj+j1]]
	gi2 := s.permMod12[ii+1+s.perm[jj+1]]

	n := corner(gi0, x0, y0) + corner(gi1, x1, y1) + corner(gi2, x2, y2)
	return simplexScale * n
}

// corner is one vertex's contribution: t⁴·dot(grad, d) with t = 0.5 − |d|².
func corner(gi int, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t < 0 {
		return 0
	}
	t *= t
	g := grad3[gi]
	return t * t * (g[0]*x + g[1]*y)
}

var _ Field = (*Simplex)(nil)
