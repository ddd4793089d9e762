package noise

import (
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// OpenSimplex wraps github.com/ojrac/opensimplex-go.
type OpenSimplex struct {
	n opensimplex.Noise
}

// NewOpenSimplex returns an OpenSimplex field for seed.
func NewOpenSimplex(seed int64) *OpenSimplex {
	return &OpenSimplex{n: opensimplex.New(seed)}
}

// Eval returns the noise value at (x, y), roughly in [-1, 1].
func (o *OpenSimplex) Eval(x, y float64) float64 {
	return o.n.Eval2(x, y)
}

// Perlin parameters: alpha is the weight divisor between octaves, beta the
// frequency multiplier, and octaves the number of summed layers.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// Perlin wraps github.com/aquilax/go-perlin with three octaves.
type Perlin struct {
	p *perlin.Perlin
}

// NewPerlin returns a fractal Perlin field for seed.
func NewPerlin(seed int64) *Perlin {
	return &Perlin{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

// Eval returns the noise value at (x, y). go-perlin's output is roughly half
// the amplitude of simplex noise, so it is doubled to keep terrain heights
// comparable across kinds.
func (p *Perlin) Eval(x, y float64) float64 {
	return 2 * p.p.Noise2D(x, y)
}

var (
	_ Field = (*OpenSimplex)(nil)
	_ Field = (*Perlin)(nil)
)
