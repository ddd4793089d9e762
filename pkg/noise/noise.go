// Package noise provides seeded 2D coherent-noise fields.
//
// A [Field] maps a point in the plane to a smooth value in roughly [-1, 1].
// Nearby inputs produce nearby outputs, which is what makes a heightmap
// sampled from a field look like terrain rather than static.
//
// Three implementations are available:
//
//   - [Simplex]: classic 2D simplex noise with a permutation table shuffled
//     from an injected random source
//   - [OpenSimplex]: OpenSimplex noise from github.com/ojrac/opensimplex-go
//   - [Perlin]: fractal Perlin noise from github.com/aquilax/go-perlin
//
// Every field is immutable after construction: the same (x, y) always yields
// the bit-identical value for the life of the instance.
package noise

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/ridgeline/pkg/errors"
)

// Field is a 2D coherent-noise function.
type Field interface {
	Eval(x, y float64) float64
}

// FieldFunc adapts a plain function to [Field].
type FieldFunc func(x, y float64) float64

// Eval calls f(x, y).
func (f FieldFunc) Eval(x, y float64) float64 { return f(x, y) }

// Kind names a noise implementation.
type Kind string

const (
	KindSimplex     Kind = "simplex"
	KindOpenSimplex Kind = "opensimplex"
	KindPerlin      Kind = "perlin"
)

// DefaultKind is the noise used when none is configured.
const DefaultKind = KindSimplex

// Kinds lists the supported implementations.
func Kinds() []Kind {
	return []Kind{KindSimplex, KindOpenSimplex, KindPerlin}
}

// ParseKind validates a kind name. The empty string selects [DefaultKind].
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return DefaultKind, nil
	}
	k := Kind(s)
	if !slices.Contains(Kinds(), k) {
		return "", errors.New(errors.ErrCodeInvalidNoise, "unknown noise %q (want simplex, opensimplex or perlin)", s)
	}
	return k, nil
}

// New builds a field of the given kind, drawing all of its randomness from r.
// A nil r seeds from system entropy.
func New(kind Kind, r *rand.Rand) (Field, error) {
	if r == nil {
		r = NewRand(0)
	}
	switch kind {
	case KindSimplex, "":
		return NewSimplex(r), nil
	case KindOpenSimplex:
		return NewOpenSimplex(r.Int64()), nil
	case KindPerlin:
		return NewPerlin(r.Int64()), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidNoise, "unknown noise %q", string(kind))
}

// NewRand returns a PCG-backed source. Seed zero means "pick one from system
// entropy", so every run differs unless a seed is given.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
