package noise

import (
	"math"
	"testing"

	"github.com/matzehuels/ridgeline/pkg/errors"
)

func TestSimplexDeterministic(t *testing.T) {
	a := NewSimplex(NewRand(42))
	b := NewSimplex(NewRand(42))

	for _, pt := range [][2]float64{{0.1, 0.2}, {-3.7, 12.25}, {1e3, -1e3}, {0.5, 0.5}} {
		va, vb := a.Eval(pt[0], pt[1]), b.Eval(pt[0], pt[1])
		if va != vb {
			t.Errorf("Eval%v differs between equal seeds: %v vs %v", pt, va, vb)
		}
		if again := a.Eval(pt[0], pt[1]); again != va {
			t.Errorf("Eval%v not stable on one instance: %v then %v", pt, va, again)
		}
	}
}

func TestSimplexSeedsDiffer(t *testing.T) {
	a := NewSimplex(NewRand(1))
	b := NewSimplex(NewRand(2))

	same := 0
	for i := range 50 {
		x := float64(i)*0.37 + 0.11
		if a.Eval(x, x*0.5) == b.Eval(x, x*0.5) {
			same++
		}
	}
	if same == 50 {
		t.Error("different seeds produced identical fields")
	}
}

func TestSimplexPermutation(t *testing.T) {
	s := NewSimplex(NewRand(9))

	seen := make(map[int]bool)
	for i := range 256 {
		v := s.perm[i]
		if v < 0 || v > 255 || seen[v] {
			t.Fatalf("perm[%d] = %d is not part of a permutation of 0..255", i, v)
		}
		seen[v] = true
		if s.perm[i+256] != v {
			t.Errorf("perm[%d] = %d, want doubled value %d", i+256, s.perm[i+256], v)
		}
		if s.permMod12[i] != v%12 {
			t.Errorf("permMod12[%d] = %d, want %d", i, s.permMod12[i], v%12)
		}
	}
}

func TestSimplexOriginIsZero(t *testing.T) {
	s := NewSimplex(NewRand(3))
	if v := s.Eval(0, 0); v != 0 {
		t.Errorf("Eval(0, 0) = %v, want 0 at a lattice point", v)
	}
}

func TestSimplexRange(t *testing.T) {
	s := NewSimplex(NewRand(5))
	for i := -100; i <= 100; i++ {
		for j := -100; j <= 100; j += 7 {
			v := s.Eval(float64(i)*0.173, float64(j)*0.291)
			if math.IsNaN(v) || v < -1 || v > 1 {
				t.Fatalf("Eval(%v, %v) = %v, outside [-1, 1]", float64(i)*0.173, float64(j)*0.291, v)
			}
		}
	}
}

func TestFieldsContinuous(t *testing.T) {
	const eps = 1e-4
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			f, err := New(kind, NewRand(11))
			if err != nil {
				t.Fatalf("New(%s): %v", kind, err)
			}
			for i := range 200 {
				x := float64(i)*0.051 - 5
				y := float64(i)*0.033 + 2
				v := f.Eval(x, y)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("Eval(%v, %v) = %v", x, y, v)
				}
				if d := math.Abs(f.Eval(x+eps, y) - v); d > 0.01 {
					t.Errorf("step in x at (%v, %v): |Δ| = %v", x, y, d)
				}
				if d := math.Abs(f.Eval(x, y+eps) - v); d > 0.01 {
					t.Errorf("step in y at (%v, %v): |Δ| = %v", x, y, d)
				}
			}
		})
	}
}

func TestNewDeterministicPerKind(t *testing.T) {
	for _, kind := range Kinds() {
		a, _ := New(kind, NewRand(77))
		b, _ := New(kind, NewRand(77))
		if a.Eval(1.3, -2.9) != b.Eval(1.3, -2.9) {
			t.Errorf("%s: equal seeds gave different values", kind)
		}
	}
}

func TestNewNilRand(t *testing.T) {
	f, err := New(KindSimplex, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v := f.Eval(0.3, 0.7); math.IsNaN(v) {
		t.Error("entropy-seeded field returned NaN")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindSimplex, false},
		{"simplex", KindSimplex, false},
		{"opensimplex", KindOpenSimplex, false},
		{"perlin", KindPerlin, false},
		{"worley", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidNoise) {
				t.Errorf("error code = %v, want INVALID_NOISE", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFieldFunc(t *testing.T) {
	var f Field = FieldFunc(func(x, y float64) float64 { return x - y })
	if got := f.Eval(3, 1); got != 2 {
		t.Errorf("Eval = %v, want 2", got)
	}
}
