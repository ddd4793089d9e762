package terrain

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/ridgeline/pkg/noise"
)

// Euler is an XYZ-order rotation in radians: a point is rotated about Z
// first, then Y, then X.
type Euler struct {
	X, Y, Z float64
}

// Apply rotates v.
func (e Euler) Apply(v r3.Vec) r3.Vec {
	v = rotate(v, e.Z, r3.Vec{Z: 1})
	v = rotate(v, e.Y, r3.Vec{Y: 1})
	return rotate(v, e.X, r3.Vec{X: 1})
}

func rotate(v r3.Vec, angle float64, axis r3.Vec) r3.Vec {
	if angle == 0 {
		return v
	}
	return r3.NewRotation(angle, axis).Rotate(v)
}

// Layer is one terrain mesh placed in the scene.
type Layer struct {
	Index     int
	Heightmap Heightmap
	Mesh      *Mesh
	Position  r3.Vec
	Rotation  Euler
	Scale     float64
	Color     color.RGBA
}

// ToWorld maps a local mesh point to world space: scale, then rotate, then
// translate.
func (l *Layer) ToWorld(v r3.Vec) r3.Vec {
	return r3.Add(l.Rotation.Apply(r3.Scale(l.Scale, v)), l.Position)
}

// Transform is a layer's local-to-world mapping with its rotations built
// once, for transforming many vertices under the same pose.
type Transform struct {
	scale      float64
	rz, ry, rx r3.Rotation
	pos        r3.Vec
}

// Transform captures the layer's current pose.
func (l *Layer) Transform() Transform {
	return Transform{
		scale: l.Scale,
		rz:    r3.NewRotation(l.Rotation.Z, r3.Vec{Z: 1}),
		ry:    r3.NewRotation(l.Rotation.Y, r3.Vec{Y: 1}),
		rx:    r3.NewRotation(l.Rotation.X, r3.Vec{X: 1}),
		pos:   l.Position,
	}
}

// Apply maps v to world space.
func (t Transform) Apply(v r3.Vec) r3.Vec {
	v = r3.Scale(t.scale, v)
	v = t.rx.Rotate(t.ry.Rotate(t.rz.Rotate(v)))
	return r3.Add(v, t.pos)
}

// World returns every vertex in world space. dst is reused when it has
// enough capacity.
func (l *Layer) World(dst []r3.Vec) []r3.Vec {
	dst = dst[:0]
	t := l.Transform()
	for _, v := range l.Mesh.Vertices {
		dst = append(dst, t.Apply(v))
	}
	return dst
}

// DefaultPalette holds the wireframe colours for the first layers; further
// layers cycle through it.
var DefaultPalette = []color.RGBA{
	{R: 0x00, G: 0xff, B: 0xff, A: 0xff}, // cyan
	{R: 0x00, G: 0x80, B: 0xff, A: 0xff}, // azure
	{R: 0x40, G: 0x40, B: 0xff, A: 0xff},
	{R: 0x80, G: 0x40, B: 0xff, A: 0xff},
}

// Placement describes how layer i is positioned relative to layer 0.
// Deeper layers sit lower, further back and larger.
type Placement struct {
	BaseY      float64 `toml:"base_y" json:"base_y"`
	StepY      float64 `toml:"step_y" json:"step_y"`
	BaseZ      float64 `toml:"base_z" json:"base_z"`
	StepZ      float64 `toml:"step_z" json:"step_z"`
	BaseScale  float64 `toml:"base_scale" json:"base_scale"`
	StepScale  float64 `toml:"step_scale" json:"step_scale"`
	TiltX      float64 `toml:"tilt_x" json:"tilt_x"`
	InitialYaw float64 `toml:"initial_yaw" json:"initial_yaw"`
}

// DefaultPlacement lays the plane flat (−π/2 about X), turns it a quarter
// about Z, and recedes each layer by 30 units.
func DefaultPlacement() Placement {
	return Placement{
		BaseY: -40, StepY: -20,
		BaseZ: -50, StepZ: -30,
		BaseScale: 40, StepScale: 10,
		TiltX:      -math.Pi / 2,
		InitialYaw: math.Pi / 2,
	}
}

// BuildOptions configures [BuildLayers].
type BuildOptions struct {
	Count        int
	BaseGridSize int
	GridSizeStep int
	Noise        noise.Kind
	Shape        ShapeParams
	Placement    Placement
	Palette      []color.RGBA
}

// BuildLayers constructs opts.Count layers. Layer i has a square grid of
// BaseGridSize + i·GridSizeStep vertices per side and its own noise field
// drawn from r, so layers differ from each other but the whole set is
// reproducible from r's seed.
func BuildLayers(opts BuildOptions, r *rand.Rand) ([]*Layer, error) {
	if opts.Count < 0 {
		return nil, fmt.Errorf("layer count %d is negative", opts.Count)
	}
	if r == nil {
		r = noise.NewRand(0)
	}
	palette := opts.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	p := opts.Placement

	layers := make([]*Layer, 0, opts.Count)
	for i := range opts.Count {
		size := opts.BaseGridSize + i*opts.GridSizeStep
		if size < 2 {
			return nil, fmt.Errorf("layer %d grid size %d is below 2", i, size)
		}
		field, err := noise.New(opts.Noise, r)
		if err != nil {
			return nil, err
		}

		hm := Generate(field, size, size, opts.Shape)
		mesh := NewPlane(size, size)
		mesh.SetHeights(hm)

		fi := float64(i)
		layers = append(layers, &Layer{
			Index:     i,
			Heightmap: hm,
			Mesh:      mesh,
			Position:  r3.Vec{X: 0, Y: p.BaseY + p.StepY*fi, Z: p.BaseZ + p.StepZ*fi},
			Rotation:  Euler{X: p.TiltX, Z: p.InitialYaw},
			Scale:     p.BaseScale + p.StepScale*fi,
			Color:     palette[i%len(palette)],
		})
	}
	return layers, nil
}
