// Package terrain turns a noise field into layered wireframe meshes.
//
// [Generate] samples a [noise.Field] into a [Heightmap]; [NewPlane] builds a
// grid mesh whose vertex order matches the heightmap; [BuildLayers] combines
// the two into positioned, coloured [Layer] values ready to be drawn.
package terrain

import (
	"math"

	"github.com/matzehuels/ridgeline/pkg/noise"
)

// Octave is one noise sample: the field is evaluated at (Freq·nx, Freq·ny)
// and multiplied by Amp.
type Octave struct {
	Freq float64 `toml:"freq" json:"freq"`
	Amp  float64 `toml:"amp" json:"amp"`
}

// ShapeParams controls how noise octaves combine into elevation.
//
// With base = Base.Amp·f(Base.Freq·nx, Base.Freq·ny):
//
//	h = base + Σ details + flow + peaks + valleys
//	flow    = sin(FlowFreqX·nx)·cos(FlowFreqY·ny)·FlowAmp
//	peaks   = max(0, base − PeakThreshold)·PeakGain
//	valleys = min(0, base + ValleyThreshold)·ValleyGain
type ShapeParams struct {
	Base            Octave   `toml:"base" json:"base"`
	Details         []Octave `toml:"details" json:"details"`
	FlowFreqX       float64  `toml:"flow_freq_x" json:"flow_freq_x"`
	FlowFreqY       float64  `toml:"flow_freq_y" json:"flow_freq_y"`
	FlowAmp         float64  `toml:"flow_amp" json:"flow_amp"`
	PeakThreshold   float64  `toml:"peak_threshold" json:"peak_threshold"`
	PeakGain        float64  `toml:"peak_gain" json:"peak_gain"`
	ValleyThreshold float64  `toml:"valley_threshold" json:"valley_threshold"`
	ValleyGain      float64  `toml:"valley_gain" json:"valley_gain"`
}

// DefaultShape returns the mountain-range profile: a broad base, two finer
// detail octaves, a sinusoidal ridge flow, sharpened peaks and deepened
// valleys.
func DefaultShape() ShapeParams {
	return ShapeParams{
		Base: Octave{Freq: 3, Amp: 3},
		Details: []Octave{
			{Freq: 8, Amp: 1},
			{Freq: 15, Amp: 0.5},
		},
		FlowFreqX:       15,
		FlowFreqY:       12,
		FlowAmp:         1.5,
		PeakThreshold:   1,
		PeakGain:        4,
		ValleyThreshold: 0.5,
		ValleyGain:      2,
	}
}

// Elevation evaluates the shape at normalized coordinates (nx, ny), each in
// [-0.5, 0.5).
func (p ShapeParams) Elevation(f noise.Field, nx, ny float64) float64 {
	base := f.Eval(p.Base.Freq*nx, p.Base.Freq*ny) * p.Base.Amp
	h := base
	for _, o := range p.Details {
		h += f.Eval(o.Freq*nx, o.Freq*ny) * o.Amp
	}
	h += math.Sin(p.FlowFreqX*nx) * math.Cos(p.FlowFreqY*ny) * p.FlowAmp
	h += math.Max(0, base-p.PeakThreshold) * p.PeakGain
	h += math.Min(0, base+p.ValleyThreshold) * p.ValleyGain
	return h
}

// Heightmap is a row-major grid of elevations: Values[row*Width+col].
type Heightmap struct {
	Width  int
	Height int
	Values []float64
}

// Len returns the number of samples.
func (h Heightmap) Len() int { return len(h.Values) }

// At returns the elevation at column x, row y.
func (h Heightmap) At(x, y int) float64 { return h.Values[y*h.Width+x] }

// Range returns the lowest and highest elevations. An empty heightmap
// returns (0, 0).
func (h Heightmap) Range() (lo, hi float64) {
	if len(h.Values) == 0 {
		return 0, 0
	}
	lo, hi = h.Values[0], h.Values[0]
	for _, v := range h.Values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// Generate samples f over a width×height grid. Sample (x, y) uses
// nx = x/width − 0.5 and ny = y/height − 0.5. The result always holds
// exactly width·height values and depends only on its arguments.
// Non-positive dimensions yield an empty heightmap.
func Generate(f noise.Field, width, height int, p ShapeParams) Heightmap {
	if width <= 0 || height <= 0 {
		return Heightmap{}
	}
	values := make([]float64, width*height)
	for y := range height {
		ny := float64(y)/float64(height) - 0.5
		for x := range width {
			nx := float64(x)/float64(width) - 0.5
			values[y*width+x] = p.Elevation(f, nx, ny)
		}
	}
	return Heightmap{Width: width, Height: height, Values: values}
}
