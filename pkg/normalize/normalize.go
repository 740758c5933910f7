package normalize

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Bounds holds the per-channel values found at the low and high percentiles.
type Bounds struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Degenerate reports whether the channel has no spread between its
// percentiles, in which case the output is scaled by 1/eps.
func (b Bounds) Degenerate() bool { return b.Hi == b.Lo }

// Normalize rescales every channel of img so that its PMin percentile maps
// to 0 and its PMax percentile maps to 1:
//
//	out = (px - lo) / (hi - lo + eps)
//
// With Clip set, the output is clamped into [0, 1]. img is left untouched
// and the result has the same shape. Percentile ordering is not checked.
func Normalize(img *Stack, opts Options) *Stack {
	out, _ := NormalizeWithBounds(img, opts)
	return out
}

// NormalizeWithBounds is Normalize that also returns the per-channel bounds.
func NormalizeWithBounds(img *Stack, opts Options) (*Stack, []Bounds) {
	out := &Stack{
		Label:    opts.Label,
		channels: make([]*mat.Dense, len(img.channels)),
		height:   img.height,
		width:    img.width,
	}
	bounds := make([]Bounds, len(img.channels))
	for c := range img.channels {
		out.channels[c], bounds[c] = NormalizeChannel(img.channels[c], opts)
	}
	return out, bounds
}

// ChannelBounds computes the percentile bounds of every channel without
// producing normalized output.
func ChannelBounds(img *Stack, opts Options) []Bounds {
	bounds := make([]Bounds, len(img.channels))
	for c := range img.channels {
		bounds[c] = planeBounds(img, c, opts)
	}
	return bounds
}

// NormalizeChannel normalizes a single plane into a newly allocated matrix.
func NormalizeChannel(plane *mat.Dense, opts Options) (*mat.Dense, Bounds) {
	r, c := plane.Dims()
	values := make([]float64, 0, r*c)
	raw := plane.RawMatrix()
	for y := 0; y < raw.Rows; y++ {
		values = append(values, raw.Data[y*raw.Stride:y*raw.Stride+raw.Cols]...)
	}
	p := Percentiles(values, opts.PMin, opts.PMax)
	b := Bounds{Lo: p[0], Hi: p[1]}

	scale := b.Hi - b.Lo + opts.Eps
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, _ int, v float64) float64 {
		n := (v - b.Lo) / scale
		if opts.Clip {
			n = clamp01(n)
		}
		return n
	}, plane)
	return out, b
}

func planeBounds(img *Stack, c int, opts Options) Bounds {
	p := Percentiles(img.Values(c), opts.PMin, opts.PMax)
	return Bounds{Lo: p[0], Hi: p[1]}
}

// clamp01 keeps NaN as NaN.
func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Max(0, math.Min(1, v))
}
