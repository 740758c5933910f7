// Package palette generates distinguishable colors for channel overlays and legends.
package palette

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxColors is the number of distinct 24-bit colors.
const MaxColors = 1 << 24

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x5eed))
}

// RandomHex draws uniformly random RGB colors until n distinct "#rrggbb"
// strings exist. Colors are returned in the order they were first drawn.
func RandomHex(n int, rng *rand.Rand) ([]string, error) {
	if n > MaxColors {
		return nil, fmt.Errorf("cannot generate %d distinct colors, at most %d exist", n, MaxColors)
	}
	if n <= 0 {
		return []string{}, nil
	}

	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for len(out) < n {
		r, g, b := rng.IntN(256), rng.IntN(256), rng.IntN(256)
		hex := fmt.Sprintf("#%02x%02x%02x", r, g, b)
		if _, dup := seen[hex]; dup {
			continue
		}
		seen[hex] = struct{}{}
		out = append(out, hex)
	}
	return out, nil
}

// Happy returns n colors evenly spread in hue with similar saturation and value.
func Happy(n int) []string {
	if n <= 0 {
		return []string{}
	}
	cols := colorful.FastHappyPalette(n)
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Clamped().Hex()
	}
	return out
}

// ParseHex converts "#rrggbb" (or "#rgb") into an opaque color.
func ParseHex(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// ParseAll converts a list of hex colors.
func ParseAll(hexes []string) ([]color.NRGBA, error) {
	out := make([]color.NRGBA, len(hexes))
	for i, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Channels picks one color per channel. A single channel is rendered in
// white so it reads as plain grayscale; more channels get random colors.
func Channels(n int, rng *rand.Rand) ([]color.NRGBA, error) {
	if n == 1 {
		return []color.NRGBA{{R: 255, G: 255, B: 255, A: 255}}, nil
	}
	hexes, err := RandomHex(n, rng)
	if err != nil {
		return nil, err
	}
	return ParseAll(hexes)
}
