package imageio

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"

	"github.com/anime-shed/spatialplot-go/pkg/layout"
	"github.com/anime-shed/spatialplot-go/pkg/normalize"
)

var background = color.NRGBA{A: 255}

// MontageOptions controls tile placement.
type MontageOptions struct {
	// CellWidth and CellHeight size every cell. Zero keeps the stack size.
	// Tiles larger than a cell are scaled down to fit, smaller ones are centered.
	CellWidth  int
	CellHeight int
	// Gap is the spacing in pixels between tiles.
	Gap int
}

// toByte maps [0, 1] onto 0..255. Out-of-range values clamp and NaN is black.
func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// PlaneToGray renders a normalized plane as an 8-bit grayscale image.
func PlaneToGray(plane *mat.Dense) *image.Gray {
	h, w := plane.Dims()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Pix[y*dst.Stride+x] = toByte(plane.At(y, x))
		}
	}
	return dst
}

// Tint renders a normalized plane scaled by a display color.
func Tint(plane *mat.Dense, c color.NRGBA) *image.NRGBA {
	h, w := plane.Dims()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(toByte(plane.At(y, x))) / 255
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = uint8(math.Round(v * float64(c.R)))
			dst.Pix[i+1] = uint8(math.Round(v * float64(c.G)))
			dst.Pix[i+2] = uint8(math.Round(v * float64(c.B)))
			dst.Pix[i+3] = 255
		}
	}
	return dst
}

// Montage places every channel of img in its own grid cell, tinted by the
// matching color. Cells past the last channel stay black.
func Montage(img *normalize.Stack, grid layout.Grid, colors []color.NRGBA, opts MontageOptions) (*image.NRGBA, error) {
	channels, height, width := img.Shape()
	if len(colors) < channels {
		return nil, fmt.Errorf("need %d colors, got %d", channels, len(colors))
	}
	if grid.Panels < channels {
		return nil, fmt.Errorf("grid holds %d panels, stack has %d channels", grid.Panels, channels)
	}

	cw, ch := opts.CellWidth, opts.CellHeight
	if cw <= 0 {
		cw = width
	}
	if ch <= 0 {
		ch = height
	}

	canvas := grid.Canvas(cw, ch, opts.Gap)
	dst := imaging.New(canvas.Dx(), canvas.Dy(), background)
	for c := 0; c < channels; c++ {
		var tile image.Image = Tint(img.Channel(c), colors[c])
		if cw != width || ch != height {
			tile = imaging.Fit(tile, cw, ch, imaging.Lanczos)
		}
		cell := grid.Rect(c, cw, ch, opts.Gap)
		tb := tile.Bounds()
		offset := image.Pt(cell.Min.X+(cw-tb.Dx())/2, cell.Min.Y+(ch-tb.Dy())/2)
		dst = imaging.Paste(dst, tile, offset)
	}
	return dst, nil
}

// Composite overlays all channels additively, each tinted by its color.
func Composite(img *normalize.Stack, colors []color.NRGBA) (*image.NRGBA, error) {
	channels, height, width := img.Shape()
	if len(colors) < channels {
		return nil, fmt.Errorf("need %d colors, got %d", channels, len(colors))
	}

	acc := make([]float64, width*height*3)
	for c := 0; c < channels; c++ {
		plane := img.Channel(c)
		col := colors[c]
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				v := float64(toByte(plane.At(y, x))) / 255
				i := (y*width + x) * 3
				acc[i+0] += v * float64(col.R)
				acc[i+1] += v * float64(col.G)
				acc[i+2] += v * float64(col.B)
			}
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	for p := 0; p < width*height; p++ {
		for k := 0; k < 3; k++ {
			dst.Pix[p*4+k] = uint8(math.Min(255, math.Round(acc[p*3+k])))
		}
		dst.Pix[p*4+3] = 255
	}
	return dst, nil
}
