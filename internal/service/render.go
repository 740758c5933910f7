package service

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/anime-shed/spatialplot-go/internal/imageio"
	"github.com/anime-shed/spatialplot-go/pkg/layout"
	"github.com/anime-shed/spatialplot-go/pkg/models"
	"github.com/anime-shed/spatialplot-go/pkg/normalize"
	"github.com/anime-shed/spatialplot-go/pkg/palette"
)

// RenderOptions selects how a normalized stack becomes an image.
type RenderOptions struct {
	Layout     string // montage | composite
	NCols      int
	Seed       *uint64
	Happy      bool
	CellWidth  int
	CellHeight int
	Gap        int
}

// RenderOptionsFrom copies the render fields of a request.
func RenderOptionsFrom(req models.RenderRequest) RenderOptions {
	return RenderOptions{
		Layout:     req.Layout,
		NCols:      req.NCols,
		Seed:       req.Seed,
		Happy:      req.Happy,
		CellWidth:  req.CellWidth,
		CellHeight: req.CellHeight,
		Gap:        2,
	}
}

// ChannelColors picks one display color per channel.
func ChannelColors(n int, opts RenderOptions) ([]color.NRGBA, error) {
	if opts.Happy {
		return palette.ParseAll(palette.Happy(n))
	}
	seed := uint64(time.Now().UnixNano())
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	return palette.Channels(n, palette.NewRand(seed))
}

// RenderStack draws a normalized stack as a montage or composite.
func RenderStack(stack *normalize.Stack, opts RenderOptions) (image.Image, error) {
	colors, err := ChannelColors(stack.NumChannels(), opts)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(opts.Layout) {
	case "", models.LayoutMontage:
		grid, err := layout.NewGrid(stack.NumChannels(), opts.NCols)
		if err != nil {
			return nil, err
		}
		return imageio.Montage(stack, grid, colors, imageio.MontageOptions{
			CellWidth:  opts.CellWidth,
			CellHeight: opts.CellHeight,
			Gap:        opts.Gap,
		})
	case models.LayoutComposite:
		return imageio.Composite(stack, colors)
	default:
		return nil, fmt.Errorf("unknown layout %q", opts.Layout)
	}
}
