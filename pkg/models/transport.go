package models

import "github.com/anime-shed/spatialplot-go/pkg/normalize"

// NormalizeRequest asks for one image to be normalized. Unset parameters
// fall back to the server defaults.
type NormalizeRequest struct {
	Source   string   `json:"source" binding:"required"`
	PMin     *float64 `json:"pmin,omitempty"`
	PMax     *float64 `json:"pmax,omitempty"`
	Eps      *float64 `json:"eps,omitempty"`
	Clip     *bool    `json:"clip,omitempty"`
	Label    *string  `json:"label,omitempty"`
	Mode     string   `json:"mode,omitempty"` // gray | rgb | auto
	Channels []int    `json:"channels,omitempty"`
}

// Options merges the request parameters over defaults.
func (r NormalizeRequest) Options(defaults normalize.Options) normalize.Options {
	opts := defaults
	if r.PMin != nil {
		opts.PMin = *r.PMin
	}
	if r.PMax != nil {
		opts.PMax = *r.PMax
	}
	if r.Eps != nil {
		opts.Eps = *r.Eps
	}
	if r.Clip != nil {
		opts.Clip = *r.Clip
	}
	if r.Label != nil {
		opts.Label = *r.Label
	}
	return opts
}

// Render layouts.
const (
	LayoutMontage   = "montage"
	LayoutComposite = "composite"
)

// RenderRequest normalizes an image and renders the channels.
type RenderRequest struct {
	NormalizeRequest
	Layout     string  `json:"layout,omitempty"` // montage | composite
	NCols      int     `json:"ncols,omitempty"`
	Format     string  `json:"format,omitempty"` // png | jpeg
	Seed       *uint64 `json:"seed,omitempty"`
	Happy      bool    `json:"happy,omitempty"`
	CellWidth  int     `json:"cell_width,omitempty"`
	CellHeight int     `json:"cell_height,omitempty"`
}

// BatchRequest normalizes several images in one call.
type BatchRequest struct {
	Items []NormalizeRequest `json:"items" binding:"required,min=1,dive"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
