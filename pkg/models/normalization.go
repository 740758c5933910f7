package models

import (
	"math"

	"github.com/anime-shed/spatialplot-go/pkg/normalize"
	"github.com/anime-shed/spatialplot-go/pkg/validation"
)

// Shape is the (C, H, W) shape of a stack.
type Shape struct {
	Channels int `json:"channels"`
	Height   int `json:"height"`
	Width    int `json:"width"`
}

// ImageMetadata describes the decoded source.
type ImageMetadata struct {
	Format     string `json:"format"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ColorModel string `json:"color_model"`
	BitDepth   int    `json:"bit_depth"`
}

// ChannelStats reports one input channel. Values that are NaN or infinite
// are encoded as null.
type ChannelStats struct {
	Channel    int      `json:"channel"`
	Min        *float64 `json:"min"`
	Max        *float64 `json:"max"`
	Mean       *float64 `json:"mean"`
	StdDev     *float64 `json:"std_dev"`
	Lo         *float64 `json:"lo"`
	Hi         *float64 `json:"hi"`
	Degenerate bool     `json:"degenerate"`
}

// NormalizeResponse is the result of normalizing one image.
type NormalizeResponse struct {
	Source            string             `json:"source"`
	Label             string             `json:"label"`
	Timestamp         string             `json:"timestamp"`
	ProcessingTimeSec float64            `json:"processing_time_sec"`
	Strategy          string             `json:"strategy"`
	Shape             Shape              `json:"shape"`
	Params            normalize.Options  `json:"params"`
	Metadata          ImageMetadata      `json:"metadata"`
	Channels          []ChannelStats     `json:"channels"`
	Warnings          []validation.Issue `json:"warnings,omitempty"`
}

// BatchItem is one entry of a batch response, in request order.
type BatchItem struct {
	Index  int                `json:"index"`
	Source string             `json:"source"`
	Result *NormalizeResponse `json:"result,omitempty"`
	Error  *ErrorResponse     `json:"error,omitempty"`
}

// BatchResponse collects per-item outcomes.
type BatchResponse struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// Finite returns nil for NaN and infinities so the value survives JSON.
func Finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
