package strategy

import (
	"fmt"
	"image"
	"strings"

	"github.com/anime-shed/spatialplot-go/internal/imageio"
	"github.com/anime-shed/spatialplot-go/pkg/normalize"
)

// Strategy names accepted by ForName.
const (
	Gray = "gray"
	RGB  = "rgb"
	Auto = "auto"
)

// ChannelStrategy turns a decoded image into a channel stack.
type ChannelStrategy interface {
	Extract(img image.Image) (*normalize.Stack, error)
	GetStrategyName() string
}

// GrayStrategy yields a single luminance channel at the source bit depth.
type GrayStrategy struct{}

// NewGrayStrategy creates a gray extraction strategy
func NewGrayStrategy() ChannelStrategy {
	return &GrayStrategy{}
}

func (s *GrayStrategy) Extract(img image.Image) (*normalize.Stack, error) {
	return imageio.ToGrayStack(img)
}

func (s *GrayStrategy) GetStrategyName() string {
	return Gray
}

// RGBStrategy yields the red, green and blue planes as three channels.
type RGBStrategy struct{}

// NewRGBStrategy creates an RGB extraction strategy
func NewRGBStrategy() ChannelStrategy {
	return &RGBStrategy{}
}

func (s *RGBStrategy) Extract(img image.Image) (*normalize.Stack, error) {
	return imageio.ToRGBStack(img)
}

func (s *RGBStrategy) GetStrategyName() string {
	return RGB
}

// AutoStrategy picks gray for single-channel sources and RGB otherwise.
type AutoStrategy struct {
	gray ChannelStrategy
	rgb  ChannelStrategy
}

// NewAutoStrategy creates a strategy that inspects the color model
func NewAutoStrategy() ChannelStrategy {
	return &AutoStrategy{
		gray: NewGrayStrategy(),
		rgb:  NewRGBStrategy(),
	}
}

func (s *AutoStrategy) Extract(img image.Image) (*normalize.Stack, error) {
	if imageio.IsGray(img) {
		return s.gray.Extract(img)
	}
	return s.rgb.Extract(img)
}

func (s *AutoStrategy) GetStrategyName() string {
	return Auto
}

// ForName resolves a strategy by name. An empty name selects Auto.
func ForName(name string) (ChannelStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Auto:
		return NewAutoStrategy(), nil
	case Gray, "grey":
		return NewGrayStrategy(), nil
	case RGB:
		return NewRGBStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown channel mode %q", name)
	}
}

// ExtractionContext holds the strategy used by a processing run.
type ExtractionContext struct {
	strategy ChannelStrategy
}

// NewExtractionContext creates a new extraction context
func NewExtractionContext(strategy ChannelStrategy) *ExtractionContext {
	return &ExtractionContext{strategy: strategy}
}

// SetStrategy changes the extraction strategy
func (c *ExtractionContext) SetStrategy(strategy ChannelStrategy) {
	c.strategy = strategy
}

// Execute extracts channels with the current strategy
func (c *ExtractionContext) Execute(img image.Image) (*normalize.Stack, error) {
	return c.strategy.Extract(img)
}

// GetCurrentStrategy returns the current strategy name
func (c *ExtractionContext) GetCurrentStrategy() string {
	return c.strategy.GetStrategyName()
}
