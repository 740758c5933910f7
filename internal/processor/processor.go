package processor

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/anime-shed/spatialplot-go/internal/logger"
	"github.com/anime-shed/spatialplot-go/internal/strategy"
	"github.com/anime-shed/spatialplot-go/pkg/normalize"
	"github.com/anime-shed/spatialplot-go/pkg/validation"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of normalizing one image.
type Result struct {
	Stack    *normalize.Stack
	Stats    []ChannelStats
	Issues   []validation.Issue
	Strategy string
	Elapsed  time.Duration
}

// Processor extracts channels from an image and normalizes them.
type Processor struct {
	stats     StatsCalculator
	inspector *validation.ParamInspector
}

// NewProcessor creates a processor using up to maxWorkers goroutines
// for per-channel statistics.
func NewProcessor(maxWorkers int) *Processor {
	return &Processor{
		stats:     NewStatsCalculator(maxWorkers),
		inspector: validation.NewParamInspector(),
	}
}

// Process normalizes an existing stack. Channel statistics are taken on
// the input, before scaling.
func (p *Processor) Process(ctx context.Context, img *normalize.Stack, opts normalize.Options) (*Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := p.stats.Calculate(img, opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := make([]normalize.Bounds, len(stats))
	for i, s := range stats {
		bounds[i] = normalize.Bounds{Lo: s.Lo, Hi: s.Hi}
	}
	issues := p.inspector.Inspect(opts, bounds)

	out := normalize.Normalize(img, opts)

	c, h, w := img.Shape()
	logger.WithFields(logrus.Fields{
		"channels": c,
		"height":   h,
		"width":    w,
		"pmin":     opts.PMin,
		"pmax":     opts.PMax,
		"clip":     opts.Clip,
		"issues":   len(issues),
	}).Debug("Normalized stack")

	return &Result{
		Stack:   out,
		Stats:   stats,
		Issues:  issues,
		Elapsed: time.Since(start),
	}, nil
}

// ProcessImage extracts channels with s, optionally keeps only the listed
// channels, and normalizes the result.
func (p *Processor) ProcessImage(ctx context.Context, img image.Image, s strategy.ChannelStrategy, channels []int, opts normalize.Options) (*Result, error) {
	stack, err := s.Extract(img)
	if err != nil {
		return nil, fmt.Errorf("extract channels: %w", err)
	}
	if len(channels) > 0 {
		stack, err = stack.Select(channels...)
		if err != nil {
			return nil, err
		}
	}

	res, err := p.Process(ctx, stack, opts)
	if err != nil {
		return nil, err
	}
	res.Strategy = s.GetStrategyName()
	return res, nil
}
