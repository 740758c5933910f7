package processor

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/anime-shed/spatialplot-go/pkg/normalize"
)

// ChannelStats summarises one channel before normalization.
type ChannelStats struct {
	Channel    int
	Min        float64
	Max        float64
	Mean       float64
	StdDev     float64
	Lo         float64
	Hi         float64
	Degenerate bool
}

// StatsCalculator computes per-channel statistics.
type StatsCalculator interface {
	Calculate(img *normalize.Stack, opts normalize.Options) []ChannelStats
}

type statsCalculator struct {
	maxWorkers int
}

// NewStatsCalculator returns a calculator that processes up to maxWorkers
// channels at once. maxWorkers <= 0 uses NumCPU.
func NewStatsCalculator(maxWorkers int) StatsCalculator {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	return &statsCalculator{maxWorkers: maxWorkers}
}

func (sc *statsCalculator) Calculate(img *normalize.Stack, opts normalize.Options) []ChannelStats {
	n := img.NumChannels()
	out := make([]ChannelStats, n)

	sem := make(chan struct{}, sc.maxWorkers)
	var wg sync.WaitGroup
	for c := 0; c < n; c++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(c int) {
			defer func() {
				<-sem
				wg.Done()
			}()
			out[c] = channelStats(c, img.Values(c), opts)
		}(c)
	}
	wg.Wait()
	return out
}

func channelStats(c int, values []float64, opts normalize.Options) ChannelStats {
	s := ChannelStats{Channel: c}
	if len(values) == 0 || floats.HasNaN(values) {
		nan := math.NaN()
		s.Min, s.Max, s.Mean, s.StdDev, s.Lo, s.Hi = nan, nan, nan, nan, nan, nan
		return s
	}

	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	s.Mean, s.StdDev = stat.PopMeanStdDev(values, nil)

	ps := normalize.Percentiles(values, opts.PMin, opts.PMax)
	s.Lo, s.Hi = ps[0], ps[1]
	s.Degenerate = normalize.Bounds{Lo: s.Lo, Hi: s.Hi}.Degenerate()
	return s
}
