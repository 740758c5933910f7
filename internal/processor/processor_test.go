package processor

import (
	"context"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-shed/spatialplot-go/internal/strategy"
	"github.com/anime-shed/spatialplot-go/pkg/normalize"
	"github.com/anime-shed/spatialplot-go/pkg/validation"
)

func testStack(t *testing.T) *normalize.Stack {
	t.Helper()
	ramp := make([]float64, 100)
	for i := range ramp {
		ramp[i] = float64(i)
	}
	flat := make([]float64, 100)
	for i := range flat {
		flat[i] = 7
	}
	s, err := normalize.FromPlanes(10, 10, ramp, flat)
	require.NoError(t, err)
	return s
}

func TestStatsCalculator(t *testing.T) {
	stats := NewStatsCalculator(1).Calculate(testStack(t), normalize.DefaultOptions())
	require.Len(t, stats, 2)

	ramp := stats[0]
	assert.Equal(t, 0, ramp.Channel)
	assert.Equal(t, 0.0, ramp.Min)
	assert.Equal(t, 99.0, ramp.Max)
	assert.InDelta(t, 49.5, ramp.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(833.25), ramp.StdDev, 1e-9)
	assert.InDelta(t, 2.97, ramp.Lo, 1e-9)
	assert.InDelta(t, 98.802, ramp.Hi, 1e-9)
	assert.False(t, ramp.Degenerate)

	flat := stats[1]
	assert.Equal(t, 1, flat.Channel)
	assert.Equal(t, 0.0, flat.StdDev)
	assert.True(t, flat.Degenerate)
}

func TestStatsCalculator_NaNChannel(t *testing.T) {
	s, err := normalize.FromPlanes(1, 2, []float64{1, math.NaN()})
	require.NoError(t, err)

	stats := NewStatsCalculator(0).Calculate(s, normalize.DefaultOptions())
	assert.True(t, math.IsNaN(stats[0].Mean))
	assert.True(t, math.IsNaN(stats[0].Lo))
	assert.False(t, stats[0].Degenerate)
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor(2)
	in := testStack(t)

	res, err := p.Process(context.Background(), in, normalize.DefaultOptions().WithClip(true))
	require.NoError(t, err)

	c, h, w := res.Stack.Shape()
	assert.Equal(t, []int{2, 10, 10}, []int{c, h, w})
	assert.Equal(t, normalize.DefaultLabel, res.Stack.Label)
	assert.Len(t, res.Stats, 2)

	for _, v := range res.Stack.Values(0) {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}

	require.Len(t, res.Issues, 1)
	assert.Equal(t, validation.IssueDegenerateChannel, res.Issues[0].Type)
	assert.Equal(t, 1, *res.Issues[0].Channel)
}

func TestProcessor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProcessor(1).Process(ctx, testStack(t), normalize.DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessor_ProcessImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(16 * (y*4 + x)), G: 100, B: 0, A: 255})
		}
	}

	p := NewProcessor(0)
	res, err := p.ProcessImage(context.Background(), img, strategy.NewRGBStrategy(), []int{0, 2}, normalize.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, strategy.RGB, res.Strategy)
	assert.Equal(t, 2, res.Stack.NumChannels())
	assert.Equal(t, 0.0, res.Stats[0].Min)
	assert.Equal(t, 240.0, res.Stats[0].Max)

	_, err = p.ProcessImage(context.Background(), img, strategy.NewGrayStrategy(), []int{1}, normalize.DefaultOptions())
	assert.Error(t, err)
}
