// Package normalize implements percentile-based min-max normalization of
// multi-channel images for display.
package normalize

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Stack is a multi-channel image of shape (channels, height, width).
// Every channel is a height x width plane.
type Stack struct {
	Label    string
	channels []*mat.Dense
	height   int
	width    int
}

// NewStack allocates a zero-filled stack.
func NewStack(channels, height, width int) (*Stack, error) {
	if channels < 1 || height < 1 || width < 1 {
		return nil, fmt.Errorf("invalid stack shape (%d, %d, %d): all dimensions must be >= 1", channels, height, width)
	}
	s := &Stack{
		channels: make([]*mat.Dense, channels),
		height:   height,
		width:    width,
	}
	for c := range s.channels {
		s.channels[c] = mat.NewDense(height, width, nil)
	}
	return s, nil
}

// FromPlanes builds a stack from row-major planes, one per channel.
// Each plane must hold height*width values. The data is copied.
func FromPlanes(height, width int, planes ...[]float64) (*Stack, error) {
	s, err := NewStack(len(planes), height, width)
	if err != nil {
		return nil, err
	}
	for c, p := range planes {
		if len(p) != height*width {
			return nil, fmt.Errorf("channel %d has %d values, want %d", c, len(p), height*width)
		}
		copy(s.channels[c].RawMatrix().Data, p)
	}
	return s, nil
}

// FromMatrices wraps existing planes without copying.
func FromMatrices(planes ...*mat.Dense) (*Stack, error) {
	if len(planes) == 0 {
		return nil, fmt.Errorf("stack needs at least one channel")
	}
	h, w := planes[0].Dims()
	for c, p := range planes[1:] {
		if ph, pw := p.Dims(); ph != h || pw != w {
			return nil, fmt.Errorf("channel %d is %dx%d, want %dx%d", c+1, ph, pw, h, w)
		}
	}
	return &Stack{channels: planes, height: h, width: w}, nil
}

// Shape returns (channels, height, width).
func (s *Stack) Shape() (channels, height, width int) {
	return len(s.channels), s.height, s.width
}

// NumChannels returns the number of planes.
func (s *Stack) NumChannels() int { return len(s.channels) }

// Channel returns plane c. The returned matrix is shared with the stack.
func (s *Stack) Channel(c int) *mat.Dense { return s.channels[c] }

// At returns the value at channel c, row y, column x.
func (s *Stack) At(c, y, x int) float64 { return s.channels[c].At(y, x) }

// Set stores v at channel c, row y, column x.
func (s *Stack) Set(c, y, x int, v float64) { s.channels[c].Set(y, x, v) }

// Values returns the flattened values of channel c in row-major order.
// The slice is a fresh copy.
func (s *Stack) Values(c int) []float64 {
	out := make([]float64, 0, s.height*s.width)
	raw := s.channels[c].RawMatrix()
	for y := 0; y < raw.Rows; y++ {
		out = append(out, raw.Data[y*raw.Stride:y*raw.Stride+raw.Cols]...)
	}
	return out
}

// Clone returns a deep copy.
func (s *Stack) Clone() *Stack {
	out := &Stack{
		Label:    s.Label,
		channels: make([]*mat.Dense, len(s.channels)),
		height:   s.height,
		width:    s.width,
	}
	for c, p := range s.channels {
		out.channels[c] = mat.DenseCopyOf(p)
	}
	return out
}

// Select returns a stack made of the listed channels, sharing their planes.
func (s *Stack) Select(channels ...int) (*Stack, error) {
	planes := make([]*mat.Dense, 0, len(channels))
	for _, c := range channels {
		if c < 0 || c >= len(s.channels) {
			return nil, fmt.Errorf("channel %d out of range [0, %d)", c, len(s.channels))
		}
		planes = append(planes, s.channels[c])
	}
	out, err := FromMatrices(planes...)
	if err != nil {
		return nil, err
	}
	out.Label = s.Label
	return out, nil
}
