package normalize

// Default parameters.
const (
	DefaultPMin  = 3.0
	DefaultPMax  = 99.8
	DefaultEps   = 1e-20
	DefaultLabel = "normed"
)

// Options configures Normalize.
type Options struct {
	// PMin is the low percentile mapped to 0. Default 3.0.
	PMin float64 `json:"pmin"`
	// PMax is the high percentile mapped to 1. Default 99.8.
	PMax float64 `json:"pmax"`
	// Eps is added to the denominator so constant channels do not divide
	// by zero. Default 1e-20.
	Eps float64 `json:"eps"`
	// Clip clamps the output into [0, 1]. Default false.
	Clip bool `json:"clip"`
	// Label names the output. It does not affect the computation.
	Label string `json:"label,omitempty"`
}

// DefaultOptions returns the default normalization options
func DefaultOptions() Options {
	return Options{
		PMin:  DefaultPMin,
		PMax:  DefaultPMax,
		Eps:   DefaultEps,
		Clip:  false,
		Label: DefaultLabel,
	}
}

// WithPercentiles returns options with the given percentile pair.
// Ordering and range are not checked.
func (o Options) WithPercentiles(pmin, pmax float64) Options {
	o.PMin = pmin
	o.PMax = pmax
	return o
}

// WithEps returns options with a custom stabilizing epsilon
func (o Options) WithEps(eps float64) Options {
	o.Eps = eps
	return o
}

// WithClip returns options with clipping toggled
func (o Options) WithClip(clip bool) Options {
	o.Clip = clip
	return o
}

// WithLabel returns options with a custom output label
func (o Options) WithLabel(label string) Options {
	o.Label = label
	return o
}
