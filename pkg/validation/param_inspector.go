package validation

import (
	"fmt"
	"math"

	"github.com/anime-shed/spatialplot-go/pkg/normalize"
)

// Issue types reported by ParamInspector.
const (
	IssueInvertedPercentiles = "inverted_percentiles"
	IssuePercentileRange     = "percentile_out_of_range"
	IssueNegativeEps         = "negative_eps"
	IssueDegenerateChannel   = "degenerate_channel"
	IssueUndefinedChannel    = "undefined_channel"
)

// Issue is an advisory finding about normalization parameters or input.
// None of them stop normalization.
type Issue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "warning", "info"
	Channel     *int    `json:"channel,omitempty"`
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// ParamInspector looks for parameter combinations that produce surprising
// output.
type ParamInspector struct {
	// LargeScale flags degenerate channels whose 1/eps scale exceeds it.
	LargeScale float64
}

// NewParamInspector creates an inspector with default thresholds
func NewParamInspector() *ParamInspector {
	return &ParamInspector{LargeScale: 1e6}
}

// InspectOptions checks opts on their own.
func (pi *ParamInspector) InspectOptions(opts normalize.Options) []Issue {
	var issues []Issue

	if opts.PMin > opts.PMax {
		issues = append(issues, Issue{
			Type:        IssueInvertedPercentiles,
			Message:     fmt.Sprintf("pmin %g is above pmax %g; output will be inverted", opts.PMin, opts.PMax),
			Severity:    "warning",
			ActualValue: opts.PMin,
			Threshold:   opts.PMax,
		})
	}

	for _, p := range []float64{opts.PMin, opts.PMax} {
		if p < 0 || p > 100 || math.IsNaN(p) {
			issues = append(issues, Issue{
				Type:        IssuePercentileRange,
				Message:     fmt.Sprintf("percentile %g is outside [0, 100] and will be clamped", p),
				Severity:    "warning",
				ActualValue: p,
			})
		}
	}

	if opts.Eps < 0 {
		issues = append(issues, Issue{
			Type:        IssueNegativeEps,
			Message:     fmt.Sprintf("eps %g is negative", opts.Eps),
			Severity:    "warning",
			ActualValue: opts.Eps,
		})
	}

	return issues
}

// Inspect checks opts together with the bounds computed for each channel.
func (pi *ParamInspector) Inspect(opts normalize.Options, bounds []normalize.Bounds) []Issue {
	issues := pi.InspectOptions(opts)

	for c, b := range bounds {
		channel := c
		switch {
		case math.IsNaN(b.Lo) || math.IsNaN(b.Hi):
			issues = append(issues, Issue{
				Type:     IssueUndefinedChannel,
				Message:  fmt.Sprintf("channel %d contains NaN; its output is undefined", c),
				Severity: "warning",
				Channel:  &channel,
			})
		case b.Degenerate():
			severity := "info"
			if opts.Eps > 0 && 1/opts.Eps > pi.LargeScale {
				severity = "warning"
			}
			issues = append(issues, Issue{
				Type:        IssueDegenerateChannel,
				Message:     fmt.Sprintf("channel %d has equal percentile bounds (%g); values are scaled by 1/eps", c, b.Lo),
				Severity:    severity,
				Channel:     &channel,
				ActualValue: b.Lo,
			})
		}
	}

	return issues
}

// ConvertIssuesToMessages flattens issues to their messages.
func ConvertIssuesToMessages(issues []Issue) []string {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// HasWarnings reports whether any issue is a warning.
func HasWarnings(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == "warning" {
			return true
		}
	}
	return false
}
