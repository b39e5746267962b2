// Package matrix filters expression matrices by zero content.
package matrix

import (
	"math"

	"github.com/genemap/genemap/pkg/metrics"
)

// Default filtering constants.
const (
	defaultZeroTolerance   = 1e-6
	defaultMaxZeroFraction = 0.50
)

// Option applies a configuration option to the Filter.
type Option func(*Filter)

// WithZeroTolerance sets the magnitude below which a count is treated as zero.
func WithZeroTolerance(tol float64) Option {
	return func(f *Filter) {
		if tol >= 0 {
			f.tolerance = tol
		}
	}
}

// WithMaxZeroFraction sets the zero fraction above which a gene is dropped.
func WithMaxZeroFraction(frac float64) Option {
	return func(f *Filter) {
		if frac >= 0 && frac <= 1 {
			f.maxZeroFraction = frac
		}
	}
}

// Filter drops genes whose expression is zero in too many samples.
// Counts within the tolerance of zero are treated as zero, so that
// float noise from upstream normalization does not rescue a gene.
type Filter struct {
	tolerance       float64
	maxZeroFraction float64
}

// NewFilter creates a Filter with configuration options.
func NewFilter(opts ...Option) *Filter {
	f := &Filter{
		tolerance:       defaultZeroTolerance,
		maxZeroFraction: defaultMaxZeroFraction,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsZeroFloat reports whether a float count is strictly within the
// tolerance of zero. A count exactly at the tolerance is not zero.
func (f *Filter) IsZeroFloat(v float64) bool {
	return math.Abs(v) < f.tolerance
}

// IsZeroInt reports whether an integer count is zero. Raw counts carry
// no float noise, so no tolerance applies.
func (f *Filter) IsZeroInt(v int64) bool {
	return v == 0
}

// ZeroFraction returns the fraction of values that are zero within
// tolerance. An empty column has a zero fraction of 1.
func (f *Filter) ZeroFraction(values []float64) float64 {
	if len(values) == 0 {
		return 1
	}
	var zeros int
	for _, v := range values {
		if f.IsZeroFloat(v) {
			zeros++
		}
	}
	return float64(zeros) / float64(len(values))
}

// Keep reports whether a gene column survives the filter. A fraction
// exactly at the threshold is kept; only strictly greater is dropped.
func (f *Filter) Keep(values []float64) bool {
	return f.ZeroFraction(values) <= f.maxZeroFraction
}

// SelectColumns returns the gene names, in input order, whose columns
// survive the filter. columns maps gene name to its per-sample counts.
func (f *Filter) SelectColumns(genes []string, columns map[string][]float64) []string {
	kept := make([]string, 0, len(genes))
	var dropped int
	for _, g := range genes {
		if f.Keep(columns[g]) {
			kept = append(kept, g)
			continue
		}
		dropped++
	}
	metrics.UpdateGeneFilter(len(kept), dropped)
	return kept
}
