// Package stats provides spacing inference and accuracy metrics for paired series.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the histogram resolution used for modal spacing inference.
const DefaultBins = 10

// ErrTooFewPoints is returned when a sequence is too short to difference.
var ErrTooFewPoints = errors.New("need at least two points")

// Diffs returns the consecutive differences of x (len(x)-1 values).
func Diffs(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	diffs := make([]float64, len(x)-1)
	for i := 1; i < len(x); i++ {
		diffs[i-1] = x[i] - x[i-1]
	}
	return diffs
}

// ModalDiff estimates the nominal spacing of x as the modal consecutive
// difference: the differences are binned into `bins` equal-width bins
// spanning their observed range, and the left edge of the fullest bin is
// returned. The mode is robust where the mean is not: outlier-sized gaps
// land in low-frequency bins and do not bias the estimate.
//
// When several bins tie for fullest, the lowest-valued bin wins.
func ModalDiff(x []float64, bins int) (float64, error) {
	if len(x) < 2 {
		return 0, ErrTooFewPoints
	}
	if bins <= 0 {
		bins = DefaultBins
	}

	diffs := Diffs(x)
	sort.Float64s(diffs)

	min := diffs[0]
	max := diffs[len(diffs)-1]
	if min == max {
		// Perfectly regular cadence, nothing to bin
		return min, nil
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, min, max)
	// Histogram bins are half-open; nudge the last divider so max lands inside
	dividers[bins] = math.Nextafter(max, math.Inf(1))

	counts := stat.Histogram(nil, dividers, diffs, nil)

	// MaxIdx returns the first maximum, so equal-count ties resolve to the
	// lowest bin
	return dividers[floats.MaxIdx(counts)], nil
}
