// Package lowess implements LOWESS (locally weighted regression) smoothing
// with a bounds-safe interpolating estimator.
package lowess

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultFrac is the default fraction of the data used for each local fit.
const DefaultFrac = 0.1

// minWindow is the smallest usable local neighborhood.
const minWindow = 2

// Construction errors.
var (
	ErrLengthMismatch = errors.New("x and y must have the same length")
	ErrTooFewPoints   = errors.New("need at least two points to smooth")
	ErrMissingValues  = errors.New("x and y must not contain missing values")
)

// Smoother is a fitted LOWESS curve wrapped in a linear interpolant.
// It is immutable once constructed: it holds its own snapshot of the smoothed
// curve and is unaffected by later mutation of the data it was fit on.
type Smoother struct {
	xs []float64 // curve positions, strictly ascending
	ys []float64 // smoothed values
}

// Fit fits a LOWESS curve to the (x, y) samples. At each sample position the
// frac-nearest neighbors are fit with a tricube-weighted linear regression
// and the curve takes the regression's value there. frac <= 0 selects
// DefaultFrac; the neighborhood never shrinks below two points.
func Fit(x, y []float64, frac float64) (*Smoother, error) {
	if len(x) != len(y) {
		return nil, ErrLengthMismatch
	}
	n := len(x)
	if n < minWindow {
		return nil, ErrTooFewPoints
	}
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			return nil, ErrMissingValues
		}
	}

	if frac <= 0 {
		frac = DefaultFrac
	}
	if frac > 1 {
		frac = 1
	}
	window := int(math.Ceil(frac * float64(n)))
	if window < minWindow {
		window = minWindow
	}

	// Sort a private copy jointly by x
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}

	smoothed := make([]float64, n)
	weights := make([]float64, 0, window)
	for i := 0; i < n; i++ {
		lo, hi := neighborhood(xs, i, window)
		segX := xs[lo:hi]
		segY := ys[lo:hi]

		dmax := math.Max(xs[i]-segX[0], segX[len(segX)-1]-xs[i])
		weights = weights[:0]
		positive := 0
		for _, xv := range segX {
			w := 1.0
			if dmax > 0 {
				d := math.Abs(xv-xs[i]) / dmax
				w = math.Pow(1-d*d*d, 3)
			}
			if w > 0 {
				positive++
			}
			weights = append(weights, w)
		}

		if positive < 2 {
			// Not enough weighted support for a line; the weighted mean
			// degenerates to the sample itself
			smoothed[i] = stat.Mean(segY, weights)
			continue
		}

		alpha, beta := stat.LinearRegression(segX, segY, weights, false)
		if math.IsNaN(alpha) || math.IsNaN(beta) {
			smoothed[i] = stat.Mean(segY, weights)
			continue
		}
		smoothed[i] = alpha + beta*xs[i]
	}

	return &Smoother{xs: xs, ys: smoothed}, nil
}

// neighborhood returns the half-open [lo, hi) window of the `window` samples
// nearest to xs[i], expanding toward whichever side holds the closer next
// sample.
func neighborhood(xs []float64, i, window int) (int, int) {
	if window > len(xs) {
		window = len(xs)
	}
	lo, hi := i, i+1
	for hi-lo < window {
		switch {
		case lo == 0:
			hi++
		case hi == len(xs):
			lo--
		case xs[i]-xs[lo-1] <= xs[hi]-xs[i]:
			lo--
		default:
			hi++
		}
	}
	return lo, hi
}

// Estimate evaluates the smoothed curve at pos by linear interpolation
// between the nearest curve points. Positions outside the fitted range
// return (NaN, false) rather than an extrapolated value.
func (s *Smoother) Estimate(pos float64) (float64, bool) {
	if pos < s.xs[0] || pos > s.xs[len(s.xs)-1] {
		return math.NaN(), false
	}

	j := sort.SearchFloat64s(s.xs, pos)
	if j < len(s.xs) && s.xs[j] == pos {
		return s.ys[j], true
	}

	// xs[j-1] < pos < xs[j]
	t := (pos - s.xs[j-1]) / (s.xs[j] - s.xs[j-1])
	return s.ys[j-1] + t*(s.ys[j]-s.ys[j-1]), true
}

// Range returns the position interval the smoother can estimate over.
func (s *Smoother) Range() (lo, hi float64) {
	return s.xs[0], s.xs[len(s.xs)-1]
}

// Curve returns copies of the smoothed (position, value) curve.
func (s *Smoother) Curve() ([]float64, []float64) {
	xs := make([]float64, len(s.xs))
	copy(xs, s.xs)
	ys := make([]float64, len(s.ys))
	copy(ys, s.ys)
	return xs, ys
}
