// Package imputer provides the series processor: gap detection, placeholder
// synthesis, and smoothing-based imputation over a paired (position, value)
// series.
package imputer

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/sartorproj/goimpute/stats"
	"github.com/sartorproj/goimpute/timeseries"
)

// Axis selects which of the paired sequences an operation applies to.
type Axis string

const (
	AxisPositions Axis = "positions"
	AxisValues    Axis = "values"
)

// HistogramBins is the bin count used when inferring spacing.
const HistogramBins = stats.DefaultBins

// Operation errors. Construction also surfaces the timeseries validation
// errors (ErrLengthMismatch, ErrEmptyInput, ErrDuplicatePosition).
var (
	ErrUnknownAxis      = errors.New("axis must be positions or values")
	ErrDeleteCount      = errors.New("delete count must be positive and below the sample count")
	ErrNoEstimator      = errors.New("no imputer configured")
	ErrStaleEstimator   = errors.New("imputer was fit before a later data mutation")
	ErrSeriesHasMissing = errors.New("series already contains missing values")
)

// MissingSite records one synthesized placeholder: the index it occupies in
// the series and the position it was synthesized at.
type MissingSite struct {
	Index    int
	Position float64
}

// Processor owns a mutable series and drives the gap-filling pipeline:
// normalization, spacing inference, gap detection with placeholder insertion,
// and imputation of the placeholders via a configured estimator.
//
// A Processor is not safe for concurrent use; give each goroutine its own.
type Processor struct {
	series       *timeseries.Series
	missingSites []MissingSite
	spacing      float64 // 0 until inferred or supplied
	estimator    Estimator
	rng          *rand.Rand
	fillWholeGap bool

	// Generation counters guard against imputing with an estimator that
	// never saw a later mutation. Placeholder insertion is the expected
	// post-fit mutation and does not advance dataGen.
	dataGen int
	fitGen  int
}

// New creates a Processor from raw positions and values. The pair is sorted
// jointly by ascending position; duplicate positions are rejected.
func New(positions, values []float64) (*Processor, error) {
	series, err := timeseries.NewXY(positions, values)
	if err != nil {
		return nil, err
	}
	return newProcessor(series), nil
}

// NewFromSeries creates a Processor that adopts (and re-sorts) an existing
// series, e.g. one produced by the CSV loader.
func NewFromSeries(series *timeseries.Series) (*Processor, error) {
	if series == nil || series.Len() == 0 {
		return nil, timeseries.ErrEmptyInput
	}
	if err := series.SortByPosition(); err != nil {
		return nil, err
	}
	return newProcessor(series), nil
}

func newProcessor(series *timeseries.Series) *Processor {
	return &Processor{
		series: series,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		fitGen: -1,
	}
}

// Seed makes subsequent DeleteRandom draws reproducible.
func (p *Processor) Seed(seed int64) {
	p.rng = rand.New(rand.NewSource(seed))
}

// FillWholeGap controls placeholder synthesis for gaps wider than one
// spacing. Off (the default) a detected gap gets exactly one placeholder at
// left + spacing, however wide it is. On, a gap of k spacings gets k-1
// placeholders.
func (p *Processor) FillWholeGap(on bool) {
	p.fillWholeGap = on
}

// Series exposes the owned series for inspection and output.
func (p *Processor) Series() *timeseries.Series {
	return p.series
}

// Len returns the current sample count.
func (p *Processor) Len() int {
	return p.series.Len()
}

// Spacing returns the cached nominal spacing, or 0 when none has been
// inferred or supplied yet.
func (p *Processor) Spacing() float64 {
	return p.spacing
}

// MissingSites returns a copy of the recorded placeholder insertions.
func (p *Processor) MissingSites() []MissingSite {
	sites := make([]MissingSite, len(p.missingSites))
	copy(sites, p.missingSites)
	return sites
}

// Rebase shifts the selected sequence so its minimum becomes zero, anchoring
// the scale regardless of absolute offset (e.g. epoch timestamps).
func (p *Processor) Rebase(which Axis) error {
	switch which {
	case AxisPositions:
		p.series.RebasePositions()
		p.spacing = 0
	case AxisValues:
		p.series.RebaseValues()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAxis, which)
	}
	p.dataGen++
	return nil
}

// DeleteRandom removes n samples chosen uniformly at random without
// replacement and re-sorts. Intended for simulating gaps in test data.
// n must be positive and below the current sample count.
func (p *Processor) DeleteRandom(n int) error {
	count := p.series.Len()
	if n <= 0 || n >= count {
		return fmt.Errorf("%w: n=%d, count=%d", ErrDeleteCount, n, count)
	}

	keep := p.rng.Perm(count)[:count-n]
	sort.Ints(keep)

	positions := make([]float64, 0, count-n)
	values := make([]float64, 0, count-n)
	for _, i := range keep {
		positions = append(positions, p.series.Positions[i])
		values = append(values, p.series.Values[i])
	}
	p.series.Positions = positions
	p.series.Values = values
	if err := p.series.SortByPosition(); err != nil {
		return err
	}

	p.spacing = 0
	p.dataGen++
	return nil
}

// InferSpacing estimates the nominal spacing as the modal consecutive
// position difference and caches it. See stats.ModalDiff for the histogram
// construction and its lowest-bin tie-break.
func (p *Processor) InferSpacing() (float64, error) {
	spacing, err := stats.ModalDiff(p.series.Positions, HistogramBins)
	if err != nil {
		return 0, err
	}
	p.spacing = spacing
	return spacing, nil
}

// DetectGaps scans consecutive position pairs and inserts a placeholder
// (position, missing) sample into every pair whose difference exceeds the
// nominal spacing, recording each insertion in MissingSites. Returns the
// number of placeholders inserted.
//
// Spacing resolution precedence: a positive argument, then a previously
// cached value, then a fresh InferSpacing call. A resolved positive argument
// is cached for later calls.
func (p *Processor) DetectGaps(spacing float64) (int, error) {
	switch {
	case spacing > 0:
		p.spacing = spacing
	case p.spacing > 0:
		spacing = p.spacing
	default:
		inferred, err := p.InferSpacing()
		if err != nil {
			return 0, err
		}
		spacing = inferred
	}

	// Collect planned insertions first, then apply high-index-to-low so an
	// applied insertion never shifts a not-yet-applied one.
	type insertion struct {
		index     int // left endpoint of the gap, pre-insertion index
		positions []float64
	}
	var plans []insertion
	for i := 0; i+1 < p.series.Len(); i++ {
		diff := p.series.Positions[i+1] - p.series.Positions[i]
		if diff <= spacing {
			continue
		}
		count := 1
		if p.fillWholeGap {
			if k := int(math.Round(diff/spacing)) - 1; k > 1 {
				count = k
			}
		}
		synthesized := make([]float64, count)
		for j := range synthesized {
			synthesized[j] = p.series.Positions[i] + spacing*float64(j+1)
		}
		plans = append(plans, insertion{index: i, positions: synthesized})
	}

	// Final index of each placeholder = pre-insertion index + number of
	// placeholders inserted at lower indices.
	below := make([]int, len(plans))
	for i := 1; i < len(plans); i++ {
		below[i] = below[i-1] + len(plans[i-1].positions)
	}

	inserted := 0
	existing := len(p.missingSites)
	for i := len(plans) - 1; i >= 0; i-- {
		plan := plans[i]
		at := plan.index + 1
		p.series.Positions = insertFloats(p.series.Positions, at, plan.positions)
		markers := make([]float64, len(plan.positions))
		for j := range markers {
			markers[j] = timeseries.Missing()
		}
		p.series.Values = insertFloats(p.series.Values, at, markers)

		// Sites recorded by earlier DetectGaps calls shift with the array
		for s := 0; s < existing; s++ {
			if p.missingSites[s].Index >= at {
				p.missingSites[s].Index += len(plan.positions)
			}
		}

		for j, pos := range plan.positions {
			p.missingSites = append(p.missingSites, MissingSite{
				Index:    at + below[i] + j,
				Position: pos,
			})
		}
		inserted += len(plan.positions)
	}

	return inserted, nil
}

// insertFloats inserts vals into s at index at.
func insertFloats(s []float64, at int, vals []float64) []float64 {
	out := make([]float64, 0, len(s)+len(vals))
	out = append(out, s[:at]...)
	out = append(out, vals...)
	out = append(out, s[at:]...)
	return out
}

// SetImputer looks up the named imputer kind and fits it against the current
// observed samples. Call it after any deletion or normalization and before
// DetectGaps, so the fit sees genuinely observed data and never a synthesized
// placeholder; a series already carrying missing values is rejected.
func (p *Processor) SetImputer(name string) error {
	factory, err := lookup(name)
	if err != nil {
		return err
	}
	if p.series.MissingCount() > 0 {
		return ErrSeriesHasMissing
	}

	x, y := p.series.ObservedXY()
	estimator, err := factory(x, y)
	if err != nil {
		return fmt.Errorf("fitting %q imputer: %w", name, err)
	}

	p.estimator = estimator
	p.fitGen = p.dataGen
	return nil
}

// ImputeAll evaluates the configured estimator at every recorded missing
// site, in descending index order, writing each defined estimate over its
// placeholder. Sites the estimator is undefined at (outside its fitted
// range) keep their missing marker and are returned as the residual.
//
// Fails when no estimator is configured, or when the estimator was fit
// before a later data mutation it never saw.
func (p *Processor) ImputeAll() ([]MissingSite, error) {
	if p.estimator == nil {
		return nil, ErrNoEstimator
	}
	if p.fitGen != p.dataGen {
		return nil, ErrStaleEstimator
	}

	sites := p.MissingSites()
	sort.Slice(sites, func(a, b int) bool { return sites[a].Index > sites[b].Index })

	var residual []MissingSite
	for _, site := range sites {
		value, ok := p.estimator.Estimate(site.Position)
		if !ok {
			residual = append(residual, site)
			continue
		}
		p.series.Values[site.Index] = value
	}
	return residual, nil
}
