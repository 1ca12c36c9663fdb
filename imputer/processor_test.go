package imputer

import (
	"errors"
	"math"
	"testing"

	"github.com/sartorproj/goimpute/timeseries"
)

func mustProcessor(t *testing.T, positions, values []float64) *Processor {
	t.Helper()
	p, err := New(positions, values)
	if err != nil {
		t.Fatalf("Failed to create processor: %v", err)
	}
	return p
}

func assertSorted(t *testing.T, s *timeseries.Series) {
	t.Helper()
	for i := 1; i < s.Len(); i++ {
		if s.Positions[i] <= s.Positions[i-1] {
			t.Fatalf("Positions not strictly increasing at index %d: %f <= %f",
				i, s.Positions[i], s.Positions[i-1])
		}
	}
	if len(s.Positions) != len(s.Values) {
		t.Fatalf("Length invariant broken: %d positions, %d values",
			len(s.Positions), len(s.Values))
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name      string
		positions []float64
		values    []float64
		wantErr   error
	}{
		{"mismatch", []float64{1, 2, 3}, []float64{1, 2}, timeseries.ErrLengthMismatch},
		{"empty", nil, nil, timeseries.ErrEmptyInput},
		{"duplicate", []float64{1, 1, 2}, []float64{1, 2, 3}, timeseries.ErrDuplicatePosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.positions, tt.values); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewSortsJointly(t *testing.T) {
	p := mustProcessor(t, []float64{3, 1, 2}, []float64{30, 10, 20})
	assertSorted(t, p.Series())

	for i, pos := range p.Series().Positions {
		if p.Series().Values[i] != pos*10 {
			t.Errorf("Pairing broken at index %d", i)
		}
	}
}

func TestRebase(t *testing.T) {
	p := mustProcessor(t, []float64{100, 101, 103}, []float64{7, 8, 9})

	if err := p.Rebase(AxisPositions); err != nil {
		t.Fatalf("Rebase failed: %v", err)
	}
	if p.Series().Positions[0] != 0 || p.Series().Positions[2] != 3 {
		t.Errorf("Unexpected rebased positions: %v", p.Series().Positions)
	}

	if err := p.Rebase(AxisValues); err != nil {
		t.Fatalf("Rebase failed: %v", err)
	}
	if p.Series().Values[0] != 0 || p.Series().Values[2] != 2 {
		t.Errorf("Unexpected rebased values: %v", p.Series().Values)
	}
}

func TestRebaseUnknownAxis(t *testing.T) {
	p := mustProcessor(t, []float64{0, 1}, []float64{1, 2})

	if err := p.Rebase(Axis("z")); !errors.Is(err, ErrUnknownAxis) {
		t.Errorf("Expected ErrUnknownAxis, got %v", err)
	}
}

func TestDeleteRandom(t *testing.T) {
	positions := make([]float64, 20)
	values := make([]float64, 20)
	for i := range positions {
		positions[i] = float64(i)
		values[i] = float64(i) * 2
	}

	p := mustProcessor(t, positions, values)
	p.Seed(42)

	if err := p.DeleteRandom(5); err != nil {
		t.Fatalf("DeleteRandom failed: %v", err)
	}

	if p.Len() != 15 {
		t.Errorf("Expected 15 samples after deletion, got %d", p.Len())
	}
	assertSorted(t, p.Series())

	// Pairing must survive deletion
	for i, pos := range p.Series().Positions {
		if p.Series().Values[i] != pos*2 {
			t.Errorf("Pairing broken at index %d", i)
		}
	}
}

func TestDeleteRandomBounds(t *testing.T) {
	p := mustProcessor(t, []float64{0, 1, 2}, []float64{1, 2, 3})

	for _, n := range []int{0, -1, 3, 4} {
		if err := p.DeleteRandom(n); !errors.Is(err, ErrDeleteCount) {
			t.Errorf("DeleteRandom(%d): expected ErrDeleteCount, got %v", n, err)
		}
	}
}

func TestInferSpacingModal(t *testing.T) {
	// Mostly-regular cadence of 1 with a 7-wide outlier gap
	p := mustProcessor(t,
		[]float64{0, 1, 2, 3, 10, 11, 12, 13},
		[]float64{0, 1, 2, 3, 10, 11, 12, 13})

	spacing, err := p.InferSpacing()
	if err != nil {
		t.Fatalf("InferSpacing failed: %v", err)
	}
	if math.Abs(spacing-1) > 1e-10 {
		t.Errorf("Expected spacing 1, got %f", spacing)
	}
	if p.Spacing() != spacing {
		t.Errorf("Expected spacing to be cached, got %f", p.Spacing())
	}
}

func TestDetectGapsSingle(t *testing.T) {
	// One gap of 3 units between positions 2 and 5; one placeholder at 3,
	// regardless of the gap's true width
	p := mustProcessor(t,
		[]float64{0, 1, 2, 5, 6, 7},
		[]float64{10, 11, 12, 15, 16, 17})

	inserted, err := p.DetectGaps(1)
	if err != nil {
		t.Fatalf("DetectGaps failed: %v", err)
	}

	if inserted != 1 {
		t.Fatalf("Expected 1 placeholder, got %d", inserted)
	}
	if p.Len() != 7 {
		t.Errorf("Expected 7 samples, got %d", p.Len())
	}
	assertSorted(t, p.Series())

	sites := p.MissingSites()
	if len(sites) != 1 {
		t.Fatalf("Expected 1 missing site, got %d", len(sites))
	}
	if sites[0].Index != 3 || sites[0].Position != 3 {
		t.Errorf("Expected site (3, 3), got (%d, %f)", sites[0].Index, sites[0].Position)
	}
	if !timeseries.IsMissing(p.Series().Values[3]) {
		t.Error("Placeholder slot should hold the missing marker")
	}
	if p.Series().Positions[3] != 3 {
		t.Errorf("Expected placeholder position 3, got %f", p.Series().Positions[3])
	}
}

func TestDetectGapsDescendingInsertion(t *testing.T) {
	// Gaps at original indices 2 and 5. Applying insertions low-to-high would
	// shift the second gap before it was processed; the recorded sites must
	// point at the actual placeholder slots.
	p := mustProcessor(t,
		[]float64{0, 1, 2, 5, 6, 7, 10, 11},
		[]float64{0, 1, 2, 5, 6, 7, 10, 11})

	inserted, err := p.DetectGaps(1)
	if err != nil {
		t.Fatalf("DetectGaps failed: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("Expected 2 placeholders, got %d", inserted)
	}
	assertSorted(t, p.Series())

	for _, site := range p.MissingSites() {
		if p.Series().Positions[site.Index] != site.Position {
			t.Errorf("Site index %d points at position %f, recorded %f",
				site.Index, p.Series().Positions[site.Index], site.Position)
		}
		if !timeseries.IsMissing(p.Series().Values[site.Index]) {
			t.Errorf("Site index %d does not hold the missing marker", site.Index)
		}
	}

	positions := []float64{3, 8}
	sites := p.MissingSites()
	if len(sites) != 2 {
		t.Fatalf("Expected 2 sites, got %d", len(sites))
	}
	for _, want := range positions {
		found := false
		for _, site := range sites {
			if site.Position == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected a site at position %f", want)
		}
	}
}

func TestDetectGapsSpacingPrecedence(t *testing.T) {
	p := mustProcessor(t,
		[]float64{0, 1, 2, 5, 6, 7},
		[]float64{0, 1, 2, 5, 6, 7})

	// Explicit argument wins and is cached
	if _, err := p.DetectGaps(2); err != nil {
		t.Fatalf("DetectGaps failed: %v", err)
	}
	if p.Spacing() != 2 {
		t.Errorf("Expected explicit spacing 2 cached, got %f", p.Spacing())
	}
	// Gap of 3 > 2: placeholder at 2 + 2 = 4
	if len(p.MissingSites()) != 1 || p.MissingSites()[0].Position != 4 {
		t.Errorf("Unexpected sites: %v", p.MissingSites())
	}

	// Zero argument falls back to the cached value
	if _, err := p.DetectGaps(0); err != nil {
		t.Fatalf("DetectGaps failed: %v", err)
	}
	if p.Spacing() != 2 {
		t.Errorf("Cached spacing should survive, got %f", p.Spacing())
	}
}

func TestDetectGapsRepeatedConverges(t *testing.T) {
	// Single placeholder per gap means a wide gap closes over repeated calls
	p := mustProcessor(t,
		[]float64{0, 1, 2, 5, 6},
		[]float64{0, 1, 2, 5, 6})

	first, err := p.DetectGaps(1)
	if err != nil {
		t.Fatalf("DetectGaps failed: %v", err)
	}
	if first != 1 {
		t.Fatalf("Expected 1 placeholder on first pass, got %d", first)
	}

	second, err := p.DetectGaps(0)
	if err != nil {
		t.Fatalf("DetectGaps failed: %v", err)
	}
	if second != 1 {
		t.Fatalf("Expected 1 placeholder on second pass, got %d", second)
	}

	third, err := p.DetectGaps(0)
	if err != nil {
		t.Fatalf("DetectGaps failed: %v", err)
	}
	if third != 0 {
		t.Fatalf("Expected no placeholders on third pass, got %d", third)
	}

	assertSorted(t, p.Series())
	for _, site := range p.MissingSites() {
		if p.Series().Positions[site.Index] != site.Position {
			t.Errorf("Site index %d points at position %f, recorded %f",
				site.Index, p.Series().Positions[site.Index], site.Position)
		}
	}
}

func TestFillWholeGap(t *testing.T) {
	p := mustProcessor(t,
		[]float64{0, 1, 2, 6, 7},
		[]float64{0, 1, 2, 6, 7})
	p.FillWholeGap(true)

	inserted, err := p.DetectGaps(1)
	if err != nil {
		t.Fatalf("DetectGaps failed: %v", err)
	}

	if inserted != 3 {
		t.Fatalf("Expected 3 placeholders for a 4-wide gap, got %d", inserted)
	}
	assertSorted(t, p.Series())

	expected := []float64{3, 4, 5}
	sites := p.MissingSites()
	if len(sites) != 3 {
		t.Fatalf("Expected 3 sites, got %d", len(sites))
	}
	for _, want := range expected {
		found := false
		for _, site := range sites {
			if site.Position == want && p.Series().Positions[site.Index] == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected a placeholder at position %f", want)
		}
	}
}

func TestImputeAllRequiresEstimator(t *testing.T) {
	p := mustProcessor(t, []float64{0, 1, 2, 5, 6, 7}, []float64{0, 1, 2, 5, 6, 7})

	if _, err := p.DetectGaps(1); err != nil {
		t.Fatalf("DetectGaps failed: %v", err)
	}
	if _, err := p.ImputeAll(); !errors.Is(err, ErrNoEstimator) {
		t.Errorf("Expected ErrNoEstimator, got %v", err)
	}
}

func TestImputeAllRejectsStaleEstimator(t *testing.T) {
	positions := make([]float64, 30)
	values := make([]float64, 30)
	for i := range positions {
		positions[i] = float64(i)
		values[i] = float64(i)
	}

	p := mustProcessor(t, positions, values)
	p.Seed(7)

	if err := p.SetImputer("lowess"); err != nil {
		t.Fatalf("SetImputer failed: %v", err)
	}
	// Mutating the data after the fit invalidates the estimator
	if err := p.DeleteRandom(3); err != nil {
		t.Fatalf("DeleteRandom failed: %v", err)
	}
	if _, err := p.DetectGaps(1); err != nil {
		t.Fatalf("DetectGaps failed: %v", err)
	}

	if _, err := p.ImputeAll(); !errors.Is(err, ErrStaleEstimator) {
		t.Errorf("Expected ErrStaleEstimator, got %v", err)
	}
}

func TestSetImputerRejectsMissingValues(t *testing.T) {
	p := mustProcessor(t, []float64{0, 1, 2, 5, 6, 7}, []float64{0, 1, 2, 5, 6, 7})

	if _, err := p.DetectGaps(1); err != nil {
		t.Fatalf("DetectGaps failed: %v", err)
	}
	// Placeholders are in the series now; the fit must not see them
	if err := p.SetImputer("lowess"); !errors.Is(err, ErrSeriesHasMissing) {
		t.Errorf("Expected ErrSeriesHasMissing, got %v", err)
	}
}

func TestImputeRoundTrip(t *testing.T) {
	// Sample a smooth function on a regular grid, delete a random subset,
	// re-detect and impute; the estimates should land near the deleted truth.
	n := 200
	positions := make([]float64, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		positions[i] = float64(i)
		values[i] = math.Sin(0.05 * float64(i))
	}

	p := mustProcessor(t, positions, values)
	p.Seed(1)

	if err := p.DeleteRandom(10); err != nil {
		t.Fatalf("DeleteRandom failed: %v", err)
	}
	if err := p.SetImputer("lowess"); err != nil {
		t.Fatalf("SetImputer failed: %v", err)
	}
	if _, err := p.DetectGaps(1); err != nil {
		t.Fatalf("DetectGaps failed: %v", err)
	}

	residual, err := p.ImputeAll()
	if err != nil {
		t.Fatalf("ImputeAll failed: %v", err)
	}
	if len(residual) != 0 {
		t.Errorf("Expected no residual sites (all gaps interior), got %d", len(residual))
	}

	if p.Series().MissingCount() != 0 {
		t.Errorf("Expected all placeholders filled, got %d missing", p.Series().MissingCount())
	}
	assertSorted(t, p.Series())

	for _, site := range p.MissingSites() {
		got := p.Series().Values[site.Index]
		want := math.Sin(0.05 * site.Position)
		if math.Abs(got-want) > 0.08 {
			t.Errorf("Imputed value at position %f: expected ~%f, got %f",
				site.Position, want, got)
		}
		t.Logf("position %6.1f: true %8.5f, imputed %8.5f", site.Position, want, got)
	}
}

func TestImputeAllNoSitesIsNoOp(t *testing.T) {
	p := mustProcessor(t, []float64{0, 1, 2, 3}, []float64{0, 1, 2, 3})

	if err := p.SetImputer("lowess"); err != nil {
		t.Fatalf("SetImputer failed: %v", err)
	}

	residual, err := p.ImputeAll()
	if err != nil {
		t.Fatalf("ImputeAll on gap-free series failed: %v", err)
	}
	if len(residual) != 0 {
		t.Errorf("Expected no residual sites, got %d", len(residual))
	}
}
