// Package timeseries provides paired (position, value) series data structures and operations.
package timeseries

import (
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Construction errors.
var (
	ErrLengthMismatch    = errors.New("positions and values must have the same length")
	ErrEmptyInput        = errors.New("positions and values must not be empty")
	ErrDuplicatePosition = errors.New("duplicate position in series")
)

// Missing returns the marker for a value that has not been observed or estimated.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Series represents a univariate series as paired positions and values.
// Positions are kept strictly increasing; Values[i] corresponds to Positions[i]
// and may hold the missing marker.
type Series struct {
	Positions []float64
	Values    []float64
	Name      string
}

// New creates a series with index positions 0..len(values)-1.
func New(values []float64) *Series {
	positions := make([]float64, len(values))
	for i := range positions {
		positions[i] = float64(i)
	}
	return &Series{
		Positions: positions,
		Values:    values,
	}
}

// NewXY creates a series from explicit positions and values. The pair is
// sorted jointly by ascending position; duplicate positions are rejected.
func NewXY(positions, values []float64) (*Series, error) {
	if len(positions) != len(values) {
		return nil, ErrLengthMismatch
	}
	if len(positions) == 0 {
		return nil, ErrEmptyInput
	}

	s := &Series{
		Positions: append([]float64(nil), positions...),
		Values:    append([]float64(nil), values...),
	}
	if err := s.SortByPosition(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromTimestamps creates a series with positions expressed as seconds since
// the earliest timestamp. Anchoring the scale at zero keeps spacing inference
// and regression well-conditioned regardless of absolute calendar date.
func FromTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, ErrLengthMismatch
	}
	if len(timestamps) == 0 {
		return nil, ErrEmptyInput
	}

	earliest := timestamps[0]
	for _, ts := range timestamps[1:] {
		if ts.Before(earliest) {
			earliest = ts
		}
	}

	positions := make([]float64, len(timestamps))
	for i, ts := range timestamps {
		positions[i] = ts.Sub(earliest).Seconds()
	}
	return NewXY(positions, values)
}

// Len returns the number of samples in the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// SortByPosition sorts positions and values jointly by ascending position.
// Returns ErrDuplicatePosition if two samples share a position; ordering of
// duplicates is not meaningful and gap inference over them is undefined.
func (s *Series) SortByPosition() error {
	idx := make([]int, len(s.Positions))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return s.Positions[idx[a]] < s.Positions[idx[b]]
	})

	positions := make([]float64, len(s.Positions))
	values := make([]float64, len(s.Values))
	for i, j := range idx {
		positions[i] = s.Positions[j]
		values[i] = s.Values[j]
	}
	s.Positions = positions
	s.Values = values

	for i := 1; i < len(s.Positions); i++ {
		if s.Positions[i] == s.Positions[i-1] {
			return ErrDuplicatePosition
		}
	}
	return nil
}

// RebasePositions shifts positions so the smallest becomes zero.
func (s *Series) RebasePositions() {
	if len(s.Positions) == 0 {
		return
	}
	min := floats.Min(s.Positions)
	for i := range s.Positions {
		s.Positions[i] -= min
	}
}

// RebaseValues shifts values so the smallest observed value becomes zero.
// Missing markers are ignored when finding the minimum and left untouched.
func (s *Series) RebaseValues() {
	min := math.Inf(1)
	for _, v := range s.Values {
		if !IsMissing(v) && v < min {
			min = v
		}
	}
	if math.IsInf(min, 1) {
		return
	}
	for i, v := range s.Values {
		if !IsMissing(v) {
			s.Values[i] = v - min
		}
	}
}

// ObservedXY returns the (position, value) pairs with no missing marker.
// The returned slices are copies, safe to hold across later mutation.
func (s *Series) ObservedXY() ([]float64, []float64) {
	positions := make([]float64, 0, len(s.Positions))
	values := make([]float64, 0, len(s.Values))
	for i, v := range s.Values {
		if !IsMissing(v) {
			positions = append(positions, s.Positions[i])
			values = append(values, v)
		}
	}
	return positions, values
}

// MissingCount returns the number of missing markers in the value array.
func (s *Series) MissingCount() int {
	n := 0
	for _, v := range s.Values {
		if IsMissing(v) {
			n++
		}
	}
	return n
}

// Mean calculates the arithmetic mean of the observed values.
func (s *Series) Mean() float64 {
	_, observed := s.ObservedXY()
	if len(observed) == 0 {
		return 0
	}
	return stat.Mean(observed, nil)
}

// Min returns the minimum observed value in the series.
func (s *Series) Min() float64 {
	_, observed := s.ObservedXY()
	if len(observed) == 0 {
		return math.NaN()
	}
	return floats.Min(observed)
}

// Max returns the maximum observed value in the series.
func (s *Series) Max() float64 {
	_, observed := s.ObservedXY()
	if len(observed) == 0 {
		return math.NaN()
	}
	return floats.Max(observed)
}

// Slice returns a copy of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{}
	}

	positions := make([]float64, end-start)
	copy(positions, s.Positions[start:end])
	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	return &Series{
		Positions: positions,
		Values:    values,
		Name:      s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	positions := make([]float64, len(s.Positions))
	copy(positions, s.Positions)
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	return &Series{
		Positions: positions,
		Values:    values,
		Name:      s.Name,
	}
}
