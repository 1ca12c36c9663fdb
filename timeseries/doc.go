// Package timeseries provides paired (position, value) series data structures and utilities.
//
// This package includes the Series type, which keeps a position array and a
// value array index-aligned and sorted by ascending position, along with
// functions for data loading and temporal normalization.
//
// # Creating a Series
//
// Create a series from explicit positions and values:
//
//	positions := []float64{0, 1, 2, 5, 6, 7}
//	values := []float64{10, 11, 12, 15, 16, 17}
//	series, err := timeseries.NewXY(positions, values)
//
// Or from timestamps, which become seconds since the earliest timestamp:
//
//	series, err := timeseries.FromTimestamps(stamps, values)
//
// # Missing Values
//
// A value slot that has not been observed or estimated holds the missing
// marker:
//
//	series.Values[i] = timeseries.Missing()
//	if timeseries.IsMissing(series.Values[i]) { ... }
//
// ObservedXY extracts the samples that carry real values:
//
//	x, y := series.ObservedXY()
//
// # Loading from CSV
//
// Load a (position, value) series from a CSV file:
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.PositionColumn = "ds"
//	opts.ValueColumn = "y"
//	series, err := timeseries.LoadCSVXY("data.csv", opts)
//
// Dated position columns are parsed with the configured format (plus common
// fallbacks) and converted to second offsets.
package timeseries
