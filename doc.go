// Package goimpute provides gap detection and imputation for univariate time series.
//
// GoImpute takes an irregularly-sampled or gap-afflicted series of paired
// (position, value) samples, infers the nominal sampling interval, locates
// positions where samples are missing, and estimates values for those
// positions using a LOWESS (locally weighted regression) smoother fit to the
// observed data.
//
// # Features
//
//   - Joint (position, value) series container with sorting and validation
//   - Temporal normalization (timestamps to seconds-since-start offsets)
//   - Nominal-spacing inference via the modal consecutive difference
//   - Gap detection with placeholder synthesis
//   - LOWESS smoothing estimator with bounds-safe interpolation
//   - Pluggable imputer registry
//
// # Quick Start
//
// Fill the gaps in a series:
//
//	proc, _ := imputer.New(positions, values)
//	proc.SetImputer("lowess")
//	proc.DetectGaps(0) // 0 = infer spacing from the data
//	residual, _ := proc.ImputeAll()
//
// Any site the smoother could not reach (outside its fitted range) comes back
// in residual and keeps its missing marker.
//
// # Packages
//
// The library is organized into the following packages:
//
//   - imputer: the series processor, gap detection, and the imputer registry
//   - lowess: the LOWESS smoothing estimator
//   - stats: spacing inference and accuracy metrics
//   - timeseries: series data structures and CSV utilities
//
// # References
//
//   - Cleveland, W. S. (1979). Robust Locally Weighted Regression and Smoothing Scatterplots
package goimpute
