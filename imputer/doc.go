// Package imputer fills gaps in irregularly-sampled univariate series.
//
// The Processor owns a paired (position, value) series and drives the
// pipeline: it normalizes and sorts the pair, infers the nominal sampling
// interval, detects positions where samples are missing, synthesizes
// placeholder samples for them, and estimates their values with a smoothing
// estimator fit to the observed data.
//
// # Pipeline
//
//	proc, err := imputer.New(positions, values)
//	proc.SetImputer("lowess")     // fit on observed data, before placeholders
//	proc.DetectGaps(0)            // 0 = infer spacing from the data
//	residual, err := proc.ImputeAll()
//
// Order matters: SetImputer snapshots the series at the time of the call, so
// it must run after any deletion or normalization and before DetectGaps
// inserts placeholders. ImputeAll enforces this and rejects an estimator
// that predates a later data mutation.
//
// # Residual Missing Values
//
// The estimator refuses to extrapolate: a placeholder outside its fitted
// range keeps its missing marker. ImputeAll returns those sites; callers
// should check the residual (or Series().MissingCount()) rather than assume
// every gap was filled.
//
// # Imputer Kinds
//
// Imputers are looked up by name in a registry; "lowess" is built in.
// Additional kinds plug in through Register:
//
//	imputer.Register("nearest", func(x, y []float64) (imputer.Estimator, error) {
//	    ...
//	})
package imputer
