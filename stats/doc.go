// Package stats provides statistical primitives for spacing inference and
// imputation accuracy.
//
// # Spacing Inference
//
// Estimate the nominal sampling interval of a position sequence:
//
//	spacing, err := stats.ModalDiff(positions, stats.DefaultBins)
//
// ModalDiff histograms the consecutive differences and returns the left edge
// of the fullest bin. For mostly-regular series with occasional gaps this is
// the robust choice: the gaps themselves are the outliers, and the modal
// difference ignores them where a mean or minimum would not.
//
// # Accuracy Metrics
//
//	rmse := stats.RMSE(actual, predicted)
//	mae := stats.MAE(actual, predicted)
package stats
