package metrics

import "codeberg.org/mutker/trainmetrics/internal/errors"

const (
	// Load errors
	ErrLoadFailed      = errors.ErrLoadMetrics
	ErrFileMissing     = errors.ErrMetricsMissing
	ErrMalformedRecord = errors.ErrorCode("metrics_malformed_record")

	// Persist errors
	ErrPersistFailed = errors.ErrPersistMetrics
)
