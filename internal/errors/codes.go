package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Metrics errors
	ErrLoadMetrics    ErrorCode = "metrics_load_failed"
	ErrPersistMetrics ErrorCode = "metrics_persist_failed"
	ErrMetricsMissing ErrorCode = "metrics_file_missing"

	// Plot errors
	ErrRenderPlot ErrorCode = "plot_render_failed"

	// Export errors
	ErrExportMetrics ErrorCode = "export_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrInvalidConfig:   "Invalid configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrReadConfig:      "Failed to read configuration",
	ErrInitFailed:      "Initialization failed",
	ErrShutdownFailed:  "Shutdown failed",
	ErrLoadMetrics:     "Failed to load metrics file",
	ErrPersistMetrics:  "Failed to persist metrics file",
	ErrMetricsMissing:  "Metrics file not found",
	ErrRenderPlot:      "Failed to render chart",
	ErrExportMetrics:   "Failed to export metrics",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
