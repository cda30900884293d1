package plot

import "codeberg.org/mutker/trainmetrics/internal/errors"

const (
	ErrRenderFailed = errors.ErrRenderPlot
	ErrOutputDir    = errors.ErrorCode("plot_output_dir_failed")
)
