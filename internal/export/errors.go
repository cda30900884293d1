package export

import "codeberg.org/mutker/trainmetrics/internal/errors"

const (
	ErrInvalidDBPath     = errors.ErrorCode("export_invalid_db_path")
	ErrStorageInit       = errors.ErrInitFailed
	ErrStorageClose      = errors.ErrShutdownFailed
	ErrSchemaInitFailed  = errors.ErrorCode("export_schema_init_failed")
	ErrTransactionFailed = errors.ErrorCode("export_transaction_failed")
	ErrExportFailed      = errors.ErrExportMetrics
)
