package export

import (
	"database/sql"
	"os"
	"path/filepath"

	"codeberg.org/mutker/trainmetrics/internal/errors"
	"codeberg.org/mutker/trainmetrics/internal/logger"
	"codeberg.org/mutker/trainmetrics/internal/metrics"
	_ "github.com/mattn/go-sqlite3"
)

const defaultDirPerm = 0o755

// Repository copies a metrics log into a SQLite database so a finished
// run can be queried with plain SQL.
type Repository interface {
	Export(records []metrics.Record) error
	Close() error
}

type repository struct {
	db     *sql.DB
	dbPath string
}

func NewRepository(dbPath string) (Repository, error) {
	errFactory := errors.New()

	if dbPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  dbPath,
			Error: err.Error(),
		})
	}

	dsn := dbPath + "?_journal=WAL&_auto_vacuum=2"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug().Str("path", dbPath).Int("schema_version", SchemaVersion).Msg("Export repository initialized")

	return &repository{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Export replaces the database contents with the given records in one
// transaction, so the table always holds a complete snapshot of one run.
func (r *repository) Export(records []metrics.Record) error {
	errFactory := errors.New()

	tx, err := r.db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	if _, err := tx.Exec(deleteMetricsSQL); err != nil {
		if err := tx.Rollback(); err != nil {
			logger.Error().Err(err).Msg("Failed to roll back transaction")
		}
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	stmt, err := tx.Prepare(insertMetricSQL)
	if err != nil {
		if err := tx.Rollback(); err != nil {
			logger.Error().Err(err).Msg("Failed to roll back transaction")
		}
		return errFactory.Wrap(ErrTransactionFailed, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(
			int64(rec.Iteration),
			rec.Level,
			rec.MeanReturn,
			rec.StdReturn,
			rec.PolicyLoss,
			rec.ValueLoss,
			rec.ElapsedTime,
		); err != nil {
			if err := tx.Rollback(); err != nil {
				logger.Error().Err(err).Msg("Failed to roll back transaction")
			}
			return errFactory.Wrap(ErrTransactionFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	logger.Debug().Int("records", len(records)).Msg("Exported metrics to database")

	return nil
}

func (r *repository) Close() error {
	errFactory := errors.New()

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errFactory.WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "checkpoint_wal",
			Error: err.Error(),
		})
	}

	if err := r.db.Close(); err != nil {
		return errFactory.WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "close_database",
			Error: err.Error(),
		})
	}

	return nil
}
