package export

import (
	"database/sql"

	"codeberg.org/mutker/trainmetrics/internal/errors"
	"codeberg.org/mutker/trainmetrics/internal/logger"
)

const (
	SchemaVersion = 1

	// The metrics table mirrors the record shape of the JSON metrics
	// file. Iteration is not unique, so rows get their own id.
	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS metrics (
	       id           INTEGER PRIMARY KEY AUTOINCREMENT,
	       iteration    INTEGER NOT NULL,
	       level        TEXT NOT NULL,
	       mean_return  REAL NOT NULL,
	       std_return   REAL NOT NULL,
	       policy_loss  REAL NOT NULL,
	       value_loss   REAL NOT NULL,
	       elapsed_time REAL NOT NULL
	   );`

	insertMetricSQL = `
    INSERT INTO metrics (
        iteration, level,
        mean_return, std_return,
        policy_loss, value_loss,
        elapsed_time
    ) VALUES (?, ?, ?, ?, ?, ?, ?)`

	deleteMetricsSQL = `DELETE FROM metrics`
)

// InitSchema creates the export schema and records its version.
func InitSchema(db *sql.DB) error {
	errFactory := errors.New()

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				logger.Debug().Err(err).Msg("Failed to rollback transaction")
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			SQL   string
		}{
			Error: err.Error(),
			SQL:   createTablesSQL,
		})
	}

	if _, err := tx.Exec(`
        INSERT OR IGNORE INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			Phase string
		}{
			Error: err.Error(),
			Phase: "record_version",
		})
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	logger.Debug().Int("version", SchemaVersion).Msg("Export schema initialized")

	return nil
}
