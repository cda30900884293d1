package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"

	"codeberg.org/mutker/trainmetrics/internal/errors"
	"codeberg.org/mutker/trainmetrics/internal/logger"
)

const (
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
)

// The record shape is fixed: a serialized record must carry exactly
// these keys or the whole file is treated as unparseable.
var recordFields = []string{
	"iteration",
	"level",
	"mean_return",
	"std_return",
	"policy_loss",
	"value_loss",
	"elapsed_time",
}

type recorder struct {
	path    string
	records []Record
}

// NewRecorder returns a Recorder bound to the given metrics file path.
// An existing well-formed file is loaded as the initial log; a missing
// or unparseable file yields an empty log and never an error.
func NewRecorder(path string) Recorder {
	r := &recorder{path: path}
	r.loadExisting()

	return r
}

func (r *recorder) loadExisting() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug().Err(err).Str("path", r.path).Msg("Could not read existing metrics, starting empty")
		}
		return
	}

	records, err := decodeRecords(data)
	if err != nil {
		logger.Debug().Err(err).Str("path", r.path).Msg("Existing metrics unparseable, starting empty")
		return
	}

	r.records = records
	logger.Debug().Int("records", len(records)).Str("path", r.path).Msg("Loaded existing metrics")
}

func (r *recorder) LogIteration(iteration int, level string, meanReturn, stdReturn, policyLoss, valueLoss, elapsedTime float64) error {
	r.records = append(r.records, Record{
		Iteration:   iteration,
		Level:       level,
		MeanReturn:  meanReturn,
		StdReturn:   stdReturn,
		PolicyLoss:  policyLoss,
		ValueLoss:   valueLoss,
		ElapsedTime: elapsedTime,
	})

	return r.Persist()
}

func (r *recorder) Persist() error {
	errFactory := errors.New()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return errFactory.Wrap(ErrPersistFailed, err)
	}

	records := r.records
	if records == nil {
		records = []Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errFactory.Wrap(ErrPersistFailed, err)
	}

	// Write the snapshot to a temp file and rename it into place so the
	// metrics file always holds a complete snapshot
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return errFactory.Wrap(ErrPersistFailed, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errFactory.Wrap(ErrPersistFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errFactory.Wrap(ErrPersistFailed, err)
	}
	if err := os.Chmod(tmp.Name(), defaultFilePerm); err != nil {
		os.Remove(tmp.Name())
		return errFactory.Wrap(ErrPersistFailed, err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return errFactory.Wrap(ErrPersistFailed, err)
	}

	return nil
}

func (r *recorder) Records() []Record {
	return append([]Record(nil), r.records...)
}

func (r *recorder) Len() int {
	return len(r.records)
}

// LoadFile reads and decodes a metrics file for the read-side tools.
// Unlike NewRecorder, a missing or malformed file is an error here.
func LoadFile(path string) ([]Record, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errFactory.Wrap(ErrFileMissing, err)
		}
		return nil, errFactory.Wrap(ErrLoadFailed, err)
	}

	records, err := decodeRecords(data)
	if err != nil {
		return nil, errFactory.Wrap(ErrLoadFailed, err)
	}

	return records, nil
}

func decodeRecords(data []byte) ([]Record, error) {
	errFactory := errors.New()

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(raw))
	for i, obj := range raw {
		if len(obj) != len(recordFields) {
			return nil, errFactory.WithData(ErrMalformedRecord, struct {
				Index  int
				Fields int
			}{
				Index:  i,
				Fields: len(obj),
			})
		}
		for _, field := range recordFields {
			if _, ok := obj[field]; !ok {
				return nil, errFactory.WithData(ErrMalformedRecord, struct {
					Index int
					Field string
				}{
					Index: i,
					Field: field,
				})
			}
		}

		buf, err := json.Marshal(obj)
		if err != nil {
			return nil, err
		}

		var rec Record
		if err := json.Unmarshal(buf, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}
