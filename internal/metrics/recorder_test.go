package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/trainmetrics/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogIterationAppendsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	rec := metrics.NewRecorder(path)

	err := rec.LogIteration(1, "EASY", 10.0, 2.0, 0.5, 0.3, 12.5)
	require.NoError(t, err)
	err = rec.LogIteration(2, "EASY", 15.0, 1.5, 0.4, 0.25, 25.0)
	require.NoError(t, err)

	require.Equal(t, 2, rec.Len())

	reloaded := metrics.NewRecorder(path)
	require.Equal(t, 2, reloaded.Len())

	records := reloaded.Records()
	assert.Equal(t, 10.0, records[0].MeanReturn)
	assert.Equal(t, 15.0, records[1].MeanReturn)
	assert.Equal(t, "EASY", records[0].Level)
	assert.Equal(t, 1, records[0].Iteration)
	assert.Equal(t, 25.0, records[1].ElapsedTime)
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	rec := metrics.NewRecorder(path)

	for i := 1; i <= 5; i++ {
		err := rec.LogIteration(i, "C0", float64(i)*3.5, 0.8, 0.1/float64(i), 0.2/float64(i), float64(i)*10)
		require.NoError(t, err)
	}

	reloaded := metrics.NewRecorder(path)
	assert.Equal(t, rec.Records(), reloaded.Records(), "Reloaded log must match the persisted log exactly")
}

func TestReloadIdempotence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	rec := metrics.NewRecorder(path)
	require.NoError(t, rec.LogIteration(1, "EASY", 10.0, 2.0, 0.5, 0.3, 12.5))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	reloaded := metrics.NewRecorder(path)
	require.NoError(t, reloaded.Persist())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "Persisting a freshly reloaded log must not change the file")
}

func TestAppendGrowth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	rec := metrics.NewRecorder(path)

	const k = 7
	for i := 0; i < k; i++ {
		require.NoError(t, rec.LogIteration(i, "C1", 1.0, 0.1, 0.01, 0.02, float64(i)))
	}

	require.Equal(t, k, rec.Len())
	records := rec.Records()
	for i := 0; i < k; i++ {
		assert.Equal(t, i, records[i].Iteration, "Records must be in call order")
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	rec := metrics.NewRecorder(path)
	assert.Equal(t, 0, rec.Len(), "Corrupt file must yield an empty log")
}

func TestWrongShapeStartsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing field", `[{"iteration": 1, "level": "EASY"}]`},
		{"unknown field", `[{"iteration": 1, "level": "EASY", "mean_return": 1, "std_return": 1, "policy_loss": 1, "value_loss": 1, "elapsed_time": 1, "extra": true}]`},
		{"wrong type", `[{"iteration": 1, "level": 7, "mean_return": 1, "std_return": 1, "policy_loss": 1, "value_loss": 1, "elapsed_time": 1}]`},
		{"not a sequence", `{"iteration": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "metrics.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			rec := metrics.NewRecorder(path)
			assert.Equal(t, 0, rec.Len())
		})
	}
}

func TestPersistCreatesMissingDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "pico64", "metrics.json")
	rec := metrics.NewRecorder(path)

	require.NoError(t, rec.Persist())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestPersistEmptyLogWritesSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	rec := metrics.NewRecorder(path)
	require.NoError(t, rec.Persist())

	records, err := metrics.LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := metrics.LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, os.WriteFile(path, []byte("[{]"), 0o644))

	_, err := metrics.LoadFile(path)
	require.Error(t, err)
}

func TestRecordsReturnsCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	rec := metrics.NewRecorder(path)
	require.NoError(t, rec.LogIteration(1, "EASY", 10.0, 2.0, 0.5, 0.3, 12.5))

	records := rec.Records()
	records[0].MeanReturn = -1

	assert.Equal(t, 10.0, rec.Records()[0].MeanReturn, "Mutating the returned slice must not affect the log")
}
