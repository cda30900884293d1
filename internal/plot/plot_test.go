package plot_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/trainmetrics/internal/plot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWritesAllViews(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "plots")

	err := plot.Render(sampleRecords(), outDir)
	require.NoError(t, err)

	expected := []string{
		"01_mean_return.png",
		"02_mean_return_with_std.png",
		"03_policy_loss.png",
		"04_value_loss.png",
		"05_both_losses.png",
		"06_return_vs_time.png",
	}
	for _, name := range expected {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, "Expected chart %s", name)
		assert.Positive(t, info.Size(), "Chart %s must not be empty", name)
	}
}

func TestRenderEmptyProducesNothing(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "plots")

	err := plot.Render(nil, outDir)
	require.NoError(t, err)

	_, err = os.Stat(outDir)
	assert.True(t, os.IsNotExist(err), "Empty input must not create the output directory")
}

func TestRenderUnknownLevelUsesFallbackColor(t *testing.T) {
	records := sampleRecords()
	for i := range records {
		records[i].Level = "X9"
	}
	outDir := filepath.Join(t.TempDir(), "plots")

	err := plot.Render(records, outDir)
	require.NoError(t, err)
}
