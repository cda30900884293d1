package plot_test

import (
	"strings"
	"testing"

	"codeberg.org/mutker/trainmetrics/internal/metrics"
	"codeberg.org/mutker/trainmetrics/internal/plot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []metrics.Record {
	return []metrics.Record{
		{Iteration: 1, Level: "EASY", MeanReturn: 10.0, StdReturn: 2.0, PolicyLoss: 0.5, ValueLoss: 0.3, ElapsedTime: 12.5},
		{Iteration: 2, Level: "EASY", MeanReturn: 15.0, StdReturn: 1.5, PolicyLoss: 0.4, ValueLoss: 0.25, ElapsedTime: 25.0},
		{Iteration: 3, Level: "C0", MeanReturn: 20.0, StdReturn: 3.0, PolicyLoss: 0.3, ValueLoss: 0.2, ElapsedTime: 40.0},
		{Iteration: 4, Level: "C0", MeanReturn: 30.0, StdReturn: 2.5, PolicyLoss: 0.2, ValueLoss: 0.1, ElapsedTime: 60.0},
	}
}

func TestSummarize(t *testing.T) {
	summaries := plot.Summarize(sampleRecords())
	require.Len(t, summaries, 2)

	// Lexical order: C0 before EASY
	c0 := summaries[0]
	assert.Equal(t, "C0", c0.Level)
	assert.Equal(t, 2, c0.Count)
	assert.Equal(t, 20.0, c0.Return.Min)
	assert.Equal(t, 30.0, c0.Return.Max)
	assert.Equal(t, 25.0, c0.Return.Mean)
	assert.InDelta(t, 0.25, c0.PolicyLoss.Mean, 1e-12)

	easy := summaries[1]
	assert.Equal(t, "EASY", easy.Level)
	assert.Equal(t, 2, easy.Count)
	assert.Equal(t, 10.0, easy.Return.Min)
	assert.Equal(t, 15.0, easy.Return.Max)
	assert.Equal(t, 12.5, easy.Return.Mean)
	assert.InDelta(t, 0.275, easy.ValueLoss.Mean, 1e-12)
}

func TestSummaryCountsSumToTotal(t *testing.T) {
	records := sampleRecords()
	summaries := plot.Summarize(records)

	total := 0
	for _, s := range summaries {
		total += s.Count
	}
	assert.Equal(t, len(records), total)
}

func TestWriteSummary(t *testing.T) {
	var buf strings.Builder
	plot.WriteSummary(&buf, sampleRecords())
	out := buf.String()

	assert.Contains(t, out, "TRAINING METRICS SUMMARY")
	assert.Contains(t, out, "EASY:")
	assert.Contains(t, out, "C0:")
	assert.Contains(t, out, "Returns: min=10.00, max=15.00, mean=12.50")
	assert.Contains(t, out, "Returns: min=20.00, max=30.00, mean=25.00")
	assert.Contains(t, out, "Total iterations: 4")
	assert.Contains(t, out, "Total training time: 1.0 minutes")
}

func TestWriteSummaryEmpty(t *testing.T) {
	var buf strings.Builder
	plot.WriteSummary(&buf, nil)
	out := buf.String()

	assert.Contains(t, out, "Total iterations: 0")
	assert.NotContains(t, out, "Total training time")
}
