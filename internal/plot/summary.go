package plot

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"codeberg.org/mutker/trainmetrics/internal/metrics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FieldStats summarizes one scalar field across the records of a level.
type FieldStats struct {
	Min  float64
	Max  float64
	Mean float64
}

// LevelSummary holds the per-level statistics reported by WriteSummary.
type LevelSummary struct {
	Level      string
	Count      int
	Return     FieldStats
	PolicyLoss FieldStats
	ValueLoss  FieldStats
}

func newFieldStats(values []float64) FieldStats {
	return FieldStats{
		Min:  floats.Min(values),
		Max:  floats.Max(values),
		Mean: stat.Mean(values, nil),
	}
}

// Summarize computes per-level statistics, one entry per level in
// lexical order.
func Summarize(records []metrics.Record) []LevelSummary {
	byLevel := make(map[string][]metrics.Record)
	for _, rec := range records {
		byLevel[rec.Level] = append(byLevel[rec.Level], rec)
	}

	summaries := make([]LevelSummary, 0, len(byLevel))
	for level, recs := range byLevel {
		summaries = append(summaries, LevelSummary{
			Level:      level,
			Count:      len(recs),
			Return:     newFieldStats(values(recs, func(r metrics.Record) float64 { return r.MeanReturn })),
			PolicyLoss: newFieldStats(values(recs, func(r metrics.Record) float64 { return r.PolicyLoss })),
			ValueLoss:  newFieldStats(values(recs, func(r metrics.Record) float64 { return r.ValueLoss })),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Level < summaries[j].Level })

	return summaries
}

// WriteSummary prints the per-level training summary. The layout is the
// console deliverable of the plotting tool, so it writes directly to w
// rather than going through the logger.
func WriteSummary(w io.Writer, records []metrics.Record) {
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "TRAINING METRICS SUMMARY")
	fmt.Fprintln(w, rule)

	for _, s := range Summarize(records) {
		fmt.Fprintf(w, "\n%s:\n", s.Level)
		fmt.Fprintf(w, "  Returns: min=%.2f, max=%.2f, mean=%.2f\n",
			s.Return.Min, s.Return.Max, s.Return.Mean)
		fmt.Fprintf(w, "  Policy Loss: min=%.6f, max=%.6f, mean=%.6f\n",
			s.PolicyLoss.Min, s.PolicyLoss.Max, s.PolicyLoss.Mean)
		fmt.Fprintf(w, "  Value Loss: min=%.6f, max=%.6f, mean=%.6f\n",
			s.ValueLoss.Min, s.ValueLoss.Max, s.ValueLoss.Mean)
	}

	fmt.Fprintf(w, "\nTotal iterations: %d\n", len(records))
	if len(records) > 0 {
		fmt.Fprintf(w, "Total training time: %.1f minutes\n", records[len(records)-1].ElapsedTime/60)
	}
	fmt.Fprintln(w, rule)
}

func values(records []metrics.Record, field func(metrics.Record) float64) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = field(rec)
	}
	return out
}
