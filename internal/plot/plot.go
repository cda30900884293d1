package plot

import (
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"codeberg.org/mutker/trainmetrics/internal/errors"
	"codeberg.org/mutker/trainmetrics/internal/logger"
	"codeberg.org/mutker/trainmetrics/internal/metrics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	defaultDirPerm = 0o755

	chartWidth  = 12 * vg.Inch
	chartHeight = 6 * vg.Inch
)

var levelColors = map[string]color.Color{
	"EASY": color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	"C0":   color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	"C1":   color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	"C2":   color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	"C3":   color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
}

type view struct {
	file   string
	render func(records []metrics.Record, target string) error
}

// views lists the chart views in render order, keyed by output filename.
func views() []view {
	return []view{
		{"01_mean_return.png", renderMeanReturn},
		{"02_mean_return_with_std.png", renderMeanReturnWithStd},
		{"03_policy_loss.png", renderPolicyLoss},
		{"04_value_loss.png", renderValueLoss},
		{"05_both_losses.png", renderBothLosses},
		{"06_return_vs_time.png", renderReturnVsTime},
	}
}

// Render draws all chart views into outDir, creating it if needed.
// An empty record sequence produces no charts and no error.
func Render(records []metrics.Record, outDir string) error {
	errFactory := errors.New()

	if len(records) == 0 {
		logger.Warn().Msg("No metrics to plot")
		return nil
	}

	if err := os.MkdirAll(outDir, defaultDirPerm); err != nil {
		return errFactory.Wrap(ErrOutputDir, err)
	}

	for _, v := range views() {
		target := filepath.Join(outDir, v.file)
		if err := v.render(records, target); err != nil {
			return errFactory.Wrap(ErrRenderFailed, err).WithData(v.file)
		}
		logger.Info().Str("path", target).Msg("Saved chart")
	}

	return nil
}

func renderMeanReturn(records []metrics.Record, target string) error {
	p := newChart("Training Progress: Mean Evaluation Return vs Iteration",
		"Iteration", "Mean Evaluation Return")

	if err := addLevelLines(p, records, iterationX, meanReturnY, draw.CircleGlyph{}); err != nil {
		return err
	}

	return p.Save(chartWidth, chartHeight, target)
}

func renderMeanReturnWithStd(records []metrics.Record, target string) error {
	p := newChart("Training Progress: Mean Return ± Std Dev",
		"Iteration", "Mean Evaluation Return")

	for _, level := range sortedLevels(records) {
		xys := levelSeries(records, level, iterationX, meanReturnY)
		stds := levelValues(records, level, func(r metrics.Record) float64 { return r.StdReturn })

		c := colorFor(level)
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		line.Color = c
		line.Width = vg.Points(2)
		points.Color = c
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(2)

		yerrs := make(plotter.YErrors, len(stds))
		for i, std := range stds {
			yerrs[i].Low = std
			yerrs[i].High = std
		}
		bars, err := plotter.NewYErrorBars(errorPoints{XYs: xys, YErrors: yerrs})
		if err != nil {
			return err
		}
		bars.LineStyle.Color = c

		p.Add(line, points, bars)
		p.Legend.Add(level, line, points)
	}

	return p.Save(chartWidth, chartHeight, target)
}

func renderPolicyLoss(records []metrics.Record, target string) error {
	p := newChart("Training Stability: Policy Loss vs Iteration",
		"Iteration", "Policy Loss")

	if err := addLevelLines(p, records, iterationX, policyLossY, draw.BoxGlyph{}); err != nil {
		return err
	}

	return p.Save(chartWidth, chartHeight, target)
}

func renderValueLoss(records []metrics.Record, target string) error {
	p := newChart("Training Stability: Value Loss vs Iteration",
		"Iteration", "Value Loss")

	if err := addLevelLines(p, records, iterationX, valueLossY, draw.PyramidGlyph{}); err != nil {
		return err
	}

	return p.Save(chartWidth, chartHeight, target)
}

// renderBothLosses overlays both loss curves across all levels. The
// value-loss series is min-max rescaled onto the policy-loss range so
// both curves stay readable on one axis.
func renderBothLosses(records []metrics.Record, target string) error {
	p := newChart("Training Stability: Policy Loss vs Value Loss",
		"Iteration", "Policy Loss")

	iterations := values(records, iterationX)
	policy := values(records, policyLossY)
	value := rescale(values(records, valueLossY), floats.Min(policy), floats.Max(policy))

	series := []struct {
		label string
		ys    []float64
		color color.Color
		shape draw.GlyphDrawer
	}{
		{"Policy Loss", policy, levelColors["EASY"], draw.BoxGlyph{}},
		{"Value Loss (rescaled)", value, levelColors["C0"], draw.PyramidGlyph{}},
	}

	for _, s := range series {
		xys := make(plotter.XYs, len(iterations))
		for i := range iterations {
			xys[i] = plotter.XY{X: iterations[i], Y: s.ys[i]}
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		line.Color = s.color
		line.Width = vg.Points(2)
		points.Color = s.color
		points.Shape = s.shape
		points.Radius = vg.Points(2)
		p.Add(line, points)
		p.Legend.Add(s.label, line, points)
	}

	return p.Save(chartWidth, chartHeight, target)
}

func renderReturnVsTime(records []metrics.Record, target string) error {
	p := newChart("Training Progress: Return vs Wall-Clock Time",
		"Elapsed Time (minutes)", "Mean Evaluation Return")

	elapsedMinutes := func(r metrics.Record) float64 { return r.ElapsedTime / 60 }
	if err := addLevelLines(p, records, elapsedMinutes, meanReturnY, draw.CircleGlyph{}); err != nil {
		return err
	}

	return p.Save(chartWidth, chartHeight, target)
}

func newChart(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	return p
}

func addLevelLines(p *plot.Plot, records []metrics.Record, xv, yv func(metrics.Record) float64, shape draw.GlyphDrawer) error {
	for _, level := range sortedLevels(records) {
		xys := levelSeries(records, level, xv, yv)

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		c := colorFor(level)
		line.Color = c
		line.Width = vg.Points(2)
		points.Color = c
		points.Shape = shape
		points.Radius = vg.Points(2)

		p.Add(line, points)
		p.Legend.Add(level, line, points)
	}

	return nil
}

// errorPoints pairs a point series with its per-point Y errors for
// plotter.NewYErrorBars.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

func iterationX(r metrics.Record) float64  { return float64(r.Iteration) }
func meanReturnY(r metrics.Record) float64 { return r.MeanReturn }
func policyLossY(r metrics.Record) float64 { return r.PolicyLoss }
func valueLossY(r metrics.Record) float64  { return r.ValueLoss }

func levelSeries(records []metrics.Record, level string, xv, yv func(metrics.Record) float64) plotter.XYs {
	var xys plotter.XYs
	for _, rec := range records {
		if rec.Level != level {
			continue
		}
		xys = append(xys, plotter.XY{X: xv(rec), Y: yv(rec)})
	}
	return xys
}

func levelValues(records []metrics.Record, level string, field func(metrics.Record) float64) []float64 {
	var out []float64
	for _, rec := range records {
		if rec.Level != level {
			continue
		}
		out = append(out, field(rec))
	}
	return out
}

func sortedLevels(records []metrics.Record) []string {
	seen := make(map[string]struct{}, len(records))
	var levels []string
	for _, rec := range records {
		if _, ok := seen[rec.Level]; ok {
			continue
		}
		seen[rec.Level] = struct{}{}
		levels = append(levels, rec.Level)
	}
	sort.Strings(levels)

	return levels
}

func colorFor(level string) color.Color {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return color.Black
}

// rescale maps vals onto [lo, hi] with min-max normalization. A constant
// series maps to the midpoint.
func rescale(vals []float64, lo, hi float64) []float64 {
	minVal := floats.Min(vals)
	maxVal := floats.Max(vals)

	out := make([]float64, len(vals))
	if maxVal == minVal {
		mid := (lo + hi) / 2
		for i := range out {
			out[i] = mid
		}
		return out
	}
	for i, v := range vals {
		out[i] = lo + (v-minVal)*(hi-lo)/(maxVal-minVal)
	}
	return out
}
