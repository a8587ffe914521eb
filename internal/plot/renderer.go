package plot

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jocelynchengyang/correlationAnalysis/internal/agreement"
	"github.com/jocelynchengyang/correlationAnalysis/internal/config"
	"github.com/jocelynchengyang/correlationAnalysis/internal/infrastructure"
)

// File name suffixes of the two images written per measurement
const (
	ScatterSuffix     = "_scatter.png"
	BlandAltmanSuffix = "_bland_altman.png"
)

var (
	colorPoints     = drawing.Color{R: 70, G: 130, B: 180, A: 255}
	colorBAPoints   = drawing.Color{R: 255, G: 127, B: 80, A: 255}
	colorFit        = drawing.Color{R: 214, G: 39, B: 40, A: 255}
	colorIdentity   = drawing.Color{R: 0, G: 0, B: 0, A: 140}
	colorMean       = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	colorZero       = drawing.Color{R: 128, G: 128, B: 128, A: 160}
	colorAnnotation = drawing.Color{R: 60, G: 60, B: 60, A: 200}

	dashed = []float64{8, 5}
	dotted = []float64{2, 4}
)

// Input is everything needed to draw one measurement
type Input struct {
	Key    string
	Label  string
	IDs    []string
	A      []float64
	B      []float64
	Result agreement.Result
}

// Files are the paths of the images written for one measurement
type Files struct {
	Scatter     string `json:"scatter"`
	BlandAltman string `json:"bland_altman"`
}

// Renderer draws scatter and Bland-Altman PNGs
type Renderer struct {
	cfg     config.PlotConfig
	methodA string
	methodB string
	logger  *slog.Logger
}

// NewRenderer creates a renderer; methodA and methodB label the two axes
func NewRenderer(cfg config.PlotConfig, methodA, methodB string, logger *slog.Logger) *Renderer {
	return &Renderer{
		cfg:     cfg,
		methodA: methodA,
		methodB: methodB,
		logger:  infrastructure.WithComponent(logger, "plot"),
	}
}

// Render writes <Key>_scatter.png and <Key>_bland_altman.png into dir
func (r *Renderer) Render(dir string, in Input) (Files, error) {
	if len(in.A) != len(in.B) || len(in.A) != len(in.IDs) {
		return Files{}, fmt.Errorf("plot %s: mismatched series lengths", in.Key)
	}
	if len(in.A) == 0 {
		return Files{}, fmt.Errorf("plot %s: no points", in.Key)
	}

	files := Files{
		Scatter:     filepath.Join(dir, in.Key+ScatterSuffix),
		BlandAltman: filepath.Join(dir, in.Key+BlandAltmanSuffix),
	}

	if err := r.Scatter(files.Scatter, in); err != nil {
		return Files{}, err
	}
	if err := r.BlandAltman(files.BlandAltman, in); err != nil {
		return Files{}, err
	}

	r.logger.Debug("Plots written",
		slog.String("key", in.Key),
		slog.String("scatter", files.Scatter),
		slog.String("bland_altman", files.BlandAltman))

	return files, nil
}

// Scatter draws method B against method A with the least-squares fit and the
// identity line.
func (r *Renderer) Scatter(path string, in Input) error {
	res := in.Result
	lo, hi := bounds(in.A, in.B)
	xMin, xMax := bounds(in.A)

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Patients",
			Style:   pointStyle(colorPoints),
			XValues: in.A,
			YValues: in.B,
		},
	}
	if res.CorrelationDefined {
		series = append(series, chart.ContinuousSeries{
			Name:    "Line of best fit",
			Style:   lineStyle(colorFit, 2, dashed),
			XValues: []float64{xMin, xMax},
			YValues: []float64{res.Intercept + res.Slope*xMin, res.Intercept + res.Slope*xMax},
		})
	}
	series = append(series, chart.ContinuousSeries{
		Name:    "Perfect agreement (y=x)",
		Style:   lineStyle(colorIdentity, 1.5, dotted),
		XValues: []float64{lo, hi},
		YValues: []float64{lo, hi},
	})
	if r.cfg.ShowPatientIDs {
		series = append(series, annotations(in.A, in.B, in.IDs))
	}

	// Both axes cover the identity line; y also covers the fitted line
	yMin, yMax := lo, hi
	if res.CorrelationDefined {
		fitLo, fitHi := bounds([]float64{res.Intercept + res.Slope*xMin, res.Intercept + res.Slope*xMax})
		yMin, yMax = math.Min(yMin, fitLo), math.Max(yMax, fitHi)
	}
	xr, yr := paddedRange(lo, hi), paddedRange(yMin, yMax)

	ch := r.newChart(r.title("Pearson Correlation", in.Label), series,
		chart.XAxis{Name: r.methodA, Range: xr, ValueFormatter: tickFormatter},
		chart.YAxis{Name: r.methodB, Range: yr, ValueFormatter: tickFormatter},
	)

	return r.write(path, ch, ScatterStats(res))
}

// BlandAltman draws the difference (B - A) against the mean of both methods,
// with the mean difference, the 95% limits of agreement and zero.
func (r *Renderer) BlandAltman(path string, in Input) error {
	res := in.Result
	means := agreement.Means(in.A, in.B)
	diffs := agreement.Differences(in.A, in.B)
	xMin, xMax := bounds(means)
	xr := paddedRange(xMin, xMax)
	edges := []float64{xr.Min, xr.Max}

	hline := func(name string, y float64, style chart.Style) chart.Series {
		return chart.ContinuousSeries{Name: name, Style: style, XValues: edges, YValues: []float64{y, y}}
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Patients",
			Style:   pointStyle(colorBAPoints),
			XValues: means,
			YValues: diffs,
		},
		hline(fmt.Sprintf("Mean difference: %.4f", res.MeanDiff), res.MeanDiff, lineStyle(colorMean, 2, nil)),
		hline(fmt.Sprintf("+1.96 SD: %.4f", res.LoAUpper), res.LoAUpper, lineStyle(colorFit, 1.5, dashed)),
		hline(fmt.Sprintf("-1.96 SD: %.4f", res.LoALower), res.LoALower, lineStyle(colorFit, 1.5, dashed)),
		hline("Zero", 0, lineStyle(colorZero, 1, dotted)),
	}
	if r.cfg.ShowPatientIDs {
		series = append(series, annotations(means, diffs, in.IDs))
	}

	yMin, yMax := bounds(diffs, []float64{res.LoALower, res.LoAUpper, 0})
	ch := r.newChart(r.title("Bland-Altman Plot", in.Label), series,
		chart.XAxis{Name: "Average of Two Methods", Range: xr, ValueFormatter: tickFormatter},
		chart.YAxis{Name: fmt.Sprintf("Difference (%s - %s)", shortLabel(r.methodB), r.methodA), Range: paddedRange(yMin, yMax), ValueFormatter: tickFormatter},
	)

	return r.write(path, ch, BlandAltmanStats(res))
}

func (r *Renderer) newChart(title string, series []chart.Series, x chart.XAxis, y chart.YAxis) chart.Chart {
	ch := chart.Chart{
		Title:      title,
		Width:      r.cfg.Width,
		Height:     r.cfg.Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      x,
		YAxis:      y,
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

func (r *Renderer) title(kind, label string) string {
	return strings.TrimSpace(kind + ": " + label + " " + r.cfg.TitleSuffix)
}

// write renders ch, stamps the statistics box and saves the PNG
func (r *Renderer) write(path string, ch chart.Chart, stats []string) error {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(out, drawStatsBox(img, stats)); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    5,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color, width float64, dash []float64) chart.Style {
	return chart.Style{
		StrokeColor:     col,
		StrokeWidth:     width,
		StrokeDashArray: dash,
	}
}

func annotations(xs, ys []float64, ids []string) chart.AnnotationSeries {
	values := make([]chart.Value2, len(xs))
	for i := range xs {
		values[i] = chart.Value2{XValue: xs[i], YValue: ys[i], Label: ids[i]}
	}
	return chart.AnnotationSeries{
		Style: chart.Style{
			FontSize:    7,
			FontColor:   colorAnnotation,
			FillColor:   drawing.ColorTransparent,
			StrokeColor: drawing.ColorTransparent,
		},
		Annotations: values,
	}
}

// bounds returns the minimum and maximum over all values
func bounds(series ...[]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// paddedRange widens [lo, hi] by 8% per side; a zero span gets a fixed margin
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	span := hi - lo
	pad := span * 0.08
	if span == 0 {
		pad = math.Abs(lo) * 0.1
		if pad == 0 {
			pad = 1
		}
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func tickFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// shortLabel drops a parenthesised qualifier, e.g. "SCToolbox (combined_output)" -> "SCToolbox"
func shortLabel(label string) string {
	if i := strings.Index(label, " ("); i > 0 {
		return label[:i]
	}
	return label
}
