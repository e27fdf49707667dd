// Package chart renders the likelihood vs. impact scatter plot.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"threat-tracker/internal/models"
	"threat-tracker/internal/risk"
)

const circleSegments = 96

var (
	pointColor  = color.RGBA{R: 0xd9, G: 0x3a, B: 0x3a, A: 0xff}
	circleColor = color.RGBA{R: 0x2b, G: 0x6c, B: 0xb0, A: 0xff}
)

// Reference is the circle drawn around the centre of the points.
type Reference struct {
	CenterX, CenterY float64 // mean impact, mean likelihood
	Radius           float64 // average of the two sample standard deviations
}

// ReferenceCircle computes the circle for the given impact/likelihood
// samples. With fewer than two points the radius is 0.
func ReferenceCircle(impact, likelihood []float64) Reference {
	ref := Reference{
		CenterX: stat.Mean(impact, nil),
		CenterY: stat.Mean(likelihood, nil),
	}
	if len(impact) < 2 || len(likelihood) < 2 {
		return ref
	}
	r := (stat.StdDev(impact, nil) + stat.StdDev(likelihood, nil)) / 2
	if !math.IsNaN(r) {
		ref.Radius = r
	}
	return ref
}

func series(records []models.ThreatRecord) (pts plotter.XYs, labels []string, impact, likelihood []float64) {
	pts = make(plotter.XYs, len(records))
	labels = make([]string, len(records))
	impact = make([]float64, len(records))
	likelihood = make([]float64, len(records))
	for i, r := range records {
		impact[i] = float64(r.Impact)
		likelihood[i] = float64(r.Likelihood)
		pts[i].X = impact[i]
		pts[i].Y = likelihood[i]
		labels[i] = strconv.Itoa(r.ID)
	}
	return pts, labels, impact, likelihood
}

func circle(ref Reference) plotter.XYs {
	pts := make(plotter.XYs, circleSegments+1)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i].X = ref.CenterX + ref.Radius*math.Cos(a)
		pts[i].Y = ref.CenterY + ref.Radius*math.Sin(a)
	}
	return pts
}

// Scatter builds the plot over [1,5]x[1,5] with one labelled point per
// threat and the reference circle. It returns risk.ErrNoData for an empty
// slice.
func Scatter(records []models.ThreatRecord) (*plot.Plot, error) {
	if len(records) == 0 {
		return nil, risk.ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Likelihood vs Impact"
	p.X.Label.Text = "Impact"
	p.Y.Label.Text = "Likelihood"
	p.X.Min, p.X.Max = risk.ScaleMin, risk.ScaleMax
	p.Y.Min, p.Y.Max = risk.ScaleMin, risk.ScaleMax
	p.X.Tick.Marker = plot.ConstantTicks(scaleTicks())
	p.Y.Tick.Marker = plot.ConstantTicks(scaleTicks())
	p.Add(plotter.NewGrid())

	pts, ids, impact, likelihood := series(records)

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Color = pointColor
	sc.GlyphStyle.Radius = vg.Points(4)
	p.Add(sc)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: ids})
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}
	labels.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(3)}
	p.Add(labels)

	if ref := ReferenceCircle(impact, likelihood); ref.Radius > 0 {
		line, err := plotter.NewLine(circle(ref))
		if err != nil {
			return nil, fmt.Errorf("reference circle: %w", err)
		}
		line.LineStyle.Color = circleColor
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(line)
		p.Legend.Add("mean, avg std dev", line)
	}
	p.Legend.Add("threat", sc)
	p.Legend.Top = true

	return p, nil
}

func scaleTicks() []plot.Tick {
	ticks := make([]plot.Tick, 0, risk.ScaleMax)
	for v := risk.ScaleMin; v <= risk.ScaleMax; v++ {
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	return ticks
}

// WritePNG renders Scatter(records) as a square PNG of the given side.
func WritePNG(w io.Writer, records []models.ThreatRecord, side vg.Length) error {
	p, err := Scatter(records)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(side, side, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
