// Package chart draws the insight series as bar and line charts.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/cropinsights/internal/aggregate"
)

// Kind selects which series a chart shows.
type Kind string

const (
	KindDistrict Kind = "district"
	KindShare    Kind = "share"
	KindTrend    Kind = "trend"
)

// ParseKind validates a chart kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDistrict, KindShare, KindTrend:
		return k, nil
	}
	return "", fmt.Errorf("unknown chart kind %q (want district, share or trend)", s)
}

// ErrNoData is returned for an empty series.
var ErrNoData = errors.New("no data to chart")

// Options sets the output size in inches and the image format.
type Options struct {
	WidthIn  float64
	HeightIn float64
	Format   string // png|svg
}

func (o Options) withDefaults() Options {
	if o.WidthIn <= 0 {
		o.WidthIn = 10
	}
	if o.HeightIn <= 0 {
		o.HeightIn = 6
	}
	o.Format = strings.ToLower(strings.TrimPrefix(o.Format, "."))
	if o.Format == "" {
		o.Format = "png"
	}
	return o
}

var barColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}

// Build lays out the chart for a series without rendering it.
func Build(kind Kind, pts []aggregate.Point) (*plot.Plot, error) {
	if len(pts) == 0 {
		return nil, ErrNoData
	}
	labels := make([]string, len(pts))
	for i, pt := range pts {
		labels[i] = pt.Key
		if labels[i] == "" {
			labels[i] = "(blank)"
		}
	}

	p := plot.New()
	p.Title.TextStyle.Font.Size = vg.Points(16)
	switch kind {
	case KindDistrict:
		p.Title.Text = "Production by District"
		p.X.Label.Text = "District"
		p.Y.Label.Text = "Production"
		if err := addBars(p, barValues(pts, 1)); err != nil {
			return nil, err
		}
	case KindShare:
		p.Title.Text = "Crop Share of Production"
		p.X.Label.Text = "Crop"
		p.Y.Label.Text = "Share (%)"
		total := aggregate.Total(pts)
		scale := 0.0
		if total > 0 {
			scale = 100 / total
		}
		if err := addBars(p, barValues(pts, scale)); err != nil {
			return nil, err
		}
	case KindTrend:
		p.Title.Text = "Production Trend"
		p.X.Label.Text = "Year"
		p.Y.Label.Text = "Production"
		xys := make(plotter.XYs, len(pts))
		for i, pt := range pts {
			xys[i].X = float64(i)
			xys[i].Y = pt.Value
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("trend line: %w", err)
		}
		line.Color = barColor
		line.Width = vg.Points(2)
		p.Add(line, plotter.NewGrid())
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}

	p.NominalX(labels...)
	if len(labels) > 6 {
		p.X.Tick.Label.Rotation = math.Pi / 3
		p.X.Tick.Label.YAlign = draw.YCenter
		p.X.Tick.Label.XAlign = draw.XRight
	}
	if p.Y.Min > 0 {
		p.Y.Min = 0
	}
	return p, nil
}

func barValues(pts []aggregate.Point, scale float64) plotter.Values {
	values := make(plotter.Values, len(pts))
	for i, pt := range pts {
		values[i] = pt.Value * scale
	}
	return values
}

func addBars(p *plot.Plot, values plotter.Values) error {
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	return nil
}

// Render draws the chart for pts to w.
func Render(w io.Writer, kind Kind, pts []aggregate.Point, opt Options) error {
	opt = opt.withDefaults()
	p, err := Build(kind, pts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Length(opt.WidthIn)*vg.Inch, vg.Length(opt.HeightIn)*vg.Inch, opt.Format)
	if err != nil {
		return fmt.Errorf("chart format: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
