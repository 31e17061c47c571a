package analytics

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"folio/internal/models"
)

// ErrNoData is returned when there is nothing meaningful to plot.
var ErrNoData = errors.New("not enough data to draw chart")

var palette = []drawing.Color{
	drawing.ColorFromHex("667eea"),
	drawing.ColorFromHex("764ba2"),
	drawing.ColorFromHex("f472b6"),
	drawing.ColorFromHex("ec4899"),
	drawing.ColorFromHex("db2777"),
}

func paletteColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

// RenderTagChart renders the tag distribution as a PNG pie chart. Tags with
// a non-positive total are left out.
func RenderTagChart(totals []TagTotal) ([]byte, error) {
	values := make([]chart.Value, 0, len(totals))
	for i, t := range totals {
		if t.Total <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", t.Tag, t.Percentage),
			Value: float64(t.Total),
			Style: chart.Style{FillColor: paletteColor(i)},
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Title:  "Value by tag",
		Width:  600,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderReturnChart renders each investment's return percentage as a PNG
// bar chart. Negative returns draw below the zero line.
func RenderReturnChart(returns []InvestmentReturn) ([]byte, error) {
	if len(returns) == 0 {
		return nil, ErrNoData
	}

	bars := make([]chart.Value, len(returns))
	lo, hi := 0.0, 0.0
	for i, r := range returns {
		bars[i] = chart.Value{
			Label: r.Name,
			Value: r.ReturnPercentage,
			Style: chart.Style{FillColor: paletteColor(i), StrokeColor: paletteColor(i)},
		}
		lo = min(lo, r.ReturnPercentage)
		hi = max(hi, r.ReturnPercentage)
	}
	if lo == hi {
		hi = lo + 1
	}

	width := max(600, 120*len(bars))
	graph := chart.BarChart{
		Title:  "Return by investment (%)",
		Width:  width,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth:     60,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderHistoryChart renders one value line per investment as a PNG. Values
// are drawn in major units. Investments with fewer than two distinct points
// in time are skipped.
func RenderHistoryChart(investments []models.Investment, asOf time.Time) ([]byte, error) {
	series := make([]chart.Series, 0, len(investments))
	for i := range investments {
		points := ValueHistory(investments[i], asOf)
		if !points[len(points)-1].Date.After(points[0].Date) {
			continue
		}

		xValues := make([]time.Time, len(points))
		yValues := make([]float64, len(points))
		for j, p := range points {
			xValues[j] = p.Date
			yValues[j] = float64(p.Value) / 100
		}
		series = append(series, chart.TimeSeries{
			Name: investments[i].Name,
			Style: chart.Style{
				StrokeColor: paletteColor(i),
				StrokeWidth: 2,
			},
			XValues: xValues,
			YValues: yValues,
		})
	}
	if len(series) == 0 {
		return nil, ErrNoData
	}

	graph := chart.Chart{
		Title:  "Value history",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("2006-01-02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
