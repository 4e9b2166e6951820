package stats

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// Chart dimensions and styling constants control the visual appearance
// of the leaderboard chart.
const (
	// chartHeight is the rendered image height in pixels.
	chartHeight = 400
	// chartBarWidth controls the width of each user's bar.
	chartBarWidth = 60
	// titleFontSize sets the size of the chart title text.
	titleFontSize = 12.0
	// xAxisFontSize sets the size of x-axis labels.
	xAxisFontSize = 10.0
	// yAxisFontSize sets the size of y-axis labels.
	yAxisFontSize = 12.0
	// chartPadding adds space around the plot area.
	chartPadding = 30
)

// ErrEmptyChart is returned when there are no entries to render.
var ErrEmptyChart = errors.New("no leaderboard entries to chart")

// ChartBuilder renders a leaderboard as a bar chart for chat replies.
type ChartBuilder struct {
	title   string
	entries Leaderboard
}

// NewChartBuilder creates a chart builder for the top entries of a
// leaderboard. topN limits how many bars are rendered.
func NewChartBuilder(title string, leaderboard Leaderboard, topN int) *ChartBuilder {
	if topN > 0 && len(leaderboard) > topN {
		leaderboard = leaderboard[:topN]
	}

	return &ChartBuilder{
		title:   title,
		entries: leaderboard,
	}
}

// Build renders the chart to a PNG buffer.
func (b *ChartBuilder) Build() (*bytes.Buffer, error) {
	if len(b.entries) == 0 {
		return nil, ErrEmptyChart
	}

	bars := make([]chart.Value, 0, len(b.entries))
	for _, stat := range b.entries {
		bars = append(bars, chart.Value{
			Label: stat.Username,
			Value: stat.Minutes / 60.0,
		})
	}

	graph := chart.BarChart{
		Title: b.title,
		TitleStyle: chart.Style{
			FontSize: titleFontSize,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    chartPadding,
				Bottom: chartPadding,
				Left:   chartPadding,
				Right:  chartPadding,
			},
		},
		Height:   chartHeight,
		BarWidth: chartBarWidth,
		XAxis: chart.Style{
			FontSize: xAxisFontSize,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontSize: yAxisFontSize,
			},
			ValueFormatter: func(v any) string {
				if value, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f h", value)
				}

				return ""
			},
		},
		Bars: bars,
	}

	// Render chart to PNG format
	buf := new(bytes.Buffer)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("failed to render leaderboard chart: %w", err)
	}

	return buf, nil
}
