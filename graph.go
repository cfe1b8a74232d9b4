// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const maxticks = 40
const yticknum = 17

// createLine creates a horizontal line with a particular y value for
// a graph
func createLine(xvalues []float64, y float64, c drawing.Color) chart.ContinuousSeries {
	var yvalues []float64
	for range xvalues {
		yvalues = append(yvalues, y)
	}
	return chart.ContinuousSeries{
		XValues: xvalues,
		YValues: yvalues,
		Style: chart.Style{
			StrokeColor:     c,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
}

// Graph creates a graph of darkness against the number of iterations
// of a series, with a line marking the threshold and an annotation at
// the breakpoint (if one was found).
func Graph(s Series, bp Breakpoint, threshold float64, title string, w io.Writer) error {
	if len(s) < 1 {
		return errors.New("Not enough samples to graph")
	}

	var xvalues, yvalues []float64
	// the x range is taken from the ticks, so always start them at 0
	ticks := []chart.Tick{{Value: 0, Label: "0"}}
	var yticks []chart.Tick
	tickevery := len(s) / maxticks
	if tickevery < 1 {
		tickevery = 1
	}
	for i, v := range s {
		x := float64(v.Iterations)
		xvalues = append(xvalues, x)
		yvalues = append(yvalues, v.Darkness)
		if i%tickevery == 0 {
			ticks = append(ticks, chart.Tick{Value: x, Label: fmt.Sprintf("%d", v.Iterations)})
		}
	}
	// Make last tick the final iteration
	final := s[len(s)-1]
	ticks[len(ticks)-1] = chart.Tick{Value: float64(final.Iterations), Label: fmt.Sprintf("%d", final.Iterations)}
	for i := 0; i <= yticknum; i++ {
		n := float64(i*255) / yticknum
		yticks = append(yticks, chart.Tick{Value: n, Label: fmt.Sprintf("%.0f", n)})
	}

	mainSeries := chart.ContinuousSeries{
		Style: chart.Style{
			StrokeColor: chart.ColorBlue,
			FillColor:   chart.ColorAlternateBlue,
		},
		XValues: xvalues,
		YValues: yvalues,
	}
	// a lone sample can't be filled under, so mark it with a dot
	if len(s) == 1 {
		mainSeries.Style.FillColor = drawing.Color{}
		mainSeries.Style.DotColor = chart.ColorBlue
		mainSeries.Style.DotWidth = 5
	}

	thresholdSeries := createLine([]float64{0, float64(final.Iterations)}, threshold, chart.ColorRed)

	var annotations []chart.Value2
	annotations = append(annotations, chart.Value2{Label: fmt.Sprintf("threshold %.1f", threshold), XValue: float64(final.Iterations), YValue: threshold})
	if bp.Found() && bp.Index <= len(s) {
		b := s[bp.Index-1]
		annotations = append(annotations, chart.Value2{
			Label:  fmt.Sprintf("breakpoint %d (%.1f)", b.Iterations, bp.Magnitude),
			XValue: float64(b.Iterations),
			YValue: b.Darkness,
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1920,
		Height: 1080,
		XAxis: chart.XAxis{
			Name:  "Iterations",
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Darkness",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: 255.0,
			},
			Ticks: yticks,
		},
		Series: []chart.Series{
			mainSeries,
			thresholdSeries,
			chart.AnnotationSeries{
				Annotations: annotations,
			},
		},
	}
	return graph.Render(chart.PNG, w)
}
