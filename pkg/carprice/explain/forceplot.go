package explain

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"math"
	"sort"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
)

const (
	plotWidth     = 800
	plotMargin    = 40
	barY          = 50
	barHeight     = 26
	minPlotHeight = 140
	minLabelWidth = 70

	colorIncrease = "#ff0d57"
	colorDecrease = "#1e88e5"
)

var forcePlotTmpl = template.Must(template.New("forceplot").Parse(`<div class="force-plot">
<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" role="img" aria-label="force plot">
  <line x1="{{.Margin}}" y1="{{.AxisY}}" x2="{{.AxisEnd}}" y2="{{.AxisY}}" stroke="#999" />
  {{- range .Ticks}}
  <line x1="{{printf "%.1f" .X}}" y1="{{$.AxisY}}" x2="{{printf "%.1f" .X}}" y2="{{$.TickEnd}}" stroke="#999" />
  <text x="{{printf "%.1f" .X}}" y="{{$.TickLabelY}}" font-size="11" text-anchor="middle" fill="#666">{{printf "%.2f" .Value}}</text>
  {{- end}}
  {{- range .Segments}}
  <rect x="{{printf "%.1f" .X}}" y="{{$.BarY}}" width="{{printf "%.1f" .W}}" height="{{$.BarHeight}}" fill="{{.Color}}" stroke="#fff">
    <title>{{.Feature}} = {{printf "%g" .Value}} ({{printf "%+.3f" .Contribution}})</title>
  </rect>
  {{- if .ShowLabel}}
  <text x="{{printf "%.1f" .Center}}" y="{{$.LabelY}}" font-size="11" text-anchor="middle" fill="{{.Color}}">{{.Feature}} = {{printf "%g" .Value}}</text>
  {{- end}}
  {{- end}}
  <line x1="{{printf "%.1f" .BaseX}}" y1="20" x2="{{printf "%.1f" .BaseX}}" y2="{{.AxisY}}" stroke="#666" stroke-dasharray="4 3" />
  <text x="{{printf "%.1f" .BaseX}}" y="16" font-size="11" text-anchor="middle" fill="#666">base value {{printf "%.2f" .Baseline}}</text>
  <text x="{{printf "%.1f" .OutX}}" y="{{.OutLabelY}}" font-size="13" font-weight="bold" text-anchor="middle">f(x) = {{printf "%.2f" .Output}}</text>
</svg>
<table class="attributions">
  <thead><tr><th>Feature</th><th>Value</th><th>Contribution</th></tr></thead>
  <tbody>
  {{- range .Ranked}}
    <tr><td>{{.Feature}}</td><td>{{printf "%g" .Value}}</td><td>{{printf "%+.3f" .Contribution}}</td></tr>
  {{- end}}
  </tbody>
</table>
</div>`))

type segment struct {
	dal.Attribution
	X, W      float64
	Color     string
	ShowLabel bool
}

func (s segment) Center() float64 { return s.X + s.W/2 }

type tick struct {
	X, Value float64
}

type plotData struct {
	Width, Height, Margin, AxisEnd int
	BarY, BarHeight                int
	AxisY, TickEnd, TickLabelY     int
	LabelY, OutLabelY              int
	BaseX, OutX, Baseline, Output  float64
	Segments                       []segment
	Ticks                          []tick
	Ranked                         []dal.Attribution
}

// RenderForcePlot draws view as an inline SVG force plot followed by a table
// of the attributions. Features pushing the price up are stacked in red to
// the left of the output, features pushing it down in blue to the right.
func RenderForcePlot(view *AttributionView, height int) (template.HTML, error) {
	if view == nil {
		return "", &ExplanationError{Err: errors.New("nothing to render")}
	}
	if height < minPlotHeight {
		height = minPlotHeight
	}

	var pos, neg []dal.Attribution
	var sumPos, sumNeg float64
	for _, r := range view.Rows {
		switch {
		case r.Contribution > 0:
			pos = append(pos, r)
			sumPos += r.Contribution
		case r.Contribution < 0:
			neg = append(neg, r)
			sumNeg -= r.Contribution
		}
	}
	// the largest pushes sit next to the output marker
	sort.SliceStable(pos, func(i, j int) bool { return pos[i].Contribution < pos[j].Contribution })
	sort.SliceStable(neg, func(i, j int) bool { return neg[i].Contribution < neg[j].Contribution })

	lo := math.Min(view.Output-sumPos, view.Baseline)
	hi := math.Max(view.Output+sumNeg, view.Baseline)
	if hi-lo == 0 {
		lo, hi = lo-0.5, hi+0.5
	}
	pad := (hi - lo) * 0.1
	lo, hi = lo-pad, hi+pad

	inner := float64(plotWidth - 2*plotMargin)
	x := func(v float64) float64 { return plotMargin + (v-lo)/(hi-lo)*inner }

	axisY := barY + barHeight + 30
	data := plotData{
		Width:      plotWidth,
		Height:     height,
		Margin:     plotMargin,
		AxisEnd:    plotWidth - plotMargin,
		BarY:       barY,
		BarHeight:  barHeight,
		AxisY:      axisY,
		TickEnd:    axisY + 5,
		TickLabelY: axisY + 18,
		LabelY:     barY + barHeight + 16,
		OutLabelY:  barY - 6,
		BaseX:      x(view.Baseline),
		OutX:       x(view.Output),
		Baseline:   view.Baseline,
		Output:     view.Output,
		Ranked:     view.Ranked(),
	}

	cursor := view.Output - sumPos
	for _, r := range pos {
		data.Segments = append(data.Segments, newSegment(r, x(cursor), x(cursor+r.Contribution), colorIncrease))
		cursor += r.Contribution
	}
	cursor = view.Output
	for _, r := range neg {
		data.Segments = append(data.Segments, newSegment(r, x(cursor), x(cursor-r.Contribution), colorDecrease))
		cursor -= r.Contribution
	}

	const nTicks = 5
	for i := 0; i < nTicks; i++ {
		v := lo + (hi-lo)*float64(i)/float64(nTicks-1)
		data.Ticks = append(data.Ticks, tick{X: x(v), Value: v})
	}

	var buf bytes.Buffer
	if err := forcePlotTmpl.Execute(&buf, data); err != nil {
		return "", &ExplanationError{Err: fmt.Errorf("render force plot: %w", err)}
	}
	return template.HTML(buf.String()), nil
}

func newSegment(r dal.Attribution, from, to float64, color string) segment {
	w := to - from
	return segment{Attribution: r, X: from, W: w, Color: color, ShowLabel: w >= minLabelWidth}
}
