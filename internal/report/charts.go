package report

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Werneck0live/painel-alimentacao/internal/models"
	"github.com/Werneck0live/painel-alimentacao/internal/stats"
	"github.com/Werneck0live/painel-alimentacao/internal/utils"
)

var ErrUnknownChart = errors.New("unknown chart")

// ChartRenderer desenha as seções de gráfico como SVG.
type ChartRenderer struct {
	Width      vg.Length
	RowHeight  vg.Length // altura por barra nos gráficos horizontais
	LineHeight vg.Length
}

func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{
		Width:      10 * vg.Inch,
		RowHeight:  0.4 * vg.Inch,
		LineHeight: 4.5 * vg.Inch,
	}
}

// SVG devolve o gráfico da seção, sem o prólogo XML, pronto para ser
// embutido no HTML.
func (c *ChartRenderer) SVG(sec Section) ([]byte, error) {
	if !sec.IsChart() || sec.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChart, sec.ID)
	}

	var (
		p   *plot.Plot
		h   vg.Length
		err error
	)
	if sec.Kind == KindLineChart {
		p, err = lineChart(*sec.Data)
		h = c.LineHeight
	} else {
		p, err = barChart(*sec.Data)
		h = c.RowHeight*vg.Length(len(sec.Data.Rows)) + 1.2*vg.Inch
	}
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", sec.ID, err)
	}

	wt, err := p.WriterTo(c.Width, h, "svg")
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", sec.ID, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("chart %s: %w", sec.ID, err)
	}

	out := buf.Bytes()
	if i := bytes.Index(out, []byte("<svg")); i > 0 {
		out = out[i:]
	}
	return withTitle(out, chartSummary(sec)), nil
}

// chartSummary: "Título: A 1; B 2,500" na ordem exibida.
func chartSummary(sec Section) string {
	var b strings.Builder
	b.WriteString(sec.Heading)
	for i, r := range sec.Data.Rows {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(r.Label)
		b.WriteByte(' ')
		b.WriteString(utils.FormatThousands(r.Count))
	}
	return b.String()
}

// withTitle põe um <title> logo após a tag <svg>; o navegador o mostra
// como tooltip ao passar o mouse sobre o gráfico.
func withTitle(svg []byte, title string) []byte {
	end := bytes.IndexByte(svg, '>')
	if !bytes.HasPrefix(svg, []byte("<svg")) || end < 0 {
		return svg
	}
	out := make([]byte, 0, len(svg)+len(title)+16)
	out = append(out, svg[:end+1]...)
	out = append(out, "<title>"...)
	out = append(out, template.HTMLEscapeString(title)...)
	out = append(out, "</title>"...)
	return append(out, svg[end+1:]...)
}

// barChart: uma barra por linha, cada uma com a sua cor na escala Blues.
// As linhas chegam já ordenadas; a primeira fica na base do eixo.
func barChart(d models.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = d.CountColumn
	p.Y.Label.Text = d.LabelColumn

	grid := plotter.NewGrid()
	grid.Horizontal.Color = nil
	p.Add(grid)

	lo, hi := stats.MinMax(d.Rows)
	labels := make([]string, len(d.Rows))
	points := make(plotter.XYs, len(d.Rows))
	values := make([]string, len(d.Rows))

	for i, r := range d.Rows {
		bar, err := plotter.NewBarChart(plotter.Values{float64(r.Count)}, vg.Points(18))
		if err != nil {
			return nil, fmt.Errorf("bar %q: %w", r.Label, err)
		}
		bar.Horizontal = true
		bar.XMin = float64(i)
		bar.Color = blues(lo, hi, r.Count)
		bar.LineStyle.Width = vg.Length(0)
		p.Add(bar)

		labels[i] = r.Label
		points[i] = plotter.XY{X: float64(r.Count), Y: float64(i)}
		values[i] = utils.FormatThousands(r.Count)
	}

	valueLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: values})
	if err != nil {
		return nil, err
	}
	valueLabels.Offset = vg.Point{X: vg.Points(4)}
	for i := range valueLabels.TextStyle {
		valueLabels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(valueLabels)

	p.NominalY(labels...)
	p.X.Min = 0
	p.X.Max = float64(hi) * 1.15
	return p, nil
}

// lineChart: série anual na ordem recebida, com marcador em cada ano.
func lineChart(d models.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = d.LabelColumn
	p.Y.Label.Text = d.CountColumn

	pts := make(plotter.XYs, len(d.Rows))
	ticks := make(plot.ConstantTicks, len(d.Rows))
	for i, r := range d.Rows {
		year, err := strconv.Atoi(r.Label)
		if err != nil {
			return nil, fmt.Errorf("year %q: %w", r.Label, err)
		}
		pts[i] = plotter.XY{X: float64(year), Y: float64(r.Count)}
		ticks[i] = plot.Tick{Value: float64(year), Label: r.Label}
	}

	line, marks, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	marks.GlyphStyle.Shape = draw.CircleGlyph{}
	marks.GlyphStyle.Color = lineColor
	marks.GlyphStyle.Radius = vg.Points(3)

	p.Add(plotter.NewGrid(), line, marks)
	p.X.Tick.Marker = ticks
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Min = 0
	return p, nil
}
