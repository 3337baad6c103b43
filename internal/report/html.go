package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
)

type sectionView struct {
	Section
	Chart     template.HTML
	Narrative template.HTML
}

type pageView struct {
	Title    string
	Sections []sectionView
	LiveURL  string
}

// HTMLRenderer gera o painel como um documento HTML único.
type HTMLRenderer struct {
	tmpl    *template.Template
	charts  *ChartRenderer
	md      goldmark.Markdown
	liveURL string
}

// NewHTMLRenderer: liveURL é o endereço do /ws; vazio desliga o recarregamento.
func NewHTMLRenderer(charts *ChartRenderer, liveURL string) (*HTMLRenderer, error) {
	if charts == nil {
		charts = NewChartRenderer()
	}
	tmpl, err := template.New("painel").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl, charts: charts, md: goldmark.New(), liveURL: liveURL}, nil
}

// Render escreve a página inteira ou nada: qualquer falha de gráfico ou
// template aborta antes de tocar em w.
func (r *HTMLRenderer) Render(w io.Writer, page *Page) error {
	view := pageView{Title: page.Title, LiveURL: r.liveURL}

	for _, s := range page.Sections {
		sv := sectionView{Section: s}
		switch {
		case s.IsChart():
			svg, err := r.charts.SVG(s)
			if err != nil {
				return err
			}
			sv.Chart = template.HTML(svg)
		case s.Kind == KindNarrative:
			var buf bytes.Buffer
			if err := r.md.Convert([]byte(s.Text), &buf); err != nil {
				return fmt.Errorf("narrative %s: %w", s.ID, err)
			}
			sv.Narrative = template.HTML(buf.String())
		}
		view.Sections = append(view.Sections, sv)
	}

	var out bytes.Buffer
	if err := r.tmpl.Execute(&out, view); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	_, err := out.WriteTo(w)
	return err
}

const pageTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Análise - Setor de Alimentação</title>
<style>
body { font-family: "Source Sans Pro", Helvetica, Arial, sans-serif; margin: 0 auto; max-width: 1100px; padding: 24px; color: #262730; }
section { margin-bottom: 32px; }
.metric-label { font-size: 22px; font-weight: bold; margin-bottom: 10px; }
.metric-value { font-size: 48px; color: #1f77b4; font-weight: bold; }
.chart svg { width: 100%; height: auto; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #e6e9ef; padding: 6px 10px; text-align: left; }
th { background: #f0f2f6; }
.info { background: #e8f1fb; color: #0b4a8b; border-radius: 6px; padding: 14px 18px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}
<section id="{{.ID}}" class="{{.Kind}}">
{{- if eq .Kind "metric"}}
<div class="metric-label">{{.Heading}}</div>
<div class="metric-value">{{.Display}}</div>
{{- else if eq .Kind "table"}}
<h2>{{.Heading}}</h2>
<table>
<thead><tr><th>{{.Data.LabelColumn}}</th><th>{{.Data.CountColumn}}</th></tr></thead>
<tbody>
{{- range .Data.Rows}}
<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>
{{- end}}
</tbody>
</table>
{{- else if eq .Kind "narrative"}}
<h2>{{.Heading}}</h2>
<div class="narrative">{{.Narrative}}</div>
{{- else if eq .Kind "footer"}}
<div class="info">{{.Text}}</div>
{{- else}}
<h2>{{.Heading}}</h2>
<div class="chart">{{.Chart}}</div>
{{- end}}
</section>
{{end}}
{{- if .LiveURL}}
<script>
(function () {
  var ws = new WebSocket({{.LiveURL}});
  ws.onmessage = function (e) {
    try {
      if (JSON.parse(e.data).event === "snapshot_seeded") { location.reload(); }
    } catch (_) {}
  };
})();
</script>
{{- end}}
</body>
</html>
`
