package report

/*

go test -v ./internal/report -count=1

*/

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Werneck0live/painel-alimentacao/internal/stats"
)

var wantOrder = []string{
	SectionHeadline,
	stats.KeyByState,
	stats.KeyByCategory,
	stats.KeyByYear,
	stats.KeyDeactivation,
	stats.KeyLowActivity,
	SectionRecommendations,
	SectionFooter,
}

func buildPage(t *testing.T) *Page {
	t.Helper()
	p, err := Build(stats.Builtin())
	require.NoError(t, err)
	return p
}

func TestBuild_SectionOrder(t *testing.T) {
	p := buildPage(t)

	ids := make([]string, 0, len(p.Sections))
	for _, s := range p.Sections {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, wantOrder, ids)

	kinds := []SectionKind{
		KindMetric, KindBarChart, KindBarChart, KindLineChart,
		KindBarChart, KindTable, KindNarrative, KindFooter,
	}
	for i, s := range p.Sections {
		assert.Equal(t, kinds[i], s.Kind, s.ID)
	}
}

func TestBuild_BarChartsAscending(t *testing.T) {
	p := buildPage(t)
	for _, s := range p.Sections {
		if s.Kind != KindBarChart {
			continue
		}
		assert.True(t, stats.IsNonDecreasing(s.Data.Rows), "section %s not ascending", s.ID)
	}

	uf, ok := p.Section(stats.KeyByState)
	require.True(t, ok)
	assert.Equal(t, "PA", uf.Data.Rows[0].Label)
	assert.Equal(t, "SP", uf.Data.Rows[len(uf.Data.Rows)-1].Label)
}

func TestBuild_YearlyStaysChronological(t *testing.T) {
	p := buildPage(t)
	ano, ok := p.Section(stats.KeyByYear)
	require.True(t, ok)
	require.Len(t, ano.Data.Rows, 19)

	for i, r := range ano.Data.Rows {
		assert.Equal(t, strconv.Itoa(2005+i), r.Label)
	}
	// 2020 (1600) vem antes de 2021 (1300): não foi reordenado por contagem
	assert.False(t, stats.IsNonDecreasing(ano.Data.Rows))
}

func TestBuild_HeadlineAndTable(t *testing.T) {
	p := buildPage(t)

	h, _ := p.Section(SectionHeadline)
	assert.Equal(t, 12586, h.Value)
	assert.Equal(t, "12,586", h.Display)

	cidades, _ := p.Section(stats.KeyLowActivity)
	require.Len(t, cidades.Data.Rows, 6)
	for _, r := range cidades.Data.Rows {
		assert.Equal(t, 1, r.Count)
	}
	assert.Equal(t, "IRACEMINHA", cidades.Data.Rows[0].Label)
}

func TestBuild_DoesNotMutateSnapshot(t *testing.T) {
	s := stats.Builtin()
	_, err := Build(s)
	require.NoError(t, err)
	assert.Equal(t, "SP", s.ByState.Rows[0].Label)
}

func TestBuild_InvalidSnapshot(t *testing.T) {
	s := stats.Builtin()
	s.ByCategory.Rows[0].Count = 1

	_, err := Build(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, stats.ErrInvalidSnapshot))
}

func TestChartRenderer_SVG(t *testing.T) {
	p := buildPage(t)
	c := NewChartRenderer()

	for _, s := range p.Sections {
		if !s.IsChart() {
			continue
		}
		svg, err := c.SVG(s)
		require.NoError(t, err, s.ID)
		assert.True(t, bytes.HasPrefix(svg, []byte("<svg")), "section %s", s.ID)
	}

	footer, _ := p.Section(SectionFooter)
	_, err := c.SVG(footer)
	assert.ErrorIs(t, err, ErrUnknownChart)
}

func TestHTMLRenderer_Render(t *testing.T) {
	r, err := NewHTMLRenderer(nil, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, buildPage(t)))
	html := buf.String()

	assert.Equal(t, 8, strings.Count(html, "<section "))
	assert.Contains(t, html, "12,586")
	assert.Contains(t, html, "<td>SAO SEBASTIAO DO UATUMA</td><td>1</td>")
	assert.Contains(t, html, "<strong>Automatização do pipeline de dados</strong>")
	assert.Contains(t, html, stats.FooterNote)
	assert.NotContains(t, html, "<script>")

	last := -1
	for _, id := range wantOrder {
		idx := strings.Index(html, `id="`+id+`"`)
		require.GreaterOrEqual(t, idx, 0, "missing section %s", id)
		assert.Greater(t, idx, last, "section %s out of order", id)
		last = idx
	}
}

func TestHTMLRenderer_Idempotent(t *testing.T) {
	r, err := NewHTMLRenderer(nil, "")
	require.NoError(t, err)

	var first, second bytes.Buffer
	require.NoError(t, r.Render(&first, buildPage(t)))
	require.NoError(t, r.Render(&second, buildPage(t)))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestHTMLRenderer_LiveScript(t *testing.T) {
	r, err := NewHTMLRenderer(nil, "ws://localhost:8090/ws")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, buildPage(t)))
	assert.Contains(t, buf.String(), "snapshot_seeded")
	assert.Contains(t, buf.String(), "localhost:8090")
}

// Falha no meio da renderização não escreve página parcial
func TestHTMLRenderer_NoPartialOutput(t *testing.T) {
	r, err := NewHTMLRenderer(nil, "")
	require.NoError(t, err)

	p := buildPage(t)
	p.Sections[1].Data = nil

	var buf bytes.Buffer
	require.Error(t, r.Render(&buf, p))
	assert.Zero(t, buf.Len())
}

func TestMarkdownWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownWriter(&buf).Write(buildPage(t)))
	md := buf.String()

	assert.True(t, strings.HasPrefix(md, "# "+stats.PageTitle))
	assert.Contains(t, md, "**12,586**")
	assert.Contains(t, md, "OMISSAO CONTUMAZ")
	assert.Contains(t, md, "[!NOTE]")

	iState := strings.Index(md, "## "+stats.Builtin().ByState.Title)
	iYear := strings.Index(md, "## "+stats.Builtin().ByYear.Title)
	iRec := strings.Index(md, "## "+stats.RecommendationsHeading)
	assert.True(t, iState > 0 && iState < iYear && iYear < iRec)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, buildPage(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{summarySheet, "uf", "cnae", "ano", "motivos", "cidades"}, f.GetSheetList())

	v, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "12586", v)

	rows, err := f.GetRows("uf")
	require.NoError(t, err)
	require.Len(t, rows, 11)
	assert.Equal(t, []string{"UF", "Qtd_Empresas"}, rows[0])
	assert.Equal(t, []string{"PA", "650"}, rows[1])
	assert.Equal(t, []string{"SP", "2500"}, rows[10])
}

// Cada gráfico leva um <title> com os valores, exibido como tooltip
func TestChartRenderer_HoverTitle(t *testing.T) {
	p := buildPage(t)
	c := NewChartRenderer()

	uf, _ := p.Section(stats.KeyByState)
	svg, err := c.SVG(uf)
	require.NoError(t, err)

	out := string(svg)
	open := strings.Index(out, ">")
	require.Greater(t, open, 0)
	assert.True(t, strings.HasPrefix(out[open+1:], "<title>"+uf.Heading+": PA 650; "))
	assert.Contains(t, out, "SP 2,500</title>")

	ano, _ := p.Section(stats.KeyByYear)
	svg, err = c.SVG(ano)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "2005 ")
}

func TestWithTitle_Escapes(t *testing.T) {
	got := withTitle([]byte(`<svg width="1"></svg>`), "A & B <c>")
	assert.Equal(t, `<svg width="1"><title>A &amp; B &lt;c&gt;</title></svg>`, string(got))

	// sem <svg> no início, nada muda
	assert.Equal(t, "<g/>", string(withTitle([]byte("<g/>"), "x")))
}
