// Package report monta a página do painel a partir de um Snapshot e a
// renderiza em HTML, Markdown, XLSX ou gráficos SVG avulsos.
package report

import (
	"fmt"

	"github.com/Werneck0live/painel-alimentacao/internal/models"
	"github.com/Werneck0live/painel-alimentacao/internal/stats"
	"github.com/Werneck0live/painel-alimentacao/internal/utils"
)

type SectionKind string

const (
	KindMetric    SectionKind = "metric"
	KindBarChart  SectionKind = "bar_chart"
	KindLineChart SectionKind = "line_chart"
	KindTable     SectionKind = "table"
	KindNarrative SectionKind = "narrative"
	KindFooter    SectionKind = "footer"
)

// ids das seções que não vêm de um dataset
const (
	SectionHeadline        = "headline"
	SectionRecommendations = "recomendacoes"
	SectionFooter          = "rodape"
)

type Section struct {
	ID      string          `json:"id"`
	Kind    SectionKind     `json:"kind"`
	Heading string          `json:"heading,omitempty"`
	Value   int             `json:"value,omitempty"`
	Display string          `json:"display,omitempty"` // valor formatado do indicador
	Data    *models.Dataset `json:"data,omitempty"`    // linhas já na ordem de exibição
	Text    string          `json:"text,omitempty"`
}

// IsChart informa se a seção vira um gráfico.
func (s Section) IsChart() bool {
	return s.Kind == KindBarChart || s.Kind == KindLineChart
}

type Page struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

func (p *Page) Section(id string) (Section, bool) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Build valida o snapshot e devolve as oito seções na ordem fixa:
// indicador, UF, CNAE, ano, motivos, cidades, recomendações, rodapé.
// Barras saem em ordem crescente de contagem; a série anual fica cronológica.
func Build(s *models.Snapshot) (*Page, error) {
	if err := stats.Validate(s); err != nil {
		return nil, fmt.Errorf("build page: %w", err)
	}

	bar := func(d models.Dataset) Section {
		sorted := stats.SortAscending(d)
		return Section{ID: d.Key, Kind: KindBarChart, Heading: d.Title, Data: &sorted}
	}
	byYear := s.ByYear.Clone()
	lowActivity := s.LowActivity.Clone()

	return &Page{
		Title: s.Title,
		Sections: []Section{
			{
				ID:      SectionHeadline,
				Kind:    KindMetric,
				Heading: s.HeadlineLabel,
				Value:   s.ActiveCompanies,
				Display: utils.FormatThousands(s.ActiveCompanies),
			},
			bar(s.ByState),
			bar(s.ByCategory),
			{ID: byYear.Key, Kind: KindLineChart, Heading: byYear.Title, Data: &byYear},
			bar(s.Deactivation),
			{ID: lowActivity.Key, Kind: KindTable, Heading: lowActivity.Title, Data: &lowActivity},
			{
				ID:      SectionRecommendations,
				Kind:    KindNarrative,
				Heading: stats.RecommendationsHeading,
				Text:    s.Recommendations,
			},
			{ID: SectionFooter, Kind: KindFooter, Text: s.Footer},
		},
	}, nil
}
