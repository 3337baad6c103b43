package stats

import (
	_ "embed"

	"github.com/Werneck0live/painel-alimentacao/internal/models"
)

//go:embed content/recomendacoes.md
var recommendationsMD string

const (
	PageTitle     = "📊 Análise de Estabelecimentos no Setor de Alimentação"
	HeadlineLabel = "Empresas Ativas no Setor de Alimentação"
	FooterNote    = "Este dashboard foi gerado com base em dados públicos da Receita Federal e representa uma análise exploratória do setor de alimentação no Brasil."

	ActiveCompanies = 12586
)

// Chaves das tabelas; também usadas como id de seção e nome de gráfico.
const (
	KeyByState      = "uf"
	KeyByCategory   = "cnae"
	KeyByYear       = "ano"
	KeyDeactivation = "motivos"
	KeyLowActivity  = "cidades"
)

const countColumn = "Qtd_Empresas"

// Os literais abaixo nunca são expostos diretamente: Builtin devolve cópias.
var (
	byState = []models.Row{
		{Label: "SP", Count: 2500}, {Label: "MG", Count: 1800}, {Label: "RJ", Count: 1600},
		{Label: "BA", Count: 1100}, {Label: "PR", Count: 950}, {Label: "RS", Count: 900},
		{Label: "SC", Count: 850}, {Label: "PE", Count: 800}, {Label: "CE", Count: 700},
		{Label: "PA", Count: 650},
	}

	byCategory = []models.Row{
		{Label: "Lanchonetes", Count: 3753},
		{Label: "Restaurantes", Count: 3333},
		{Label: "Fornecimento domiciliar", Count: 2951},
		{Label: "Bares com entretenimento", Count: 1083},
		{Label: "Padarias e confeitarias", Count: 797},
		{Label: "Bares sem entretenimento", Count: 669},
	}

	// 2005..2023, em ordem cronológica
	byYear = []models.Row{
		{Label: "2005", Count: 50}, {Label: "2006", Count: 80}, {Label: "2007", Count: 120},
		{Label: "2008", Count: 170}, {Label: "2009", Count: 200}, {Label: "2010", Count: 240},
		{Label: "2011", Count: 310}, {Label: "2012", Count: 420}, {Label: "2013", Count: 510},
		{Label: "2014", Count: 680}, {Label: "2015", Count: 740}, {Label: "2016", Count: 900},
		{Label: "2017", Count: 1100}, {Label: "2018", Count: 1250}, {Label: "2019", Count: 1400},
		{Label: "2020", Count: 1600}, {Label: "2021", Count: 1300}, {Label: "2022", Count: 1250},
		{Label: "2023", Count: 1100},
	}

	deactivation = []models.Row{
		{Label: "OMISSAO DE DECLARACOES", Count: 135593},
		{Label: "INAPTIDAO (LEI 11.941/2009 ART.54)", Count: 51021},
		{Label: "REGISTRO CANCELADO", Count: 23117},
		{Label: "OMISSAO CONTUMAZ", Count: 10269},
		{Label: "EXTINCAO - TRATAMENTO DIFERENCIADO DADO AS ME", Count: 5237},
		{Label: "OBITO DO MEI - TITULAR FALECIDO", Count: 4156},
		{Label: "BAIXA DE PRODUTOR RURAL", Count: 2018},
	}

	lowActivity = []models.Row{
		{Label: "IRACEMINHA", Count: 1}, {Label: "MONTIVIDIU", Count: 1}, {Label: "MATUPA", Count: 1},
		{Label: "JUTI", Count: 1}, {Label: "ITAITINGA", Count: 1}, {Label: "SAO SEBASTIAO DO UATUMA", Count: 1},
	}
)

func dataset(key, title, labelCol string, rows []models.Row) models.Dataset {
	return models.Dataset{
		Key:         key,
		Title:       title,
		LabelColumn: labelCol,
		CountColumn: countColumn,
		Rows:        append([]models.Row(nil), rows...),
	}
}

// Builtin monta um Snapshot novo a cada chamada a partir dos literais.
func Builtin() *models.Snapshot {
	return &models.Snapshot{
		Title:           PageTitle,
		HeadlineLabel:   HeadlineLabel,
		ActiveCompanies: ActiveCompanies,
		ByState:         dataset(KeyByState, "🗺️ Estados com mais Empresas Ativas", "UF", byState),
		ByCategory:      dataset(KeyByCategory, "🍽️ CNAEs mais Comuns no Setor", "CNAE_Descricao", byCategory),
		ByYear:          dataset(KeyByYear, "📈 Evolução de Empresas Abertas por Ano", "Ano", byYear),
		Deactivation:    dataset(KeyDeactivation, "📉 Principais Motivos de Baixa ou Inatividade", "Motivo", deactivation),
		LowActivity:     dataset(KeyLowActivity, "🏙️ Cidades com Menos Estabelecimentos Ativos", "Município", lowActivity),
		Recommendations: recommendationsMD,
		Footer:          FooterNote,
	}
}

// RecommendationsHeading é o título da seção narrativa.
const RecommendationsHeading = "Recomendações para manter os dados sempre atualizados"
