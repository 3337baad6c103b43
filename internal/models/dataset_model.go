package models

// Row é uma linha de tabela: rótulo categórico/ordinal + contagem.
type Row struct {
	Label string `bson:"label" json:"label"`
	Count int    `bson:"count" json:"count"`
}

type Dataset struct {
	Key         string `bson:"key" json:"key"` // uf, cnae, ano, motivos, cidades
	Title       string `bson:"title" json:"title"`
	LabelColumn string `bson:"label_column" json:"label_column"`
	CountColumn string `bson:"count_column" json:"count_column"`
	Rows        []Row  `bson:"rows" json:"rows"`
}

// Clone devolve uma cópia independente (Rows não compartilha o array).
func (d Dataset) Clone() Dataset {
	out := d
	out.Rows = append([]Row(nil), d.Rows...)
	return out
}

func (d Dataset) Total() int {
	total := 0
	for _, r := range d.Rows {
		total += r.Count
	}
	return total
}

// Snapshot agrupa tudo o que o painel exibe.
type Snapshot struct {
	Title           string  `bson:"title" json:"title"`
	HeadlineLabel   string  `bson:"headline_label" json:"headline_label"`
	ActiveCompanies int     `bson:"active_companies" json:"active_companies"`
	ByState         Dataset `bson:"by_state" json:"by_state"`
	ByCategory      Dataset `bson:"by_category" json:"by_category"`
	ByYear          Dataset `bson:"by_year" json:"by_year"`
	Deactivation    Dataset `bson:"deactivation" json:"deactivation"`
	LowActivity     Dataset `bson:"low_activity" json:"low_activity"`
	Recommendations string  `bson:"recommendations" json:"recommendations"`
	Footer          string  `bson:"footer" json:"footer"`
}

// Datasets devolve as tabelas na ordem de exibição.
func (s *Snapshot) Datasets() []Dataset {
	return []Dataset{s.ByState, s.ByCategory, s.ByYear, s.Deactivation, s.LowActivity}
}
