package stats

import (
	"sort"

	"github.com/Werneck0live/painel-alimentacao/internal/models"
)

// SortAscending devolve uma cópia do dataset ordenada por contagem crescente.
// Empates preservam a ordem original (sort estável).
func SortAscending(d models.Dataset) models.Dataset {
	out := d.Clone()
	sort.SliceStable(out.Rows, func(i, j int) bool {
		return out.Rows[i].Count < out.Rows[j].Count
	})
	return out
}

// IsNonDecreasing informa se as contagens nunca diminuem.
func IsNonDecreasing(rows []models.Row) bool {
	for i := 1; i < len(rows); i++ {
		if rows[i].Count < rows[i-1].Count {
			return false
		}
	}
	return true
}

// MinMax devolve a menor e a maior contagem (0, 0 para dataset vazio).
func MinMax(rows []models.Row) (lo, hi int) {
	for i, r := range rows {
		if i == 0 || r.Count < lo {
			lo = r.Count
		}
		if i == 0 || r.Count > hi {
			hi = r.Count
		}
	}
	return lo, hi
}
