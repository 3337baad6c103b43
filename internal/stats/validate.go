package stats

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Werneck0live/painel-alimentacao/internal/models"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Validate confere as invariantes das tabelas antes de renderizar:
// contagens >= 0, rótulos únicos, anos em ordem cronológica e
// soma dos CNAEs igual ao total de empresas ativas.
func Validate(s *models.Snapshot) error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	if s.ActiveCompanies < 0 {
		return fmt.Errorf("%w: active companies must be >= 0", ErrInvalidSnapshot)
	}
	for _, d := range s.Datasets() {
		if err := validateDataset(d); err != nil {
			return err
		}
	}

	prev := 0
	for i, r := range s.ByYear.Rows {
		y, err := strconv.Atoi(r.Label)
		if err != nil {
			return fmt.Errorf("%w: %s: year %q is not a number", ErrInvalidSnapshot, s.ByYear.Key, r.Label)
		}
		if i > 0 && y <= prev {
			return fmt.Errorf("%w: %s: years out of chronological order at %d", ErrInvalidSnapshot, s.ByYear.Key, y)
		}
		prev = y
	}

	if total := s.ByCategory.Total(); total != s.ActiveCompanies {
		return fmt.Errorf("%w: %s total %d != active companies %d",
			ErrInvalidSnapshot, s.ByCategory.Key, total, s.ActiveCompanies)
	}
	return nil
}

func validateDataset(d models.Dataset) error {
	if len(d.Rows) == 0 {
		return fmt.Errorf("%w: %s: no rows", ErrInvalidSnapshot, d.Key)
	}
	seen := make(map[string]struct{}, len(d.Rows))
	for _, r := range d.Rows {
		if r.Count < 0 {
			return fmt.Errorf("%w: %s: negative count for %q", ErrInvalidSnapshot, d.Key, r.Label)
		}
		if _, dup := seen[r.Label]; dup {
			return fmt.Errorf("%w: %s: duplicate label %q", ErrInvalidSnapshot, d.Key, r.Label)
		}
		seen[r.Label] = struct{}{}
	}
	return nil
}
