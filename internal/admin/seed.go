package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Werneck0live/painel-alimentacao/internal/models"
	"github.com/Werneck0live/painel-alimentacao/internal/stats"
)

type SnapshotStore interface {
	Upsert(ctx context.Context, s *models.Snapshot) (bool, error)
}

// Idempotente: grava o snapshot literal; se já existir, só atualiza.
func SeedSnapshot(ctx context.Context, store SnapshotStore, log *slog.Logger) error {
	s := stats.Builtin()
	if err := stats.Validate(s); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	// timeout curto pra não travar o job
	ictx, cancel := context.WithTimeout(ctx, 5*time.Second)
	created, err := store.Upsert(ictx, s)
	cancel()
	if err != nil {
		return fmt.Errorf("seed upsert: %w", err)
	}

	if created {
		log.Info("seed_snapshot_created", "active_companies", s.ActiveCompanies)
	} else {
		log.Info("seed_snapshot_exists_updated", "active_companies", s.ActiveCompanies)
	}
	for _, d := range s.Datasets() {
		log.Debug("seed_dataset", "key", d.Key, "rows", len(d.Rows))
	}
	return nil
}
