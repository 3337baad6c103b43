//go:build integration
// +build integration

package repository

/*
	Para Rodar: go test -tags=integration -v ./internal/repository -run TestSnapshotRepository_Integration -count=1

	obs: Rodar todos os de integração: go test -tags=integration -v ./... -count=1
*/

import (
	"context"
	"errors"
	"testing"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Werneck0live/painel-alimentacao/internal/db"
	"github.com/Werneck0live/painel-alimentacao/internal/stats"
)

// Exercita: Load (vazio) -> Upsert (cria) -> Load -> Upsert (atualiza) -> Delete
func TestSnapshotRepository_Integration_UpsertLoadDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Sobe Mongo real
	mongoC, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() { _ = tc.TerminateContainer(mongoC) })

	uri, err := mongoC.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("conn string: %v", err)
	}

	client, err := db.NewMongoClient(uri)
	if err != nil {
		t.Fatalf("mongo client: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	repo := NewSnapshotRepository(client.Database("testdb"), "")

	// 1) Load sem documento
	if _, err := repo.Load(ctx); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("load empty: want ErrSnapshotNotFound, got %v", err)
	}

	// 2) Upsert cria
	created, err := repo.Upsert(ctx, stats.Builtin())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Fatal("first upsert should create")
	}
	first, err := repo.UpdatedAt(ctx)
	if err != nil {
		t.Fatalf("updated_at: %v", err)
	}

	// 3) Load devolve o mesmo conteúdo e passa na validação
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := stats.Validate(got); err != nil {
		t.Fatalf("loaded snapshot invalid: %v", err)
	}
	if got.ActiveCompanies != 12586 || len(got.ByYear.Rows) != 19 || got.ByYear.Rows[0].Label != "2005" {
		t.Fatalf("load mismatch: %#v", got)
	}
	if got.Recommendations != stats.Builtin().Recommendations {
		t.Fatal("recommendations text changed on round trip")
	}

	// 4) Upsert de novo: idempotente, não cria
	created, err = repo.Upsert(ctx, stats.Builtin())
	if err != nil || created {
		t.Fatalf("second upsert: created=%v err=%v", created, err)
	}
	second, err := repo.UpdatedAt(ctx)
	if err != nil || second.Before(first) {
		t.Fatalf("updated_at went backwards: first=%v second=%v err=%v", first, second, err)
	}

	// 5) Delete
	if err := deleteSnapshot(ctx, repo); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := deleteSnapshot(ctx, repo); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("delete twice: want ErrSnapshotNotFound, got %v", err)
	}
}

// deleteSnapshot remove o documento do repo (limpeza entre testes).
func deleteSnapshot(ctx context.Context, r *SnapshotRepository) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": r.id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}
