package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/painel-alimentacao/internal/models"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// DefaultSnapshotID é o _id do único snapshot que o painel usa.
const DefaultSnapshotID = "alimentacao"

type snapshotDoc struct {
	ID              string `bson:"_id"`
	models.Snapshot `bson:",inline"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

type snapshotSet struct {
	models.Snapshot `bson:",inline"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

type SnapshotRepository struct {
	coll *mongo.Collection
	id   string
}

func NewSnapshotRepository(db *mongo.Database, id string) *SnapshotRepository {
	if id == "" {
		id = DefaultSnapshotID
	}
	return &SnapshotRepository{coll: db.Collection("snapshots"), id: id}
}

// Upsert grava o snapshot; created indica se o documento não existia.
// created_at só é definido na primeira gravação.
func (r *SnapshotRepository) Upsert(ctx context.Context, s *models.Snapshot) (created bool, err error) {
	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": r.id},
		bson.M{
			"$set":         snapshotSet{Snapshot: *s, UpdatedAt: now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// Load satisfaz handlers.Source.
func (r *SnapshotRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	var doc snapshotDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": r.id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc.Snapshot, nil
}

// UpdatedAt satisfaz handlers.Stamped (campo updated_at do /api/report).
func (r *SnapshotRepository) UpdatedAt(ctx context.Context) (time.Time, error) {
	var doc struct {
		UpdatedAt time.Time `bson:"updated_at"`
	}
	opts := options.FindOne().SetProjection(bson.M{"updated_at": 1})
	err := r.coll.FindOne(ctx, bson.M{"_id": r.id}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return time.Time{}, ErrSnapshotNotFound
	}
	return doc.UpdatedAt, err
}
