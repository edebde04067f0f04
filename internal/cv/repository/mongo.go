package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/folio-studio/portfolio-api/internal/cv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo keeps CV records in a collection keyed by `_id`.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Get(ctx context.Context, key string) (*cv.CVDocument, error) {
	var d cv.CVDocument
	err := m.col.FindOne(ctx, bson.M{"_id": key}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find cv %s: %w", key, err)
	}
	d.EnsureLists()
	return &d, nil
}

func (m *MongoRepo) Save(ctx context.Context, doc *cv.CVDocument) error {
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save cv %s: %w", doc.ID, err)
	}
	return nil
}
