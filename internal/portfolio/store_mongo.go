package portfolio

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a Store backed by one collection.
type MongoStore[T any] struct {
	col *mongo.Collection
}

func NewMongoStore[T any](col *mongo.Collection) *MongoStore[T] {
	return &MongoStore[T]{col: col}
}

// EnsureUniqueIndex creates a unique index on field.
func (m *MongoStore[T]) EnsureUniqueIndex(ctx context.Context, field string) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}, Options: options.Index().SetUnique(true)}
	_, err := m.col.Indexes().CreateOne(ctx, idx)
	return err
}

func (m *MongoStore[T]) Insert(ctx context.Context, id string, v *T) error {
	if _, err := m.col.InsertOne(ctx, v); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert %s: %w", id, err)
	}
	return nil
}

func (m *MongoStore[T]) Get(ctx context.Context, id string) (*T, error) {
	return m.FindBy(ctx, "_id", id)
}

func (m *MongoStore[T]) List(ctx context.Context, newestFirst bool) ([]T, error) {
	opts := options.Find()
	if newestFirst {
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []T{}
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}

func (m *MongoStore[T]) Replace(ctx context.Context, id string, v *T) error {
	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": id}, v)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("replace %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore[T]) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore[T]) FindBy(ctx context.Context, field, value string) (*T, error) {
	var v T
	if err := m.col.FindOne(ctx, bson.M{field: value}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}
