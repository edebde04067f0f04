package renders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Record is the metadata of one PDF render. The PDF itself is never stored.
type Record struct {
	RenderID   string    `bson:"renderId" json:"renderId"`
	CVID       string    `bson:"cvId" json:"cvId"`
	Status     string    `bson:"status" json:"status"`
	Bytes      int       `bson:"bytes" json:"bytes"`
	DurationMs int64     `bson:"durationMs" json:"durationMs"`
	Error      string    `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// Store appends render records to a collection. A Store without a collection is a no-op.
type Store struct {
	col *mongo.Collection
}

func NewStore(col *mongo.Collection) *Store {
	return &Store{col: col}
}

// Save upserts a record by renderId, assigning an id and timestamp when missing.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if s == nil || s.col == nil {
		return nil
	}
	if rec.RenderID == "" {
		rec.RenderID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	filter := bson.M{"renderId": rec.RenderID}
	opts := options.Update().SetUpsert(true)
	if _, err := s.col.UpdateOne(ctx, filter, bson.M{"$set": rec}, opts); err != nil {
		return fmt.Errorf("save render record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int64) ([]Record, error) {
	out := []Record{}
	if s == nil || s.col == nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list render records: %w", err)
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var r Record
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, cur.Err()
}
