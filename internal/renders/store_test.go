package renders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestStoreNoopWithoutCollection(t *testing.T) {
	s := NewStore(nil)
	rec := &Record{CVID: "primary", Status: StatusOK}
	require.NoError(t, s.Save(context.Background(), rec))

	got, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, got)

	var nilStore *Store
	require.NoError(t, nilStore.Save(context.Background(), rec))
}

func TestStoreMongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		s := NewStore(mt.Coll)

		rec := &Record{CVID: "primary", Status: StatusOK, Bytes: 1024, DurationMs: 900}
		require.NoError(t, s.Save(context.Background(), rec))
		require.NotEmpty(t, rec.RenderID)
		require.False(t, rec.CreatedAt.IsZero())
	})

	mt.Run("recent decodes", func(mt *mtest.T) {
		now := time.Now().UTC().Truncate(time.Millisecond)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "portfolio.cv_renders", mtest.FirstBatch,
			bson.D{{Key: "renderId", Value: "r2"}, {Key: "cvId", Value: "primary"}, {Key: "status", Value: StatusError}, {Key: "error", Value: "timeout"}, {Key: "createdAt", Value: now}},
			bson.D{{Key: "renderId", Value: "r1"}, {Key: "cvId", Value: "primary"}, {Key: "status", Value: StatusOK}, {Key: "bytes", Value: 2048}, {Key: "createdAt", Value: now.Add(-time.Minute)}},
		))
		s := NewStore(mt.Coll)

		got, err := s.Recent(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "r2", got[0].RenderID)
		require.Equal(t, "timeout", got[0].Error)
		require.Equal(t, 2048, got[1].Bytes)
	})
}
