package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_UniqueField(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[Category]("name")

	require.NoError(t, s.Insert(ctx, "a", &Category{ID: "a", Name: "Web"}))
	err := s.Insert(ctx, "b", &Category{ID: "b", Name: "Web"})
	require.True(t, errors.Is(err, ErrDuplicate))

	require.NoError(t, s.Insert(ctx, "b", &Category{ID: "b", Name: "Print"}))
	err = s.Replace(ctx, "b", &Category{ID: "b", Name: "Web"})
	require.True(t, errors.Is(err, ErrDuplicate))

	// replacing a record with its own value is not a conflict
	require.NoError(t, s.Replace(ctx, "a", &Category{ID: "a", Name: "Web"}))
}

func TestMemoryStore_ListOrderAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[Review]()
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, s.Insert(ctx, id, &Review{ID: id, Name: "n" + id}))
	}

	list, err := s.List(ctx, false)
	require.NoError(t, err)
	require.Equal(t, "1", list[0].ID)

	list, err = s.List(ctx, true)
	require.NoError(t, err)
	require.Equal(t, []string{"3", "2", "1"}, []string{list[0].ID, list[1].ID, list[2].ID})

	require.NoError(t, s.Delete(ctx, "2"))
	require.True(t, errors.Is(s.Delete(ctx, "2"), ErrNotFound))
	_, err = s.Get(ctx, "2")
	require.True(t, errors.Is(err, ErrNotFound))

	found, err := s.FindBy(ctx, "name", "n3")
	require.NoError(t, err)
	require.Equal(t, "3", found.ID)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[Skill]()
	require.NoError(t, s.Insert(ctx, "x", &Skill{ID: "x", Name: "Go", Level: 10}))

	got, err := s.Get(ctx, "x")
	require.NoError(t, err)
	got.Level = 99

	again, err := s.Get(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, 10, again.Level)
}
