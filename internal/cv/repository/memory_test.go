package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/folio-studio/portfolio-api/internal/cv"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_SaveReplacesByKey(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	_, err := r.Get(ctx, cv.DefaultKey)
	require.True(t, errors.Is(err, ErrNotFound))

	first := cv.Normalize(cv.Submission{Personal: `{"name":"Ada"}`})
	first.ID = cv.DefaultKey
	require.NoError(t, r.Save(ctx, &first))

	second := cv.Normalize(cv.Submission{Personal: `{"name":"Grace"}`, Interests: `["Sailing"]`})
	second.ID = cv.DefaultKey
	require.NoError(t, r.Save(ctx, &second))

	got, err := r.Get(ctx, cv.DefaultKey)
	require.NoError(t, err)
	require.Equal(t, "Grace", got.Personal.Name)
	require.Equal(t, []string{"Sailing"}, got.Interests)
	require.Equal(t, 1, r.Len())
}

func TestMemoryRepo_FailSave(t *testing.T) {
	r := NewMemoryRepo()
	r.FailSave = errors.New("disk full")
	doc := cv.Normalize(cv.Submission{})
	doc.ID = cv.DefaultKey
	require.Error(t, r.Save(context.Background(), &doc))
	require.Equal(t, 0, r.Len())
}
