package portfolio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/folio-studio/portfolio-api/internal/storage"
	"github.com/stretchr/testify/require"
)

func upload(name string) *storage.Upload {
	return &storage.Upload{Filename: name, ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}
}

type failingInsert[T any] struct {
	Store[T]
}

func (failingInsert[T]) Insert(ctx context.Context, id string, v *T) error {
	return errors.New("write concern timeout")
}

type brokenAssets struct{}

func (brokenAssets) Upload(ctx context.Context, folder string, up storage.Upload) (storage.Asset, error) {
	return storage.Asset{}, fmt.Errorf("%w: bucket quota exceeded", storage.ErrUpload)
}

func (brokenAssets) Delete(ctx context.Context, publicID string) error { return nil }

func newTestService(assets storage.AssetStore) *Service {
	svc := NewMemoryService(assets)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	svc.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return svc
}

func validationMsg(t *testing.T, err error) string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Msg
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(storage.NewMemoryStore("http://assets.test"))

	_, err := svc.CreateCategory(ctx, "  ")
	require.Equal(t, "Category name is required", validationMsg(t, err))

	web, err := svc.CreateCategory(ctx, "Web")
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, "Web")
	require.Equal(t, "Category already exists", validationMsg(t, err))
	require.True(t, errors.Is(err, ErrDuplicate))

	upd, err := svc.UpdateCategory(ctx, web.ID, "Web design")
	require.NoError(t, err)
	require.Equal(t, "Web design", upd.Name)
	require.True(t, upd.UpdatedAt.After(upd.CreatedAt))

	_, err = svc.UpdateCategory(ctx, "missing", "x")
	require.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, svc.DeleteCategory(ctx, web.ID))
	require.True(t, errors.Is(svc.DeleteCategory(ctx, web.ID), ErrNotFound))
}

func TestWorks_CreateValidatesAndPopulates(t *testing.T) {
	ctx := context.Background()
	assets := storage.NewMemoryStore("http://assets.test")
	svc := newTestService(assets)
	cat, err := svc.CreateCategory(ctx, "Print")
	require.NoError(t, err)

	_, err = svc.CreateWork(ctx, WorkInput{Title: "Poster", CategoryID: cat.ID}, nil)
	require.Equal(t, "Image file is required", validationMsg(t, err))

	_, err = svc.CreateWork(ctx, WorkInput{Title: "Poster", CategoryID: "nope"}, upload("p.png"))
	require.Equal(t, "Invalid category", validationMsg(t, err))
	require.Equal(t, 0, assets.Len())

	w, err := svc.CreateWork(ctx, WorkInput{Title: "Poster", CategoryID: cat.ID}, upload("p.png"))
	require.NoError(t, err)
	require.Equal(t, "p.png", w.Image.Alt)
	require.True(t, strings.HasPrefix(w.Image.PublicID, WorksFolder+"/"))
	require.Equal(t, "Print", w.Category.Name)

	list, err := svc.ListWorks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, cat.ID, list[0].Category.ID)
}

func TestWorks_UpdateReplacesImage(t *testing.T) {
	ctx := context.Background()
	assets := storage.NewMemoryStore("http://assets.test")
	svc := newTestService(assets)
	cat, _ := svc.CreateCategory(ctx, "Print")
	w, err := svc.CreateWork(ctx, WorkInput{Title: "Poster", CategoryID: cat.ID}, upload("old.png"))
	require.NoError(t, err)
	oldID := w.Image.PublicID

	upd, err := svc.UpdateWork(ctx, w.ID, WorkInput{Description: "A3"}, upload("new.png"))
	require.NoError(t, err)
	require.Equal(t, "Poster", upd.Title)
	require.Equal(t, "A3", upd.Description)
	require.NotEqual(t, oldID, upd.Image.PublicID)

	_, _, ok := assets.Get(oldID)
	require.False(t, ok)
	require.Equal(t, 1, assets.Len())

	require.NoError(t, svc.DeleteWork(ctx, w.ID))
	require.Equal(t, 0, assets.Len())
	_, err = svc.GetWork(ctx, w.ID)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestWorks_InsertFailureRemovesUpload(t *testing.T) {
	ctx := context.Background()
	assets := storage.NewMemoryStore("http://assets.test")
	svc := newTestService(assets)
	svc.works = failingInsert[Work]{Store: svc.works}
	cat, _ := svc.CreateCategory(ctx, "Print")

	_, err := svc.CreateWork(ctx, WorkInput{Title: "Poster", CategoryID: cat.ID}, upload("p.png"))
	require.Error(t, err)
	require.Equal(t, 0, assets.Len())
}

func TestWorks_UploadFailure(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(brokenAssets{})
	cat, _ := svc.CreateCategory(ctx, "Print")

	_, err := svc.CreateWork(ctx, WorkInput{Title: "Poster", CategoryID: cat.ID}, upload("p.png"))
	require.True(t, errors.Is(err, storage.ErrUpload))
	require.Contains(t, err.Error(), "bucket quota exceeded")

	list, err := svc.ListWorks(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSkills(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(storage.NewMemoryStore("http://assets.test"))
	lvl := 150

	goSkill, err := svc.CreateSkill(ctx, SkillInput{Name: "Go", Level: &lvl})
	require.NoError(t, err)
	require.Equal(t, 100, goSkill.Level)

	_, err = svc.CreateSkill(ctx, SkillInput{Name: "Go"})
	require.Equal(t, "Skill already exists", validationMsg(t, err))

	_, err = svc.CreateSkill(ctx, SkillInput{Name: "Rust", CategoryID: "nope"})
	require.Equal(t, "Invalid category", validationMsg(t, err))

	cat, _ := svc.CreateCategory(ctx, "Backend")
	sql, err := svc.CreateSkill(ctx, SkillInput{Name: "SQL", CategoryID: cat.ID})
	require.NoError(t, err)
	require.Equal(t, 0, sql.Level)
	require.Equal(t, "Backend", sql.Category.Name)

	list, err := svc.ListSkills(ctx)
	require.NoError(t, err)
	require.Equal(t, "SQL", list[0].Name)
	require.Equal(t, "Go", list[1].Name)

	sk, err := svc.AdjustSkill(ctx, goSkill.ID, 5)
	require.NoError(t, err)
	require.Equal(t, 100, sk.Level)
	sk, err = svc.AdjustSkill(ctx, sql.ID, -3)
	require.NoError(t, err)
	require.Equal(t, 0, sk.Level)
	sk, err = svc.AdjustSkill(ctx, sql.ID, 40)
	require.NoError(t, err)
	require.Equal(t, 40, sk.Level)
	sk, err = svc.AdjustSkill(ctx, sql.ID, math.MaxInt)
	require.NoError(t, err)
	require.Equal(t, 100, sk.Level)
	sk, err = svc.AdjustSkill(ctx, sql.ID, math.MinInt)
	require.NoError(t, err)
	require.Equal(t, 0, sk.Level)
	sk, err = svc.AdjustSkill(ctx, sql.ID, 40)
	require.NoError(t, err)
	require.Equal(t, 40, sk.Level)

	neg := -7
	sk, err = svc.UpdateSkill(ctx, sql.ID, SkillInput{Level: &neg})
	require.NoError(t, err)
	require.Equal(t, 0, sk.Level)
	require.Equal(t, "SQL", sk.Name)

	_, err = svc.UpdateSkill(ctx, sql.ID, SkillInput{Name: "Go"})
	require.Equal(t, "Skill already exists", validationMsg(t, err))

	require.NoError(t, svc.DeleteSkill(ctx, sql.ID))
	_, err = svc.GetSkill(ctx, sql.ID)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestReviews(t *testing.T) {
	ctx := context.Background()
	assets := storage.NewMemoryStore("http://assets.test")
	svc := newTestService(assets)

	_, err := svc.CreateReview(ctx, ReviewInput{Name: "Ann"}, nil)
	require.Equal(t, "Name and message are required", validationMsg(t, err))

	first, err := svc.CreateReview(ctx, ReviewInput{Name: "Ann", Message: "Great work"}, nil)
	require.NoError(t, err)
	require.Nil(t, first.Image)

	second, err := svc.CreateReview(ctx, ReviewInput{Name: "Bob", Message: "Fast"}, upload("bob.jpg"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(second.Image.PublicID, ReviewsFolder+"/"))

	list, err := svc.ListReviews(ctx)
	require.NoError(t, err)
	require.Equal(t, "Bob", list[0].Name)

	upd, err := svc.UpdateReview(ctx, first.ID, ReviewInput{Message: "Great work, again"}, upload("ann.jpg"))
	require.NoError(t, err)
	require.Equal(t, "Ann", upd.Name)
	require.NotNil(t, upd.Image)
	require.Equal(t, 2, assets.Len())

	require.NoError(t, svc.DeleteReview(ctx, second.ID))
	require.Equal(t, 1, assets.Len())
	require.True(t, errors.Is(svc.DeleteReview(ctx, second.ID), ErrNotFound))
}
