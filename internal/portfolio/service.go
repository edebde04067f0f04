package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/folio-studio/portfolio-api/internal/storage"
	"github.com/folio-studio/portfolio-api/pkg/logger"
	"github.com/google/uuid"
)

// Asset host folders per entity.
const (
	WorksFolder   = "works"
	ReviewsFolder = "reviews"
)

const cleanupTimeout = 10 * time.Second

// Service implements the portfolio content operations.
type Service struct {
	categories Store[Category]
	works      Store[Work]
	skills     Store[Skill]
	reviews    Store[Review]
	assets     storage.AssetStore
	now        func() time.Time
}

func NewService(categories Store[Category], works Store[Work], skills Store[Skill], reviews Store[Review], assets storage.AssetStore) *Service {
	return &Service{
		categories: categories,
		works:      works,
		skills:     skills,
		reviews:    reviews,
		assets:     assets,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// NewMemoryService wires every store in memory.
func NewMemoryService(assets storage.AssetStore) *Service {
	return NewService(
		NewMemoryStore[Category]("name"),
		NewMemoryStore[Work](),
		NewMemoryStore[Skill]("name"),
		NewMemoryStore[Review](),
		assets,
	)
}

func newID() string { return uuid.NewString() }

// upload stores img under folder and returns the image reference.
func (s *Service) upload(ctx context.Context, folder string, img *storage.Upload, alt string) (*Image, error) {
	asset, err := s.assets.Upload(ctx, folder, *img)
	if err != nil {
		if !errors.Is(err, storage.ErrUpload) {
			err = fmt.Errorf("%w: %v", storage.ErrUpload, err)
		}
		return nil, err
	}
	if alt == "" {
		alt = img.Filename
	}
	return &Image{URL: asset.URL, PublicID: asset.PublicID, Alt: alt}, nil
}

// dropAsset deletes an asset best-effort, detached from the request context.
func (s *Service) dropAsset(img *Image) {
	if img == nil || img.PublicID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	if err := s.assets.Delete(ctx, img.PublicID); err != nil {
		logger.Warnf("portfolio: delete of asset %s failed: %v", img.PublicID, err)
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func clampLevel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func trimmed(s string) string { return strings.TrimSpace(s) }
