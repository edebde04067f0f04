package repository

import (
	"context"
	"errors"

	"github.com/folio-studio/portfolio-api/internal/cv"
)

var (
	ErrNotFound = errors.New("cv not found")
)

// Repository stores CV records by key. Save creates or fully replaces the record.
type Repository interface {
	Get(ctx context.Context, key string) (*cv.CVDocument, error)
	Save(ctx context.Context, doc *cv.CVDocument) error
}
