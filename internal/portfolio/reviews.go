package portfolio

import (
	"context"
	"errors"

	"github.com/folio-studio/portfolio-api/internal/storage"
)

// ReviewInput carries review text. Empty fields are left unchanged on update.
type ReviewInput struct {
	Name    string
	Message string
}

// ListReviews returns reviews newest first.
func (s *Service) ListReviews(ctx context.Context) ([]Review, error) {
	return s.reviews.List(ctx, true)
}

// CreateReview stores a review with an optional image.
func (s *Service) CreateReview(ctx context.Context, in ReviewInput, img *storage.Upload) (*Review, error) {
	if trimmed(in.Name) == "" || trimmed(in.Message) == "" {
		return nil, invalid("Name and message are required")
	}
	var image *Image
	if img != nil {
		var err error
		if image, err = s.upload(ctx, ReviewsFolder, img, ""); err != nil {
			return nil, err
		}
	}
	now := s.now()
	r := &Review{ID: newID(), Name: trimmed(in.Name), Message: in.Message, Image: image, CreatedAt: now, UpdatedAt: now}
	if err := s.reviews.Insert(ctx, r.ID, r); err != nil {
		s.dropAsset(image)
		return nil, err
	}
	return r, nil
}

func (s *Service) UpdateReview(ctx context.Context, id string, in ReviewInput, img *storage.Upload) (*Review, error) {
	r, err := s.reviews.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("review", id)
		}
		return nil, err
	}
	if n := trimmed(in.Name); n != "" {
		r.Name = n
	}
	if trimmed(in.Message) != "" {
		r.Message = in.Message
	}

	previous := r.Image
	var fresh *Image
	if img != nil {
		if fresh, err = s.upload(ctx, ReviewsFolder, img, ""); err != nil {
			return nil, err
		}
		r.Image = fresh
	}
	r.UpdatedAt = s.now()
	if err := s.reviews.Replace(ctx, id, r); err != nil {
		s.dropAsset(fresh)
		return nil, err
	}
	if fresh != nil {
		s.dropAsset(previous)
	}
	return r, nil
}

func (s *Service) DeleteReview(ctx context.Context, id string) error {
	r, err := s.reviews.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound("review", id)
		}
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.dropAsset(r.Image)
	return nil
}
