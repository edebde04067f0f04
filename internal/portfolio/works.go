package portfolio

import (
	"context"
	"errors"

	"github.com/folio-studio/portfolio-api/internal/storage"
)

// WorkInput carries the editable fields of a work. Empty fields are left unchanged on update.
type WorkInput struct {
	Title       string
	Description string
	CategoryID  string
}

const defaultWorkAlt = "Work image"

func (s *Service) ListWorks(ctx context.Context) ([]Work, error) {
	works, err := s.works.List(ctx, false)
	if err != nil {
		return nil, err
	}
	idx, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}
	for i := range works {
		works[i].Category = idx[works[i].CategoryID]
	}
	return works, nil
}

func (s *Service) GetWork(ctx context.Context, id string) (*Work, error) {
	w, err := s.works.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("work", id)
		}
		return nil, err
	}
	if c, err := s.categories.Get(ctx, w.CategoryID); err == nil {
		w.Category = c
	}
	return w, nil
}

// CreateWork stores a new work. The image is required.
func (s *Service) CreateWork(ctx context.Context, in WorkInput, img *storage.Upload) (*Work, error) {
	if img == nil {
		return nil, invalid("Image file is required")
	}
	if trimmed(in.Title) == "" {
		return nil, invalid("Title is required")
	}
	if trimmed(in.CategoryID) == "" {
		return nil, invalid("Category is required")
	}
	cat, err := s.requireCategory(ctx, trimmed(in.CategoryID))
	if err != nil {
		return nil, err
	}

	image, err := s.upload(ctx, WorksFolder, img, "")
	if err != nil {
		return nil, err
	}
	if image.Alt == "" {
		image.Alt = defaultWorkAlt
	}

	now := s.now()
	w := &Work{
		ID:          newID(),
		Title:       trimmed(in.Title),
		Description: in.Description,
		CategoryID:  cat.ID,
		Image:       image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.works.Insert(ctx, w.ID, w); err != nil {
		s.dropAsset(image)
		return nil, err
	}
	w.Category = cat
	return w, nil
}

// UpdateWork applies non-empty fields and optionally replaces the image.
func (s *Service) UpdateWork(ctx context.Context, id string, in WorkInput, img *storage.Upload) (*Work, error) {
	w, err := s.works.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("work", id)
		}
		return nil, err
	}
	if t := trimmed(in.Title); t != "" {
		w.Title = t
	}
	if in.Description != "" {
		w.Description = in.Description
	}
	if cid := trimmed(in.CategoryID); cid != "" {
		if _, err := s.requireCategory(ctx, cid); err != nil {
			return nil, err
		}
		w.CategoryID = cid
	}

	previous := w.Image
	var fresh *Image
	if img != nil {
		if fresh, err = s.upload(ctx, WorksFolder, img, ""); err != nil {
			return nil, err
		}
		w.Image = fresh
	}
	w.UpdatedAt = s.now()

	if err := s.works.Replace(ctx, id, w); err != nil {
		s.dropAsset(fresh)
		return nil, err
	}
	if fresh != nil {
		s.dropAsset(previous)
	}
	if c, err := s.categories.Get(ctx, w.CategoryID); err == nil {
		w.Category = c
	}
	return w, nil
}

// DeleteWork removes the work and then its image.
func (s *Service) DeleteWork(ctx context.Context, id string) error {
	w, err := s.works.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound("work", id)
		}
		return err
	}
	if err := s.works.Delete(ctx, id); err != nil {
		return err
	}
	s.dropAsset(w.Image)
	return nil
}
