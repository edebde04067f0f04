package portfolio

import (
	"context"
	"errors"
)

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.categories.List(ctx, false)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	name = trimmed(name)
	if name == "" {
		return nil, invalid("Category name is required")
	}
	if _, err := s.categories.FindBy(ctx, "name", name); err == nil {
		return nil, &ValidationError{Msg: "Category already exists", Err: ErrDuplicate}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.now()
	c := &Category{ID: newID(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.categories.Insert(ctx, c.ID, c); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, &ValidationError{Msg: "Category already exists", Err: err}
		}
		return nil, err
	}
	return c, nil
}

// UpdateCategory renames a category. An empty name keeps the current one.
func (s *Service) UpdateCategory(ctx context.Context, id, name string) (*Category, error) {
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("category", id)
		}
		return nil, err
	}
	if name = trimmed(name); name != "" {
		c.Name = name
	}
	c.UpdatedAt = s.now()
	if err := s.categories.Replace(ctx, id, c); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, &ValidationError{Msg: "Category already exists", Err: err}
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound("category", id)
		}
		return err
	}
	return nil
}

// categoryIndex loads all categories keyed by id for populating references.
func (s *Service) categoryIndex(ctx context.Context) (map[string]*Category, error) {
	list, err := s.categories.List(ctx, false)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]*Category, len(list))
	for i := range list {
		idx[list[i].ID] = &list[i]
	}
	return idx, nil
}

// requireCategory checks that id names an existing category.
func (s *Service) requireCategory(ctx context.Context, id string) (*Category, error) {
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invalid("Invalid category")
		}
		return nil, err
	}
	return c, nil
}
