package portfolio

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// ValidationError is a client error with a user-facing message.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// Store persists one entity kind keyed by `_id`.
type Store[T any] interface {
	Insert(ctx context.Context, id string, v *T) error
	Get(ctx context.Context, id string) (*T, error)
	// List returns all entities in insertion order, or by createdAt descending when newestFirst.
	List(ctx context.Context, newestFirst bool) ([]T, error)
	Replace(ctx context.Context, id string, v *T) error
	Delete(ctx context.Context, id string) error
	// FindBy returns the first entity whose string field equals value, or ErrNotFound.
	FindBy(ctx context.Context, field, value string) (*T, error)
}
