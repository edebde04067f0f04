package repository

import (
	"context"
	"sync"

	"github.com/folio-studio/portfolio-api/internal/cv"
)

// MemoryRepo is an in-memory Repository used when MongoDB is not configured and in tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]cv.CVDocument
	// FailSave makes Save return this error (tests only).
	FailSave error
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]cv.CVDocument)}
}

func (m *MemoryRepo) Get(ctx context.Context, key string) (*cv.CVDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.store[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := d
	return &out, nil
}

func (m *MemoryRepo) Save(ctx context.Context, doc *cv.CVDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.store[doc.ID] = *doc
	return nil
}

// Len reports the number of stored records.
func (m *MemoryRepo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}
