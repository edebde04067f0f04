package portfolio

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryStore is a Store kept in process memory, used without MongoDB and in tests.
type MemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
	// unique lists fields whose values must be unique, like a unique index
	unique []string
}

func NewMemoryStore[T any](uniqueFields ...string) *MemoryStore[T] {
	return &MemoryStore[T]{items: map[string]T{}, unique: uniqueFields}
}

func fieldValue(v interface{}, field string) (string, bool) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return "", false
	}
	val, err := bson.Raw(raw).LookupErr(field)
	if err != nil {
		return "", false
	}
	return val.StringValueOK()
}

// conflicts reports whether v collides with another entity on a unique field. Callers hold mu.
func (m *MemoryStore[T]) conflicts(id string, v *T) bool {
	for _, f := range m.unique {
		want, ok := fieldValue(v, f)
		if !ok {
			continue
		}
		for otherID, other := range m.items {
			if otherID == id {
				continue
			}
			if got, ok := fieldValue(&other, f); ok && got == want {
				return true
			}
		}
	}
	return false
}

func (m *MemoryStore[T]) Insert(ctx context.Context, id string, v *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; ok || m.conflicts(id, v) {
		return ErrDuplicate
	}
	m.items[id] = *v
	m.order = append(m.order, id)
	return nil
}

func (m *MemoryStore[T]) Get(ctx context.Context, id string) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *MemoryStore[T]) List(ctx context.Context, newestFirst bool) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (m *MemoryStore[T]) Replace(ctx context.Context, id string, v *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	if m.conflicts(id, v) {
		return ErrDuplicate
	}
	m.items[id] = *v
	return nil
}

func (m *MemoryStore[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore[T]) FindBy(ctx context.Context, field, value string) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		v := m.items[id]
		if got, ok := fieldValue(&v, field); ok && got == value {
			return &v, nil
		}
	}
	return nil, ErrNotFound
}
