package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/folio-studio/portfolio-api/pkg/metrics"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore is an in-process AssetStore used when no asset host is configured.
// Objects are served back by the API under BaseURL.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{objects: map[string]memoryObject{}, baseURL: strings.TrimRight(baseURL, "/")}
}

func (m *MemoryStore) Upload(ctx context.Context, folder string, up Upload) (Asset, error) {
	if up.Body == nil {
		metrics.AssetUploads.WithLabelValues(folder, "error").Inc()
		return Asset{}, fmt.Errorf("%w: empty body", ErrUpload)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, up.Body); err != nil {
		metrics.AssetUploads.WithLabelValues(folder, "error").Inc()
		return Asset{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	key := objectKey(folder, up.Filename)
	m.mu.Lock()
	m.objects[key] = memoryObject{data: buf.Bytes(), contentType: up.ContentType}
	m.mu.Unlock()
	metrics.AssetUploads.WithLabelValues(folder, "ok").Inc()
	return Asset{URL: m.baseURL + "/" + key, PublicID: key}, nil
}

func (m *MemoryStore) Delete(ctx context.Context, publicID string) error {
	m.mu.Lock()
	delete(m.objects, publicID)
	m.mu.Unlock()
	return nil
}

// Get returns a stored object and its content type.
func (m *MemoryStore) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o.data, o.contentType, ok
}

// Len reports the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
