package memory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"livestock-traceability/internal/ports/blob"
)

type object struct {
	data        []byte
	contentType string
}

// Store guarda los blobs en memoria. Solo para dev y tests.
type Store struct {
	mu    sync.RWMutex
	byKey map[string]object
}

func NewStore() *Store {
	return &Store{
		byKey: make(map[string]object),
	}
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts blob.PutOptions) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", fmt.Errorf("blob memory: key vacía")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("blob memory: read: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey[key] = object{data: data, contentType: opts.ContentType}

	return "memory://" + key, nil
}

// Get expone el contenido guardado; lo usan los tests.
func (s *Store) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.byKey[key]
	return obj.data, obj.contentType, ok
}
