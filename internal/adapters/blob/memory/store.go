package memory

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"pet-services/internal/ports/blob"
)

type entry struct {
	data        []byte
	contentType string
}

// Store guarda blobs en memoria (dev/tests).
type Store struct {
	mu      sync.RWMutex
	baseURL string
	byPath  map[string]entry
}

func NewStore(baseURL string) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		byPath:  make(map[string]entry),
	}
}

func (s *Store) Put(ctx context.Context, path, contentType string, r io.Reader) (blob.Object, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return blob.Object{}, err
	}

	s.mu.Lock()
	s.byPath[path] = entry{data: b, contentType: contentType}
	s.mu.Unlock()

	return blob.Object{
		Path:        path,
		URL:         s.baseURL + "/files/" + path,
		ContentType: contentType,
		Size:        int64(len(b)),
	}, nil
}

func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, blob.Object, error) {
	s.mu.RLock()
	e, ok := s.byPath[path]
	s.mu.RUnlock()
	if !ok {
		return nil, blob.Object{}, blob.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(e.data)), blob.Object{
		Path:        path,
		URL:         s.baseURL + "/files/" + path,
		ContentType: e.contentType,
		Size:        int64(len(e.data)),
	}, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byPath[path]; !ok {
		return blob.ErrNotFound
	}
	delete(s.byPath, path)
	return nil
}

// Has se usa en tests.
func (s *Store) Has(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byPath[path]
	return ok
}
