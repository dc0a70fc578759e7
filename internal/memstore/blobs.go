package memstore

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"portfolio/internal/service"
)

type blob struct {
	data        []byte
	contentType string
	modified    time.Time
}

type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string]blob)}
}

func (s *BlobStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = blob{data: data, contentType: contentType, modified: time.Now()}
	return nil
}

func (s *BlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, service.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// Remove is a no-op for unknown keys, matching object store semantics.
func (s *BlobStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *BlobStore) List(_ context.Context, prefix string) ([]service.BlobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]service.BlobInfo, 0, len(s.blobs))
	for key, b := range s.blobs {
		if strings.HasPrefix(key, prefix) {
			out = append(out, service.BlobInfo{Key: key, Size: int64(len(b.data)), LastModified: b.modified})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Age backdates an object; used to exercise garbage collection.
func (s *BlobStore) Age(key string, by time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.blobs[key]; ok {
		b.modified = b.modified.Add(-by)
		s.blobs[key] = b
	}
}
