package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/marmos91/sharefs/pkg/content"
)

// MemoryContentStore keeps blobs in a map.
//
// Data is copied on the way in and out so callers never share buffers with
// the store. Volatile: everything is lost when the process exits.
type MemoryContentStore struct {
	mu   sync.RWMutex
	data map[content.ContentID][]byte
}

// NewMemoryContentStore creates an empty store.
func NewMemoryContentStore() *MemoryContentStore {
	return &MemoryContentStore{
		data: make(map[content.ContentID][]byte),
	}
}

func (s *MemoryContentStore) ReadContent(ctx context.Context, id content.ContentID) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("content %s: %w", id, content.ErrContentNotFound)
	}

	return io.NopCloser(bytes.NewReader(bytes.Clone(data))), nil
}

func (s *MemoryContentStore) WriteContent(ctx context.Context, id content.ContentID, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return content.ErrInvalidContentID
	}

	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	s.data[id] = stored
	s.mu.Unlock()
	return nil
}

func (s *MemoryContentStore) WriteFrom(ctx context.Context, id content.ContentID, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read content %s: %w", id, err)
	}
	if err := s.WriteContent(ctx, id, data); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

func (s *MemoryContentStore) Delete(ctx context.Context, id content.ContentID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryContentStore) ContentExists(ctx context.Context, id content.ContentID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	_, ok := s.data[id]
	s.mu.RUnlock()
	return ok, nil
}

// Len returns the number of stored blobs.
func (s *MemoryContentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
