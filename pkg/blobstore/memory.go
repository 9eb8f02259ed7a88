package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
)

// MemoryStore is a thread-safe in-memory blob Store for tests and embedded
// use. It shares the content-addressing scheme of the MinIO store.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore returns an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
	}
}

func (s *MemoryStore) Upload(ctx context.Context, r io.Reader) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload content: %w", err)
	}

	sum := sha256.Sum256(content)
	fileID := hex.EncodeToString(sum[:])

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blobs[fileID]; !exists {
		s.blobs[fileID] = content
	}

	return fileID, nil
}

func (s *MemoryStore) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.blobs[fileID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, fileID)
	}

	return io.NopCloser(bytes.NewReader(content)), nil
}
