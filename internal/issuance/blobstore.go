package issuance

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"veridoc/pkg/platform/sentinel"
)

// BlobStore archives the original file of an issued document and serves it
// back for download. The locator is recorded in the registry so verifiers
// can retrieve the original later.
//
// Get returns sentinel.ErrNotFound when no blob exists for the locator.
type BlobStore interface {
	Save(ctx context.Context, locator string, content []byte) error
	Get(ctx context.Context, locator string) ([]byte, error)
}

// FSBlobStore keeps blobs under a base directory. Locators are relative
// paths inside that directory.
type FSBlobStore struct {
	dir string
}

// NewFSBlobStore creates the base directory if needed.
func NewFSBlobStore(dir string) (*FSBlobStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &FSBlobStore{dir: dir}, nil
}

func (s *FSBlobStore) Save(_ context.Context, locator string, content []byte) error {
	path := filepath.Join(s.dir, filepath.Clean(locator))
	if err := os.WriteFile(path, content, 0o640); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

func (s *FSBlobStore) Get(_ context.Context, locator string) ([]byte, error) {
	path := filepath.Join(s.dir, filepath.Clean(locator))
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return content, nil
}

// MemoryBlobStore keeps blobs in a map. Used in tests and development.
type MemoryBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Save(_ context.Context, locator string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(content))
	copy(stored, content)
	s.blobs[locator] = stored
	return nil
}

func (s *MemoryBlobStore) Get(_ context.Context, locator string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.blobs[locator]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}
