package promptgen

import (
	"context"
	"sync"
)

// MemoryStore is an in-process ArtifactStore, useful for tests and dry runs.
type MemoryStore struct {
	files  map[string]*GeneratedFile
	mu     sync.RWMutex
	closed bool
}

// MemoryStoreDriver is the driver for creating MemoryStore instances.
type MemoryStoreDriver struct{}

func init() {
	RegisterStoreDriver(StoreDriverNameMemory, &MemoryStoreDriver{})
}

// Open creates a new MemoryStore. The connection string is ignored.
func (d *MemoryStoreDriver) Open(connectionString string) (ArtifactStore, error) {
	return NewMemoryStore(), nil
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]*GeneratedFile)}
}

func memoryKey(namespace, typeName string) string {
	return namespace + "\x00" + typeName
}

// Put stores a copy of file unless an identical fingerprint is stored.
func (s *MemoryStore) Put(ctx context.Context, file GeneratedFile) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateGeneratedFile(file); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrStoreClosed
	}
	key := memoryKey(file.Namespace, file.TypeName)
	if existing, ok := s.files[key]; ok && existing.Fingerprint == file.Fingerprint {
		return false, nil
	}
	s.files[key] = copyGeneratedFile(file)
	return true, nil
}

// Get returns a copy of the stored artifact.
func (s *MemoryStore) Get(ctx context.Context, namespace, typeName string) (*GeneratedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	f, ok := s.files[memoryKey(namespace, typeName)]
	if !ok {
		return nil, newArtifactNotFoundError(namespace, typeName)
	}
	return copyGeneratedFile(*f), nil
}

// List returns copies of the stored artifacts.
func (s *MemoryStore) List(ctx context.Context, namespace string) ([]*GeneratedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	out := make([]*GeneratedFile, 0, len(s.files))
	for _, f := range s.files {
		if namespace != "" && f.Namespace != namespace {
			continue
		}
		out = append(out, copyGeneratedFile(*f))
	}
	sortGeneratedFiles(out)
	return out, nil
}

// Close marks the store closed and drops its contents.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.files = nil
	return nil
}
