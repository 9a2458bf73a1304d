package promptgen

import (
	"context"
	"sort"
	"sync"
)

// ArtifactStore is the output set of generation: the place serialized
// artifacts are written to. Implementations must be safe for concurrent use.
type ArtifactStore interface {
	// Put stores file. It returns false without writing when an artifact
	// with the same namespace, type name and fingerprint is already stored.
	Put(ctx context.Context, file GeneratedFile) (bool, error)

	// Get returns a stored artifact.
	// The error matches ErrArtifactNotFound when it is absent.
	Get(ctx context.Context, namespace, typeName string) (*GeneratedFile, error)

	// List returns the artifacts of a namespace, or all artifacts when
	// namespace is empty, ordered by namespace then type name.
	List(ctx context.Context, namespace string) ([]*GeneratedFile, error)

	// Close releases any resources held by the store.
	Close() error
}

// StoreDriver is a factory for creating store instances.
// Drivers register themselves during init().
type StoreDriver interface {
	// Open creates a store from a driver-specific connection string.
	Open(connectionString string) (ArtifactStore, error)
}

// Store driver registry
var (
	storeDriversMu sync.RWMutex
	storeDrivers   = make(map[string]StoreDriver)
)

// RegisterStoreDriver registers a store driver by name.
// Panics if the driver is nil or the name is already registered.
func RegisterStoreDriver(name string, driver StoreDriver) {
	storeDriversMu.Lock()
	defer storeDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStoreDriver)
	}
	if _, exists := storeDrivers[name]; exists {
		panic(ErrMsgStoreDriverRegistered + ": " + name)
	}
	storeDrivers[name] = driver
}

// OpenStore opens a store using the named driver.
//
//	store, err := promptgen.OpenStore("memory", "")
//	store, err := promptgen.OpenStore("filesystem", "./internal/prompts")
func OpenStore(driverName, connectionString string) (ArtifactStore, error) {
	storeDriversMu.RLock()
	driver, ok := storeDrivers[driverName]
	storeDriversMu.RUnlock()

	if !ok {
		return nil, &StoreError{Message: ErrMsgStoreDriverNotFound, Name: driverName}
	}
	return driver.Open(connectionString)
}

// ListStoreDrivers returns the registered driver names in sorted order.
func ListStoreDrivers() []string {
	storeDriversMu.RLock()
	defer storeDriversMu.RUnlock()

	names := make([]string, 0, len(storeDrivers))
	for name := range storeDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store error message constants
const (
	ErrMsgNilStoreDriver        = "store driver is nil"
	ErrMsgStoreDriverRegistered = "store driver already registered"
	ErrMsgStoreDriverNotFound   = "store driver not found"
	ErrMsgStoreClosed           = "store is closed"
	ErrMsgArtifactNotFound      = "artifact not found"
	ErrMsgArtifactIncomplete    = "artifact needs a namespace, type name and file name"
	ErrMsgStoreWriteFailed      = "failed to write artifact file"
	ErrMsgStoreReadFailed       = "failed to read artifact file"
)

// StoreError represents a store-related error.
type StoreError struct {
	Message   string
	Namespace string
	Name      string
	Cause     error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	msg := e.Message
	switch {
	case e.Namespace != "" && e.Name != "":
		msg += ": " + e.Namespace + "." + e.Name
	case e.Name != "":
		msg += ": " + e.Name
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a StoreError with the same message, so
// callers can match errors.Is(err, ErrArtifactNotFound).
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	return ok && t.Namespace == "" && t.Name == "" && t.Message == e.Message
}

// ErrArtifactNotFound matches, via errors.Is, the error stores return for a
// missing artifact.
var ErrArtifactNotFound = &StoreError{Message: ErrMsgArtifactNotFound}

// ErrStoreClosed matches, via errors.Is, the error returned by closed stores.
var ErrStoreClosed = &StoreError{Message: ErrMsgStoreClosed}

func newArtifactNotFoundError(namespace, typeName string) error {
	return &StoreError{Message: ErrMsgArtifactNotFound, Namespace: namespace, Name: typeName}
}

func validateGeneratedFile(file GeneratedFile) error {
	if file.Namespace == "" || file.TypeName == "" || file.FileName == "" {
		return &StoreError{Message: ErrMsgArtifactIncomplete, Namespace: file.Namespace, Name: file.TypeName}
	}
	return nil
}

func sortGeneratedFiles(files []*GeneratedFile) {
	sort.Slice(files, func(i, j int) bool {
		if files[i].Namespace != files[j].Namespace {
			return files[i].Namespace < files[j].Namespace
		}
		return files[i].TypeName < files[j].TypeName
	})
}

func copyGeneratedFile(f GeneratedFile) *GeneratedFile {
	out := f
	out.Source = append([]byte(nil), f.Source...)
	return &out
}
