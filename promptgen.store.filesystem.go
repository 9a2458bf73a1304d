package promptgen

import (
	"bytes"
	"context"
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/itsatony/go-promptgen/internal"
)

// FilesystemStore writes artifacts as files directly under a root
// directory, which for go generate is the host package directory:
//
//	<root>/
//	  capitol_prompt.gen.go
//	  cities_tmpl_prompt.gen.go
//
// Files whose content is unchanged are not rewritten so their modification
// times stay stable. Get and List read generated Go files back by their
// package clause and type declaration.
type FilesystemStore struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// FilesystemStoreDriver is the driver for creating FilesystemStore instances.
type FilesystemStoreDriver struct{}

func init() {
	RegisterStoreDriver(StoreDriverNameFilesystem, &FilesystemStoreDriver{})
}

// Open creates a new FilesystemStore. The connection string is the root
// directory path.
func (d *FilesystemStoreDriver) Open(connectionString string) (ArtifactStore, error) {
	return NewFilesystemStore(connectionString)
}

// NewFilesystemStore creates a filesystem store, creating root if needed.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if root == "" {
		return nil, &StoreError{Message: ErrMsgInvalidStoreRoot}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StoreError{Message: ErrMsgCreateStoreDir, Name: root, Cause: err}
	}
	return &FilesystemStore{root: root}, nil
}

// Root returns the output directory.
func (s *FilesystemStore) Root() string { return s.root }

// Put writes file to <root>/<file name> unless the same bytes are there.
func (s *FilesystemStore) Put(ctx context.Context, file GeneratedFile) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateGeneratedFile(file); err != nil {
		return false, err
	}
	if err := validateFileName(file.FileName); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrStoreClosed
	}

	path := filepath.Join(s.root, file.FileName)
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, file.Source) {
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, &StoreError{Message: ErrMsgStoreReadFailed, Namespace: file.Namespace, Name: file.TypeName, Cause: err}
	}

	if err := writeFileAtomic(path, file.Source); err != nil {
		return false, &StoreError{Message: ErrMsgStoreWriteFailed, Namespace: file.Namespace, Name: file.TypeName, Cause: err}
	}
	return true, nil
}

// Get finds the generated file declaring typeName in the namespace's package.
func (s *FilesystemStore) Get(ctx context.Context, namespace, typeName string) (*GeneratedFile, error) {
	files, err := s.List(ctx, namespace)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.TypeName == typeName {
			return f, nil
		}
	}
	return nil, newArtifactNotFoundError(namespace, typeName)
}

// List reads every generated Go file under root.
func (s *FilesystemStore) List(ctx context.Context, namespace string) ([]*GeneratedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StoreError{Message: ErrMsgStoreReadFailed, Name: s.root, Cause: err}
	}

	pkg := ""
	if namespace != "" {
		pkg = internal.PackageIdent(namespace)
	}

	var out []*GeneratedFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), GeneratedFileSuffix) {
			continue
		}
		f, ok := readGeneratedFile(filepath.Join(s.root, e.Name()))
		if !ok || (pkg != "" && f.Namespace != pkg) {
			continue
		}
		out = append(out, f)
	}
	sortGeneratedFiles(out)
	return out, nil
}

// Close marks the store as closed.
func (s *FilesystemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// readGeneratedFile loads a file written by the Go back end. Files without
// the generated-code header are not ours and are ignored.
func readGeneratedFile(path string) (*GeneratedFile, bool) {
	src, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(src, []byte(GeneratedCodeHeader)) {
		return nil, false
	}
	parsed, err := parser.ParseFile(token.NewFileSet(), path, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, false
	}

	typeName := ""
	for _, decl := range parsed.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE || len(gen.Specs) == 0 {
			continue
		}
		if spec, ok := gen.Specs[0].(*ast.TypeSpec); ok {
			typeName = spec.Name.Name
			break
		}
	}
	if typeName == "" {
		return nil, false
	}

	return &GeneratedFile{
		Namespace:   parsed.Name.Name,
		TypeName:    typeName,
		FileName:    filepath.Base(path),
		Source:      src,
		Fingerprint: fingerprintBytes(src),
	}, true
}

// writeFileAtomic writes through a temporary file in the same directory so
// readers never observe a partially written artifact.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, FilesystemFilePermissions); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// Filesystem store error message constants
const (
	ErrMsgInvalidStoreRoot      = "invalid store root directory"
	ErrMsgCreateStoreDir        = "failed to create store directory"
	ErrMsgInvalidFileName       = "invalid artifact file name"
	ErrMsgPathTraversalDetected = "path traversal detected in artifact file name"
)

// validateFileName keeps artifact files inside the store root.
func validateFileName(name string) error {
	if strings.Contains(name, "..") {
		return &StoreError{Message: ErrMsgPathTraversalDetected, Name: name}
	}
	if strings.ContainsAny(name, "/\\:*?\"<>|") {
		return &StoreError{Message: ErrMsgInvalidFileName, Name: name}
	}
	return nil
}
