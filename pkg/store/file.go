package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/feedtree/pkg/feed"
	"github.com/matzehuels/feedtree/pkg/ident"
	"github.com/matzehuels/feedtree/pkg/observability"
)

const fileExt = ".xml"

// ErrInvalidID is returned when writing under a string that is not a feed
// identifier. Such ids would escape the flat key space of the store.
var ErrInvalidID = errors.New("invalid document id")

// FileStore keeps one "<id>.xml" file per document in a directory.
// Files are written to a temporary sibling and renamed into place.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a store rooted at dir, creating the directory if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file that holds the document id.
func (s *FileStore) Path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

func (s *FileStore) Exists(ctx context.Context, id string) (bool, error) {
	if !ident.Valid(id) {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(id))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat document: %w", err)
	}
}

func (s *FileStore) Get(ctx context.Context, id string) (*feed.Document, error) {
	if !ident.Valid(id) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			observability.Store().OnRead(ctx, BackendFile, id, false)
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read document: %w", err)
	}
	observability.Store().OnRead(ctx, BackendFile, id, true)

	doc, err := feed.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	return doc, nil
}

func (s *FileStore) Put(ctx context.Context, id string, doc *feed.Document) error {
	if !ident.Valid(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	var buf bytes.Buffer
	if err := feed.Encode(&buf, doc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+id+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(id)); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	observability.Store().OnWrite(ctx, BackendFile, id, buf.Len())
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if !ident.Valid(id) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove document: %w", err)
	}
	observability.Store().OnDelete(ctx, BackendFile, id)
	return nil
}

// List returns the ids of every "<id>.xml" file in the directory. Other
// files, such as the outline, are ignored.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := strings.CutSuffix(e.Name(), fileExt)
		if ok && ident.Valid(id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *FileStore) Close() error { return nil }

// Dir returns the store directory.
func (s *FileStore) Dir() string {
	return s.dir
}

var _ Store = (*FileStore)(nil)
