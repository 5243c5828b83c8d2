package locations

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/matzehuels/floorgeo/pkg/errors"
	floorio "github.com/matzehuels/floorgeo/pkg/io"
)

// FileStore reads and writes a location records file. It is safe for
// concurrent use within one process; writes replace the file atomically.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore returns a store backed by path. The file need not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load returns the stored records. A missing file yields no records and an
// ErrCodeFileNotFound error, so callers can decide whether to start empty.
func (s *FileStore) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", s.path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", s.path)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return nil, errors.Wrap(code, err, "load %s", s.path)
	}
	return records, nil
}

// Save replaces the stored records.
func (s *FileStore) Save(ctx context.Context, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return floorio.WriteFileAtomic(s.path, func(w io.Writer) error {
		return Encode(w, records)
	})
}
