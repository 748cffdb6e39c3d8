package storage // import "github.com/openshelf/openshelf/storage"

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openshelf/openshelf/util"
	"github.com/pkg/errors"
)

// Storage persists uploaded files.
type Storage interface {
	// Save writes the data and returns the stored path.
	Save(name string, r io.Reader) (string, error)
	// Remove deletes a stored file.
	Remove(path string) error
}

// Local stores uploads under a directory on disk.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create storage directory %q", root)
	}
	return &Local{root: root}, nil
}

func (l *Local) Save(name string, r io.Reader) (string, error) {
	// Strip any path component from the client-supplied name.
	name = filepath.Base(name)
	path := util.GenerateNewFileName(filepath.Join(l.root, name))

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to create file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", errors.Wrap(err, "failed to write file")
	}
	return path, nil
}

func (l *Local) Remove(path string) error {
	// Refuse to touch anything outside the storage root.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	root, err := filepath.Abs(l.root)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.Errorf("path %q is outside the storage root", path)
	}
	return os.Remove(abs)
}
