// Package storage keeps uploaded images on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidName rejects names that would escape the upload directory.
var ErrInvalidName = errors.New("invalid file name")

// Object describes a stored file.
type Object struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Local stores files flat under one directory.
type Local struct {
	dir string
}

// NewLocal creates dir if needed and stores files under it.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

// Dir is the directory files are stored in.
func (s *Local) Dir() string {
	return s.dir
}

func (s *Local) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name), nil
}

// Save writes r to a new file. An existing file is never overwritten and a
// partial file is removed when the copy fails.
func (s *Local) Save(name string, r io.Reader) (int64, error) {
	path, err := s.path(name)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("create file %s: %w", name, err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("write file %s: %w", name, err)
	}

	return n, nil
}

// Delete removes a stored file.
func (s *Local) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// List returns the regular files in the storage directory.
func (s *Local) List() ([]Object, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	objects := make([]Object, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		objects = append(objects, Object{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return objects, nil
}

// GenerateFileName returns a UUID-based name with the given extension.
func GenerateFileName(extension string) string {
	name := uuid.NewString()
	if extension != "" && extension[0] != '.' {
		return name + "." + extension
	}
	return name + extension
}
