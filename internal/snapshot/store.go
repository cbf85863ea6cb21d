package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned by Read when no snapshot exists under the name.
	ErrNotFound = errors.New("snapshot not found")
	// ErrInvalidName is returned for names that are not a literal single
	// path segment. Such names are rejected before touching the filesystem.
	ErrInvalidName = errors.New("invalid snapshot name")
)

// Store persists one annotated JPEG per event under a single directory,
// addressed by filename.
type Store struct {
	root string
}

// NewStore returns a store rooted at dir. The directory is created lazily
// on the first Save.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the capture directory path.
func (s *Store) Root() string {
	return s.root
}

// Save writes image data under the store root, creating the directory if
// absent. An existing file with the same name is overwritten silently;
// collisions are avoided upstream by microsecond timestamp filenames.
// The full path of the written file is returned.
func (s *Store) Save(name string, data []byte) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("save %q: %w", name, ErrInvalidName)
	}
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", fmt.Errorf("create captures dir: %w", err)
	}
	path := filepath.Join(s.root, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// Read returns the raw bytes of a stored snapshot.
func (s *Store) Read(name string) ([]byte, error) {
	if !validName(name) {
		return nil, fmt.Errorf("read %q: %w", name, ErrInvalidName)
	}
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// Delete removes the named snapshot. Deleting a missing file is not an
// error; deletion is idempotent.
func (s *Store) Delete(name string) error {
	if !validName(name) {
		return fmt.Errorf("delete %q: %w", name, ErrInvalidName)
	}
	err := os.Remove(filepath.Join(s.root, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// validName accepts only literal single-segment filenames so a request can
// never resolve outside the store root.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name && !filepath.IsAbs(name)
}
