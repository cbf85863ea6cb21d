package snapshot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveReadRoundtrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "captures"))

	data := []byte{0xff, 0xd8, 0xff, 0xe0, 'c', 'a', 't'}
	path, err := s.Save("cat_20250309_140506_000001.jpg", data)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != s.Root() {
		t.Fatalf("snapshot written outside root: %q", path)
	}

	got, err := s.Read("cat_20250309_140506_000001.jpg")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("Read returned %v, want %v", got, data)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := NewStore(t.TempDir())

	if _, err := s.Save("cat_a.jpg", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save("cat_a.jpg", []byte("two")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, err := s.Read("cat_a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Fatalf("Read = %q, want %q", got, "two")
	}
}

func TestReadMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, err := s.Read("cat_missing.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read missing err = %v, want ErrNotFound", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, err := s.Save("cat_a.jpg", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("cat_a.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("cat_a.jpg"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := s.Read("cat_a.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("file still readable after delete: %v", err)
	}
}

func TestTraversalNamesRejected(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "captures"))

	// Plant a file outside the store root that a traversal would reach.
	secret := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(secret, []byte("secret"), 0644); err != nil {
		t.Fatal(err)
	}

	names := []string{
		"",
		".",
		"..",
		"../secret.txt",
		"sub/secret.txt",
		`..\secret.txt`,
		"/etc/passwd",
	}
	for _, name := range names {
		if _, err := s.Read(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Read(%q) err = %v, want ErrInvalidName", name, err)
		}
		if _, err := s.Save(name, []byte("x")); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Save(%q) err = %v, want ErrInvalidName", name, err)
		}
		if err := s.Delete(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Delete(%q) err = %v, want ErrInvalidName", name, err)
		}
	}

	if data, err := os.ReadFile(secret); err != nil || string(data) != "secret" {
		t.Fatalf("file outside root was touched: %v %q", err, data)
	}
}
