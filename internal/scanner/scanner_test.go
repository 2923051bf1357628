package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/artemshloyda/galleryprep/internal/config"
)

func touch(t *testing.T, path string, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

func TestScanner_Scan(t *testing.T) {
	dir := t.TempDir()

	touch(t, filepath.Join(dir, "c.jpg"), "ccc")
	touch(t, filepath.Join(dir, "a.JPG"), "a")
	touch(t, filepath.Join(dir, "b.jpeg"), "bb")
	touch(t, filepath.Join(dir, "d.png"), "d")
	touch(t, filepath.Join(dir, "._e.jpg"), "e")
	touch(t, filepath.Join(dir, "notes.txt"), "x")
	if err := os.Mkdir(filepath.Join(dir, "f.jpg"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "nested", "g.jpg"), "g")

	files, err := New(config.DefaultConfig()).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []struct {
		name string
		size int64
	}{
		{"a.JPG", 1},
		{"b.jpeg", 2},
		{"c.jpg", 3},
	}

	if len(files) != len(want) {
		t.Fatalf("Scan() returned %d files, want %d: %+v", len(files), len(want), files)
	}

	for i, w := range want {
		if files[i].Name != w.name {
			t.Errorf("files[%d].Name = %q, want %q", i, files[i].Name, w.name)
		}
		if files[i].Size != w.size {
			t.Errorf("files[%d].Size = %d, want %d", i, files[i].Size, w.size)
		}
		if files[i].Path != filepath.Join(dir, w.name) {
			t.Errorf("files[%d].Path = %q, want %q", i, files[i].Path, filepath.Join(dir, w.name))
		}
	}
}

func TestScanner_ScanEmpty(t *testing.T) {
	files, err := New(config.DefaultConfig()).Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Scan() returned %d files, want 0", len(files))
	}
}

func TestScanner_ScanMissingDir(t *testing.T) {
	_, err := New(config.DefaultConfig()).Scan(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Scan() error = %v, want fs.ErrNotExist", err)
	}
}
