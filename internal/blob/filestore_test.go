package blob

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pngHeader is a minimal valid PNG signature, enough for content-type
// sniffing to classify the payload as image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func newTestStore(t *testing.T, maxSize int64) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), "/media", maxSize)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return s
}

func TestFileStore_SaveAndURL(t *testing.T) {
	s := newTestStore(t, 1<<20)
	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)

	ref, err := s.Save(context.Background(), bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasSuffix(ref, ".png") {
		t.Errorf("ref = %q, want .png extension", ref)
	}

	stored, err := os.ReadFile(filepath.Join(s.Dir(), ref))
	if err != nil {
		t.Fatalf("reading stored blob: %v", err)
	}
	if !bytes.Equal(stored, payload) {
		t.Errorf("stored blob differs from payload: %d bytes vs %d", len(stored), len(payload))
	}

	if got, want := s.URL(ref), "/media/"+ref; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestFileStore_Save_RejectsNonImage(t *testing.T) {
	s := newTestStore(t, 1<<20)

	_, err := s.Save(context.Background(), strings.NewReader("name,price\nrice,14000\n"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("Save() error = %v, want ErrUnsupportedType", err)
	}

	// No blob, partial or otherwise, may remain.
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("blob dir has %d entries after rejected save, want 0", len(entries))
	}
}

func TestFileStore_Save_RejectsSVG(t *testing.T) {
	s := newTestStore(t, 1<<20)

	// SVG is markup, not a sniffable image format, and is not accepted.
	svg := `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"><rect width="1" height="1"/></svg>`
	_, err := s.Save(context.Background(), strings.NewReader(svg))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("Save() error = %v, want ErrUnsupportedType", err)
	}
}

func TestFileStore_Save_RejectsOversize(t *testing.T) {
	s := newTestStore(t, 64)
	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 200)...)

	_, err := s.Save(context.Background(), bytes.NewReader(payload))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Save() error = %v, want ErrTooLarge", err)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("blob dir has %d entries after oversize save, want 0", len(entries))
	}
}

func TestFileStore_Remove(t *testing.T) {
	s := newTestStore(t, 1<<20)

	ref, err := s.Save(context.Background(), bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := s.Remove(context.Background(), ref); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), ref)); !os.IsNotExist(err) {
		t.Errorf("blob still exists after Remove()")
	}

	// Removing again is a no-op, not an error.
	if err := s.Remove(context.Background(), ref); err != nil {
		t.Errorf("second Remove() error = %v, want nil", err)
	}
}

func TestFileStore_Remove_RejectsPathTraversal(t *testing.T) {
	s := newTestStore(t, 1<<20)

	if err := s.Remove(context.Background(), "../outside.png"); err == nil {
		t.Error("Remove() with path-like ref succeeded, want error")
	}
}
