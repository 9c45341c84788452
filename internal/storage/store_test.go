// internal/storage/store_test.go
package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *ImageStore {
	t.Helper()
	s, err := NewImageStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewImageStore: %v", err)
	}
	return s
}

func TestCommitMovesImageIntoPlace(t *testing.T) {
	s := newTestStore(t)

	w, err := s.Create("cam.jpg")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := w.Write([]byte{0xFF, 0xD8, 0xFF, 0xD9}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	path, err := w.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if path != filepath.Join(s.Dir(), "cam.jpg") {
		t.Fatalf("unexpected path %s", path)
	}

	r, size, err := s.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	if size != 4 {
		t.Fatalf("size = %d, want 4", size)
	}
	data, _ := io.ReadAll(r)
	if data[0] != 0xFF || data[3] != 0xD9 {
		t.Fatalf("unexpected image bytes %v", data)
	}
}

func TestAbortLeavesNoFiles(t *testing.T) {
	s := newTestStore(t)

	w, err := s.Create("cam.jpg")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	w.Write([]byte{1, 2, 3})
	w.Abort()

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("directory not empty after abort: %v", entries)
	}
}

func TestRemoveMissingFileIsNotAnError(t *testing.T) {
	s := newTestStore(t)
	if err := s.Remove(filepath.Join(s.Dir(), "gone.jpg")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(""); err != nil {
		t.Fatalf("Remove empty path: %v", err)
	}
}

func TestOpenRejectsOutsidePaths(t *testing.T) {
	s := newTestStore(t)
	if _, _, err := s.Open("/etc/passwd"); err == nil {
		t.Fatal("expected error for path outside the image directory")
	}
	if err := s.Remove(filepath.Join(s.Dir(), "..", "x.jpg")); err == nil {
		t.Fatal("expected error for traversal path")
	}
}

func TestFileNameEmbedsTimestampAndID(t *testing.T) {
	s := newTestStore(t)
	id := uuid.New()
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	name := s.FileName(id, at)
	if !strings.HasPrefix(name, "20260314T092653_") || !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("unexpected file name %s", name)
	}
	if !strings.Contains(name, id.String()) {
		t.Fatalf("file name %s missing id", name)
	}
}
