// internal/storage/store.go
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageStore persists captured images on the local filesystem. Images are
// streamed straight from the serial link into a temp file and renamed into
// place once the transfer ends, so a crashed transfer never leaves a
// half-written file under the final name.
type ImageStore struct {
	dir    string
	logger *zap.Logger
}

// NewImageStore creates the store and its directory
func NewImageStore(dir string, logger *zap.Logger) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStore{
		dir:    dir,
		logger: logger.With(zap.String("component", "storage")),
	}, nil
}

// Dir returns the root image directory
func (s *ImageStore) Dir() string {
	return s.dir
}

// FileName builds the canonical image name for a snapshot
func (s *ImageStore) FileName(id uuid.UUID, capturedAt time.Time) string {
	return fmt.Sprintf("%s_%s.jpg", capturedAt.UTC().Format("20060102T150405"), id.String())
}

// ImageWriter is an in-progress image file
type ImageWriter struct {
	io.Writer
	store *ImageStore
	tmp   *os.File
	final string
	done  bool
}

// Create opens a writer for a new image. Commit or Abort must be called.
func (s *ImageStore) Create(fileName string) (*ImageWriter, error) {
	final := filepath.Join(s.dir, fileName)
	tmp, err := os.CreateTemp(s.dir, fileName+".part-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create image file: %w", err)
	}
	return &ImageWriter{
		Writer: tmp,
		store:  s,
		tmp:    tmp,
		final:  final,
	}, nil
}

// Commit finalizes the image and returns its path
func (w *ImageWriter) Commit() (string, error) {
	if w.done {
		return w.final, nil
	}
	w.done = true
	if err := w.tmp.Close(); err != nil {
		os.Remove(w.tmp.Name())
		return "", fmt.Errorf("failed to close image file: %w", err)
	}
	if err := os.Rename(w.tmp.Name(), w.final); err != nil {
		os.Remove(w.tmp.Name())
		return "", fmt.Errorf("failed to finalize image file: %w", err)
	}
	w.store.logger.Debug("Image committed", zap.String("path", w.final))
	return w.final, nil
}

// Abort discards the partial image
func (w *ImageWriter) Abort() {
	if w.done {
		return
	}
	w.done = true
	w.tmp.Close()
	os.Remove(w.tmp.Name())
}

// Open opens a stored image for reading
func (s *ImageStore) Open(path string) (io.ReadCloser, int64, error) {
	if err := s.contains(path); err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open image: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat image: %w", err)
	}
	return f, info.Size(), nil
}

// Remove deletes a stored image. A missing file is not an error: the record
// may outlive the file.
func (s *ImageStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := s.contains(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

// contains rejects paths outside the image directory
func (s *ImageStore) contains(path string) error {
	absDir, err := filepath.Abs(s.dir)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if absPath != absDir && !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		return fmt.Errorf("path %s is outside the image directory", path)
	}
	return nil
}
