// Package disk provides file storage on the local filesystem.
package disk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure Storage implements the interface.
var _ driven.FileStorage = (*Storage)(nil)

// MaxFileSize is the upload size ceiling (10MB).
const MaxFileSize = 10 << 20

// allowedExtensions are the file types accepted for upload, keyed by
// lowercase extension without the leading dot.
var allowedExtensions = map[string]bool{
	"pdf":  true,
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"docx": true,
	"txt":  true,
	"md":   true,
}

// Storage stores uploaded files in a single directory under
// collision-free generated names.
type Storage struct {
	dir string
}

// New creates a disk storage rooted at dir, creating it if needed.
func New(dir string) (*Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("disk: storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("disk: create storage directory: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Save validates and writes the file bytes under a generated name.
// The original name contributes only its extension; the stored name is
// a UUID so uploads can never collide or traverse paths.
func (s *Storage) Save(_ context.Context, originalName string, data []byte) (string, string, int64, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if ext == "" || !allowedExtensions[ext] {
		return "", "", 0, fmt.Errorf("%w: file type %q is not allowed", domain.ErrFileValidation, ext)
	}
	if len(data) == 0 {
		return "", "", 0, fmt.Errorf("%w: file is empty", domain.ErrFileValidation)
	}
	if len(data) > MaxFileSize {
		return "", "", 0, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrFileValidation, MaxFileSize)
	}

	filename := uuid.New().String() + "." + ext
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", "", 0, fmt.Errorf("disk: write file: %w", err)
	}
	return filename, path, int64(len(data)), nil
}

// Delete removes a stored file, reporting whether it existed.
func (s *Storage) Delete(_ context.Context, filename string) bool {
	path := s.safePath(filename)
	if path == "" {
		return false
	}
	err := os.Remove(path)
	return err == nil
}

// Path returns the absolute path of a stored file, or "" if missing.
func (s *Storage) Path(filename string) string {
	path := s.safePath(filename)
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return ""
	}
	return path
}

// safePath joins filename onto the storage dir, rejecting anything
// that would escape it.
func (s *Storage) safePath(filename string) string {
	if filename == "" || filename != filepath.Base(filename) {
		return ""
	}
	return filepath.Join(s.dir, filename)
}
