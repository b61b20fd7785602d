package driven

import "context"

// FileStorage manages physical storage of uploaded files.
// Implementations enforce allowed extensions and a size ceiling,
// surfacing domain.ErrFileValidation on violation.
type FileStorage interface {
	// Save writes the file bytes to storage under a generated unique
	// name and returns the stored filename, its path, and size.
	Save(ctx context.Context, originalName string, data []byte) (filename, path string, size int64, err error)

	// Delete removes a stored file. It reports whether the file
	// existed and was removed.
	Delete(ctx context.Context, filename string) bool

	// Path returns the absolute path of a stored file, or the empty
	// string when it does not exist.
	Path(filename string) string
}
