package scaffold

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/safeio"
)

// ErrFileExists is returned when the target file exists and force is not set.
var ErrFileExists = errors.New("file already exists")

// Writer places rendered files on disk.
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a Writer operating on fs.
func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// Write stores f under dir, creating dir as needed, and returns the path
// written. An existing file is only replaced when force is true.
func (w *Writer) Write(dir string, f *File, force bool) (string, error) {
	path := filepath.Join(dir, f.FileName())

	if !force {
		if _, err := w.fs.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, path)
		}
	}

	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := safeio.WriteFilePreservePerms(w.fs, path, []byte(f.Content)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Debug("wrote file", logger.String("path", path), logger.Int("bytes", len(f.Content)))
	return path, nil
}
