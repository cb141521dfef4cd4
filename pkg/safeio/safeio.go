package safeio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ResolveUserPath turns a path named on the command line into a clean
// absolute path. Parent segments are allowed; the user chose the file.
func ResolveUserPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.New("empty path")
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	return abs, nil
}

// Exists reports whether path exists on fs. Stat errors other than
// not-exist are treated as "exists" so callers surface them on read.
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// WriteFilePreservePerms writes data to path in a single write, preserving the
// existing file mode when possible. New files get 0644.
func WriteFilePreservePerms(fs afero.Fs, path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := fs.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
	}
	return afero.WriteFile(fs, path, data, mode)
}
