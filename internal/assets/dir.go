package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirLoader reads styles from a directory on disk.
type DirLoader struct {
	dir string
}

// NewDirLoader returns a DirLoader for dir, which must be an existing
// directory.
func NewDirLoader(dir string) (*DirLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	_ = root.Close()
	return &DirLoader{dir: abs}, nil
}

// LoadStyle reads styles/<name>.css, then <name>.css.
func (d *DirLoader) LoadStyle(name string) (string, error) {
	if err := ValidateStyleName(name); err != nil {
		return "", err
	}

	root, err := os.OpenRoot(d.dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStyleRead, err)
	}
	defer func() { _ = root.Close() }()

	for _, p := range []string{filepath.Join("styles", name+".css"), name + ".css"} {
		content, err := root.ReadFile(p)
		switch {
		case err == nil:
			return string(content), nil
		case errors.Is(err, fs.ErrNotExist):
			continue
		default:
			return "", fmt.Errorf("%w: %s: %v", ErrStyleRead, p, err)
		}
	}
	return "", fmt.Errorf("%w: %q in %s", ErrStyleNotFound, name, d.dir)
}

var _ StyleLoader = (*DirLoader)(nil)
