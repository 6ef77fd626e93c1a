package assets

import "errors"

// Resolver loads styles from an optional custom directory, falling back to
// the built-in styles for names the directory does not provide.
type Resolver struct {
	dir *DirLoader // nil without a custom directory
}

// NewResolver returns a Resolver. An empty dir uses the built-in styles
// only.
func NewResolver(dir string) (*Resolver, error) {
	if dir == "" {
		return &Resolver{}, nil
	}
	d, err := NewDirLoader(dir)
	if err != nil {
		return nil, err
	}
	return &Resolver{dir: d}, nil
}

// LoadStyle loads name, custom directory first. Only a missing file falls
// back; invalid names and read failures are reported.
func (r *Resolver) LoadStyle(name string) (string, error) {
	if r.dir != nil {
		css, err := r.dir.LoadStyle(name)
		if !errors.Is(err, ErrStyleNotFound) {
			return css, err
		}
	}
	return Builtin{}.LoadStyle(name)
}

var _ StyleLoader = (*Resolver)(nil)
