package fsfetch

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/skosovsky/preload"
)

var _ preload.Retriever = (*Retriever)(nil)

// Retriever resolves "<protocol>://<path>" against a file system root.
type Retriever struct {
	fsys fs.FS
}

// New creates a Retriever over fsys. Panics if fsys is nil.
func New(fsys fs.FS) *Retriever {
	if fsys == nil {
		panic("fsfetch: fs.FS must not be nil")
	}
	return &Retriever{fsys: fsys}
}

// Path returns the fs.FS path for location. A leading "/" is dropped, so
// "file:///sql/init.sql" and "file://sql/init.sql" name the same file.
// Paths escaping the root return preload.ErrConfig.
func Path(location string) (string, error) {
	_, rest, ok := strings.Cut(location, "://")
	if !ok {
		return "", fmt.Errorf("%w: invalid location value %q", preload.ErrConfig, location)
	}
	p := strings.TrimPrefix(rest, "/")
	if p == "" || !fs.ValidPath(p) || path.Clean(p) != p {
		return "", fmt.Errorf("%w: invalid file path %q", preload.ErrConfig, rest)
	}
	return p, nil
}

// Retrieve reads the whole file. cfg is ignored.
func (r *Retriever) Retrieve(ctx context.Context, location string, _ map[string]any) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	p, err := Path(location)
	if err != nil {
		return "", err
	}
	data, err := fs.ReadFile(r.fsys, p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", preload.ErrFetch, err)
	}
	return string(data), nil
}
