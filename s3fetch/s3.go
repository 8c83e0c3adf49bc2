package s3fetch

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/skosovsky/preload"
)

// Prefix scopes object-store settings in the shared preload configuration.
const Prefix = "s3_"

// locationPattern accepts "s3://" and single-character variants such as "s3a://".
var locationPattern = regexp.MustCompile(`^s3.?://(.*)$`)

// Store opens read streams on "bucket/key" paths.
type Store interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// ClientFactory builds a Store from the scoped "s3_" settings (prefix already stripped).
type ClientFactory func(ctx context.Context, opts map[string]any) (Store, error)

var _ preload.Retriever = (*Retriever)(nil)

// Retriever reads whole objects from an object store.
type Retriever struct {
	newStore ClientFactory
}

// New creates a Retriever using NewMinioStore unless WithClientFactory is given.
func New(opts ...Option) *Retriever {
	r := &Retriever{newStore: NewMinioStore}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ParseLocation returns the path after the scheme ("bucket/key" for "s3://bucket/key").
// Returns preload.ErrConfig when location is not an s3-style URI.
func ParseLocation(location string) (string, error) {
	m := locationPattern.FindStringSubmatch(location)
	if m == nil {
		return "", fmt.Errorf("%w: invalid s3 path %q", preload.ErrConfig, location)
	}
	return m[1], nil
}

// Retrieve reads the object at location and returns it as text.
// The stream is closed on every path; read failures return preload.ErrFetch.
func (r *Retriever) Retrieve(ctx context.Context, location string, cfg map[string]any) (string, error) {
	subpath, err := ParseLocation(location)
	if err != nil {
		return "", err
	}
	store, err := r.newStore(ctx, preload.Scope(Prefix, cfg))
	if err != nil {
		return "", fmt.Errorf("%w: s3 client: %w", preload.ErrConfig, err)
	}
	return readAll(ctx, store, subpath)
}

func readAll(ctx context.Context, store Store, path string) (string, error) {
	rc, err := store.Open(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", preload.ErrFetch, path, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", preload.ErrFetch, path, err)
	}
	return string(data), nil
}
