package preload

import "context"

// Retriever fetches the raw script text at a location.
// cfg is the full per-protocol settings map; implementations scope it with their own prefix.
//
// Wrap failures in ErrFetch (or ErrConfig for a malformed location) so callers can use errors.Is.
type Retriever interface {
	Retrieve(ctx context.Context, location string, cfg map[string]any) (string, error)
}

// ConfigValidator is optional. When implemented by a Retriever, the Runner calls it once
// per run, before any fetch, so bad settings fail the run without side effects.
type ConfigValidator interface {
	ValidateConfig(cfg map[string]any) error
}

// RetrieverFunc adapts a function to Retriever.
type RetrieverFunc func(ctx context.Context, location string, cfg map[string]any) (string, error)

// Retrieve calls f.
func (f RetrieverFunc) Retrieve(ctx context.Context, location string, cfg map[string]any) (string, error) {
	return f(ctx, location, cfg)
}

// NopRetriever returns empty content for every location. Registry resolves unknown protocols to it.
var NopRetriever Retriever = nopRetriever{}

type nopRetriever struct{}

func (nopRetriever) Retrieve(context.Context, string, map[string]any) (string, error) {
	return "", nil
}

// Executor runs the combined script against a live session.
// Errors are returned to the caller of Apply unchanged.
type Executor interface {
	Exec(ctx context.Context, script string) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, script string) error

// Exec calls f.
func (f ExecutorFunc) Exec(ctx context.Context, script string) error {
	return f(ctx, script)
}
