// Package sources assembles the standard preload Registry: s3 and s3a locations go to
// the object-store retriever, http and https to the HTTP retriever, and every other
// protocol to preload.NopRetriever. Options add opt-in protocols (fs.FS, Git).
package sources

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/skosovsky/preload"
	"github.com/skosovsky/preload/fsfetch"
	"github.com/skosovsky/preload/gitfetch"
	"github.com/skosovsky/preload/httpfetch"
	"github.com/skosovsky/preload/s3fetch"
)

type settings struct {
	httpOpts []httpfetch.Option
	s3Opts   []s3fetch.Option
	fsByProt map[string]fs.FS
	git      bool
}

// Option configures NewRegistry.
type Option func(*settings)

// WithHTTPClient sets the client used for http and https locations.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.httpOpts = append(s.httpOpts, httpfetch.WithHTTPClient(c))
	}
}

// WithS3ClientFactory sets the Store constructor used for s3 and s3a locations.
func WithS3ClientFactory(f s3fetch.ClientFactory) Option {
	return func(s *settings) {
		s.s3Opts = append(s.s3Opts, s3fetch.WithClientFactory(f))
	}
}

// WithFS binds protocol (e.g. "file" or "embed") to a retriever reading from fsys.
func WithFS(protocol string, fsys fs.FS) Option {
	return func(s *settings) {
		if s.fsByProt == nil {
			s.fsByProt = make(map[string]fs.FS)
		}
		s.fsByProt[protocol] = fsys
	}
}

// WithGit registers the git+https, git+http, git+ssh and git+file protocols.
func WithGit() Option {
	return func(s *settings) { s.git = true }
}

// NewRegistry returns a Registry with the standard retrievers and any opt-in protocols.
func NewRegistry(opts ...Option) *preload.Registry {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	reg := preload.NewRegistry()
	s3 := s3fetch.New(s.s3Opts...)
	reg.Register("s3", s3)
	reg.Register("s3a", s3)
	h := httpfetch.New(s.httpOpts...)
	reg.Register("http", h)
	reg.Register("https", h)
	for protocol, fsys := range s.fsByProt {
		reg.Register(protocol, fsfetch.New(fsys))
	}
	if s.git {
		g := gitfetch.New()
		for _, protocol := range gitfetch.Protocols {
			reg.Register(protocol, g)
		}
	}
	return reg
}

// Apply runs cfg through a Runner over the standard Registry.
func Apply(ctx context.Context, sink preload.Executor, cfg preload.Config, opts ...preload.Option) error {
	return preload.NewRunner(NewRegistry(), opts...).Apply(ctx, sink, cfg)
}

// ApplyMap decodes raw with preload.ParseConfig and runs it through the standard Registry.
func ApplyMap(ctx context.Context, sink preload.Executor, raw map[string]any, opts ...preload.Option) error {
	return preload.NewRunner(NewRegistry(), opts...).ApplyMap(ctx, sink, raw)
}
