package gitfetch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/skosovsky/preload"
)

// Prefix scopes Git settings in the shared preload configuration.
const Prefix = "git_"

// Protocols are the location protocols this package understands.
var Protocols = []string{"git+https", "git+http", "git+ssh", "git+file"}

var (
	_ preload.Retriever       = (*Retriever)(nil)
	_ preload.ConfigValidator = (*Retriever)(nil)
)

// Options are the typed "git_" settings.
type Options struct {
	Ref      string `mapstructure:"ref"`
	Token    string `mapstructure:"token"`
	Username string `mapstructure:"username"`
	Depth    int    `mapstructure:"depth"`
}

// ParseOptions scopes cfg with Prefix and decodes it. Defaults: remote HEAD, depth 1,
// username "x-access-token" when a token is set.
func ParseOptions(cfg map[string]any) (Options, error) {
	o := Options{Depth: 1}
	if err := preload.Decode(preload.Scope(Prefix, cfg), &o); err != nil {
		return Options{}, err
	}
	if o.Depth < 0 {
		return Options{}, fmt.Errorf("%w: negative depth %d", preload.ErrConfig, o.Depth)
	}
	if o.Token != "" && o.Username == "" {
		o.Username = "x-access-token"
	}
	return o, nil
}

// ParseLocation splits a git+ location into the repository URL and the file path.
func ParseLocation(location string) (repoURL, path string, err error) {
	rest, ok := strings.CutPrefix(location, "git+")
	if !ok {
		return "", "", fmt.Errorf("%w: not a git location %q", preload.ErrConfig, location)
	}
	scheme, after, ok := strings.Cut(rest, "://")
	if !ok || scheme == "" {
		return "", "", fmt.Errorf("%w: invalid git location %q", preload.ErrConfig, location)
	}
	repo, file, ok := strings.Cut(after, "//")
	file = strings.TrimPrefix(file, "/")
	if !ok || repo == "" || file == "" {
		return "", "", fmt.Errorf("%w: git location %q must be <repo>//<path>", preload.ErrConfig, location)
	}
	return scheme + "://" + repo, file, nil
}

// Retriever clones a repository per call and returns one file's content.
type Retriever struct{}

// New creates a Retriever.
func New() *Retriever {
	return &Retriever{}
}

// ValidateConfig implements preload.ConfigValidator.
func (r *Retriever) ValidateConfig(cfg map[string]any) error {
	_, err := ParseOptions(cfg)
	return err
}

// Retrieve clones the repository named by location and reads the file at its path.
func (r *Retriever) Retrieve(ctx context.Context, location string, cfg map[string]any) (string, error) {
	o, err := ParseOptions(cfg)
	if err != nil {
		return "", err
	}
	repoURL, path, err := ParseLocation(location)
	if err != nil {
		return "", err
	}
	cloneOpts := &git.CloneOptions{
		URL:          repoURL,
		SingleBranch: true,
		Depth:        o.Depth,
	}
	if o.Ref != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(o.Ref)
	}
	if o.Token != "" {
		cloneOpts.Auth = &http.BasicAuth{
			Username: o.Username,
			Password: o.Token,
		}
	}
	worktree := memfs.New()
	if _, err := git.CloneContext(ctx, memory.NewStorage(), worktree, cloneOpts); err != nil {
		return "", fmt.Errorf("%w: clone %s: %w", preload.ErrFetch, repoURL, err)
	}
	f, err := worktree.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", preload.ErrFetch, path, err)
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", preload.ErrFetch, path, err)
	}
	return string(data), nil
}
