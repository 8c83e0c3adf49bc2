package preload

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// protocolSep separates the protocol token from the rest of a location.
const protocolSep = "://"

// Registry maps protocol tokens to Retrievers.
// Populate it before use; it is not safe for concurrent Register and Resolve.
type Registry struct {
	retrievers map[string]Retriever
}

// NewRegistry creates an empty Registry. Every protocol resolves to NopRetriever until registered.
func NewRegistry() *Registry {
	return &Registry{retrievers: make(map[string]Retriever)}
}

// Register binds protocol (e.g. "https") to r, replacing any previous binding.
// Panics if r is nil or protocol is empty.
func (r *Registry) Register(protocol string, retriever Retriever) {
	if protocol == "" {
		panic("preload: protocol must not be empty")
	}
	if retriever == nil {
		panic("preload: Retriever must not be nil")
	}
	r.retrievers[protocol] = retriever
}

// Protocols returns the registered protocol tokens, sorted.
func (r *Registry) Protocols() []string {
	return slices.Sorted(maps.Keys(r.retrievers))
}

// Lookup returns the Retriever bound to protocol and whether it was registered.
func (r *Registry) Lookup(protocol string) (Retriever, bool) {
	ret, ok := r.retrievers[protocol]
	return ret, ok
}

// Resolve returns the Retriever for location. Unknown protocols resolve to NopRetriever.
// Returns ErrConfig when location has no "://" separator or an empty protocol.
func (r *Registry) Resolve(location string) (Retriever, error) {
	protocol, err := Protocol(location)
	if err != nil {
		return nil, err
	}
	if ret, ok := r.retrievers[protocol]; ok {
		return ret, nil
	}
	return NopRetriever, nil
}

// Protocol returns the text before the first "://" in location.
func Protocol(location string) (string, error) {
	protocol, _, ok := strings.Cut(location, protocolSep)
	if !ok || protocol == "" || strings.Contains(protocol, ":") {
		return "", fmt.Errorf("%w: invalid location value %q", ErrConfig, location)
	}
	return protocol, nil
}
