package preload

import "strings"

// Scope returns the entries of cfg whose keys start with prefix, keyed by the
// remainder of the key. Keys without the prefix are dropped. cfg is not modified.
func Scope(prefix string, cfg map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range cfg {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			out[rest] = v
		}
	}
	return out
}
