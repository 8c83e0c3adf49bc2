package preload

import (
	"fmt"
	"slices"

	"github.com/go-viper/mapstructure/v2"
)

// Config is the preload configuration for one pipeline run.
// Locations are processed in order; Location, when set, runs last.
type Config struct {
	Location   string         `mapstructure:"location"`
	Locations  []string       `mapstructure:"locations"`
	Parameters map[string]any `mapstructure:"parameters"`
	// Config carries per-protocol settings keyed with a protocol prefix (e.g. "http_method", "s3_region").
	Config map[string]any `mapstructure:"config"`
}

// ParseConfig decodes an untyped configuration map. Unrecognized keys are ignored.
// A nil or empty map yields the zero Config. Values of the wrong shape return ErrConfig.
func ParseConfig(raw map[string]any) (Config, error) {
	var cfg Config
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := Decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// OrderedLocations returns Locations followed by Location (if non-empty).
// The result never aliases cfg.Locations.
func (c Config) OrderedLocations() []string {
	out := slices.Clone(c.Locations)
	if c.Location != "" {
		out = append(out, c.Location)
	}
	return out
}

// IsZero reports whether the configuration names no locations.
func (c Config) IsZero() bool {
	return c.Location == "" && len(c.Locations) == 0
}

// Decode decodes a scoped configuration map into out (a pointer to a struct with
// mapstructure tags). Scalars are weakly typed and duration strings are parsed.
// Failures wrap ErrConfig.
func Decode(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}
