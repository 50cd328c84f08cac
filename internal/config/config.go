// Package config loads compiler tuning limits from an optional YAML file,
// then lets environment variables override individual fields — the same
// two-layer precedence the CLI's other settings follow.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Limits holds the tunable ceilings the compiler enforces. RecursionLimit
// bounds const-expansion depth (§4.5); everything else is reserved for
// future limits the examples this module's ambient stack is grounded on
// tend to grow over time (e.g. max select cases, max source size).
type Limits struct {
	RecursionLimit int `yaml:"recursion_limit" env:"MINDLANGC_RECURSION_LIMIT"`
}

// DefaultRecursionLimit mirrors compiler.defaultRecursionLimit so a config
// file with no recursion_limit key still gets a sane ceiling.
const DefaultRecursionLimit = 1000

// Default returns the limits used when no config file and no environment
// overrides are present.
func Default() Limits {
	return Limits{RecursionLimit: DefaultRecursionLimit}
}

// Load reads path (a YAML document) if it is non-empty and exists, then
// applies any matching environment variable overrides on top. path may be
// "" to skip the file and go straight to defaults-plus-env.
func Load(path string) (Limits, error) {
	lim := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &lim); err != nil {
				return Limits{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// no config file is not an error: defaults-plus-env still apply
		default:
			return Limits{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := env.Parse(&lim); err != nil {
		return Limits{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return lim, nil
}
