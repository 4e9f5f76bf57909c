package miniball

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseConfig decodes a YAML document onto DefaultConfig. Keys that are
// absent keep their defaults:
//
//	tolerance: 1e-10
//	pivoting: false
//	max_recoveries: 4
//
// The result is validated; Logger is never set from YAML.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("miniball: failed to parse config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
