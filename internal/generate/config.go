package generate

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	mockval "github.com/farmstrong8/gqlmockgen/internal/mockval"
	selection "github.com/farmstrong8/gqlmockgen/internal/selection"
	shape "github.com/farmstrong8/gqlmockgen/internal/shape"
)

// Config is the YAML-loadable generation configuration.
//
//	scalars:
//	  Date:
//	    generator: date
//	    arguments: "YYYY-MM-DD"
//	  UUID: uuid
//	naming:
//	  addOperationSuffix: true
//	limits:
//	  maxNestingDepth: 5
//	  maxFragmentDepth: 4
type Config struct {
	Scalars map[string]mockval.ScalarSpec `yaml:"scalars"`
	Naming  NamingConfig                  `yaml:"naming"`
	Limits  LimitsConfig                  `yaml:"limits"`
}

type NamingConfig struct {
	// AddOperationSuffix defaults to true; nil means unset.
	AddOperationSuffix *bool `yaml:"addOperationSuffix"`
}

type LimitsConfig struct {
	MaxNestingDepth  int `yaml:"maxNestingDepth"`
	MaxFragmentDepth int `yaml:"maxFragmentDepth"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) addOperationSuffix() bool {
	if c.Naming.AddOperationSuffix == nil {
		return true
	}
	return *c.Naming.AddOperationSuffix
}

func (c Config) maxNestingDepth() int {
	if c.Limits.MaxNestingDepth > 0 {
		return c.Limits.MaxNestingDepth
	}
	return shape.DefaultMaxNestingDepth
}

func (c Config) maxFragmentDepth() int {
	if c.Limits.MaxFragmentDepth > 0 {
		return c.Limits.MaxFragmentDepth
	}
	return selection.DefaultMaxFragmentDepth
}
