package mockval

import (
	"fmt"
)

// Config declares per-scalar value generation. Keys are scalar type names as
// they appear in the schema.
type Config struct {
	Scalars map[string]ScalarSpec `yaml:"scalars"`
}

// ScalarSpec is either a bare generator key
//
//	scalars:
//	  UUID: uuid
//
// or a generator with arguments
//
//	scalars:
//	  Date:
//	    generator: date
//	    arguments: "YYYY-MM-DD"
type ScalarSpec struct {
	Generator string
	Arguments []any
}

// UnmarshalYAML accepts both the bare-string and the mapping form.
func (s *ScalarSpec) UnmarshalYAML(unmarshal func(any) error) error {
	var key string
	if err := unmarshal(&key); err == nil {
		s.Generator = key
		s.Arguments = nil
		return nil
	}
	var full struct {
		Generator string `yaml:"generator"`
		Arguments any    `yaml:"arguments"`
	}
	if err := unmarshal(&full); err != nil {
		return err
	}
	if full.Generator == "" {
		return fmt.Errorf("scalar spec requires a generator key")
	}
	s.Generator = full.Generator
	s.Arguments = normalizeArguments(full.Arguments)
	return nil
}

// normalizeArguments lifts a scalar argument into a single-element slice so
// generators always receive []any.
func normalizeArguments(v any) []any {
	switch args := v.(type) {
	case nil:
		return nil
	case []any:
		return args
	default:
		return []any{v}
	}
}

// ConfigError reports an invalid scalar generator configuration. It aborts
// the whole run synchronously: a broken build configuration is not a
// data-shape edge case.
type ConfigError struct {
	Scalar    string
	Generator string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scalar %q: unknown generator %q", e.Scalar, e.Generator)
}
