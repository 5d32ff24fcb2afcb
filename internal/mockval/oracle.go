package mockval

import "strings"

// Oracle maps scalar type names to concrete sample values. It is the single
// leaf-value authority for the sample-value side of generation; the
// structural side never consults it.
type Oracle struct {
	specs map[string]ScalarSpec
}

// NewOracle validates cfg against the generator registry. An unrecognized
// generator key is a hard configuration error carrying both the scalar name
// and the offending key.
func NewOracle(cfg Config) (*Oracle, error) {
	for scalar, spec := range cfg.Scalars {
		if _, ok := builtinGenerators[spec.Generator]; !ok {
			return nil, &ConfigError{Scalar: scalar, Generator: spec.Generator}
		}
	}
	specs := make(map[string]ScalarSpec, len(cfg.Scalars))
	for scalar, spec := range cfg.Scalars {
		specs[scalar] = spec
	}
	return &Oracle{specs: specs}, nil
}

// ScalarValue produces the sample value for one scalar-typed field.
// Configured scalars use their generator; builtins have fixed defaults;
// anything else falls back on a name heuristic.
func (o *Oracle) ScalarValue(scalarName string, ctx Context) any {
	if spec, ok := o.specs[scalarName]; ok {
		return builtinGenerators[spec.Generator](ctx, spec.Arguments)
	}
	switch scalarName {
	case "String":
		return genWord(ctx, nil)
	case "Int":
		return genInt(ctx, nil)
	case "Float":
		return genFloat(ctx, nil)
	case "Boolean":
		return genBoolean(ctx, nil)
	case "ID":
		return genUUID(ctx, nil)
	}
	return o.heuristicValue(scalarName, ctx)
}

// heuristicValue mirrors the structural type heuristic for unconfigured
// custom scalars: date-ish names render as formatted date strings, json-ish
// names as empty objects, everything else as a word.
func (o *Oracle) heuristicValue(scalarName string, ctx Context) any {
	lower := strings.ToLower(scalarName)
	switch {
	case strings.Contains(lower, "date") || strings.Contains(lower, "time"):
		return genDate(ctx, nil)
	case strings.Contains(lower, "json"):
		return genJSON(ctx, nil)
	default:
		return genWord(ctx, nil)
	}
}
