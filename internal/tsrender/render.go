package tsrender

import (
	"fmt"
	"strconv"
	"strings"

	shape "github.com/farmstrong8/gqlmockgen/internal/shape"
)

const header = `/* Generated by gqlmockgen. Do not edit manually. */
`

// boilerplate is emitted once per output unit, independent of the artifacts:
// the deep-partial override shape and the merge helper. Arrays in overrides
// replace the base array rather than concatenating with it.
const boilerplate = `export type DeepPartial<T> = T extends (infer U)[]
  ? DeepPartial<U>[]
  : T extends object
    ? { [K in keyof T]?: DeepPartial<T[K]> }
    : T;

const mergeOverrides = <T>(base: T, overrides?: DeepPartial<T>): T => {
  if (overrides === undefined || overrides === null) {
    return base;
  }
  if (Array.isArray(overrides) || typeof overrides !== 'object') {
    return overrides as T;
  }
  const result: Record<string, unknown> = { ...(base as Record<string, unknown>) };
  for (const key of Object.keys(overrides)) {
    const next = (overrides as Record<string, unknown>)[key];
    const prev = result[key];
    if (Array.isArray(next)) {
      result[key] = next;
    } else if (typeof next === 'object' && next !== null && typeof prev === 'object' && prev !== null) {
      result[key] = mergeOverrides(prev, next as DeepPartial<unknown>);
    } else {
      result[key] = next;
    }
  }
  return result as T;
};
`

// Render serializes artifacts into one TypeScript source text. Artifacts are
// emitted in the given order, which the orchestrator guarantees to be
// dependencies-first, so every factory invocation refers to a declaration
// earlier in the text.
func Render(artifacts []shape.Artifact) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(boilerplate)

	for _, a := range artifacts {
		b.WriteString("\n")
		renderTypeDecl(&b, a.Shape)
		b.WriteString("\n")
		renderFactory(&b, a.Shape)
	}
	return b.String()
}

func renderTypeDecl(b *strings.Builder, s *shape.ShapeDescriptor) {
	b.WriteString("export type ")
	b.WriteString(s.QualifiedName)
	b.WriteString(" = {\n")
	for _, f := range s.Fields {
		b.WriteString("  ")
		b.WriteString(f.Name)
		if f.Nullable && f.Kind != shape.FieldTypename {
			b.WriteString("?")
		}
		b.WriteString(": ")
		b.WriteString(fieldType(f))
		b.WriteString(";\n")
	}
	b.WriteString("};\n")
}

func renderFactory(b *strings.Builder, s *shape.ShapeDescriptor) {
	b.WriteString("export const ")
	b.WriteString(s.FactoryName)
	b.WriteString(" = (overrides?: DeepPartial<")
	b.WriteString(s.QualifiedName)
	b.WriteString(">): ")
	b.WriteString(s.QualifiedName)
	b.WriteString(" =>\n  mergeOverrides({\n")
	for _, f := range s.Fields {
		b.WriteString("    ")
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(fieldValue(f))
		b.WriteString(",\n")
	}
	b.WriteString("  }, overrides);\n")
}

// fieldType renders the structural side of one field.
func fieldType(f shape.FieldShape) string {
	var t string
	switch f.Kind {
	case shape.FieldTypename:
		return tsString(f.Sample.(string))
	case shape.FieldScalar:
		t = f.ScalarTS
	case shape.FieldEnum:
		literals := make([]string, len(f.EnumValues))
		for i, v := range f.EnumValues {
			literals[i] = tsString(v)
		}
		t = strings.Join(literals, " | ")
	case shape.FieldObject:
		t = f.Ref.QualifiedName
	case shape.FieldUnion:
		names := make([]string, len(f.Variants))
		for i, v := range f.Variants {
			names[i] = v.QualifiedName
		}
		t = strings.Join(names, " | ")
	}
	if f.IsList {
		if strings.Contains(t, "|") {
			t = "(" + t + ")"
		}
		t += "[]"
	}
	return t
}

// fieldValue renders the sample side of one field. Lists always carry a
// single representative element.
func fieldValue(f shape.FieldShape) string {
	var v string
	switch f.Kind {
	case shape.FieldTypename:
		return tsString(f.Sample.(string))
	case shape.FieldScalar:
		v = literal(f.Sample)
	case shape.FieldEnum:
		v = tsString(f.EnumValues[0])
	case shape.FieldObject:
		v = f.Ref.FactoryName + "()"
	case shape.FieldUnion:
		v = f.Variants[0].FactoryName + "()"
	}
	if f.IsList {
		v = "[" + v + "]"
	}
	return v
}

// literal renders one scalar sample value as TypeScript source.
func literal(v any) string {
	switch val := v.(type) {
	case string:
		return tsString(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', 2, 64)
	case map[string]any:
		return "{}"
	case nil:
		return "null"
	default:
		return tsString(fmt.Sprint(val))
	}
}

// tsString renders a single-quoted TypeScript string literal.
func tsString(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	return "'" + escaped + "'"
}
