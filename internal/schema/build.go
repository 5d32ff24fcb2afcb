package schema

import (
	"sort"
	"strings"

	language "github.com/farmstrong8/gqlmockgen/internal/language"
)

// FromAST converts a linked gqlparser schema into the generator's type graph.
// Introspection-only types are dropped; builtin scalars are kept so that leaf
// classification never misses a lookup.
func FromAST(src *language.Schema) *Schema {
	s := &Schema{
		Types:       make(map[string]*Type, len(src.Types)),
		Description: src.Description,
	}
	if src.Query != nil {
		s.QueryType = src.Query.Name
	}
	if src.Mutation != nil {
		s.MutationType = src.Mutation.Name
	}
	if src.Subscription != nil {
		s.SubscriptionType = src.Subscription.Name
	}

	for name, def := range src.Types {
		if strings.HasPrefix(name, "__") {
			continue
		}
		s.Types[name] = buildType(src, def)
	}
	return s
}

// FromSDL parses SDL and builds the type graph. A bare "type Query" SDL is
// accepted; gqlparser links the schema definition implicitly.
func FromSDL(name, sdl string) (*Schema, error) {
	src, err := language.LoadSchema(name, sdl)
	if err != nil {
		return nil, err
	}
	return FromAST(src), nil
}

func buildType(src *language.Schema, def *language.Definition) *Type {
	t := &Type{
		Name:        def.Name,
		Kind:        buildKind(def.Kind),
		Description: def.Description,
	}
	switch def.Kind {
	case language.Object, language.Interface:
		t.Interfaces = append(t.Interfaces, def.Interfaces...)
		for _, f := range def.Fields {
			if strings.HasPrefix(f.Name, "__") {
				continue
			}
			t.Fields = append(t.Fields, buildField(f))
		}
		if def.Kind == language.Interface {
			t.PossibleTypes = possibleTypeNames(src, def.Name)
		}
	case language.Union:
		t.PossibleTypes = append(t.PossibleTypes, def.Types...)
	case language.Enum:
		for _, v := range def.EnumValues {
			t.EnumValues = append(t.EnumValues, &EnumValue{Name: v.Name, Description: v.Description})
		}
	case language.InputObject:
		for _, f := range def.Fields {
			t.InputFields = append(t.InputFields, &InputValue{
				Name:        f.Name,
				Description: f.Description,
				Type:        buildTypeRef(f.Type),
			})
		}
	}
	return t
}

func buildField(def *language.FieldDefinition) *Field {
	f := &Field{
		Name:        def.Name,
		Description: def.Description,
		Type:        buildTypeRef(def.Type),
	}
	for _, arg := range def.Arguments {
		f.Arguments = append(f.Arguments, &InputValue{
			Name:        arg.Name,
			Description: arg.Description,
			Type:        buildTypeRef(arg.Type),
		})
	}
	return f
}

func buildTypeRef(t *language.Type) *TypeRef {
	if t == nil {
		return nil
	}
	var inner *TypeRef
	if t.NamedType != "" {
		inner = NamedType(t.NamedType)
	} else {
		inner = ListType(buildTypeRef(t.Elem))
	}
	if t.NonNull {
		return NonNullType(inner)
	}
	return inner
}

func buildKind(k language.DefinitionKind) TypeKind {
	switch k {
	case language.Object:
		return TypeKindObject
	case language.Interface:
		return TypeKindInterface
	case language.Union:
		return TypeKindUnion
	case language.Enum:
		return TypeKindEnum
	case language.InputObject:
		return TypeKindInputObject
	default:
		return TypeKindScalar
	}
}

// possibleTypeNames returns the sorted object type names implementing the
// named interface. Sorted for deterministic output across runs.
func possibleTypeNames(src *language.Schema, ifaceName string) []string {
	defs := src.PossibleTypes[ifaceName]
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}
