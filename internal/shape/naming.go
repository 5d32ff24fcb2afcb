package shape

import "strings"

// Namer assigns deterministic, collision-resistant names to shapes. Names
// are a pure function of the root name and the path, never of the owner type
// alone, so identical types at different paths never collide and repeated
// calls always recompute the same name.
type Namer struct {
	// AddOperationSuffix appends Query/Mutation/Subscription/Fragment to
	// root-level names. Nested and variant names are unaffected.
	AddOperationSuffix bool
}

// RootName computes the root-level shape name for an operation or fragment.
func (n Namer) RootName(name string, kind ArtifactKind) string {
	root := pascalCase(name)
	if !n.AddOperationSuffix {
		return root
	}
	suffix := operationSuffix(kind)
	if suffix == "" || strings.HasSuffix(root, suffix) {
		return root
	}
	return root + suffix
}

// QualifiedName joins the root name with PascalCased path segments.
func (Namer) QualifiedName(rootName string, path []string) string {
	var b strings.Builder
	b.WriteString(rootName)
	for _, seg := range path {
		b.WriteString(pascalCase(seg))
	}
	return b.String()
}

// FactoryName derives the value-factory name for a qualified shape name.
func (Namer) FactoryName(qualifiedName string) string {
	return "a" + qualifiedName
}

// VariantName names one union/interface member variant of a shape.
func (Namer) VariantName(qualifiedName, memberTypeName string) string {
	return qualifiedName + "As" + memberTypeName
}

// VariantSegment is the path segment under which a union member's own
// selection is built, keeping children of different variants apart.
func VariantSegment(fieldName, memberTypeName string) string {
	return fieldName + "As" + memberTypeName
}

func operationSuffix(kind ArtifactKind) string {
	switch kind {
	case KindQuery:
		return "Query"
	case KindMutation:
		return "Mutation"
	case KindSubscription:
		return "Subscription"
	case KindFragment:
		return "Fragment"
	}
	return ""
}

func pascalCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
