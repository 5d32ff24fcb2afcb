package shape

// ArtifactKind distinguishes the origin of a generated artifact.
type ArtifactKind string

const (
	KindQuery        ArtifactKind = "query"
	KindMutation     ArtifactKind = "mutation"
	KindSubscription ArtifactKind = "subscription"
	KindFragment     ArtifactKind = "fragment"
	KindNested       ArtifactKind = "nested-shape"
	KindVariant      ArtifactKind = "variant"
)

// Artifact pairs a named shape with its kind. Artifacts are ordered
// dependencies-first: a shape referencing another shape's factory always
// appears after that shape.
type Artifact struct {
	Name  string
	Kind  ArtifactKind
	Shape *ShapeDescriptor
}

// ShapeDescriptor is one named structural shape paired with its sample
// value. The same schema type reached via two different paths yields two
// distinct descriptors with distinct qualified names; sharing sample
// identity across contexts is exactly what this prevents.
type ShapeDescriptor struct {
	Path          string // dot-joined field route from the operation root, "" at root
	OwnerTypeName string // schema type this shape represents
	QualifiedName string // root name + PascalCase path, unique per path
	FactoryName   string // "a" + QualifiedName
	Depth         int
	VariantMember string // member type name when this shape is a union variant
	Fields        []FieldShape
}

// FieldKind classifies one field of a shape.
type FieldKind int

const (
	// FieldTypename is the injected discriminant, always first and non-null.
	FieldTypename FieldKind = iota
	FieldScalar
	FieldEnum
	FieldObject
	FieldUnion
)

// FieldShape carries both sides of the dual build for one field: the
// structural type and the concrete sample value. Both derive from one walker
// classification, so they cannot drift apart.
type FieldShape struct {
	Name     string
	Kind     FieldKind
	Nullable bool // structural marker only; samples are always populated
	IsList   bool

	// FieldScalar / FieldTypename
	ScalarTS string // TypeScript-semantic type ("string", "number", ...)
	Sample   any

	// FieldEnum: declared values in order; the sample is always the first.
	EnumValues []string

	// FieldObject: the nested shape, referenced by factory.
	Ref *ShapeDescriptor

	// FieldUnion: one complete shape per inline type condition. The plain
	// sample embeds the first variant's factory.
	Variants []*ShapeDescriptor
}
