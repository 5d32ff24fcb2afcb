package shape

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	diag "github.com/farmstrong8/gqlmockgen/internal/diag"
	language "github.com/farmstrong8/gqlmockgen/internal/language"
	mockval "github.com/farmstrong8/gqlmockgen/internal/mockval"
	schema "github.com/farmstrong8/gqlmockgen/internal/schema"
)

// DefaultMaxNestingDepth bounds object recursion. At the bound the reached
// field still materializes a typename-only shape so no reference dangles.
const DefaultMaxNestingDepth = 5

// Options configures one Builder.
type Options struct {
	Namer           Namer
	MaxNestingDepth int
}

// Builder produces, for one operation or fragment at a time, the full set of
// shape artifacts: structural type and sample value in lock-step, both sides
// derived from a single walker classification per field.
//
// A Builder is scoped to one generation run: its visited-state cache and
// artifact list reset with it.
type Builder struct {
	schema *schema.Schema
	walker *Walker
	oracle *mockval.Oracle
	bus    *diag.Bus
	namer  Namer
	max    int

	artifacts []Artifact
	visited   map[string]*buildResult
}

// buildResult is the outcome of building one shape. A non-empty variant list
// means the plain shape is suppressed and the variants stand in for it.
type buildResult struct {
	desc     *ShapeDescriptor
	variants []*ShapeDescriptor
}

// NewBuilder creates a Builder for one run.
func NewBuilder(s *schema.Schema, oracle *mockval.Oracle, bus *diag.Bus, opts Options) *Builder {
	max := opts.MaxNestingDepth
	if max <= 0 {
		max = DefaultMaxNestingDepth
	}
	return &Builder{
		schema:  s,
		walker:  &Walker{Schema: s, Bus: bus},
		oracle:  oracle,
		bus:     bus,
		namer:   opts.Namer,
		max:     max,
		visited: make(map[string]*buildResult),
	}
}

// Artifacts returns everything collected so far, dependencies first.
func (b *Builder) Artifacts() []Artifact {
	return append([]Artifact(nil), b.artifacts...)
}

// BuildOperation generates artifacts for one operation whose fragment
// spreads are already resolved. When variant expansion reaches the root the
// plain root artifact is suppressed and only the variants are emitted: a
// caller consuming a polymorphic result must pick one concrete shape.
func (b *Builder) BuildOperation(ctx context.Context, op *language.OperationDefinition, resolved language.SelectionSet) error {
	kind, root := b.operationRoot(op)
	if root == nil {
		return fmt.Errorf("schema declares no %s root type", op.Operation)
	}
	name := op.Name
	if name == "" {
		name = "Anonymous"
	}
	rootName := b.namer.RootName(name, kind)

	res := b.buildShape(ctx, root, resolved, rootName, nil, 0)
	if len(res.variants) == 0 {
		b.appendArtifact(kind, res.desc)
	}
	return nil
}

// BuildFragment generates artifacts for one named fragment definition,
// rooted at the fragment's type condition.
func (b *Builder) BuildFragment(ctx context.Context, frag *language.FragmentDefinition, resolved language.SelectionSet) error {
	owner := b.schema.Types[frag.TypeCondition]
	if owner == nil {
		diag.Warn(ctx, b.bus, diag.NonMemberTypeCondition{
			OwnerTypeName:  frag.Name,
			TargetTypeName: frag.TypeCondition,
		})
		return nil
	}
	rootName := b.namer.RootName(frag.Name, KindFragment)
	res := b.buildShape(ctx, owner, resolved, rootName, nil, 0)
	if len(res.variants) == 0 {
		b.appendArtifact(KindFragment, res.desc)
	}
	return nil
}

func (b *Builder) operationRoot(op *language.OperationDefinition) (ArtifactKind, *schema.Type) {
	switch op.Operation {
	case language.Mutation:
		return KindMutation, b.schema.GetMutationType()
	case language.Subscription:
		return KindSubscription, b.schema.GetSubscriptionType()
	default:
		return KindQuery, b.schema.GetQueryType()
	}
}

// expansion records one polymorphic field of a shape: either a union field
// expanded in place or an object field whose nested shape split into
// variants further down.
type expansion struct {
	fieldIdx int
	direct   bool // true for a union field of this very shape
	variants []*ShapeDescriptor
}

// buildShape walks one composite type against one selection set, emitting
// nested artifacts leaves-first and returning the shape for this level.
func (b *Builder) buildShape(ctx context.Context, owner *schema.Type, sel language.SelectionSet, rootName string, path []string, depth int) *buildResult {
	qualified := b.namer.QualifiedName(rootName, path)
	key := owner.Name + "|" + qualified + "|" + strconv.Itoa(depth)
	if cached, ok := b.visited[key]; ok {
		return cached
	}

	desc := &ShapeDescriptor{
		Path:          strings.Join(path, "."),
		OwnerTypeName: owner.Name,
		QualifiedName: qualified,
		FactoryName:   b.namer.FactoryName(qualified),
		Depth:         depth,
	}
	desc.Fields = append(desc.Fields, FieldShape{
		Name:   "__typename",
		Kind:   FieldTypename,
		Sample: owner.Name,
	})

	var expansions []expansion
	for _, cf := range b.walker.Analyze(ctx, owner, sel) {
		fieldPath := append(append([]string(nil), path...), cf.Name)
		fs := FieldShape{
			Name:     cf.Name,
			Nullable: !cf.NonNull,
			IsList:   cf.IsList,
		}

		switch cf.Class {
		case ClassScalar:
			fs.Kind = FieldScalar
			fs.ScalarTS = tsScalarType(cf.TypeName)
			fs.Sample = b.oracle.ScalarValue(cf.TypeName, mockval.Context{
				TypeName:  owner.Name,
				FieldName: cf.Name,
				Path:      strings.Join(fieldPath, "."),
			})

		case ClassEnum:
			fs.Kind = FieldEnum
			for _, v := range cf.Type.EnumValues {
				fs.EnumValues = append(fs.EnumValues, v.Name)
			}
			if len(fs.EnumValues) == 0 {
				continue // degenerate enum, nothing to emit
			}

		case ClassOpaque:
			fs.Kind = FieldObject
			fs.Ref = b.buildChild(ctx, cf.Type, nil, rootName, fieldPath, depth).desc

		case ClassObject, ClassInterface:
			child := b.buildChild(ctx, cf.Type, cf.Sub, rootName, fieldPath, depth)
			if len(child.variants) > 0 {
				fs.Kind = FieldUnion
				fs.Variants = child.variants
				expansions = append(expansions, expansion{
					fieldIdx: len(desc.Fields),
					variants: child.variants,
				})
			} else {
				fs.Kind = FieldObject
				fs.Ref = child.desc
			}

		case ClassUnion:
			variants := b.expandUnion(ctx, cf, rootName, path, depth)
			if len(variants) == 0 {
				continue // no type conditions selected: benign, field dropped
			}
			fs.Kind = FieldUnion
			fs.Variants = variants
			expansions = append(expansions, expansion{
				fieldIdx: len(desc.Fields),
				direct:   true,
				variants: variants,
			})
		}

		desc.Fields = append(desc.Fields, fs)
	}

	res := &buildResult{desc: desc}
	switch {
	case len(expansions) == 0:
		if len(path) > 0 {
			b.appendArtifact(KindNested, desc)
		}
	case b.rootOnlyUnion(desc, path, expansions):
		// The union field is the whole root selection: the member shapes are
		// themselves the operation's mutually exclusive results.
		res.variants = expansions[0].variants
	default:
		res.variants = b.wrapVariants(desc, expansions)
	}
	b.visited[key] = res
	return res
}

// buildChild recurses into a nested object field, materializing a
// typename-only shape once the nesting bound is reached.
func (b *Builder) buildChild(ctx context.Context, owner *schema.Type, sel language.SelectionSet, rootName string, fieldPath []string, depth int) *buildResult {
	if depth+1 >= b.max && len(sel) > 0 {
		diag.Warn(ctx, b.bus, diag.NestingDepthTruncated{Path: strings.Join(fieldPath, ".")})
		sel = nil
	}
	return b.buildShape(ctx, owner, sel, rootName, fieldPath, depth+1)
}

// expandUnion produces one complete, independently usable shape per union
// member selected by an inline type condition. Only conditions naming a
// declared member contribute; anything else is dropped with a warning. Two
// conditions on the same member merge into that member's single variant, the
// same way repeated fields merge.
func (b *Builder) expandUnion(ctx context.Context, cf ClassifiedField, rootName string, path []string, depth int) []*ShapeDescriptor {
	type memberSel struct {
		member *schema.Type
		sel    language.SelectionSet
	}
	var ordered []*memberSel
	index := map[string]int{}
	for _, node := range cf.Sub {
		inf, ok := node.(*language.InlineFragment)
		if !ok || inf.TypeCondition == "" {
			continue // bare fields beside type conditions are ignored on unions
		}
		member := b.schema.Types[inf.TypeCondition]
		if member == nil || !cf.Type.HasPossibleType(inf.TypeCondition) {
			diag.Warn(ctx, b.bus, diag.NonMemberTypeCondition{
				OwnerTypeName:  cf.Type.Name,
				TargetTypeName: inf.TypeCondition,
			})
			continue
		}
		if i, seen := index[member.Name]; seen {
			ordered[i].sel = append(ordered[i].sel, inf.SelectionSet...)
			continue
		}
		index[member.Name] = len(ordered)
		ordered = append(ordered, &memberSel{
			member: member,
			sel:    append(language.SelectionSet{}, inf.SelectionSet...),
		})
	}

	var variants []*ShapeDescriptor
	for _, ms := range ordered {
		seg := VariantSegment(cf.Name, ms.member.Name)
		memberPath := append(append([]string(nil), path...), seg)
		child := b.buildVariant(ctx, ms.member, ms.sel, rootName, memberPath, depth)
		for _, v := range child {
			v.VariantMember = ms.member.Name
			variants = append(variants, v)
		}
	}
	return variants
}

// buildVariant builds one union member's shape and emits it as a variant
// artifact. A nested union inside the member flattens into the member's own
// variant list.
func (b *Builder) buildVariant(ctx context.Context, member *schema.Type, sel language.SelectionSet, rootName string, memberPath []string, depth int) []*ShapeDescriptor {
	res := b.buildChild(ctx, member, sel, rootName, memberPath, depth)
	if len(res.variants) > 0 {
		return res.variants
	}
	// buildChild appended the member as a nested shape; reclassify it.
	b.reclassifyArtifact(res.desc, KindVariant)
	return []*ShapeDescriptor{res.desc}
}

// rootOnlyUnion reports whether the shape is an operation root whose entire
// selection is a single expanded union field. In that case the member shapes
// stand in for the operation directly, carrying the member discriminant.
func (b *Builder) rootOnlyUnion(desc *ShapeDescriptor, path []string, expansions []expansion) bool {
	return len(path) == 0 &&
		len(expansions) == 1 &&
		expansions[0].direct &&
		len(desc.Fields) == 2 // discriminant plus the union field
}

// wrapVariants re-emits a shape once per member of each polymorphic field,
// structurally identical to the plain shape except that the one field holds
// the concrete member. This upward propagation turns "one field is
// polymorphic" into "the enclosing shape has N mutually exclusive variants";
// it repeats at every enclosing level up to the operation root, whose plain
// artifact is then suppressed.
func (b *Builder) wrapVariants(desc *ShapeDescriptor, expansions []expansion) []*ShapeDescriptor {
	var out []*ShapeDescriptor
	for _, ex := range expansions {
		for _, v := range ex.variants {
			wrapped := &ShapeDescriptor{
				Path:          desc.Path,
				OwnerTypeName: desc.OwnerTypeName,
				QualifiedName: b.namer.VariantName(desc.QualifiedName, v.VariantMember),
				FactoryName:   b.namer.FactoryName(b.namer.VariantName(desc.QualifiedName, v.VariantMember)),
				Depth:         desc.Depth,
				VariantMember: v.VariantMember,
				Fields:        append([]FieldShape(nil), desc.Fields...),
			}
			bound := wrapped.Fields[ex.fieldIdx]
			bound.Kind = FieldObject
			bound.Ref = v
			bound.Variants = nil
			wrapped.Fields[ex.fieldIdx] = bound
			b.appendArtifact(KindVariant, wrapped)
			out = append(out, wrapped)
		}
	}
	return out
}

func (b *Builder) appendArtifact(kind ArtifactKind, desc *ShapeDescriptor) {
	b.artifacts = append(b.artifacts, Artifact{
		Name:  desc.QualifiedName,
		Kind:  kind,
		Shape: desc,
	})
}

// reclassifyArtifact rewrites the kind of an already-collected artifact.
func (b *Builder) reclassifyArtifact(desc *ShapeDescriptor, kind ArtifactKind) {
	for i := range b.artifacts {
		if b.artifacts[i].Shape == desc {
			b.artifacts[i].Kind = kind
			return
		}
	}
}

// tsScalarType maps a scalar type name to its TypeScript-semantic type.
// Custom scalars are mapped heuristically by name; anything unrecognized
// stays any.
func tsScalarType(name string) string {
	switch name {
	case "Int", "Float":
		return "number"
	case "String", "ID":
		return "string"
	case "Boolean":
		return "boolean"
	}
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "date") || strings.Contains(lower, "time"):
		return "string"
	case strings.Contains(lower, "json"):
		return "any"
	default:
		return "any"
	}
}
