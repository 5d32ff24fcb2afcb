package shape

import (
	"context"

	diag "github.com/farmstrong8/gqlmockgen/internal/diag"
	language "github.com/farmstrong8/gqlmockgen/internal/language"
	schema "github.com/farmstrong8/gqlmockgen/internal/schema"
)

// FieldClass is the walker's verdict on one selected field.
type FieldClass int

const (
	ClassScalar FieldClass = iota
	ClassEnum
	ClassObject    // object with a non-empty sub-selection
	ClassInterface // interface with a non-empty sub-selection
	ClassUnion     // deferred to variant expansion
	ClassOpaque    // composite selected without a sub-selection
)

// ClassifiedField is one field of a selection, resolved against the owner
// type. Sub-selections of same-named fields are already merged.
type ClassifiedField struct {
	Name     string
	FieldDef *schema.Field
	TypeName string       // innermost named result type
	Type     *schema.Type // resolved named type, nil for undeclared scalars
	Class    FieldClass
	IsList   bool
	NonNull  bool
	Sub      language.SelectionSet
}

// Walker is the shared analysis substrate of both generation sides: it
// classifies each selected field exactly once, and both the structural and
// the sample builder consume the same classification.
type Walker struct {
	Schema *schema.Schema
	Bus    *diag.Bus
}

// Analyze classifies the fields a selection set requests from an owner type.
// Insertion order is preserved; it determines emitted field order. Fields
// absent from the owner are skipped with a warning rather than failing the
// walk, since interface fragments are commonly spread across broader
// selections. Inline type conditions applicable to the owner are flattened
// in place; __typename requests are dropped because the discriminant is
// always injected.
func (w *Walker) Analyze(ctx context.Context, owner *schema.Type, sel language.SelectionSet) []ClassifiedField {
	grouped := newFieldGroups()
	w.collect(ctx, owner, owner, sel, grouped)

	out := make([]ClassifiedField, 0, len(grouped.ordered))
	for _, g := range grouped.ordered {
		if cf, ok := w.classify(ctx, owner, g); ok {
			out = append(out, cf)
		}
	}
	return out
}

// collect groups fields by response name, flattening inline conditions that
// apply to the owner. Non-applicable known conditions are skipped silently
// (runtime semantics); unknown targets warn. Fields reached through a folded
// condition classify against the condition's target, since an implementing
// type declares fields its interface does not.
func (w *Walker) collect(ctx context.Context, owner, defOwner *schema.Type, sel language.SelectionSet, grouped *fieldGroups) {
	for _, node := range sel {
		switch n := node.(type) {
		case *language.Field:
			if n.Name == "__typename" {
				continue
			}
			grouped.add(responseName(n), n, defOwner)

		case *language.InlineFragment:
			if n.TypeCondition == "" {
				w.collect(ctx, owner, defOwner, n.SelectionSet, grouped)
				continue
			}
			target := w.Schema.Types[n.TypeCondition]
			if target == nil {
				diag.Warn(ctx, w.Bus, diag.NonMemberTypeCondition{
					OwnerTypeName:  owner.Name,
					TargetTypeName: n.TypeCondition,
				})
				continue
			}
			if w.conditionApplies(owner, target) {
				w.collect(ctx, owner, target, n.SelectionSet, grouped)
			}

		case *language.FragmentSpread:
			// Spreads are inlined by the resolver before the walk; one that
			// survives was dropped there and contributes nothing.
			continue
		}
	}
}

// conditionApplies reports whether a type condition folds into the owner's
// flat shape: the owner itself, an interface the owner satisfies, or (for
// interface owners) an implementing type or an overlapping interface.
// Satisfaction is consulted both ways, through the owner's declared
// interfaces and through the target's possible types, so transitive
// interface implementations fold too. Interfaces deliberately fold all
// variant fields into one flat shape; only unions split into variants.
func (w *Walker) conditionApplies(owner, target *schema.Type) bool {
	if owner.Name == target.Name {
		return true
	}
	switch owner.Kind {
	case schema.TypeKindObject:
		for _, iface := range owner.Interfaces {
			if iface == target.Name {
				return true
			}
		}
		if target.HasPossibleType(owner.Name) {
			return true
		}
	case schema.TypeKindInterface:
		if owner.HasPossibleType(target.Name) {
			return true
		}
		if target.Kind == schema.TypeKindInterface {
			for _, p := range target.PossibleTypes {
				if owner.HasPossibleType(p) {
					return true
				}
			}
		}
	}
	return false
}

func (w *Walker) classify(ctx context.Context, owner *schema.Type, g fieldGroup) (ClassifiedField, bool) {
	def := g.defOwner.GetField(g.fieldName)
	if def == nil {
		def = owner.GetField(g.fieldName)
	}
	if def == nil {
		diag.Warn(ctx, w.Bus, diag.UnknownField{TypeName: g.defOwner.Name, FieldName: g.fieldName})
		return ClassifiedField{}, false
	}

	named := def.Type.GetNamedType()
	typ := w.Schema.Types[named]
	cf := ClassifiedField{
		Name:     g.responseName,
		FieldDef: def,
		TypeName: named,
		Type:     typ,
		IsList:   def.Type.IsList(),
		NonNull:  def.Type.IsNonNull(),
		Sub:      g.sub,
	}

	switch {
	case typ == nil:
		cf.Class = ClassScalar // undeclared scalar, leaf with heuristic value
	case typ.Kind == schema.TypeKindScalar:
		cf.Class = ClassScalar
	case typ.Kind == schema.TypeKindEnum:
		cf.Class = ClassEnum
	case typ.Kind == schema.TypeKindUnion:
		cf.Class = ClassUnion
	case len(g.sub) == 0:
		cf.Class = ClassOpaque
	case typ.Kind == schema.TypeKindInterface:
		cf.Class = ClassInterface
	default:
		cf.Class = ClassObject
	}
	return cf, true
}

// fieldGroups preserves selection order while merging same-named fields,
// concatenating their sub-selections for a depth-first merge.
type fieldGroups struct {
	ordered []fieldGroup
	index   map[string]int
}

type fieldGroup struct {
	responseName string
	fieldName    string
	defOwner     *schema.Type // type whose declaration the field resolves against
	sub          language.SelectionSet
}

func newFieldGroups() *fieldGroups {
	return &fieldGroups{index: make(map[string]int)}
}

func (g *fieldGroups) add(responseName string, f *language.Field, defOwner *schema.Type) {
	if i, ok := g.index[responseName]; ok {
		g.ordered[i].sub = append(g.ordered[i].sub, f.SelectionSet...)
		return
	}
	g.index[responseName] = len(g.ordered)
	g.ordered = append(g.ordered, fieldGroup{
		responseName: responseName,
		fieldName:    f.Name,
		defOwner:     defOwner,
		sub:          append(language.SelectionSet{}, f.SelectionSet...),
	})
}

func responseName(f *language.Field) string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}
