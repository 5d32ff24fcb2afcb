package selection

import (
	"context"

	diag "github.com/farmstrong8/gqlmockgen/internal/diag"
	language "github.com/farmstrong8/gqlmockgen/internal/language"
)

// DefaultMaxFragmentDepth bounds nested fragment expansion. Legitimate
// schemas model self-referential structures (a User fragment selecting
// friends that spread the fragment again), so resolution terminates by
// expansion levels rather than failing the run.
const DefaultMaxFragmentDepth = 4

// Resolver inlines fragment spreads into their constituent selections.
//
// Spreads are replaced by the fragment's recursively resolved selection set,
// wrapped in an inline type-condition marker so that union and interface
// conditioning survives inlining. Inline conditions already present are
// resolved in place and kept as markers. Unknown fragments are dropped with a
// warning; a fragment occurring in its own expansion chain is reported once
// and bounded by MaxDepth.
type Resolver struct {
	Registry *Registry
	MaxDepth int
	Bus      *diag.Bus
}

// NewResolver creates a Resolver with the default expansion bound.
func NewResolver(reg *Registry, bus *diag.Bus) *Resolver {
	return &Resolver{Registry: reg, MaxDepth: DefaultMaxFragmentDepth, Bus: bus}
}

// Resolve returns a selection set free of fragment spreads.
func (r *Resolver) Resolve(ctx context.Context, sel language.SelectionSet) language.SelectionSet {
	return r.resolve(ctx, sel, 0, nil)
}

func (r *Resolver) resolve(ctx context.Context, sel language.SelectionSet, depth int, chain []string) language.SelectionSet {
	var out language.SelectionSet
	for _, node := range sel {
		switch n := node.(type) {
		case *language.Field:
			f := *n
			f.SelectionSet = r.resolve(ctx, n.SelectionSet, depth, chain)
			out = append(out, &f)

		case *language.InlineFragment:
			inf := *n
			inf.SelectionSet = r.resolve(ctx, n.SelectionSet, depth, chain)
			out = append(out, &inf)

		case *language.FragmentSpread:
			def := r.Registry.Lookup(n.Name)
			if def == nil {
				diag.Warn(ctx, r.Bus, diag.UnknownFragment{Name: n.Name})
				continue
			}
			if containsName(chain, n.Name) {
				diag.Warn(ctx, r.Bus, diag.FragmentCycle{Name: n.Name, Chain: append(append([]string(nil), chain...), n.Name)})
			}
			if depth >= r.maxDepth() {
				diag.Warn(ctx, r.Bus, diag.FragmentDepthTruncated{Name: n.Name, Depth: depth})
				continue
			}
			expanded := r.resolve(ctx, def.SelectionSet, depth+1, append(chain, n.Name))
			if def.TypeCondition != "" {
				out = append(out, &language.InlineFragment{
					TypeCondition: def.TypeCondition,
					SelectionSet:  expanded,
				})
			} else {
				out = append(out, expanded...)
			}
		}
	}
	return mergeFields(out)
}

func (r *Resolver) maxDepth() int {
	if r.MaxDepth > 0 {
		return r.MaxDepth
	}
	return DefaultMaxFragmentDepth
}

// mergeFields merges same-named fields at one level, concatenating their
// sub-selections. Fields are additive; deeper duplicates merge when the
// walker groups the concatenated children. Inline fragments keep their
// position and are never merged, so duplicate type conditions stay duplicated.
func mergeFields(sel language.SelectionSet) language.SelectionSet {
	var out language.SelectionSet
	index := map[string]int{}
	for _, node := range sel {
		f, ok := node.(*language.Field)
		if !ok {
			out = append(out, node)
			continue
		}
		name := responseName(f)
		if i, seen := index[name]; seen {
			prev := out[i].(*language.Field)
			merged := *prev
			merged.SelectionSet = append(append(language.SelectionSet{}, prev.SelectionSet...), f.SelectionSet...)
			out[i] = &merged
			continue
		}
		index[name] = len(out)
		out = append(out, f)
	}
	return out
}

func responseName(f *language.Field) string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

func containsName(chain []string, name string) bool {
	for _, c := range chain {
		if c == name {
			return true
		}
	}
	return false
}
