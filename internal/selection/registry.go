package selection

import (
	language "github.com/farmstrong8/gqlmockgen/internal/language"
)

// Registry maps fragment names to their definitions. It is built once per
// generation run across every document, so fragments are visible to
// operations in any document of the run.
type Registry struct {
	fragments map[string]*language.FragmentDefinition
	order     []string
}

// BuildRegistry collects fragment definitions from all documents.
// A later definition with a duplicate name wins, matching document order.
func BuildRegistry(docs []*language.QueryDocument) *Registry {
	r := &Registry{fragments: make(map[string]*language.FragmentDefinition)}
	for _, doc := range docs {
		for _, frag := range doc.Fragments {
			if _, seen := r.fragments[frag.Name]; !seen {
				r.order = append(r.order, frag.Name)
			}
			r.fragments[frag.Name] = frag
		}
	}
	return r
}

// Lookup returns the fragment definition or nil.
func (r *Registry) Lookup(name string) *language.FragmentDefinition {
	if r == nil {
		return nil
	}
	return r.fragments[name]
}

// Names returns fragment names in first-seen order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
