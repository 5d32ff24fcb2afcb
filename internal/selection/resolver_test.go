package selection_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	diag "github.com/farmstrong8/gqlmockgen/internal/diag"
	language "github.com/farmstrong8/gqlmockgen/internal/language"
	selection "github.com/farmstrong8/gqlmockgen/internal/selection"
)

func mustParseQuery(t *testing.T, source string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery("test.graphql", source)
	require.NoError(t, err)
	return doc
}

func newResolver(t *testing.T, docs ...*language.QueryDocument) (*selection.Resolver, *diag.Collector) {
	t.Helper()
	bus := diag.NewBus()
	collector := (&diag.Collector{}).Attach(bus)
	return selection.NewResolver(selection.BuildRegistry(docs), bus), collector
}

func TestResolveInlinesSpreadWithCondition(t *testing.T) {
	doc := mustParseQuery(t, `
		query GetUser { me { id ...UserParts } }
		fragment UserParts on User { name email }
	`)
	resolver, collector := newResolver(t, doc)

	resolved := resolver.Resolve(context.Background(), doc.Operations[0].SelectionSet)
	require.Len(t, resolved, 1)

	me, ok := resolved[0].(*language.Field)
	require.True(t, ok)
	require.Equal(t, "me", me.Name)
	require.Len(t, me.SelectionSet, 2)

	id, ok := me.SelectionSet[0].(*language.Field)
	require.True(t, ok)
	require.Equal(t, "id", id.Name)

	inlined, ok := me.SelectionSet[1].(*language.InlineFragment)
	require.True(t, ok, "spread must inline as a type-condition marker")
	require.Equal(t, "User", inlined.TypeCondition)
	require.Len(t, inlined.SelectionSet, 2)

	require.Equal(t, 0, collector.Count())
}

func TestResolveCrossDocumentFragments(t *testing.T) {
	opDoc := mustParseQuery(t, `query Feed { posts { ...PostParts } }`)
	fragDoc := mustParseQuery(t, `fragment PostParts on Post { id title }`)
	resolver, collector := newResolver(t, opDoc, fragDoc)

	resolved := resolver.Resolve(context.Background(), opDoc.Operations[0].SelectionSet)
	posts := resolved[0].(*language.Field)
	require.Len(t, posts.SelectionSet, 1)
	inlined := posts.SelectionSet[0].(*language.InlineFragment)
	require.Equal(t, "Post", inlined.TypeCondition)
	require.Equal(t, 0, collector.Count())
}

func TestResolveUnknownFragmentDropsSpread(t *testing.T) {
	doc := mustParseQuery(t, `query Q { me { id ...Missing } }`)
	resolver, collector := newResolver(t, doc)

	resolved := resolver.Resolve(context.Background(), doc.Operations[0].SelectionSet)
	me := resolved[0].(*language.Field)
	require.Len(t, me.SelectionSet, 1, "unknown spread contributes nothing")

	warnings := collector.Warnings()
	require.Len(t, warnings, 1)
	unknown, ok := warnings[0].(diag.UnknownFragment)
	require.True(t, ok)
	require.Equal(t, "Missing", unknown.Name)
}

func TestResolveCycleTerminates(t *testing.T) {
	doc := mustParseQuery(t, `
		query Q { me { ...UserParts } }
		fragment UserParts on User { name friends { ...UserParts } }
	`)
	resolver, collector := newResolver(t, doc)

	resolved := resolver.Resolve(context.Background(), doc.Operations[0].SelectionSet)
	require.NotEmpty(t, resolved)

	var sawCycle, sawTruncation bool
	for _, w := range collector.Warnings() {
		switch w.(type) {
		case diag.FragmentCycle:
			sawCycle = true
		case diag.FragmentDepthTruncated:
			sawTruncation = true
		}
	}
	require.True(t, sawCycle, "self-spreading fragment must be reported")
	require.True(t, sawTruncation, "expansion must stop at the depth bound")
}

func TestResolveMutualCycleTerminates(t *testing.T) {
	doc := mustParseQuery(t, `
		query Q { me { ...A } }
		fragment A on User { name ...B }
		fragment B on User { email ...A }
	`)
	resolver, collector := newResolver(t, doc)
	resolver.MaxDepth = 3

	resolved := resolver.Resolve(context.Background(), doc.Operations[0].SelectionSet)
	require.NotEmpty(t, resolved)
	require.NotZero(t, collector.Count())
}

func TestResolveRespectsConfiguredDepth(t *testing.T) {
	doc := mustParseQuery(t, `
		query Q { ...L1 }
		fragment L1 on Query { a ...L2 }
		fragment L2 on Query { b ...L3 }
		fragment L3 on Query { c }
	`)
	resolver, collector := newResolver(t, doc)
	resolver.MaxDepth = 2

	resolver.Resolve(context.Background(), doc.Operations[0].SelectionSet)

	var truncated []diag.FragmentDepthTruncated
	for _, w := range collector.Warnings() {
		if tr, ok := w.(diag.FragmentDepthTruncated); ok {
			truncated = append(truncated, tr)
		}
	}
	require.Len(t, truncated, 1)
	require.Equal(t, "L3", truncated[0].Name)
}

func TestResolveMergesRepeatedFields(t *testing.T) {
	doc := mustParseQuery(t, `query Q { user { name } user { email } }`)
	resolver, _ := newResolver(t, doc)

	resolved := resolver.Resolve(context.Background(), doc.Operations[0].SelectionSet)
	require.Len(t, resolved, 1, "same-named fields merge at one level")
	user := resolved[0].(*language.Field)
	require.Len(t, user.SelectionSet, 2)
}

func TestRegistryLaterDefinitionWins(t *testing.T) {
	first := mustParseQuery(t, `fragment F on User { name }`)
	second := mustParseQuery(t, `fragment F on User { email }`)
	reg := selection.BuildRegistry([]*language.QueryDocument{first, second})

	def := reg.Lookup("F")
	require.NotNil(t, def)
	require.Equal(t, "email", def.SelectionSet[0].(*language.Field).Name)
	require.Equal(t, []string{"F"}, reg.Names())
}
