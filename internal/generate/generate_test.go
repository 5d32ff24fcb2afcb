package generate_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	diag "github.com/farmstrong8/gqlmockgen/internal/diag"
	generate "github.com/farmstrong8/gqlmockgen/internal/generate"
	language "github.com/farmstrong8/gqlmockgen/internal/language"
	mockval "github.com/farmstrong8/gqlmockgen/internal/mockval"
	schema "github.com/farmstrong8/gqlmockgen/internal/schema"
	shape "github.com/farmstrong8/gqlmockgen/internal/shape"
)

const runSDL = `
type Query {
  todo: Todo
  user: User
}

type Todo {
  id: ID!
  title: String!
}

type User {
  id: ID!
  name: String
}
`

func mustSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sch, err := schema.FromSDL("schema.graphql", runSDL)
	require.NoError(t, err)
	return sch
}

func mustDocs(t *testing.T, sources ...string) []*language.QueryDocument {
	t.Helper()
	docs := make([]*language.QueryDocument, len(sources))
	for i, src := range sources {
		doc, err := language.ParseQuery("doc.graphql", src)
		require.NoError(t, err)
		docs[i] = doc
	}
	return docs
}

func names(artifacts []shape.Artifact) []string {
	out := make([]string, len(artifacts))
	for i, a := range artifacts {
		out[i] = a.Name
	}
	return out
}

func TestRunFragmentsBeforeOperations(t *testing.T) {
	docs := mustDocs(t, `
		query GetTodo { todo { id title } }
		fragment UserParts on User { id name }
	`)
	artifacts, err := generate.Run(context.Background(), mustSchema(t), docs, generate.Options{})
	require.NoError(t, err)

	want := []string{"UserPartsFragment", "GetTodoQueryTodo", "GetTodoQuery"}
	if diff := cmp.Diff(want, names(artifacts)); diff != "" {
		t.Fatalf("artifact order mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, shape.KindFragment, artifacts[0].Kind)
	require.Equal(t, shape.KindNested, artifacts[1].Kind)
	require.Equal(t, shape.KindQuery, artifacts[2].Kind)
}

func TestRunDocumentOrderPreserved(t *testing.T) {
	docs := mustDocs(t,
		`query A { todo { id } }`,
		`query B { user { id } }`,
	)
	artifacts, err := generate.Run(context.Background(), mustSchema(t), docs, generate.Options{})
	require.NoError(t, err)

	want := []string{"AQueryTodo", "AQuery", "BQueryUser", "BQuery"}
	require.Equal(t, want, names(artifacts))
}

func TestRunCrossDocumentFragments(t *testing.T) {
	docs := mustDocs(t,
		`query GetUser { user { ...UserParts } }`,
		`fragment UserParts on User { id name }`,
	)
	artifacts, err := generate.Run(context.Background(), mustSchema(t), docs, generate.Options{})
	require.NoError(t, err)
	require.Contains(t, names(artifacts), "GetUserQueryUser")

	user := artifacts[0].Shape
	require.Equal(t, "GetUserQueryUser", user.QualifiedName)
	require.Len(t, user.Fields, 3) // __typename, id, name
}

func TestRunSuffixToggle(t *testing.T) {
	off := false
	docs := mustDocs(t, `query GetTodo { todo { id } }`)
	artifacts, err := generate.Run(context.Background(), mustSchema(t), docs, generate.Options{
		Config: generate.Config{Naming: generate.NamingConfig{AddOperationSuffix: &off}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"GetTodoTodo", "GetTodo"}, names(artifacts))
}

func TestRunConfigErrorAborts(t *testing.T) {
	docs := mustDocs(t, `query GetTodo { todo { id } }`)
	_, err := generate.Run(context.Background(), mustSchema(t), docs, generate.Options{
		Config: generate.Config{
			Scalars: map[string]mockval.ScalarSpec{
				"Bad": {Generator: "not-a-real-generator"},
			},
		},
	})
	require.Error(t, err)
	var cfgErr *mockval.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestRunPublishesOperationEvents(t *testing.T) {
	bus := diag.NewBus()
	var starts, finishes []string
	diag.Subscribe(bus, func(_ context.Context, e diag.OperationStart) {
		starts = append(starts, e.Kind+":"+e.Name)
	})
	diag.Subscribe(bus, func(_ context.Context, e diag.OperationFinish) {
		finishes = append(finishes, e.Kind+":"+e.Name)
	})

	docs := mustDocs(t, `
		query GetTodo { todo { id } }
		fragment UserParts on User { id }
	`)
	_, err := generate.Run(context.Background(), mustSchema(t), docs, generate.Options{Bus: bus})
	require.NoError(t, err)

	require.Equal(t, []string{"fragment:UserParts", "query:GetTodo"}, starts)
	require.Equal(t, starts, finishes)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gqlmockgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scalars:
  UUID: uuid
  Date:
    generator: date
    arguments: "YYYY-MM-DD"
naming:
  addOperationSuffix: false
limits:
  maxNestingDepth: 3
  maxFragmentDepth: 2
`), 0644))

	cfg, err := generate.LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "uuid", cfg.Scalars["UUID"].Generator)
	require.Empty(t, cfg.Scalars["UUID"].Arguments)
	require.Equal(t, "date", cfg.Scalars["Date"].Generator)
	require.Equal(t, []any{"YYYY-MM-DD"}, cfg.Scalars["Date"].Arguments)
	require.NotNil(t, cfg.Naming.AddOperationSuffix)
	require.False(t, *cfg.Naming.AddOperationSuffix)
	require.Equal(t, 3, cfg.Limits.MaxNestingDepth)
	require.Equal(t, 2, cfg.Limits.MaxFragmentDepth)
}

func TestFileSystemSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.graphql"), []byte(`query B { user { id } }`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.gql"), []byte(`query A { todo { id } }`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "c.graphql"), []byte(`query C { todo { title } }`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte(`not graphql`), 0644))

	src, err := generate.NewFileSystemSource(dir)
	require.NoError(t, err)

	metas, err := src.ListDocuments(context.Background())
	require.NoError(t, err)
	var got []string
	for _, m := range metas {
		got = append(got, m.Name)
	}
	require.Equal(t, []string{"a", "b", filepath.Join("nested", "c")}, got)

	docs, err := generate.LoadDocuments(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Equal(t, "A", docs[0].Operations[0].Name)
}

func TestInMemorySource(t *testing.T) {
	src := generate.NewInMemorySource([]generate.InMemoryDocument{
		{Name: "ops", Content: `query GetTodo { todo { id } }`},
	})
	docs, err := generate.LoadDocuments(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	_, err = src.ReadDocument(context.Background(), "absent")
	require.Error(t, err)
}

func TestRunRespectsFragmentDepthLimit(t *testing.T) {
	bus := diag.NewBus()
	collector := (&diag.Collector{}).Attach(bus)
	docs := mustDocs(t, `
		query GetUser { user { ...Deep } }
		fragment Deep on User { name ...Deep }
	`)
	_, err := generate.Run(context.Background(), mustSchema(t), docs, generate.Options{
		Config: generate.Config{Limits: generate.LimitsConfig{MaxFragmentDepth: 2}},
		Bus:    bus,
	})
	require.NoError(t, err)

	var sawCycle, sawTruncation bool
	for _, w := range collector.Warnings() {
		switch w.(type) {
		case diag.FragmentCycle:
			sawCycle = true
		case diag.FragmentDepthTruncated:
			sawTruncation = true
		}
	}
	require.True(t, sawCycle)
	require.True(t, sawTruncation)
}
