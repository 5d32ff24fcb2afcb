package mockval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	mockval "github.com/farmstrong8/gqlmockgen/internal/mockval"
)

func TestNewOracleRejectsUnknownGenerator(t *testing.T) {
	_, err := mockval.NewOracle(mockval.Config{
		Scalars: map[string]mockval.ScalarSpec{
			"Bad": {Generator: "not-a-real-generator"},
		},
	})
	require.Error(t, err)

	var cfgErr *mockval.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "Bad", cfgErr.Scalar)
	require.Equal(t, "not-a-real-generator", cfgErr.Generator)
	require.Contains(t, err.Error(), "Bad")
	require.Contains(t, err.Error(), "not-a-real-generator")
}

func TestScalarValueBuiltins(t *testing.T) {
	oracle, err := mockval.NewOracle(mockval.Config{})
	require.NoError(t, err)

	ctx := mockval.Context{TypeName: "Todo", FieldName: "id", Path: "todo.id"}

	t.Run("boolean is constant", func(t *testing.T) {
		require.Equal(t, true, oracle.ScalarValue("Boolean", ctx))
	})

	t.Run("int within default range", func(t *testing.T) {
		v, ok := oracle.ScalarValue("Int", ctx).(int)
		require.True(t, ok)
		require.GreaterOrEqual(t, v, 0)
		require.LessOrEqual(t, v, 99)
	})

	t.Run("string is a word", func(t *testing.T) {
		s, ok := oracle.ScalarValue("String", ctx).(string)
		require.True(t, ok)
		require.NotEmpty(t, s)
	})

	t.Run("id is a uuid", func(t *testing.T) {
		s, ok := oracle.ScalarValue("ID", ctx).(string)
		require.True(t, ok)
		require.Len(t, s, 36)
	})
}

func TestScalarValueDeterminism(t *testing.T) {
	ctx := mockval.Context{TypeName: "User", FieldName: "email", Path: "user.email"}

	first := map[string]any{}
	for _, scalar := range []string{"String", "Int", "Float", "Boolean", "ID"} {
		oracle, err := mockval.NewOracle(mockval.Config{})
		require.NoError(t, err)
		first[scalar] = oracle.ScalarValue(scalar, ctx)
	}
	for run := 0; run < 5; run++ {
		oracle, err := mockval.NewOracle(mockval.Config{})
		require.NoError(t, err)
		for scalar, want := range first {
			require.Equal(t, want, oracle.ScalarValue(scalar, ctx), "scalar %s, run %d", scalar, run)
		}
	}
}

func TestScalarValueContextSensitivity(t *testing.T) {
	oracle, err := mockval.NewOracle(mockval.Config{})
	require.NoError(t, err)

	a := oracle.ScalarValue("ID", mockval.Context{TypeName: "User", FieldName: "id", Path: "todo.author.id"})
	b := oracle.ScalarValue("ID", mockval.Context{TypeName: "User", FieldName: "id", Path: "todo.assignee.id"})
	require.NotEqual(t, a, b, "same type at different paths must not share identity")
}

func TestConfiguredGenerators(t *testing.T) {
	oracle, err := mockval.NewOracle(mockval.Config{
		Scalars: map[string]mockval.ScalarSpec{
			"Date":  {Generator: "date", Arguments: []any{"YYYY-MM-DD"}},
			"Email": {Generator: "email"},
			"Count": {Generator: "int", Arguments: []any{10, 20}},
		},
	})
	require.NoError(t, err)
	ctx := mockval.Context{TypeName: "Event", FieldName: "when", Path: "event.when"}

	t.Run("date format argument", func(t *testing.T) {
		require.Equal(t, "2020-05-17", oracle.ScalarValue("Date", ctx))
	})

	t.Run("email", func(t *testing.T) {
		s, ok := oracle.ScalarValue("Email", ctx).(string)
		require.True(t, ok)
		require.Contains(t, s, "@example.com")
	})

	t.Run("int range arguments", func(t *testing.T) {
		v, ok := oracle.ScalarValue("Count", ctx).(int)
		require.True(t, ok)
		require.GreaterOrEqual(t, v, 10)
		require.LessOrEqual(t, v, 20)
	})
}

func TestHeuristicCustomScalars(t *testing.T) {
	oracle, err := mockval.NewOracle(mockval.Config{})
	require.NoError(t, err)
	ctx := mockval.Context{TypeName: "Doc", FieldName: "meta", Path: "doc.meta"}

	t.Run("date-ish name renders a timestamp", func(t *testing.T) {
		s, ok := oracle.ScalarValue("DateTime", ctx).(string)
		require.True(t, ok)
		require.Contains(t, s, "2020-05-17")
	})

	t.Run("json-ish name renders an object", func(t *testing.T) {
		require.Equal(t, map[string]any{}, oracle.ScalarValue("JSONObject", ctx))
	})

	t.Run("anything else renders a word", func(t *testing.T) {
		s, ok := oracle.ScalarValue("Slug", ctx).(string)
		require.True(t, ok)
		require.NotEmpty(t, s)
	})
}
