package queryast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidIdent(t *testing.T) {
	valid := []string{"a", "_a", "Name", "user_name", "col9", "_"}
	invalid := []string{"", "9a", "a b", "a-b", "a.b", "a;b", "кол"}

	for _, name := range valid {
		assert.True(t, ValidIdent(name), "expected %q to be valid", name)
	}
	for _, name := range invalid {
		assert.False(t, ValidIdent(name), "expected %q to be invalid", name)
	}
}

func TestKnownFunc(t *testing.T) {
	assert.True(t, KnownFunc(FuncNow))
	assert.True(t, KnownFunc(FuncToUnixTimestamp))
	assert.False(t, KnownFunc(FuncName("sum")))
	assert.False(t, KnownFunc(FuncName("")))
}

func TestValidate_SupportedQuery(t *testing.T) {
	q := &Query{
		Source: Source{Keyspace: "app", Table: "users"},
		Fields: []Expr{Column{Name: "name"}, Count{Arg: Column{Name: "id"}}},
		Filter: And{Exprs: []Expr{
			Compare{Op: OpEq, Left: Column{Name: "category"}, Right: Param{Value: String("widgets")}},
			In{Target: Column{Name: "age"}, Elems: []Expr{Literal{Value: Int(1)}}},
		}},
		OrderBy:  []OrderItem{{Column: "name", Dir: Desc}},
		LockHint: "ALLOW FILTERING",
		Assignments: []Assignment{
			Set{Column: "name", Value: Param{Value: String("x")}},
			Inc{Column: "visits", Delta: Literal{Value: Int(1)}},
		},
	}

	result := Validate(q)
	assert.True(t, result.Supported)
	assert.Empty(t, result.Warnings)
}

func TestValidate_CollectsAllWarnings(t *testing.T) {
	q := &Query{
		Source: Source{Table: "users"},
		Filter: And{Exprs: []Expr{
			Or{
				Left:  Compare{Op: OpEq, Left: Column{Name: "name"}, Right: Literal{Value: String("a")}},
				Right: Compare{Op: OpGt, Left: Column{Name: "age"}, Right: Literal{Value: Int(1)}},
			},
			Not{Arg: Column{Name: "cat_id"}},
			IsNull{Arg: Column{Name: "age"}},
			In{Target: Column{Name: "age"}},
		}},
	}

	result := Validate(q)
	require.False(t, result.Supported)

	// One warning per unsupported construct, all collected in one pass.
	assert.Len(t, result.Warnings, 4)
	assert.Contains(t, result.Warnings[0], "OR")
	assert.Contains(t, result.Warnings[1], "NOT")
	assert.Contains(t, result.Warnings[2], "IS NULL")
	assert.Contains(t, result.Warnings[3], "IN")
}

func TestValidate_BadIdentifiers(t *testing.T) {
	q := &Query{
		Source:  Source{Keyspace: "my app", Table: "users; drop"},
		Fields:  []Expr{Column{Name: "1bad"}},
		OrderBy: []OrderItem{{Column: "no-good"}},
	}

	result := Validate(q)
	require.False(t, result.Supported)
	assert.Len(t, result.Warnings, 4)
	for _, w := range result.Warnings {
		assert.Contains(t, w, "bad identifier")
	}
}

func TestValidate_LockHint(t *testing.T) {
	ok := Validate(&Query{Source: Source{Table: "t"}, LockHint: "allow filtering"})
	assert.True(t, ok.Supported)

	bad := Validate(&Query{Source: Source{Table: "t"}, LockHint: "FOR UPDATE"})
	require.False(t, bad.Supported)
	assert.Contains(t, bad.Warnings[0], "locking")
}

func TestValidate_UnknownFunction(t *testing.T) {
	result := Validate(&Query{
		Source: Source{Table: "t"},
		Fields: []Expr{Call{Fn: FuncName("avg"), Args: []Expr{Column{Name: "x"}}}},
	})
	require.False(t, result.Supported)
	assert.Contains(t, result.Warnings[0], "avg")
}

func TestValidate_NullValues(t *testing.T) {
	result := Validate(&Query{
		Source: Source{Table: "t"},
		Filter: Compare{Op: OpEq, Left: Column{Name: "a"}, Right: Literal{Value: Null{}}},
	})
	require.False(t, result.Supported)
	assert.Contains(t, result.Warnings[0], "null")
}

func TestValidate_NilQuery(t *testing.T) {
	result := Validate(nil)
	assert.False(t, result.Supported)
}
