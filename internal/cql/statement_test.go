package cql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cqlc/internal/queryast"
)

func limit(n int64) *int64 { return &n }

func eqParam(col string, v queryast.Value) queryast.Expr {
	return queryast.Compare{
		Op:    queryast.OpEq,
		Left:  queryast.Column{Name: col},
		Right: queryast.Param{Value: v},
	}
}

func TestAll_MinimalSelect(t *testing.T) {
	st, err := All(&queryast.Query{Source: queryast.Source{Table: "users"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM users", st.Text)
	assert.Empty(t, st.Params)
}

func TestAll_FullClauseOrder(t *testing.T) {
	q := &queryast.Query{
		Source: queryast.Source{Keyspace: "app", Table: "users"},
		Fields: []queryast.Expr{
			queryast.Column{Name: "name"},
			queryast.Column{Name: "age"},
		},
		Filter: queryast.And{Exprs: []queryast.Expr{
			eqParam("category", queryast.String("widgets")),
			queryast.Compare{
				Op:    queryast.OpGt,
				Left:  queryast.Column{Name: "age"},
				Right: queryast.Literal{Value: queryast.Int(21)},
			},
		}},
		GroupBy: []queryast.Expr{queryast.Column{Name: "category"}},
		OrderBy: []queryast.OrderItem{
			{Column: "name", Dir: queryast.Asc},
			{Column: "age", Dir: queryast.Desc},
		},
		Limit:    limit(10),
		LockHint: "ALLOW FILTERING",
	}

	st, err := All(q, nil)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT name, age FROM app.users WHERE category = ? AND age > 21 GROUP BY category ORDER BY name, age DESC LIMIT 10 ALLOW FILTERING",
		st.Text)
	assert.Equal(t, []any{"widgets"}, st.Params)
}

func TestAll_EmptyOrderAndGroupOmitKeywords(t *testing.T) {
	q := &queryast.Query{
		Source:  queryast.Source{Table: "users"},
		OrderBy: []queryast.OrderItem{},
		GroupBy: []queryast.Expr{},
	}

	st, err := All(q, nil)
	require.NoError(t, err)

	assert.NotContains(t, st.Text, "ORDER BY")
	assert.NotContains(t, st.Text, "GROUP BY")
}

func TestAll_AscendingNeverPrinted(t *testing.T) {
	q := &queryast.Query{
		Source: queryast.Source{Table: "users"},
		OrderBy: []queryast.OrderItem{
			{Column: "a", Dir: queryast.Asc},
			{Column: "b", Dir: queryast.Desc},
		},
	}

	st, err := All(q, nil)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM users ORDER BY a, b DESC", st.Text)
	assert.NotContains(t, st.Text, "ASC")
}

func TestAll_GroupByPosition(t *testing.T) {
	q := &queryast.Query{
		Source: queryast.Source{Table: "users"},
		GroupBy: []queryast.Expr{
			queryast.Column{Name: "category"},
			queryast.Literal{Value: queryast.Int(2)},
		},
	}

	st, err := All(q, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users GROUP BY category, 2", st.Text)
}

func TestAll_LimitZero(t *testing.T) {
	st, err := All(&queryast.Query{
		Source: queryast.Source{Table: "users"},
		Limit:  limit(0),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users LIMIT 0", st.Text)
}

func TestAll_LockingHintFails(t *testing.T) {
	tests := []string{"FOR UPDATE", "FOR SHARE", "for update of users"}

	for _, hint := range tests {
		t.Run(hint, func(t *testing.T) {
			_, err := All(&queryast.Query{
				Source:   queryast.Source{Table: "users"},
				LockHint: hint,
			}, nil)
			require.Error(t, err)
			assert.True(t, IsUnsupportedLocking(err))
			assert.Contains(t, err.Error(), hint)
		})
	}
}

func TestAll_FilteringHintAcceptedVerbatim(t *testing.T) {
	st, err := All(&queryast.Query{
		Source:   queryast.Source{Table: "users"},
		LockHint: "allow filtering",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users allow filtering", st.Text)
}

func TestAll_BadTableName(t *testing.T) {
	_, err := All(&queryast.Query{Source: queryast.Source{Table: "users; drop"}}, nil)
	require.Error(t, err)
	assert.True(t, IsBadIdentifier(err))
	assert.Contains(t, err.Error(), "users; drop")
}

func TestAll_BadKeyspace(t *testing.T) {
	_, err := All(&queryast.Query{
		Source: queryast.Source{Keyspace: "my app", Table: "users"},
	}, nil)
	require.Error(t, err)
	assert.True(t, IsBadIdentifier(err))
}

func TestAll_OrInFilterFails(t *testing.T) {
	// u.name == "a" or u.age > 1
	_, err := All(&queryast.Query{
		Source: queryast.Source{Table: "users"},
		Filter: queryast.Or{
			Left:  eqParam("name", queryast.String("a")),
			Right: queryast.Compare{Op: queryast.OpGt, Left: queryast.Column{Name: "age"}, Right: queryast.Literal{Value: queryast.Int(1)}},
		},
	}, nil)
	require.Error(t, err)
	assert.True(t, IsUnsupportedRelation(err))
}

func TestUpdateAll(t *testing.T) {
	q := &queryast.Query{
		Source: queryast.Source{Table: "users"},
		Assignments: []queryast.Assignment{
			queryast.Set{Column: "name", Value: queryast.Param{Value: queryast.String("bob")}},
			queryast.Inc{Column: "visits", Delta: queryast.Param{Value: queryast.Int(1)}},
		},
		Filter: eqParam("id", queryast.Int(7)),
	}

	st, err := UpdateAll(q, nil)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE users SET name = ?, visits = visits + ? WHERE id = ?", st.Text)
	assert.Equal(t, []any{"bob", int64(1), int64(7)}, st.Params)
}

func TestUpdateAll_InlineDelta(t *testing.T) {
	q := &queryast.Query{
		Source: queryast.Source{Table: "counters"},
		Assignments: []queryast.Assignment{
			queryast.Inc{Column: "hits", Delta: queryast.Literal{Value: queryast.Int(1)}},
		},
		Filter: eqParam("id", queryast.Int(1)),
	}

	st, err := UpdateAll(q, nil)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE counters SET hits = hits + 1 WHERE id = ?", st.Text)
}

func TestUpdateAll_RequiresFilter(t *testing.T) {
	_, err := UpdateAll(&queryast.Query{
		Source: queryast.Source{Table: "users"},
		Assignments: []queryast.Assignment{
			queryast.Set{Column: "name", Value: queryast.Param{Value: queryast.String("x")}},
		},
	}, nil)
	require.Error(t, err)
	assert.True(t, IsUnsupportedExpression(err))
}

func TestUpdateAll_RequiresAssignments(t *testing.T) {
	_, err := UpdateAll(&queryast.Query{
		Source: queryast.Source{Table: "users"},
		Filter: eqParam("id", queryast.Int(1)),
	}, nil)
	require.Error(t, err)
}

func TestDeleteAll_NoFilterTruncates(t *testing.T) {
	st, err := DeleteAll(&queryast.Query{Source: queryast.Source{Table: "users"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, "TRUNCATE users", st.Text)
	assert.Empty(t, st.Params)
}

func TestDeleteAll_WithFilter(t *testing.T) {
	st, err := DeleteAll(&queryast.Query{
		Source: queryast.Source{Table: "users"},
		Filter: eqParam("id", queryast.Int(7)),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM users WHERE id = ?", st.Text)
	assert.Equal(t, []any{int64(7)}, st.Params)
}

func TestDeleteAll_IfExists(t *testing.T) {
	opts := Options{"if": "exists"}

	st, err := DeleteAll(&queryast.Query{
		Source: queryast.Source{Table: "users"},
		Filter: eqParam("id", queryast.Int(7)),
	}, opts)
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM users WHERE id = ? IF EXISTS", st.Text)
}

func TestDeleteAll_TruncateIgnoresExistenceGuard(t *testing.T) {
	st, err := DeleteAll(&queryast.Query{
		Source: queryast.Source{Table: "users"},
	}, Options{"if": "exists"})
	require.NoError(t, err)
	assert.Equal(t, "TRUNCATE users", st.Text)
}

func TestInsert(t *testing.T) {
	st, err := Insert(queryast.Source{Table: "users"}, []InsertField{
		{Column: "id", Value: queryast.AutoGenerate{}, Kind: KindTimeUUID},
		{Column: "name", Value: queryast.String("ann")},
		{Column: "ref", Value: queryast.AutoGenerate{}, Kind: KindUUID},
		{Column: "age", Value: queryast.Int(30)},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO users (id, name, ref, age) VALUES (now(), ?, uuid(), ?)",
		st.Text)
	assert.Equal(t, []any{"ann", int64(30)}, st.Params)
}

func TestInsert_ColumnOrderIsSupplyOrder(t *testing.T) {
	st, err := Insert(queryast.Source{Table: "users"}, []InsertField{
		{Column: "zebra", Value: queryast.Int(1)},
		{Column: "apple", Value: queryast.Int(2)},
	}, nil)
	require.NoError(t, err)

	assert.True(t, strings.Index(st.Text, "zebra") < strings.Index(st.Text, "apple"),
		"columns must keep supply order, not canonical order: %s", st.Text)
}

func TestInsert_AutoGenerateWithoutPolicyFails(t *testing.T) {
	_, err := Insert(queryast.Source{Table: "users"}, []InsertField{
		{Column: "id", Value: queryast.AutoGenerate{}, Kind: KindNone},
	}, nil)
	require.Error(t, err)
	assert.True(t, IsUnsupportedExpression(err))
}

func TestUpdate_SingleRow(t *testing.T) {
	st, err := Update(queryast.Source{Table: "users"},
		[]Field{
			{Column: "name", Value: queryast.String("bob")},
			{Column: "age", Value: queryast.Int(31)},
		},
		[]Field{
			{Column: "id", Value: queryast.Int(7)},
			{Column: "org_id", Value: queryast.Int(2)},
		}, nil)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE users SET name = ?, age = ? WHERE id = ? AND org_id = ?", st.Text)
	assert.Equal(t, []any{"bob", int64(31), int64(7), int64(2)}, st.Params)
}

func TestDelete_SingleRow(t *testing.T) {
	st, err := Delete(queryast.Source{Keyspace: "app", Table: "users"},
		[]Field{{Column: "id", Value: queryast.Int(7)}},
		Options{"if": "exists"})
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM app.users WHERE id = ? IF EXISTS", st.Text)
	assert.Equal(t, []any{int64(7)}, st.Params)
}

func TestDelete_RequiresFilter(t *testing.T) {
	_, err := Delete(queryast.Source{Table: "users"}, nil, nil)
	require.Error(t, err)
}

func TestOptions_EchoedUnmodified(t *testing.T) {
	opts := Options{"if": "exists", "consistency": "quorum", "page_size": 100}

	st, err := DeleteAll(&queryast.Query{
		Source: queryast.Source{Table: "users"},
		Filter: eqParam("id", queryast.Int(1)),
	}, opts)
	require.NoError(t, err)

	// Unrecognized options pass through untouched.
	assert.Equal(t, opts, st.Options)
}

func TestPlaceholderCountMatchesParams(t *testing.T) {
	queries := []*queryast.Query{
		{Source: queryast.Source{Table: "users"}},
		{
			Source: queryast.Source{Table: "users"},
			Filter: eqParam("id", queryast.Int(1)),
		},
		{
			Source: queryast.Source{Table: "users"},
			Filter: queryast.And{Exprs: []queryast.Expr{
				eqParam("a", queryast.String("x")),
				queryast.Compare{Op: queryast.OpLt, Left: queryast.Column{Name: "b"}, Right: queryast.Literal{Value: queryast.Int(3)}},
				queryast.In{Target: queryast.Column{Name: "c"}, Elems: []queryast.Expr{
					queryast.Param{Value: queryast.Int(1)},
					queryast.Param{Value: queryast.Int(2)},
					queryast.Literal{Value: queryast.Int(3)},
				}},
			}},
		},
	}

	for _, q := range queries {
		st, err := All(q, nil)
		require.NoError(t, err)
		assert.Equal(t, strings.Count(st.Text, "?"), len(st.Params),
			"placeholder count must equal parameter count: %s", st.Text)
	}
}

func TestCompileDeterminism(t *testing.T) {
	q := &queryast.Query{
		Source: queryast.Source{Table: "users"},
		Fields: []queryast.Expr{queryast.Column{Name: "name"}},
		Filter: queryast.And{Exprs: []queryast.Expr{
			eqParam("category", queryast.String("widgets")),
			eqParam("age", queryast.Int(21)),
		}},
		OrderBy: []queryast.OrderItem{{Column: "name"}},
		Limit:   limit(5),
	}

	first, err := All(q, nil)
	require.NoError(t, err)
	second, err := All(q, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Params, second.Params)
}

func TestFailureReturnsNoPartialStatement(t *testing.T) {
	st, err := All(&queryast.Query{
		Source: queryast.Source{Table: "users"},
		Filter: queryast.Not{Arg: queryast.Column{Name: "cat_id"}},
	}, nil)
	require.Error(t, err)
	assert.Nil(t, st)
}
