package cql

import (
	"strconv"
	"strings"

	"github.com/roach88/cqlc/internal/queryast"
)

// Statement is the immutable result of one compilation pass: the CQL
// text, the ordered parameter values, and the caller's options echoed
// back unmodified.
//
// Invariant: the number of `?` markers in Text equals len(Params), in
// left-to-right correspondence. The execution layer must bind parameters
// in list order.
type Statement struct {
	Text    string
	Params  []any
	Options Options
}

// Options carries per-call configuration. The compiler recognizes
// "if": "exists" on delete operations; unrecognized entries are ignored
// and echoed back unmodified on the Statement.
type Options map[string]any

// IfExists reports whether the existence guard was requested.
func (o Options) IfExists() bool {
	return o["if"] == "exists"
}

// Field pairs a column with the value bound for it. Used by the
// single-row Update and Delete forms.
type Field struct {
	Column string
	Value  queryast.Value
}

// KeyKind declares the autogeneration policy of an insert column.
type KeyKind int

const (
	// KindNone means the caller supplies the value.
	KindNone KeyKind = iota
	// KindUUID asks the target for a fresh generic identifier (uuid()).
	KindUUID
	// KindTimeUUID asks the target for a time-based identifier (now()).
	KindTimeUUID
)

// InsertField is one column of an insert, with its declared
// autogeneration policy.
type InsertField struct {
	Column string
	Value  queryast.Value
	Kind   KeyKind
}

// All compiles a select statement:
//
//	SELECT <fields> FROM <source>[ WHERE <filter>][ GROUP BY <group>]
//	[ ORDER BY <order>][ LIMIT <n>][ <hint>]
//
// Optional clauses are omitted entirely when their AST field is empty; an
// empty GROUP BY or ORDER BY never emits its keyword. Ascending direction
// is the default and never printed.
func All(q *queryast.Query, opts Options) (*Statement, error) {
	c := &compiler{}

	source, err := compileSource(q.Source)
	if err != nil {
		return nil, err
	}

	fields, err := compileFields(c, q.Fields)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(fields)
	sb.WriteString(" FROM ")
	sb.WriteString(source)

	if err := writeWhere(&sb, c, q.Filter); err != nil {
		return nil, err
	}
	if err := writeGroupBy(&sb, c, q.GroupBy); err != nil {
		return nil, err
	}
	if err := writeOrderBy(&sb, c, q.OrderBy); err != nil {
		return nil, err
	}
	if q.Limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.FormatInt(*q.Limit, 10))
	}
	if q.LockHint != "" {
		if !strings.EqualFold(q.LockHint, "ALLOW FILTERING") {
			return nil, errUnsupportedLocking(q.LockHint)
		}
		sb.WriteString(" ")
		sb.WriteString(q.LockHint)
	}

	return c.statement(sb.String(), opts), nil
}

// UpdateAll compiles a filtered update:
//
//	UPDATE <source> SET <assignments> WHERE <filter>
//
// The filter is mandatory - CQL updates are always conditional on a key.
func UpdateAll(q *queryast.Query, opts Options) (*Statement, error) {
	c := &compiler{}

	source, err := compileSource(q.Source)
	if err != nil {
		return nil, err
	}
	if len(q.Assignments) == 0 {
		return nil, errUnsupportedExpression("update without assignments")
	}
	if q.Filter == nil {
		return nil, errUnsupportedExpression("update without a filter")
	}

	sets := make([]string, 0, len(q.Assignments))
	for _, a := range q.Assignments {
		text, err := compileAssignment(c, a)
		if err != nil {
			return nil, err
		}
		sets = append(sets, text)
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(source)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(sets, ", "))
	if err := writeWhere(&sb, c, q.Filter); err != nil {
		return nil, err
	}

	return c.statement(sb.String(), opts), nil
}

// DeleteAll compiles a filtered delete, or a table truncation when no
// filter is present:
//
//	DELETE FROM <source> WHERE <filter>[ IF EXISTS]
//	TRUNCATE <source>
//
// An unconditional DELETE is never emitted; deleting everything is a
// TRUNCATE with an empty parameter list.
func DeleteAll(q *queryast.Query, opts Options) (*Statement, error) {
	c := &compiler{}

	source, err := compileSource(q.Source)
	if err != nil {
		return nil, err
	}

	if q.Filter == nil {
		return c.statement("TRUNCATE "+source, opts), nil
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(source)
	if err := writeWhere(&sb, c, q.Filter); err != nil {
		return nil, err
	}
	if opts.IfExists() {
		sb.WriteString(" IF EXISTS")
	}

	return c.statement(sb.String(), opts), nil
}

// Insert compiles a row insert:
//
//	INSERT INTO <source> (<columns>) VALUES (<values>)
//
// Per field: the autogeneration sentinel renders now() for a time-based
// key and uuid() for a generic key, with no corresponding parameter;
// every other value binds as a placeholder. Column order in the statement
// matches the order fields are supplied.
func Insert(source queryast.Source, fields []InsertField, opts Options) (*Statement, error) {
	c := &compiler{}

	src, err := compileSource(source)
	if err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(fields))
	values := make([]string, 0, len(fields))
	for _, f := range fields {
		col, err := c.ident(f.Column)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)

		if _, auto := f.Value.(queryast.AutoGenerate); auto {
			switch f.Kind {
			case KindTimeUUID:
				values = append(values, "now()")
				continue
			case KindUUID:
				values = append(values, "uuid()")
				continue
			}
			// Sentinel on a column with no generation policy - fall through
			// to the binder, which rejects it.
		}
		marker, err := c.b.bind(f.Value)
		if err != nil {
			return nil, err
		}
		values = append(values, marker)
	}

	text := "INSERT INTO " + src +
		" (" + strings.Join(columns, ", ") + ")" +
		" VALUES (" + strings.Join(values, ", ") + ")"
	return c.statement(text, opts), nil
}

// Update compiles the single-row update form used by the external schema
// layer, binding every set and filter value:
//
//	UPDATE <source> SET <col> = ?, ... WHERE <col> = ? AND ...
func Update(source queryast.Source, sets, filters []Field, opts Options) (*Statement, error) {
	c := &compiler{}

	src, err := compileSource(source)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, errUnsupportedExpression("update without assignments")
	}
	if len(filters) == 0 {
		return nil, errUnsupportedExpression("update without a filter")
	}

	setParts, err := bindFields(c, sets)
	if err != nil {
		return nil, err
	}
	whereParts, err := bindFields(c, filters)
	if err != nil {
		return nil, err
	}

	text := "UPDATE " + src +
		" SET " + strings.Join(setParts, ", ") +
		" WHERE " + strings.Join(whereParts, " AND ")
	return c.statement(text, opts), nil
}

// Delete compiles the single-row delete form, binding every filter value:
//
//	DELETE FROM <source> WHERE <col> = ? AND ...[ IF EXISTS]
func Delete(source queryast.Source, filters []Field, opts Options) (*Statement, error) {
	c := &compiler{}

	src, err := compileSource(source)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return nil, errUnsupportedExpression("delete without a filter")
	}

	whereParts, err := bindFields(c, filters)
	if err != nil {
		return nil, err
	}

	text := "DELETE FROM " + src + " WHERE " + strings.Join(whereParts, " AND ")
	if opts.IfExists() {
		text += " IF EXISTS"
	}
	return c.statement(text, opts), nil
}

// statement seals one compilation pass into its immutable result.
func (c *compiler) statement(text string, opts Options) *Statement {
	return &Statement{
		Text:    text,
		Params:  c.b.params,
		Options: opts,
	}
}

// compileSource validates and renders the table identifier, qualified
// with the keyspace when one is supplied.
func compileSource(s queryast.Source) (string, error) {
	if !queryast.ValidIdent(s.Table) {
		return "", errBadIdentifier(s.Table)
	}
	if s.Keyspace == "" {
		return s.Table, nil
	}
	if !queryast.ValidIdent(s.Keyspace) {
		return "", errBadIdentifier(s.Keyspace)
	}
	return s.Keyspace + "." + s.Table, nil
}

// compileFields renders the projection list. An empty list projects
// everything.
func compileFields(c *compiler, fields []queryast.Expr) (string, error) {
	if len(fields) == 0 {
		return "*", nil
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		text, err := c.expr(f)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, ", "), nil
}

// compileAssignment renders one SET entry.
func compileAssignment(c *compiler, a queryast.Assignment) (string, error) {
	switch asg := a.(type) {
	case queryast.Set:
		col, err := c.ident(asg.Column)
		if err != nil {
			return "", err
		}
		val, err := c.expr(asg.Value)
		if err != nil {
			return "", err
		}
		return col + " = " + val, nil
	case queryast.Inc:
		col, err := c.ident(asg.Column)
		if err != nil {
			return "", err
		}
		delta, err := c.expr(asg.Delta)
		if err != nil {
			return "", err
		}
		return col + " = " + col + " + " + delta, nil
	default:
		return "", errUnsupportedExpression("assignment")
	}
}

// bindFields renders column = ? pairs, binding each value.
func bindFields(c *compiler, fields []Field) ([]string, error) {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		col, err := c.ident(f.Column)
		if err != nil {
			return nil, err
		}
		marker, err := c.b.bind(f.Value)
		if err != nil {
			return nil, err
		}
		parts = append(parts, col+" = "+marker)
	}
	return parts, nil
}

// writeWhere appends the WHERE clause when a filter exists.
func writeWhere(sb *strings.Builder, c *compiler, filter queryast.Expr) error {
	if filter == nil {
		return nil
	}
	text, err := c.expr(filter)
	if err != nil {
		return err
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(text)
	return nil
}

// writeGroupBy appends the GROUP BY clause; an empty list emits nothing.
func writeGroupBy(sb *strings.Builder, c *compiler, groupBy []queryast.Expr) error {
	if len(groupBy) == 0 {
		return nil
	}
	parts := make([]string, 0, len(groupBy))
	for _, g := range groupBy {
		text, err := c.expr(g)
		if err != nil {
			return err
		}
		parts = append(parts, text)
	}
	sb.WriteString(" GROUP BY ")
	sb.WriteString(strings.Join(parts, ", "))
	return nil
}

// writeOrderBy appends the ORDER BY clause; an empty list emits nothing
// and asc, the default, is never printed.
func writeOrderBy(sb *strings.Builder, c *compiler, orderBy []queryast.OrderItem) error {
	if len(orderBy) == 0 {
		return nil
	}
	parts := make([]string, 0, len(orderBy))
	for _, o := range orderBy {
		col, err := c.ident(o.Column)
		if err != nil {
			return err
		}
		if o.Dir == queryast.Desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(strings.Join(parts, ", "))
	return nil
}
