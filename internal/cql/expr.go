package cql

import (
	"fmt"
	"strings"

	"github.com/roach88/cqlc/internal/queryast"
)

// funcNames maps the closed enumeration of domain functions to their
// rendered CQL names. A static lookup keyed by the enum, fixed at build
// time - an unknown function is a rejected AST, not a runtime surprise.
var funcNames = map[queryast.FuncName]string{
	queryast.FuncToken:           "token",
	queryast.FuncUUID:            "uuid",
	queryast.FuncNow:             "now",
	queryast.FuncMinTimeUUID:     "minTimeuuid",
	queryast.FuncMaxTimeUUID:     "maxTimeuuid",
	queryast.FuncToDate:          "toDate",
	queryast.FuncToTimestamp:     "toTimestamp",
	queryast.FuncToUnixTimestamp: "toUnixTimestamp",
	queryast.FuncBigintAsBlob:    "bigintAsBlob",
	queryast.FuncIntAsBlob:       "intAsBlob",
	queryast.FuncTextAsBlob:      "textAsBlob",
}

// compiler renders expression trees to CQL text fragments, routing every
// leaf value through its binder. One compiler instance serves exactly one
// compilation pass.
type compiler struct {
	b binder
}

// expr renders one expression node, recursing into sub-nodes.
//
// The type switch is exhaustive over the sealed queryast.Expr union; the
// default arm only fires for a nil node or a shape added without a
// rendering rule, both of which are unsupported-expression errors.
func (c *compiler) expr(e queryast.Expr) (string, error) {
	switch expr := e.(type) {
	case queryast.Column:
		return c.ident(expr.Name)

	case queryast.Literal:
		return c.b.literal(expr.Value)

	case queryast.Param:
		return c.b.bind(expr.Value)

	case queryast.Compare:
		return c.compare(expr)

	case queryast.And:
		return c.conjunction(expr)

	case queryast.In:
		return c.in(expr)

	case queryast.Count:
		arg, err := c.expr(expr.Arg)
		if err != nil {
			return "", err
		}
		return "count(" + arg + ")", nil

	case queryast.Cast:
		arg, err := c.expr(expr.Arg)
		if err != nil {
			return "", err
		}
		return "cast(" + arg + " as " + expr.Type + ")", nil

	case queryast.Fragment:
		return c.fragment(expr)

	case queryast.Call:
		return c.call(expr)

	case queryast.Or:
		return "", errUnsupportedRelation("CQL has no OR relation, only AND conjunctions")

	case queryast.Not:
		return "", errUnsupportedRelation("CQL has no NOT relation")

	case queryast.IsNull:
		return "", errUnsupportedRelation("CQL has no IS NULL support")

	default:
		return "", errUnsupportedExpression(fmt.Sprintf("%T", e))
	}
}

// ident validates and returns a bare identifier.
func (c *compiler) ident(name string) (string, error) {
	if !queryast.ValidIdent(name) {
		return "", errBadIdentifier(name)
	}
	return name, nil
}

// compare renders <lhs> <op> <rhs>. The operator passes through unchanged
// except a builder-supplied "==" normalizes to "=".
func (c *compiler) compare(cmp queryast.Compare) (string, error) {
	op := string(cmp.Op)
	if op == "==" {
		op = "="
	}
	lhs, err := c.expr(cmp.Left)
	if err != nil {
		return "", err
	}
	rhs, err := c.expr(cmp.Right)
	if err != nil {
		return "", err
	}
	return lhs + " " + op + " " + rhs, nil
}

// conjunction joins sub-expressions with AND, left to right, without
// parentheses.
func (c *compiler) conjunction(and queryast.And) (string, error) {
	if len(and.Exprs) == 0 {
		return "", errUnsupportedExpression("empty conjunction")
	}
	parts := make([]string, 0, len(and.Exprs))
	for _, sub := range and.Exprs {
		text, err := c.expr(sub)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " AND "), nil
}

// in renders <target> IN (v1,v2,...) for a statically-known list. An
// empty list cannot be expanded - CQL has no way to express it (nor its
// NOT-IN dual), so compilation fails rather than emitting IN ().
func (c *compiler) in(in queryast.In) (string, error) {
	if len(in.Elems) == 0 {
		return "", errUnsupportedRelation("CQL cannot express an empty or dynamic IN list (no NOT-IN/empty-IN support)")
	}
	target, err := c.expr(in.Target)
	if err != nil {
		return "", err
	}
	elems := make([]string, 0, len(in.Elems))
	for _, elem := range in.Elems {
		text, err := c.expr(elem)
		if err != nil {
			return "", err
		}
		elems = append(elems, text)
	}
	return target + " IN (" + strings.Join(elems, ",") + ")", nil
}

// fragment passes the raw text through, filling unescaped `?` slots
// positionally from the fragment's own argument list. Each argument is
// compiled as a full expression, not forced through the binder, so a
// column argument renders as an identifier.
//
// The escape rule is a single-character lookback: `\?` emits a literal
// `?`; any other backslash, including one at the end of the text, passes
// through untouched.
func (c *compiler) fragment(frag queryast.Fragment) (string, error) {
	var out strings.Builder
	next := 0
	text := frag.Text

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == '\\' && i+1 < len(text) && text[i+1] == '?' {
			out.WriteByte('?')
			i++
			continue
		}
		if ch != '?' {
			out.WriteByte(ch)
			continue
		}
		if next >= len(frag.Args) {
			return "", errUnsupportedExpression("fragment placeholder without a matching argument")
		}
		arg, err := c.expr(frag.Args[next])
		if err != nil {
			return "", err
		}
		out.WriteString(arg)
		next++
	}
	if next < len(frag.Args) {
		return "", errUnsupportedExpression("fragment argument without a matching placeholder")
	}
	return out.String(), nil
}

// call renders a domain function via the static name table.
func (c *compiler) call(call queryast.Call) (string, error) {
	name, ok := funcNames[call.Fn]
	if !ok {
		return "", errUnsupportedExpression("function " + string(call.Fn))
	}
	args := make([]string, 0, len(call.Args))
	for _, arg := range call.Args {
		text, err := c.expr(arg)
		if err != nil {
			return "", err
		}
		args = append(args, text)
	}
	return name + "(" + strings.Join(args, ",") + ")", nil
}
