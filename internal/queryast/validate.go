package queryast

import (
	"fmt"
	"regexp"
	"strings"
)

// identPattern is the allowed shape for column, table, and keyspace
// identifiers: a letter or underscore followed by letters, digits, or
// underscores. Fixed at build time.
var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidIdent reports whether name matches the allowed identifier pattern.
func ValidIdent(name string) bool {
	return identPattern.MatchString(name)
}

// knownFuncs is the closed set of domain functions the compiler renders.
var knownFuncs = map[FuncName]bool{
	FuncToken:           true,
	FuncUUID:            true,
	FuncNow:             true,
	FuncMinTimeUUID:     true,
	FuncMaxTimeUUID:     true,
	FuncToDate:          true,
	FuncToTimestamp:     true,
	FuncToUnixTimestamp: true,
	FuncBigintAsBlob:    true,
	FuncIntAsBlob:       true,
	FuncTextAsBlob:      true,
}

// KnownFunc reports whether fn is one of the supported domain functions.
func KnownFunc(fn FuncName) bool {
	return knownFuncs[fn]
}

// ValidationResult contains the advisory analysis of a query.
//
// Supported means the query uses only constructs the CQL compiler can
// render; compiling it will not fail for structural reasons. Warnings
// lists every construct that would be rejected, so a caller can surface
// all problems at once instead of stopping at the first compile error.
type ValidationResult struct {
	Supported bool
	Warnings  []string
}

// Validate walks a query and reports every construct the CQL target
// cannot express: OR and NOT relations, null tests, empty or dynamic IN
// lists, locking hints, malformed identifiers, and unknown functions.
//
// Validate is advisory only - compilation never consults it and performs
// its own checks, failing fast on the first offense.
//
// Validate is a pure function with no side effects.
func Validate(q *Query) ValidationResult {
	v := &validator{}
	if q == nil {
		v.warn("nil query")
		return v.result()
	}

	v.checkSource(q.Source)
	for _, f := range q.Fields {
		v.checkExpr(f)
	}
	if q.Filter != nil {
		v.checkExpr(q.Filter)
	}
	for _, o := range q.OrderBy {
		v.checkIdent(o.Column)
	}
	for _, g := range q.GroupBy {
		v.checkExpr(g)
	}
	if q.LockHint != "" && !strings.EqualFold(q.LockHint, "ALLOW FILTERING") {
		v.warn("locking hint %q: CQL has no locking support", q.LockHint)
	}
	for _, a := range q.Assignments {
		switch asg := a.(type) {
		case Set:
			v.checkIdent(asg.Column)
			v.checkExpr(asg.Value)
		case Inc:
			v.checkIdent(asg.Column)
			v.checkExpr(asg.Delta)
		}
	}

	return v.result()
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) warn(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) result() ValidationResult {
	return ValidationResult{
		Supported: len(v.warnings) == 0,
		Warnings:  v.warnings,
	}
}

func (v *validator) checkSource(s Source) {
	v.checkIdent(s.Table)
	if s.Keyspace != "" {
		v.checkIdent(s.Keyspace)
	}
}

func (v *validator) checkIdent(name string) {
	if !ValidIdent(name) {
		v.warn("bad identifier %q", name)
	}
}

// checkExpr recursively validates an expression node.
func (v *validator) checkExpr(e Expr) {
	switch expr := e.(type) {
	case Column:
		v.checkIdent(expr.Name)
	case Literal:
		v.checkValue(expr.Value)
	case Param:
		v.checkValue(expr.Value)
	case Compare:
		v.checkExpr(expr.Left)
		v.checkExpr(expr.Right)
	case And:
		for _, sub := range expr.Exprs {
			v.checkExpr(sub)
		}
	case In:
		v.checkExpr(expr.Target)
		if len(expr.Elems) == 0 {
			v.warn("empty or dynamic IN list: CQL cannot express it")
		}
		for _, elem := range expr.Elems {
			v.checkExpr(elem)
		}
	case Count:
		v.checkExpr(expr.Arg)
	case Cast:
		v.checkExpr(expr.Arg)
	case Fragment:
		for _, arg := range expr.Args {
			v.checkExpr(arg)
		}
	case Call:
		if !KnownFunc(expr.Fn) {
			v.warn("unknown function %q", string(expr.Fn))
		}
		for _, arg := range expr.Args {
			v.checkExpr(arg)
		}
	case Or:
		v.warn("OR relation: CQL supports only AND conjunctions")
		v.checkExpr(expr.Left)
		v.checkExpr(expr.Right)
	case Not:
		v.warn("NOT relation: CQL has no negation")
		v.checkExpr(expr.Arg)
	case IsNull:
		v.warn("null test: CQL has no IS NULL support")
		v.checkExpr(expr.Arg)
	case nil:
		v.warn("nil expression node")
	default:
		v.warn("unknown expression type %T", e)
	}
}

func (v *validator) checkValue(val Value) {
	if _, isNull := val.(Null); isNull {
		v.warn("null value in expression: CQL cannot compare against null")
	}
	if val == nil {
		v.warn("missing value in expression")
	}
}
