package queryast

// Expr represents one node of a filter, projection, ordering, or grouping
// expression tree.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// an exhaustive type switch in the statement compiler: a new node kind is
// a compile-time-checked addition, never a silent fallthrough.
//
// Leaf values carry their provenance explicitly: Literal renders inline,
// Param emits a positional placeholder and appends to the parameter list.
// The Or, Not, and IsNull shapes are representable so that a query builder
// producing them gets a precise unsupported-relation failure instead of an
// opaque type error.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Column references a column by its bare identifier.
//
// Identifiers must match the allowed pattern (letter or underscore
// followed by letters, digits, or underscores). The compiler re-validates
// the shape even though the query builder is expected to have done so.
type Column struct {
	Name string
}

func (Column) exprNode() {}

// Literal is a value that appeared directly in the query text and renders
// as an inline CQL literal.
type Literal struct {
	Value Value
}

func (Literal) exprNode() {}

// Param is a value pinned from outside the query expression. It renders as
// a positional `?` placeholder and its value is appended to the running
// parameter list in left-to-right scan order of the statement.
type Param struct {
	Value Value
}

func (Param) exprNode() {}

// CompareOp enumerates the binary comparison operators CQL accepts.
type CompareOp string

const (
	OpEq  CompareOp = "="
	OpNeq CompareOp = "!="
	OpLt  CompareOp = "<"
	OpLte CompareOp = "<="
	OpGt  CompareOp = ">"
	OpGte CompareOp = ">="
)

// Compare is a binary comparison: <left> <op> <right>.
//
// A builder-supplied "==" operator is normalized to "=" during
// compilation; every other operator passes through unchanged.
type Compare struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

func (Compare) exprNode() {}

// And is a flat conjunction. Sub-expressions join with " AND " in order,
// with no added parentheses, matching CQL's flat WHERE style.
type And struct {
	Exprs []Expr
}

func (And) exprNode() {}

// In is a membership test over a statically-known, non-empty list.
//
// Elems must be expandable at compile time. A nil or empty Elems slice is
// the empty/dynamic-list case, which CQL cannot express; compiling it
// fails with an unsupported-relation error.
type In struct {
	Target Expr
	Elems  []Expr
}

func (In) exprNode() {}

// Count is the count(expr) aggregate.
type Count struct {
	Arg Expr
}

func (Count) exprNode() {}

// Cast renders cast(<arg> as <type>).
type Cast struct {
	Arg  Expr
	Type string
}

func (Cast) exprNode() {}

// Fragment is a raw CQL fragment with positional argument slots.
//
// Each unescaped `?` in Text is filled from Args in order; the argument is
// compiled as a full expression (a Column argument renders as an
// identifier, not a placeholder). A `\?` sequence suppresses substitution
// and emits a literal `?`. The escape is a single-character lookback: a
// backslash not followed by `?` passes through, including one at the end
// of the fragment.
type Fragment struct {
	Text string
	Args []Expr
}

func (Fragment) exprNode() {}

// FuncName enumerates the domain functions the compiler can render.
//
// The mapping to rendered CQL names is a static table in the compiler; an
// AST carrying an unknown FuncName is rejected at compile time.
type FuncName string

const (
	FuncToken           FuncName = "token"
	FuncUUID            FuncName = "uuid"
	FuncNow             FuncName = "now"
	FuncMinTimeUUID     FuncName = "min_timeuuid"
	FuncMaxTimeUUID     FuncName = "max_timeuuid"
	FuncToDate          FuncName = "to_date"
	FuncToTimestamp     FuncName = "to_timestamp"
	FuncToUnixTimestamp FuncName = "to_unix_timestamp"
	FuncBigintAsBlob    FuncName = "bigint_as_blob"
	FuncIntAsBlob       FuncName = "int_as_blob"
	FuncTextAsBlob      FuncName = "text_as_blob"
)

// Call applies a domain function to compiled arguments. Zero-argument
// calls render as name().
type Call struct {
	Fn   FuncName
	Args []Expr
}

func (Call) exprNode() {}

// Or is a disjunction. CQL has no OR relation; compiling an Or fails with
// an unsupported-relation error. The shape exists so the failure can name
// what the builder asked for.
type Or struct {
	Left  Expr
	Right Expr
}

func (Or) exprNode() {}

// Not is a negation. CQL has no NOT relation; compiling a Not fails with
// an unsupported-relation error.
type Not struct {
	Arg Expr
}

func (Not) exprNode() {}

// IsNull is a null test (IS NULL / IS NOT NULL). CQL cannot express
// either form; compiling an IsNull fails with an unsupported-relation
// error.
type IsNull struct {
	Arg     Expr
	Negated bool
}

func (IsNull) exprNode() {}
