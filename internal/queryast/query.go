package queryast

// Source identifies the table a statement reads or writes, with an
// optional keyspace qualifier. With a keyspace it renders "ks.table",
// otherwise just "table". Both parts are validated against the allowed
// identifier pattern at compile time.
type Source struct {
	Keyspace string
	Table    string
}

// Direction is the ordering direction for an OrderItem.
type Direction string

const (
	// Asc is the default direction and is never printed.
	Asc Direction = "asc"
	// Desc renders as DESC.
	Desc Direction = "desc"
)

// OrderItem is one (column, direction) entry of an ORDER BY clause.
type OrderItem struct {
	Column string
	Dir    Direction
}

// Assignment is one entry of an update's SET list.
//
// This is a sealed interface - only Set and Inc implement it.
type Assignment interface {
	assignmentNode() // Marker method - seals interface to this package
}

// Set assigns a compiled expression to a column: <column> = <value>.
type Set struct {
	Column string
	Value  Expr
}

func (Set) assignmentNode() {}

// Inc increments a counter column: <column> = <column> + <delta>.
// The delta is routed through the binder like any other leaf value.
type Inc struct {
	Column string
	Delta  Expr
}

func (Inc) assignmentNode() {}

// Query is the normalized description of a relational query, produced by
// the external query builder and read-only to the compiler.
//
// Optional clauses use their zero value for absence: a nil Filter means no
// WHERE clause, empty OrderBy/GroupBy slices emit no keyword at all, a nil
// Limit omits LIMIT, and an empty LockHint appends nothing.
type Query struct {
	// Source is the table the query targets.
	Source Source

	// Fields is the ordered projection list. Empty renders "*".
	Fields []Expr

	// Filter is a conjunction-only comparison tree. Nil means no filter.
	Filter Expr

	// OrderBy lists (column, direction) pairs in output order.
	OrderBy []OrderItem

	// GroupBy lists grouping expressions: column references or positional
	// integer literals.
	GroupBy []Expr

	// Limit caps the row count. Nil means no limit.
	Limit *int64

	// LockHint is a free-text statement suffix. Only an ALLOW FILTERING
	// style hint is accepted; a true locking request fails compilation.
	LockHint string

	// Assignments holds the SET entries for update operations, in input
	// order.
	Assignments []Assignment
}
