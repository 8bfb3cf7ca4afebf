// Package queryast defines the normalized query AST the CQL statement
// compiler consumes.
//
// The AST is produced by an external query-builder layer, handed to the
// compiler read-only, and discarded after one compilation pass. It
// describes projections, a conjunction-only filter tree, ordering,
// grouping, a limit, an optional statement-suffix hint, and update
// assignments.
//
// SEALED INTERFACES:
//
// Expr, Value, and Assignment are sealed interfaces using the marker
// method pattern. Only types in this package implement them.
//
// This enables:
//   - Exhaustive type switches in the compiler
//   - Compile-time safety against external extensions
//   - New node kinds as checked additions, never silent fallthrough
//
// Example:
//
//	switch e := expr.(type) {
//	case queryast.Column:
//	    // render identifier
//	case queryast.Param:
//	    // emit placeholder, append parameter
//	default:
//	    // reject with a precise error
//	}
//
// EXPLICIT PROVENANCE:
//
// Each leaf value states how it should render: Literal appears inline in
// the statement text, Param becomes a positional `?` placeholder bound at
// execution time. The decision is a first-class field of the tree, not
// something the compiler infers from call-site shape.
//
// REJECTED SHAPES:
//
// Or, Not, and IsNull are representable so a builder that produces them
// gets a precise unsupported-relation failure naming the construct. CQL
// has no OR, no arbitrary NOT, no IS NULL, and no NOT-IN; the compiler
// refuses all of them at compile time.
//
// Validate offers an advisory whole-tree pass that collects every
// unsupported construct at once, for tooling that wants a full report
// rather than the compiler's fail-fast behavior.
package queryast
