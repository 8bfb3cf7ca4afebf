// Package cql compiles a normalized query AST into literal CQL statement
// text plus an ordered list of bound parameter values.
//
// The package exposes one entry point per operation kind - All (select),
// UpdateAll, DeleteAll, Insert, Update, Delete - chosen explicitly by the
// caller, never inferred from the AST shape. Each call is a single pass:
// the assembler walks the AST in parse order, the expression compiler
// renders each clause, and the binder decides per leaf value between an
// inline literal and a positional `?` placeholder.
//
// Compilation is pure with respect to its inputs: the same AST and
// operation always produce the same text and parameter list, no state
// survives between calls, and independent compilations are safe to run in
// parallel. All failures are synchronous *CompileError values; nothing is
// retried and no partial statement text is ever returned.
//
// CQL accepts a strict subset of relational semantics. Disjunction,
// negation, null tests, and empty or dynamic IN lists have no rendering
// and fail with UNSUPPORTED_RELATION; a true locking hint fails with
// UNSUPPORTED_LOCKING; identifiers outside the allowed pattern fail with
// BAD_IDENTIFIER. These are programmer errors surfaced to the
// query-builder layer, not transient conditions.
package cql
