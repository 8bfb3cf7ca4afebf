package cql

import (
	"errors"
	"fmt"
)

// CompileError represents a failure detected while compiling a query to a
// CQL statement.
//
// All compile errors are synchronous, non-recoverable for that call, and
// never retried: they signal a query the target language cannot express or
// a malformed identifier, i.e. programmer errors rather than transient
// conditions. A failure aborts the whole compilation with no partial
// statement text.
type CompileError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Name carries the offending identifier or shape, when one exists.
	Name string
}

// ErrorCode categorizes compile errors.
type ErrorCode string

const (
	// ErrCodeUnsupportedRelation indicates OR, NOT, IS NULL, or an
	// unexpandable IN list in a filter.
	ErrCodeUnsupportedRelation ErrorCode = "UNSUPPORTED_RELATION"

	// ErrCodeUnsupportedLocking indicates a true locking hint was requested.
	ErrCodeUnsupportedLocking ErrorCode = "UNSUPPORTED_LOCKING"

	// ErrCodeBadIdentifier indicates a column, table, or keyspace name that
	// fails the allowed-identifier pattern.
	ErrCodeBadIdentifier ErrorCode = "BAD_IDENTIFIER"

	// ErrCodeUnsupportedExpression indicates a value or fragment argument
	// shape the compiler has no rendering rule for.
	ErrCodeUnsupportedExpression ErrorCode = "UNSUPPORTED_EXPRESSION"
)

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s: %q", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnsupportedRelation returns true if the error is an unsupported
// relation error. Uses errors.As to handle wrapped errors.
func IsUnsupportedRelation(err error) bool {
	return hasCode(err, ErrCodeUnsupportedRelation)
}

// IsUnsupportedLocking returns true if the error is a locking error.
func IsUnsupportedLocking(err error) bool {
	return hasCode(err, ErrCodeUnsupportedLocking)
}

// IsBadIdentifier returns true if the error is a bad identifier error.
func IsBadIdentifier(err error) bool {
	return hasCode(err, ErrCodeBadIdentifier)
}

// IsUnsupportedExpression returns true if the error is an unsupported
// expression error.
func IsUnsupportedExpression(err error) bool {
	return hasCode(err, ErrCodeUnsupportedExpression)
}

func hasCode(err error, code ErrorCode) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// errUnsupportedRelation creates a CompileError for a relational construct
// CQL cannot express.
func errUnsupportedRelation(message string) *CompileError {
	return &CompileError{
		Code:    ErrCodeUnsupportedRelation,
		Message: message,
	}
}

// errUnsupportedLocking creates a CompileError for a locking request.
func errUnsupportedLocking(hint string) *CompileError {
	return &CompileError{
		Code:    ErrCodeUnsupportedLocking,
		Message: "CQL has no locking support, only an ALLOW FILTERING hint is accepted",
		Name:    hint,
	}
}

// errBadIdentifier creates a CompileError for a malformed identifier.
func errBadIdentifier(name string) *CompileError {
	return &CompileError{
		Code:    ErrCodeBadIdentifier,
		Message: "identifier must start with a letter or underscore and contain only letters, digits, and underscores",
		Name:    name,
	}
}

// errUnsupportedExpression creates a CompileError for a shape with no
// rendering rule.
func errUnsupportedExpression(shape string) *CompileError {
	return &CompileError{
		Code:    ErrCodeUnsupportedExpression,
		Message: "no rendering rule for expression",
		Name:    shape,
	}
}
