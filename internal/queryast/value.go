package queryast

// Value is a sealed interface representing the constrained set of leaf
// value types the compiler knows how to render or bind.
// Only Null, String, Int, Float, Bool, BigInt, and AutoGenerate implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents an absent value.
//
// Null exists so that absence is representable in the AST, but it is not a
// renderable literal: CQL has no IS NULL test and an equality or IN context
// with a null value must fail compilation rather than silently emit an
// empty token.
type Null struct{}

func (Null) value() {}

// String represents a text value.
type String string

func (String) value() {}

// Int represents an integer value. Always int64.
type Int int64

func (Int) value() {}

// Float represents a floating-point value.
type Float float64

func (Float) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// BigInt represents a large integer whose literal form must pass through
// the bigint-to-blob conversion function rather than appear as a bare
// decimal. When bound as a parameter it travels as a plain int64.
type BigInt int64

func (BigInt) value() {}

// AutoGenerate is the autogeneration sentinel for insert values.
//
// A field carrying AutoGenerate asks the target system to produce the
// value: a time-based key column renders now(), a generic key column
// renders uuid(). AutoGenerate is only meaningful in insert field lists;
// anywhere else the binder rejects it.
type AutoGenerate struct{}

func (AutoGenerate) value() {}
