package cql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/cqlc/internal/queryast"
)

// binder decides, per leaf value, between an inline literal rendering and
// a positional `?` placeholder, and owns the running parameter list for
// one compilation pass.
//
// Parameters append strictly in left-to-right scan order of the statement
// text, so the placeholder count always equals the parameter count with
// matching positions. A binder is local to a single compilation - the
// compiler holds no state across calls.
type binder struct {
	params []any
}

// bind appends the value to the parameter list and returns the positional
// placeholder marker.
func (b *binder) bind(v queryast.Value) (string, error) {
	param, err := nativeValue(v)
	if err != nil {
		return "", err
	}
	b.params = append(b.params, param)
	return "?", nil
}

// literal renders the value as an inline CQL literal per its semantic type.
func (b *binder) literal(v queryast.Value) (string, error) {
	switch val := v.(type) {
	case queryast.String:
		// Embedded single quotes double; backslashes pass through untouched.
		return "'" + strings.ReplaceAll(string(val), "'", "''") + "'", nil
	case queryast.Bool:
		if val {
			return "TRUE", nil
		}
		return "FALSE", nil
	case queryast.Int:
		return strconv.FormatInt(int64(val), 10), nil
	case queryast.Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64), nil
	case queryast.BigInt:
		// A bigint literal travels through the blob conversion function
		// rather than appearing as a bare decimal.
		return "bigintAsBlob(" + strconv.FormatInt(int64(val), 10) + ")", nil
	case queryast.Null:
		return "", errUnsupportedExpression("null literal")
	case queryast.AutoGenerate:
		return "", errUnsupportedExpression("autogeneration sentinel outside insert")
	default:
		return "", errUnsupportedExpression(fmt.Sprintf("%T", v))
	}
}

// nativeValue converts a queryast.Value to the Go native type handed to
// the execution layer as a bound parameter.
func nativeValue(v queryast.Value) (any, error) {
	switch val := v.(type) {
	case queryast.String:
		return string(val), nil
	case queryast.Int:
		return int64(val), nil
	case queryast.Float:
		return float64(val), nil
	case queryast.Bool:
		return bool(val), nil
	case queryast.BigInt:
		return int64(val), nil
	case queryast.Null:
		// Never silently bind an empty token.
		return nil, errUnsupportedExpression("null parameter")
	case queryast.AutoGenerate:
		return nil, errUnsupportedExpression("autogeneration sentinel outside insert")
	default:
		return nil, errUnsupportedExpression(fmt.Sprintf("%T", v))
	}
}
