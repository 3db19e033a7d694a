package crudy

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// JSONPath returns a Deserializer that replaces the decoded response with
// the value selected by a JSONPath expression, for APIs that wrap results
// in an envelope such as {"data": [...]} or {"result": {...}}.
//
// A single match yields that value. Several matches yield a []any.
// No match yields nil.
func JSONPath(expr string) (Deserializer, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("crudy: parse JSONPath %q: %w", expr, err)
	}
	return func(data any) (any, error) {
		if data == nil {
			return nil, nil
		}
		matches := x.Get(data)
		switch len(matches) {
		case 0:
			return nil, nil
		case 1:
			return matches[0], nil
		default:
			return matches, nil
		}
	}, nil
}

// MustJSONPath is like JSONPath but panics if expr does not parse.
func MustJSONPath(expr string) Deserializer {
	d, err := JSONPath(expr)
	if err != nil {
		panic(err)
	}
	return d
}
