package crudy

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
)

var schemaEncoder = schema.NewEncoder()

// Param is a single query string parameter.
type Param struct {
	Key   string
	Value any
}

// Query is an ordered list of flat query parameters.
// Parameters are encoded in slice order; a nil or empty Query encodes to "".
//
// Values should be scalars (strings, numbers, booleans). Nested values are
// not supported and are rendered with fmt.Sprint.
type Query []Param

// Q builds a Query from alternating keys and values:
//
//	crudy.Q("page", 1, "limit", 10) // ?page=1&limit=10
//
// It panics if given an odd number of arguments or a non-string key.
func Q(kv ...any) Query {
	if len(kv)%2 != 0 {
		panic("crudy: Q requires an even number of arguments")
	}
	q := make(Query, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("crudy: Q key at position %d is %T, not string", i, kv[i]))
		}
		q = append(q, Param{Key: key, Value: kv[i+1]})
	}
	return q
}

// Add returns q with key=value appended.
func (q Query) Add(key string, value any) Query {
	return append(q, Param{Key: key, Value: value})
}

// Encode returns "?" followed by the form-encoded parameters joined by "&",
// or "" when q is empty.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('?')
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(formatParam(p.Value)))
	}
	return b.String()
}

// String implements fmt.Stringer.
func (q Query) String() string {
	return q.Encode()
}

// QueryOf encodes a struct into a Query using its `schema` tags,
// the same tags gorilla/schema uses to decode query parameters on the server.
// Keys are sorted; multi-valued fields produce repeated keys.
func QueryOf(v any) (Query, error) {
	values := make(map[string][]string)
	if err := schemaEncoder.Encode(v, values); err != nil {
		return nil, fmt.Errorf("crudy: encode query: %w", err)
	}
	return QueryFromValues(values), nil
}

// QueryFromValues converts url.Values into a Query with keys sorted.
func QueryFromValues(values url.Values) Query {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var q Query
	for _, k := range keys {
		for _, v := range values[k] {
			q = append(q, Param{Key: k, Value: v})
		}
	}
	return q
}

func formatParam(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
