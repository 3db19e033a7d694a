package crudy

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var validate = validator.New()

// Validator checks a payload and returns it, possibly converted to a richer
// type. A non-nil error means the payload does not match.
type Validator interface {
	Validate(v any) (any, error)
}

// ValidatorFunc adapts an ordinary function to the Validator interface.
type ValidatorFunc func(v any) (any, error)

// Validate calls f(v).
func (f ValidatorFunc) Validate(v any) (any, error) {
	return f(v)
}

// RequestSchemas holds request-side validators. Only create and update carry bodies.
type RequestSchemas struct {
	Create Validator
	Update Validator
}

// ResponseSchemas holds response-side validators.
type ResponseSchemas struct {
	Get    Validator
	List   Validator
	Create Validator
	Update Validator
}

// Schemas groups the validators applied by the dispatcher.
type Schemas struct {
	Request  RequestSchemas
	Response ResponseSchemas
}

func (s *Schemas) request(op Operation) Validator {
	if s == nil {
		return nil
	}
	switch op {
	case OpCreate:
		return s.Request.Create
	case OpUpdate:
		return s.Request.Update
	}
	return nil
}

func (s *Schemas) response(op Operation) Validator {
	if s == nil {
		return nil
	}
	switch op {
	case OpGet:
		return s.Response.Get
	case OpList:
		return s.Response.List
	case OpCreate:
		return s.Response.Create
	case OpUpdate:
		return s.Response.Update
	}
	return nil
}

// Struct returns a Validator that converts the payload to T and checks it
// with the `validate` struct tags of go-playground/validator.
// The converted T is returned, so a response validated by Struct[T] yields a T.
func Struct[T any]() Validator {
	return ValidatorFunc(func(v any) (any, error) {
		out, err := convert[T](v)
		if err != nil {
			return nil, err
		}
		if err := validate.Struct(out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Slice returns a Validator that converts the payload to []T and validates
// every struct element. Field names in the error details are prefixed with
// the element index, e.g. "[2].Email".
func Slice[T any]() Validator {
	return ValidatorFunc(func(v any) (any, error) {
		out, err := convert[[]T](v)
		if err != nil {
			return nil, err
		}
		if !isStructLike(reflect.TypeOf((*T)(nil)).Elem()) {
			return out, nil
		}

		var details map[string]any
		var messages []string
		for i := range out {
			err := validate.Struct(out[i])
			if err == nil {
				continue
			}
			valErrs, ok := err.(validator.ValidationErrors)
			if !ok {
				return nil, err
			}
			d, msg := fieldErrorDetails(fmt.Sprintf("[%d].", i), valErrs)
			if details == nil {
				details = make(map[string]any)
			}
			for k, v := range d {
				details[k] = v
			}
			messages = append(messages, msg)
		}
		if details != nil {
			return nil, &ValidationError{
				Message: strings.Join(messages, "; "),
				Details: details,
			}
		}
		return out, nil
	})
}

// JSONSchema compiles a JSON Schema document (draft 2020-12 unless the
// document declares otherwise) into a Validator. The payload is returned
// unchanged when valid.
func JSONSchema(src string) (Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", strings.NewReader(src)); err != nil {
		return nil, fmt.Errorf("crudy: add schema resource: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("crudy: compile schema: %w", err)
	}
	return ValidatorFunc(func(v any) (any, error) {
		doc, err := jsonValue(v)
		if err != nil {
			return nil, err
		}
		if err := schema.Validate(doc); err != nil {
			return nil, err
		}
		return v, nil
	}), nil
}

// MustJSONSchema is like JSONSchema but panics if the schema does not compile.
func MustJSONSchema(src string) Validator {
	v, err := JSONSchema(src)
	if err != nil {
		panic(err)
	}
	return v
}

// convert turns a generic JSON value into T. Values that already are a T
// pass through untouched.
func convert[T any](v any) (T, error) {
	if out, ok := v.(T); ok {
		return out, nil
	}
	var out T
	data, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("crudy: convert %T: %w", v, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("crudy: convert to %T: %w", out, err)
	}
	return out, nil
}

// jsonValue returns v as the generic value encoding/json would decode it to.
func jsonValue(v any) (any, error) {
	switch v.(type) {
	case nil, bool, float64, string:
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("crudy: encode %T: %w", v, err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func isStructLike(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
