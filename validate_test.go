package crudy

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

type testUser struct {
	ID    int    `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required,min=3"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

func TestStruct_ConvertsAndValidates(t *testing.T) {
	v := Struct[testUser]()

	out, err := v.Validate(map[string]any{"id": float64(1), "name": "John Doe"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, ok := out.(testUser)
	if !ok {
		t.Fatalf("expected testUser, got %T", out)
	}
	if u.ID != 1 || u.Name != "John Doe" {
		t.Errorf("unexpected user %+v", u)
	}
}

func TestStruct_PassThrough(t *testing.T) {
	in := testUser{ID: 2, Name: "Alice"}
	out, err := Struct[testUser]().Validate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != in {
		t.Errorf("expected %+v, got %+v", in, out)
	}
}

func TestStruct_Invalid(t *testing.T) {
	_, err := Struct[testUser]().Validate(map[string]any{"id": 1, "name": "Jo"})

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		t.Fatalf("expected validator.ValidationErrors, got %T: %v", err, err)
	}
	if valErrs[0].Field() != "Name" {
		t.Errorf("expected Name to fail, got %s", valErrs[0].Field())
	}
}

func TestStruct_WrongShape(t *testing.T) {
	if _, err := Struct[testUser]().Validate("not an object"); err == nil {
		t.Error("expected conversion error")
	}
}

func TestSlice(t *testing.T) {
	v := Slice[testUser]()

	out, err := v.Validate([]any{
		map[string]any{"id": 1, "name": "Alice"},
		map[string]any{"id": 2, "name": "Bob Smith"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users, ok := out.([]testUser)
	if !ok || len(users) != 2 {
		t.Fatalf("expected 2 users, got %#v", out)
	}

	_, err = v.Validate([]any{
		map[string]any{"id": 1, "name": "Alice"},
		map[string]any{"id": 2, "name": "Bo"},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if _, ok := ve.Details["[1].Name"]; !ok {
		t.Errorf("expected [1].Name detail, got %v", ve.Details)
	}
}

func TestSlice_Scalars(t *testing.T) {
	out, err := Slice[string]().Validate([]any{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.([]string); len(got) != 2 || got[1] != "b" {
		t.Errorf("unexpected result %v", got)
	}
}

const userSchema = `{
	"type": "object",
	"required": ["id", "name"],
	"properties": {
		"id": {"type": "integer"},
		"name": {"type": "string", "minLength": 1}
	}
}`

func TestJSONSchema(t *testing.T) {
	v, err := JSONSchema(userSchema)
	if err != nil {
		t.Fatalf("failed to compile schema: %v", err)
	}

	in := map[string]any{"id": float64(1), "name": "John Doe"}
	out, err := v.Validate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(map[string]any)["name"] != "John Doe" {
		t.Errorf("expected payload returned unchanged, got %v", out)
	}

	// Go values are validated through their JSON form.
	if _, err := v.Validate(testUser{ID: 3, Name: "Ann"}); err != nil {
		t.Errorf("unexpected error for struct payload: %v", err)
	}

	_, err = v.Validate(map[string]any{"id": "one"})
	var schemaErr *jsonschema.ValidationError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *jsonschema.ValidationError, got %T: %v", err, err)
	}

	ve := newValidationError(OpGet, SideResponse, err)
	if len(ve.Details) == 0 {
		t.Errorf("expected schema error details, got none (message %q)", ve.Message)
	}
}

func TestJSONSchema_Invalid(t *testing.T) {
	if _, err := JSONSchema(`{"$ref": "#/$defs/missing"}`); err == nil {
		t.Error("expected compile error")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected MustJSONSchema to panic")
		}
	}()
	MustJSONSchema(`not json`)
}

func TestSchemasLookup(t *testing.T) {
	create := ValidatorFunc(func(v any) (any, error) { return v, nil })
	s := &Schemas{
		Request:  RequestSchemas{Create: create},
		Response: ResponseSchemas{Get: create, List: create},
	}

	if s.request(OpCreate) == nil {
		t.Error("expected create request validator")
	}
	if s.request(OpUpdate) != nil {
		t.Error("expected no update request validator")
	}
	if s.request(OpGet) != nil {
		t.Error("get has no request side")
	}
	if s.response(OpList) == nil {
		t.Error("expected list response validator")
	}
	if s.response(OpDelete) != nil || s.response("") != nil {
		t.Error("delete and untagged calls have no response validator")
	}

	var nilSchemas *Schemas
	if nilSchemas.request(OpCreate) != nil || nilSchemas.response(OpGet) != nil {
		t.Error("nil schemas must yield no validators")
	}
}
