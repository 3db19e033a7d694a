package crudy

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestHTTPErrorMessage(t *testing.T) {
	err := &HTTPError{StatusCode: 404, StatusText: "Not Found"}
	expected := "HTTP Error: 404 Not Found"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestStatusCode(t *testing.T) {
	wrapped := fmt.Errorf("loading user: %w", &HTTPError{StatusCode: 404, StatusText: "Not Found"})

	status, ok := StatusCode(wrapped)
	if !ok || status != 404 {
		t.Errorf("expected 404, got %d (ok=%v)", status, ok)
	}
	if !IsNotFound(wrapped) {
		t.Error("expected IsNotFound to be true")
	}
	if _, ok := StatusCode(errors.New("plain")); ok {
		t.Error("expected no status for plain error")
	}
	if IsNotFound(&HTTPError{StatusCode: 500}) {
		t.Error("expected IsNotFound to be false for 500")
	}
}

func TestCodeFromHTTPStatus(t *testing.T) {
	tests := []struct {
		status   int
		wantCode ErrorCode
	}{
		{http.StatusBadRequest, CodeInvalidArgument},
		{http.StatusUnprocessableEntity, CodeInvalidArgument},
		{http.StatusUnauthorized, CodeUnauthenticated},
		{http.StatusForbidden, CodePermissionDenied},
		{http.StatusNotFound, CodeNotFound},
		{http.StatusConflict, CodeConflict},
		{http.StatusTooManyRequests, CodeResourceExhausted},
		{http.StatusInternalServerError, CodeInternal},
		{http.StatusBadGateway, CodeUnavailable},
		{http.StatusServiceUnavailable, CodeUnavailable},
		{http.StatusGatewayTimeout, CodeDeadlineExceeded},
		{http.StatusTeapot, CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			if got := CodeFromHTTPStatus(tt.status); got != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, got)
			}
		})
	}
}

func TestNewValidationError_ValidatorErrors(t *testing.T) {
	type TestStruct struct {
		Email string `validate:"required,email"`
		Age   int    `validate:"gte=0,lte=120"`
	}

	err := validator.New().Struct(TestStruct{Email: "invalid", Age: -1})
	ve := newValidationError(OpCreate, SideRequest, err)

	if ve.Operation != OpCreate || ve.Side != SideRequest {
		t.Errorf("expected create/request, got %s/%s", ve.Operation, ve.Side)
	}
	if ve.Details["Email"] != "must be a valid email address" {
		t.Errorf("unexpected Email detail: %v", ve.Details["Email"])
	}
	if ve.Details["Age"] != "must be at least 0" {
		t.Errorf("unexpected Age detail: %v", ve.Details["Age"])
	}
	if !strings.HasPrefix(ve.Error(), "validation failed for create request: ") {
		t.Errorf("unexpected message %q", ve.Error())
	}

	var valErrs validator.ValidationErrors
	if !errors.As(ve, &valErrs) {
		t.Error("expected ValidationError to unwrap to validator.ValidationErrors")
	}
}

func TestNewValidationError_Plain(t *testing.T) {
	cause := errors.New("name too short")
	ve := newValidationError(OpGet, SideResponse, cause)

	if ve.Error() != "validation failed for get response: name too short" {
		t.Errorf("unexpected message %q", ve.Error())
	}
	if !errors.Is(ve, cause) {
		t.Error("expected ValidationError to wrap the cause")
	}
}

func TestNewValidationError_FillsMissingContext(t *testing.T) {
	in := &ValidationError{Message: "bad", Details: map[string]any{"x": "bad"}}
	ve := newValidationError(OpUpdate, SideResponse, in)

	if ve.Operation != OpUpdate || ve.Side != SideResponse {
		t.Errorf("expected update/response, got %s/%s", ve.Operation, ve.Side)
	}
	if in.Operation != "" {
		t.Error("input error must not be modified")
	}
}

func TestValidationErrorMessage_NoOperation(t *testing.T) {
	ve := &ValidationError{Side: SideResponse, Message: "oops"}
	if ve.Error() != "validation failed for response: oops" {
		t.Errorf("unexpected message %q", ve.Error())
	}
}
