package crudy

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrUnknownResource is returned by Registry.Lookup for names that were not registered.
var ErrUnknownResource = errors.New("crudy: unknown resource")

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeInvalidArgument   ErrorCode = "invalid_argument"
	CodeUnauthenticated   ErrorCode = "unauthenticated"
	CodePermissionDenied  ErrorCode = "permission_denied"
	CodeNotFound          ErrorCode = "not_found"
	CodeMethodNotAllowed  ErrorCode = "method_not_allowed"
	CodeConflict          ErrorCode = "conflict"
	CodeGone              ErrorCode = "gone"
	CodeResourceExhausted ErrorCode = "resource_exhausted"
	CodeCanceled          ErrorCode = "canceled"
	CodeInternal          ErrorCode = "internal"
	CodeNotImplemented    ErrorCode = "not_implemented"
	CodeUnavailable       ErrorCode = "unavailable"
	CodeDeadlineExceeded  ErrorCode = "deadline_exceeded"
	CodeUnknown           ErrorCode = "unknown"
)

// CodeFromHTTPStatus maps a non-success HTTP status to the closest ErrorCode.
// Statuses without a dedicated code map to CodeUnknown.
func CodeFromHTTPStatus(status int) ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeInvalidArgument
	case http.StatusUnauthorized:
		return CodeUnauthenticated
	case http.StatusForbidden:
		return CodePermissionDenied
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusMethodNotAllowed:
		return CodeMethodNotAllowed
	case http.StatusConflict:
		return CodeConflict
	case http.StatusGone:
		return CodeGone
	case http.StatusTooManyRequests:
		return CodeResourceExhausted
	case 499:
		return CodeCanceled
	case http.StatusInternalServerError:
		return CodeInternal
	case http.StatusNotImplemented:
		return CodeNotImplemented
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return CodeUnavailable
	case http.StatusGatewayTimeout:
		return CodeDeadlineExceeded
	default:
		return CodeUnknown
	}
}

// HTTPError is returned when the transport completed the call but the
// response status was not in the 2xx range.
type HTTPError struct {
	StatusCode int
	StatusText string
	Code       ErrorCode

	// Body holds the raw response body, if any. It is not deserialized.
	Body []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP Error: %d %s", e.StatusCode, e.StatusText)
}

// StatusCode reports the HTTP status carried by err, if err is or wraps an *HTTPError.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}

// IsNotFound reports whether err is an *HTTPError with status 404.
func IsNotFound(err error) bool {
	status, ok := StatusCode(err)
	return ok && status == http.StatusNotFound
}

// Side tells which half of an exchange a ValidationError refers to.
type Side string

const (
	SideRequest  Side = "request"
	SideResponse Side = "response"
)

// ValidationError is returned when a request or response payload fails a
// configured validator. Request-side validation errors are raised before the
// transport is called.
type ValidationError struct {
	Operation Operation
	Side      Side
	Message   string
	Details   map[string]any
	Err       error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	if e.Operation != "" {
		fmt.Fprintf(&b, " for %s %s", e.Operation, e.Side)
	} else if e.Side != "" {
		fmt.Fprintf(&b, " for %s", e.Side)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// newValidationError converts whatever a Validator returned into a
// *ValidationError for op and side, extracting per-field details from
// go-playground and JSON-schema errors.
func newValidationError(op Operation, side Side, err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		out := *ve
		if out.Operation == "" {
			out.Operation = op
		}
		if out.Side == "" {
			out.Side = side
		}
		return &out
	}

	out := &ValidationError{
		Operation: op,
		Side:      side,
		Message:   err.Error(),
		Err:       err,
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		out.Details, out.Message = fieldErrorDetails("", valErrs)
		return out
	}

	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) {
		details := make(map[string]any)
		collectSchemaErrors(schemaErr, details)
		out.Details = details
		out.Message = joinDetails(details)
	}
	return out
}

// fieldErrorDetails flattens validator field errors into a details map and a
// "field: message; ..." summary. prefix is prepended to every field name.
func fieldErrorDetails(prefix string, valErrs validator.ValidationErrors) (map[string]any, string) {
	details := make(map[string]any, len(valErrs))
	messages := make([]string, 0, len(valErrs))
	for _, fe := range valErrs {
		field := prefix + fe.Field()
		msg := formatValidationError(fe)
		details[field] = msg
		messages = append(messages, field+": "+msg)
	}
	return details, strings.Join(messages, "; ")
}

func collectSchemaErrors(err *jsonschema.ValidationError, details map[string]any) {
	if len(err.Causes) == 0 {
		field := strings.ReplaceAll(strings.TrimPrefix(err.InstanceLocation, "/"), "/", ".")
		details[field] = err.Message
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, details)
	}
}

func joinDetails(details map[string]any) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			parts = append(parts, fmt.Sprint(details[k]))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, details[k]))
	}
	return strings.Join(parts, "; ")
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "eq":
		return fmt.Sprintf("must equal %s", fe.Param())
	case "ne":
		return fmt.Sprintf("must not equal %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
