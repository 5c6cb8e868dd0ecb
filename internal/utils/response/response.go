// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape (a student, a list, a
// message…). Error responses always look like:
//
//	{ "status": "error", "detail": "Student not found" }
//
// "detail" is the key existing clients of this API read the message from.
type Response struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// Message is the body of successful mutations.
type Message struct {
	Message string `json:"message"`
}

// Status string constants. Use these instead of raw string literals so
// a typo is caught by the compiler rather than silently sending "eroor".
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Detail: err.Error(),
	}
}

// ValidationError converts a slice of validator.FieldError values into
// a single human-readable Response, one sentence per failing field:
//
//	{ "status": "error", "detail": "field name is required, field age must be at least 10" }
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		field := e.Field()

		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", field))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", field))
		case "min":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at least %s characters long", field, e.Param()))
		case "max":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at most %s characters long", field, e.Param()))
		case "gte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at least %s", field, e.Param()))
		case "lte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at most %s", field, e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", field))
		}
	}

	return Response{
		Status: StatusError,
		Detail: strings.Join(errMessages, ", "),
	}
}
