// internal/app/system/respond/respond.go
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/nexa/internal/app/system/apperr"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = 1 << 20 // 1 MB

// Envelope is the uniform response shape.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the error member of a failed response.
type ErrorBody struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes {success:true, data, message?}.
func OK(w http.ResponseWriter, status int, data any, message string) {
	JSON(w, status, Envelope{Success: true, Data: data, Message: message})
}

// Fail writes {success:false, error:{...}}.
func Fail(w http.ResponseWriter, status int, body ErrorBody) {
	JSON(w, status, Envelope{Success: false, Error: &body})
}

// AppError writes a domain error.
func AppError(w http.ResponseWriter, e *apperr.Error) {
	Fail(w, e.Status, ErrorBody{Message: e.Message, Code: e.Code, Errors: e.Fields})
}

// DecodeJSON reads a single JSON object from the request body into dst.
// Malformed or oversized bodies come back as validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required", nil)
		case errors.As(err, &maxErr):
			return apperr.New(http.StatusRequestEntityTooLarge, apperr.CodeValidation, "Request body is too large")
		default:
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return apperr.FieldError(typeErr.Field, "Invalid value type")
			}
			return apperr.Validation("Invalid JSON body", nil)
		}
	}
	if dec.More() {
		return apperr.Validation("Invalid JSON body", nil)
	}
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}
