// Package errors writes failures in the API error envelope.
package errors

import (
	"net/http"

	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/app/system/respond"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger is the single place handler errors are logged and serialized.
type ErrorLogger struct {
	log *zap.Logger
	dev bool
}

// NewErrorLogger builds the writer. When dev is true, internal error text is
// included in 500 responses.
func NewErrorLogger(logger *zap.Logger, dev bool) *ErrorLogger {
	return &ErrorLogger{log: logger, dev: dev}
}

// Write serializes err. Domain errors are written as-is; anything else is an
// internal failure.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	if ae, ok := apperr.As(err); ok {
		if ae.Status >= http.StatusInternalServerError {
			e.log.Error("request failed", e.fields(r, err)...)
		} else {
			e.log.Debug("request rejected", e.fields(r, err)...)
		}
		respond.AppError(w, ae)
		return
	}
	e.LogServerError(w, r, "unhandled error", err)
}

// LogServerError logs err and writes a 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Error(msg, e.fields(r, err)...)
	body := respond.ErrorBody{Message: "Internal server error"}
	if e.dev && err != nil {
		body.Message = err.Error()
	}
	respond.Fail(w, http.StatusInternalServerError, body)
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fs := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fs = append(fs, zap.String("request_id", id))
	}
	return fs
}

// NotFound answers routes the router does not know.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Fail(w, http.StatusNotFound, respond.ErrorBody{Message: "Route not found"})
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Fail(w, http.StatusMethodNotAllowed, respond.ErrorBody{Message: "Method not allowed"})
}
