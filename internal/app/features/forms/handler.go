// internal/app/features/forms/handler.go
package forms

import (
	"net/http"

	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/app/system/formspec"
	"github.com/dalemusser/nexa/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
)

// Handler serves form descriptors to the client renderer. No DB needed.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// ServeIndex handles GET /api/forms.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, http.StatusOK, formspec.Names(), "")
}

// ServeForm handles GET /api/forms/{name}.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	form, ok := formspec.Lookup(chi.URLParam(r, "name"))
	if !ok {
		respond.AppError(w, apperr.NotFound("Form"))
		return
	}
	respond.OK(w, http.StatusOK, form, "")
}
