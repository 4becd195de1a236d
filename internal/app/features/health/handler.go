package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/nexa/internal/app/system/respond"
	"github.com/dalemusser/nexa/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Log: logger}
}

type healthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "message":"Server is running", "database":"connected" }
//
// On DB failure: 503 with status "error" and database "disconnected".
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		respond.JSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "error",
			Message:  "Database unavailable",
			Database: "disconnected",
		})
		return
	}

	respond.JSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Message:  "Server is running",
		Database: "connected",
	})
}
