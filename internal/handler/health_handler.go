package handler

import (
	"context"
	"net/http"

	"go-insurance-admin/internal/model"
)

// Pinger is satisfied by the database pool wrapper.
type Pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

// NewHealthHandler accepts a nil db for in-memory deployments.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"database": "ok"}
	if h.db == nil {
		status["database"] = "disabled"
	} else if err := h.db.Health(r.Context()); err != nil {
		status["database"] = "unavailable"
		writeJSON(w, http.StatusServiceUnavailable, model.APIResponse{Status: "error", Message: "Service unavailable", Data: status})
		return
	}

	writeSuccess(w, http.StatusOK, "ok", status)
}
