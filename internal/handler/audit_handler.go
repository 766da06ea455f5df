package handler

import (
	"net/http"
	"strings"

	"go-insurance-admin/internal/model"
	"go-insurance-admin/internal/service"
)

type AuditHandler struct {
	service *service.AuditService
}

func NewAuditHandler(service *service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, meta, err := h.service.Query(r.Context(), model.AuditQuery{
		Action:     strings.TrimSpace(query.Get("action")),
		ActorEmail: strings.TrimSpace(query.Get("actor_email")),
		Status:     strings.TrimSpace(query.Get("status")),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.APIResponse{
		Status:  "success",
		Message: "Audit entries retrieved successfully",
		Data:    items,
		Meta:    &meta,
	})
}
