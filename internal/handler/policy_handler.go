package handler

import (
	"net/http"

	"go-insurance-admin/internal/metrics"
	"go-insurance-admin/internal/model"
	"go-insurance-admin/internal/service"
)

type PolicyHandler struct {
	service *service.PolicyService
	metrics *metrics.Metrics
}

func NewPolicyHandler(service *service.PolicyService, m *metrics.Metrics) *PolicyHandler {
	return &PolicyHandler{service: service, metrics: m}
}

// List serves GET /policies. The role comes from the verified caller, which
// the user_type gate resolved.
func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	size, err := queryInt(r, "size", service.DefaultPageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.List(r.Context(), caller.Role, page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}

	meta := model.NewMeta(result.Page, result.Size, result.TotalRecords)
	meta.TotalPurchasedPolicies = result.TotalPurchasedPolicies
	writeJSON(w, http.StatusOK, model.APIResponse{
		Status:  "success",
		Message: "Policies retrieved successfully",
		Data:    result.Policies,
		Meta:    &meta,
	})
}

func (h *PolicyHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	_, customerID, err := customerFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.PurchasePolicyRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	assignment, err := h.service.Purchase(r.Context(), customerID, payload.PolicyID)
	h.metrics.Purchase(err == nil)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Policy purchased successfully", assignment)
}
