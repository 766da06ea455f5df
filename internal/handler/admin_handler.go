package handler

import (
	"net/http"

	"go-insurance-admin/internal/metrics"
	"go-insurance-admin/internal/model"
	"go-insurance-admin/internal/service"
)

// AdminHandler serves the /admin routes. Every request has already passed
// the admin role gate.
type AdminHandler struct {
	catalog     *service.CatalogService
	principals  *service.PrincipalService
	commissions *service.CommissionService
	metrics     *metrics.Metrics
}

func NewAdminHandler(catalog *service.CatalogService, principals *service.PrincipalService, commissions *service.CommissionService, m *metrics.Metrics) *AdminHandler {
	return &AdminHandler{catalog: catalog, principals: principals, commissions: commissions, metrics: m}
}

func (h *AdminHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var payload model.InsurancePlanRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := h.catalog.CreatePlan(r.Context(), actorFromRequest(r), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Insurance plan created successfully", plan)
}

func (h *AdminHandler) CreateScheme(w http.ResponseWriter, r *http.Request) {
	var payload model.SchemeRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	scheme, err := h.catalog.CreateScheme(r.Context(), actorFromRequest(r), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Scheme created successfully", scheme)
}

func (h *AdminHandler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var payload model.PolicyRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	policy, err := h.catalog.CreatePolicy(r.Context(), actorFromRequest(r), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Policy created successfully", policy)
}

// CreatePrincipal returns the create handler for role. Customers are decoded
// with their date of birth and agent.
func (h *AdminHandler) CreatePrincipal(role model.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.PrincipalInput
		if role == model.RoleCustomer {
			var payload model.CustomerRequest
			if err := decodeAndValidate(r, &payload); err != nil {
				writeError(w, r, err)
				return
			}
			input = customerInput(payload)
		} else {
			var payload model.RegisterRequest
			if err := decodeAndValidate(r, &payload); err != nil {
				writeError(w, r, err)
				return
			}
			input = model.PrincipalInput{
				Email:    payload.Email,
				Password: payload.Password,
				Username: payload.Username,
				FullName: payload.FullName,
			}
		}

		principal, err := h.principals.Create(r.Context(), actorFromRequest(r), role, input)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeSuccess(w, http.StatusCreated, role.Label()+" created by admin successfully", principal)
	}
}

func (h *AdminHandler) UpdatePrincipal(role model.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}

		var payload model.PrincipalUpdateRequest
		if err := decodeAndValidate(r, &payload); err != nil {
			writeError(w, r, err)
			return
		}

		principal, err := h.principals.Update(r.Context(), actorFromRequest(r), role, id, model.PrincipalInput{
			Email:       payload.Email,
			Password:    payload.Password,
			Username:    payload.Username,
			FullName:    payload.FullName,
			DateOfBirth: payload.DateOfBirth,
			AgentID:     payload.AgentID,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeSuccess(w, http.StatusOK, role.Label()+" updated by admin successfully", principal)
	}
}

func (h *AdminHandler) DeletePrincipal(role model.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}

		if err := h.principals.Delete(r.Context(), actorFromRequest(r), role, id); err != nil {
			writeError(w, r, err)
			return
		}

		writeSuccess(w, http.StatusOK, role.Label()+" deleted successfully", nil)
	}
}

func (h *AdminHandler) AssignEmployeeScheme(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.EmployeeSchemeRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	link, err := h.principals.AssignScheme(r.Context(), actorFromRequest(r), employeeID, payload.SchemeID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Scheme assigned to employee successfully", link)
}

func (h *AdminHandler) CalculateCommission(w http.ResponseWriter, r *http.Request) {
	var payload model.CalculateCommissionRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.commissions.Calculate(r.Context(), actorFromRequest(r), payload.AgentID, payload.CommissionRate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.metrics.CommissionRows(len(result.CommissionDetails))

	writeSuccess(w, http.StatusOK, "Commission calculated successfully", result)
}

func (h *AdminHandler) CommissionLedger(w http.ResponseWriter, r *http.Request) {
	agentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows, err := h.commissions.Ledger(r.Context(), agentID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Commissions retrieved successfully", rows)
}
