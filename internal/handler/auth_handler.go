package handler

import (
	"net/http"

	"go-insurance-admin/internal/metrics"
	"go-insurance-admin/internal/model"
	"go-insurance-admin/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
	metrics *metrics.Metrics
}

func NewAuthHandler(service *service.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{service: service, metrics: m}
}

// RegisterUser registers an admin, employee or insurance agent. Customers
// have their own endpoint because they carry a date of birth.
func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	role, err := userType(r)
	if err == nil && role == model.RoleCustomer {
		err = model.ErrInvalidRole
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.RegisterRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	principal, token, err := h.service.Register(r.Context(), role, model.PrincipalInput{
		Email:    payload.Email,
		Password: payload.Password,
		Username: payload.Username,
		FullName: payload.FullName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.APIResponse{
		Status:      "success",
		Message:     role.Label() + " registered successfully",
		Data:        principal,
		AccessToken: token,
	})
}

func (h *AuthHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var payload model.CustomerRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	principal, token, err := h.service.Register(r.Context(), model.RoleCustomer, customerInput(payload))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.APIResponse{
		Status:      "success",
		Message:     "Customer registered successfully",
		Data:        principal,
		AccessToken: token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	role, err := userType(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.LoginRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	principal, pair, err := h.service.Login(r.Context(), role, payload.Email, payload.Password)
	h.metrics.Login(string(role), err == nil)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.APIResponse{
		Status:       "success",
		Message:      role.Label() + " login successful",
		Data:         principal,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	role, err := userType(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.RefreshRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	pair, err := h.service.Refresh(r.Context(), role, payload.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.APIResponse{
		Status:       "success",
		Message:      "Token refreshed successfully",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func customerInput(payload model.CustomerRequest) model.PrincipalInput {
	return model.PrincipalInput{
		Email:       payload.Email,
		Password:    payload.Password,
		Username:    payload.Username,
		FullName:    payload.FullName,
		DateOfBirth: payload.DateOfBirth,
		AgentID:     payload.AgentID,
	}
}
