package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"go-insurance-admin/internal/middleware"
	"go-insurance-admin/internal/model"
	"go-insurance-admin/pkg/apierror"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, model.APIResponse{Status: "success", Message: message, Data: data})
}

func writeJSON(w http.ResponseWriter, status int, body model.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errorMapping ties a sentinel to its HTTP status and error code. The first
// match wins, so more specific errors come first.
type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{model.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
	{model.ErrTokenInvalid, http.StatusUnauthorized, "UNAUTHORIZED"},
	{model.ErrMissingClaim, http.StatusUnauthorized, "UNAUTHORIZED"},
	{model.ErrRoleMismatch, http.StatusForbidden, "FORBIDDEN"},
	{model.ErrPaymentNotOwned, http.StatusForbidden, "FORBIDDEN"},

	{model.ErrDuplicateAssignment, http.StatusConflict, "CONFLICT"},

	{model.ErrPrincipalNotFound, http.StatusNotFound, "NOT_FOUND"},
	{model.ErrPlanNotFound, http.StatusNotFound, "NOT_FOUND"},
	{model.ErrSchemeNotFound, http.StatusNotFound, "NOT_FOUND"},
	{model.ErrPolicyNotFound, http.StatusNotFound, "NOT_FOUND"},
	{model.ErrPaymentNotFound, http.StatusNotFound, "NOT_FOUND"},
	{model.ErrAgentNotFound, http.StatusNotFound, "NOT_FOUND"},
	{model.ErrNoCustomersForAgent, http.StatusNotFound, "NOT_FOUND"},
	{model.ErrNoPoliciesForAgent, http.StatusNotFound, "NOT_FOUND"},
	{model.ErrNoPolicies, http.StatusNotFound, "NOT_FOUND"},
	{model.ErrEmptyPage, http.StatusNotFound, "NOT_FOUND"},

	{model.ErrInvalidRole, http.StatusBadRequest, "BAD_REQUEST"},
	{model.ErrEmailTaken, http.StatusBadRequest, "BAD_REQUEST"},
	{model.ErrPlanNameTaken, http.StatusBadRequest, "BAD_REQUEST"},
	{model.ErrSchemeNameTaken, http.StatusBadRequest, "BAD_REQUEST"},
	{model.ErrPolicyNameTaken, http.StatusBadRequest, "BAD_REQUEST"},
	{model.ErrMissingData, http.StatusBadRequest, "BAD_REQUEST"},
	{model.ErrMissingPremium, http.StatusBadRequest, "BAD_REQUEST"},
	{model.ErrInvalidCredentials, http.StatusBadRequest, "BAD_REQUEST"},
	{model.ErrInvalidInput, http.StatusBadRequest, "BAD_REQUEST"},
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
	}

	var apiErr *apierror.APIError
	matched := false
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
		matched = true
	} else {
		for _, m := range errorMappings {
			if errors.Is(err, m.target) {
				status = m.status
				body.Code = m.code
				body.Message = capitalize(m.target.Error())
				if rest, ok := strings.CutPrefix(err.Error(), m.target.Error()+": "); ok {
					body.Details = rest
				}
				matched = true
				break
			}
		}
	}

	if !matched {
		// Store failures and ErrConfiguration end up here.
		slog.Error("unhandled error in writeError",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err.Error())
	}

	writeJSON(w, status, model.APIResponse{Status: "error", Message: body.Message, Error: body})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.BadRequest("invalid JSON body", err.Error())
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", jsonFieldName(fe), fe.Tag()))
			}
			return apierror.BadRequest("validation failed", strings.Join(fields, "; "))
		}
		return apierror.BadRequest("validation failed", err.Error())
	}
	return nil
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.BadRequest(name+" must be a positive integer", raw)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.BadRequest(name+" must be an integer", raw)
	}
	return v, nil
}

// userType parses the user_type query parameter.
func userType(r *http.Request) (model.Role, error) {
	return model.ParseRole(r.URL.Query().Get("user_type"))
}

func callerFrom(r *http.Request) (model.Caller, error) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		return model.Caller{}, apierror.Unauthorized("authentication required")
	}
	return caller, nil
}

// customerFrom returns the id of the customer behind the request.
func customerFrom(r *http.Request) (model.Caller, int64, error) {
	caller, err := callerFrom(r)
	if err != nil {
		return model.Caller{}, 0, err
	}
	if caller.CustomerID == nil {
		return model.Caller{}, 0, model.ErrRoleMismatch
	}
	return caller, *caller.CustomerID, nil
}
