package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"go-insurance-admin/internal/model"
)

type tokenVerifier interface {
	Verify(ctx context.Context, token string, role model.Role) (model.Caller, error)
}

type callerKey struct{}

type AuthMiddleware struct {
	verifier tokenVerifier
}

func NewAuthMiddleware(verifier tokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireRole admits requests whose token resolves to a principal of role.
func (m *AuthMiddleware) RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.authorize(w, r, next, role)
		})
	}
}

// RequireUserType verifies the token under the role named by the user_type
// query parameter, which must be one of allowed.
func (m *AuthMiddleware) RequireUserType(allowed ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := model.ParseRole(r.URL.Query().Get("user_type"))
			if err != nil || !slices.Contains(allowed, role) {
				writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", invalidUserTypeMessage(allowed))
				return
			}
			m.authorize(w, r, next, role)
		})
	}
}

func (m *AuthMiddleware) authorize(w http.ResponseWriter, r *http.Request, next http.Handler, role model.Role) {
	token := TokenFromRequest(r)
	if token == "" {
		writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing token")
		return
	}

	caller, err := m.verifier.Verify(r.Context(), token, role)
	if err != nil {
		writeAuthError(w, r, role, err)
		return
	}

	next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
}

// TokenFromRequest reads a bearer token from the Authorization header, or
// from the token query parameter when no header is present.
func TokenFromRequest(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

func CallerFromContext(ctx context.Context) (model.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(model.Caller)
	return caller, ok
}

// WithCaller attaches an authenticated caller to ctx.
func WithCaller(ctx context.Context, caller model.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func writeAuthError(w http.ResponseWriter, r *http.Request, role model.Role, err error) {
	switch {
	case errors.Is(err, model.ErrTokenExpired):
		writeJSONError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, model.ErrMissingClaim):
		writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token: email missing")
	case errors.Is(err, model.ErrTokenInvalid):
		writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
	case errors.Is(err, model.ErrRoleMismatch):
		writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Access denied: User is not a valid "+string(role))
	default:
		slog.Error("token verification failed", "request_id", RequestIDFromContext(r.Context()), "error", err)
		writeJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func invalidUserTypeMessage(allowed []model.Role) string {
	names := make([]string, 0, len(allowed))
	for _, role := range allowed {
		names = append(names, "'"+string(role)+"'")
	}
	return "Invalid user type. Allowed values: " + strings.Join(names, ", ") + "."
}
