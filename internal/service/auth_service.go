package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-insurance-admin/internal/model"
)

type AuthService struct {
	principals PrincipalStore
	hasher     *PasswordHasher
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewAuthService builds the token issuer and verifier. An empty secret or an
// algorithm other than HS256/HS384/HS512 is not rejected here; every token
// operation then fails with model.ErrConfiguration.
func NewAuthService(principals PrincipalStore, hasher *PasswordHasher, secret string, algorithm string, accessTTL time.Duration, refreshTTL time.Duration) *AuthService {
	var method jwt.SigningMethod
	if m, ok := jwt.GetSigningMethod(strings.ToUpper(strings.TrimSpace(algorithm))).(*jwt.SigningMethodHMAC); ok {
		method = m
	}

	return &AuthService{
		principals: principals,
		hasher:     hasher,
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *AuthService) configured() bool {
	return len(s.secret) > 0 && s.method != nil
}

// Issue signs a token of the given kind for identity. The token expires
// exactly accessTTL or refreshTTL after the current instant.
func (s *AuthService) Issue(identity model.Identity, kind model.TokenKind) (string, error) {
	if !s.configured() {
		return "", model.ErrConfiguration
	}

	var ttl time.Duration
	switch kind {
	case model.TokenAccess:
		ttl = s.accessTTL
	case model.TokenRefresh:
		ttl = s.refreshTTL
	default:
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := s.now().UTC()
	claims := jwt.MapClaims{
		"sub":     identity.Email,
		"user_id": identity.UserID,
		"typ":     string(kind),
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     expiryClaim(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (s *AuthService) IssuePair(identity model.Identity) (model.TokenPair, error) {
	access, err := s.Issue(identity, model.TokenAccess)
	if err != nil {
		return model.TokenPair{}, err
	}
	refresh, err := s.Issue(identity, model.TokenRefresh)
	if err != nil {
		return model.TokenPair{}, err
	}
	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks an access token and resolves its subject under role. The
// principal lookup happens on every call, so a deleted principal loses
// access immediately.
func (s *AuthService) Verify(ctx context.Context, token string, role model.Role) (model.Caller, error) {
	email, err := s.parse(token, model.TokenAccess)
	if err != nil {
		return model.Caller{}, err
	}

	principal, err := s.principals.FindByEmail(ctx, role, email)
	if errors.Is(err, model.ErrPrincipalNotFound) {
		return model.Caller{}, model.ErrRoleMismatch
	}
	if err != nil {
		return model.Caller{}, fmt.Errorf("resolve token subject: %w", err)
	}

	caller := model.Caller{Email: principal.Email, Role: role}
	if role == model.RoleCustomer {
		id := principal.ID
		caller.CustomerID = &id
	}
	return caller, nil
}

// parse validates signature, expiry and token type and returns the subject.
func (s *AuthService) parse(token string, want model.TokenKind) (string, error) {
	if !s.configured() {
		return "", model.ErrConfiguration
	}

	// The library compares exp at whole-second precision; the leeway keeps it
	// from rejecting early and the exact check below decides expiry.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithJSONNumber(),
		jwt.WithLeeway(time.Second),
		jwt.WithTimeFunc(s.now),
	)

	parsed, err := parser.Parse(token, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", model.ErrTokenExpired
	}
	if err != nil || !parsed.Valid {
		return "", model.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", model.ErrTokenInvalid
	}

	expiresAt, ok := parseExpiry(claims["exp"])
	if !ok {
		return "", model.ErrTokenInvalid
	}
	if !s.now().Before(expiresAt) {
		return "", model.ErrTokenExpired
	}

	if typ, _ := claims["typ"].(string); typ != string(want) {
		return "", model.ErrTokenInvalid
	}

	email, _ := claims["sub"].(string)
	if strings.TrimSpace(email) == "" {
		return "", model.ErrMissingClaim
	}
	return email, nil
}

// expiryClaim renders t as a NumericDate carrying nanosecond digits.
func expiryClaim(t time.Time) json.Number {
	return json.Number(fmt.Sprintf("%d.%09d", t.Unix(), t.Nanosecond()))
}

// parseExpiry reads an exp claim decoded as json.Number without going
// through float64, so sub-second digits survive exactly.
func parseExpiry(v any) (time.Time, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return time.Time{}, false
	}

	whole, frac, _ := strings.Cut(n.String(), ".")
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	var nanos int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		frac += strings.Repeat("0", 9-len(frac))
		if nanos, err = strconv.ParseInt(frac, 10, 64); err != nil {
			return time.Time{}, false
		}
	}
	return time.Unix(sec, nanos), true
}

// Login checks credentials for role and returns the principal with a fresh
// token pair. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, role model.Role, email string, password string) (model.Principal, model.TokenPair, error) {
	principal, err := s.principals.FindByEmail(ctx, role, email)
	if errors.Is(err, model.ErrPrincipalNotFound) {
		slog.Warn("login rejected", "email", email, "role", role)
		return model.Principal{}, model.TokenPair{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Principal{}, model.TokenPair{}, err
	}

	if !s.hasher.Verify(password, principal.PasswordHash) {
		slog.Warn("login rejected", "email", email, "role", role)
		return model.Principal{}, model.TokenPair{}, model.ErrInvalidCredentials
	}

	pair, err := s.IssuePair(model.Identity{Email: principal.Email, UserID: principal.ID})
	if err != nil {
		return model.Principal{}, model.TokenPair{}, err
	}

	slog.Info("principal logged in", "email", principal.Email, "role", role)
	return principal, pair, nil
}

// Register creates a principal of role and returns it with an access token.
func (s *AuthService) Register(ctx context.Context, role model.Role, input model.PrincipalInput) (model.Principal, string, error) {
	principal, err := createPrincipal(ctx, s.principals, s.hasher, role, input)
	if err != nil {
		return model.Principal{}, "", err
	}

	token, err := s.Issue(model.Identity{Email: principal.Email, UserID: principal.ID}, model.TokenAccess)
	if err != nil {
		return model.Principal{}, "", err
	}

	slog.Info("principal registered", "email", principal.Email, "role", role)
	return principal, token, nil
}

// Refresh exchanges a valid refresh token for a new pair. The subject must
// still exist under role.
func (s *AuthService) Refresh(ctx context.Context, role model.Role, refreshToken string) (model.TokenPair, error) {
	email, err := s.parse(refreshToken, model.TokenRefresh)
	if err != nil {
		return model.TokenPair{}, err
	}

	principal, err := s.principals.FindByEmail(ctx, role, email)
	if errors.Is(err, model.ErrPrincipalNotFound) {
		return model.TokenPair{}, model.ErrRoleMismatch
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	return s.IssuePair(model.Identity{Email: principal.Email, UserID: principal.ID})
}

// createPrincipal hashes the password and stores a new principal after the
// per-role email uniqueness check.
func createPrincipal(ctx context.Context, store PrincipalStore, hasher *PasswordHasher, role model.Role, input model.PrincipalInput) (model.Principal, error) {
	if role == model.RoleCustomer && input.DateOfBirth.IsZero() {
		return model.Principal{}, fmt.Errorf("%w: date_of_birth is required", model.ErrInvalidInput)
	}

	exists, err := store.EmailExists(ctx, role, input.Email)
	if err != nil {
		return model.Principal{}, err
	}
	if exists {
		return model.Principal{}, model.ErrEmailTaken
	}

	hash, err := hasher.Hash(input.Password)
	if err != nil {
		return model.Principal{}, err
	}

	p := model.Principal{
		Role:         role,
		Email:        strings.TrimSpace(input.Email),
		Username:     strings.TrimSpace(input.Username),
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: hash,
	}
	if role == model.RoleCustomer {
		p.DateOfBirth = input.DateOfBirth
		p.AgentID = input.AgentID
	}

	return store.Create(ctx, p)
}
