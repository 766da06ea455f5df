package model

import (
	"strings"
	"time"
)

// Role is the closed set of principal kinds. Each variant is backed by its
// own table; the role of a stored principal never changes.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleAgent    Role = "insurance_agent"
	RoleCustomer Role = "customer"
)

// Roles lists every variant, in the order used for documentation and tests.
var Roles = []Role{RoleAdmin, RoleEmployee, RoleAgent, RoleCustomer}

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleEmployee:
		return RoleEmployee, nil
	case RoleAgent:
		return RoleAgent, nil
	case RoleCustomer:
		return RoleCustomer, nil
	default:
		return "", ErrInvalidRole
	}
}

// Label is the human readable name used in response messages.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleEmployee:
		return "Employee"
	case RoleAgent:
		return "Insurance agent"
	case RoleCustomer:
		return "Customer"
	default:
		return string(r)
	}
}

type Principal struct {
	ID           int64     `json:"id"`
	Role         Role      `json:"role"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	DateOfBirth  Date      `json:"date_of_birth,omitzero"`
	AgentID      *int64    `json:"agent_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PrincipalInput carries the writable fields of a principal. DateOfBirth and
// AgentID only apply to customers.
type PrincipalInput struct {
	Email       string
	Password    string
	Username    string
	FullName    string
	DateOfBirth Date
	AgentID     *int64
}

// Identity is the set of facts embedded in a token.
type Identity struct {
	Email  string
	UserID int64
}

// Caller is the principal resolved from a verified token. CustomerID is only
// populated when the token was verified against the customer role.
type Caller struct {
	Email      string
	Role       Role
	CustomerID *int64
}

type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
