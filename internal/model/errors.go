package model

import "errors"

var (
	// Validation errors
	ErrInvalidRole         = errors.New("invalid user type")
	ErrEmailTaken          = errors.New("email already registered")
	ErrPlanNameTaken       = errors.New("insurance plan with this name already exists")
	ErrSchemeNameTaken     = errors.New("scheme with this name already exists")
	ErrPolicyNameTaken     = errors.New("policy with this name already exists")
	ErrDuplicateAssignment = errors.New("policy already purchased by the customer")
	ErrMissingData         = errors.New("date of birth is missing for the customer")
	ErrNoPolicies          = errors.New("no policies found for the customer")
	ErrMissingPremium      = errors.New("policy has no base premium")
	ErrInvalidInput        = errors.New("invalid input")

	// Auth errors
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrMissingClaim       = errors.New("invalid token: email missing")
	ErrRoleMismatch       = errors.New("access denied: user is not a valid principal for this role")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPaymentNotOwned    = errors.New("payment does not belong to the customer")

	// Not found errors
	ErrPrincipalNotFound   = errors.New("user not found")
	ErrPlanNotFound        = errors.New("insurance plan not found")
	ErrSchemeNotFound      = errors.New("scheme not found")
	ErrPolicyNotFound      = errors.New("policy not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrAgentNotFound       = errors.New("insurance agent not found")
	ErrNoCustomersForAgent = errors.New("no customers found for this agent")
	ErrNoPoliciesForAgent  = errors.New("no policies found for this agent's customers")
	ErrEmptyPage           = errors.New("no policies found on this page")

	// Startup errors
	ErrConfiguration = errors.New("token signing is not configured")
)
