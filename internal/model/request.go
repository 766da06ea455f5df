package model

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Username string `json:"username" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
}

type CustomerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Username    string `json:"username" validate:"required"`
	FullName    string `json:"full_name" validate:"required"`
	DateOfBirth Date   `json:"date_of_birth"`
	AgentID     *int64 `json:"agent_id,omitempty" validate:"omitempty,gt=0"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type InsurancePlanRequest struct {
	PlanName    string `json:"plan_name" validate:"required"`
	PlanDetails string `json:"plan_details" validate:"required"`
}

type SchemeRequest struct {
	SchemeName    string `json:"scheme_name" validate:"required"`
	SchemeDetails string `json:"scheme_details" validate:"required"`
	PlanID        int64  `json:"plan_id" validate:"required,gt=0"`
}

type PolicyRequest struct {
	PolicyDetails   string  `json:"policy_details" validate:"required"`
	SchemeID        int64   `json:"scheme_id" validate:"required,gt=0"`
	Premium         float64 `json:"premium" validate:"gt=0"`
	DateIssued      Date    `json:"date_issued"`
	MaturityPeriod  int     `json:"maturity_period" validate:"gt=0"`
	PolicyLapseDate Date    `json:"policy_lapse_date"`
}

type EmployeeSchemeRequest struct {
	SchemeID int64 `json:"scheme_id" validate:"required,gt=0"`
}

type CalculateCommissionRequest struct {
	AgentID        int64   `json:"agent_id" validate:"required,gt=0"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0,lte=100"`
}

type CalculatePremiumRequest struct {
	RateOfInterest float64 `json:"rate_of_interest" validate:"gte=0"`
}

type PremiumByPolicyIDsRequest struct {
	PolicyIDs      []int64 `json:"policy_ids" validate:"required,min=1,dive,gt=0"`
	RateOfInterest float64 `json:"rate_of_interest" validate:"gte=0"`
}

type PurchasePolicyRequest struct {
	PolicyID int64 `json:"policy_id" validate:"required,gt=0"`
}

type PaymentRequest struct {
	PolicyID int64   `json:"policy_id" validate:"required,gt=0"`
	Amount   float64 `json:"amount" validate:"gt=0"`
}

// PrincipalUpdateRequest replaces a principal's fields. An empty password
// keeps the current hash; date_of_birth and agent_id only apply to customers.
type PrincipalUpdateRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"omitempty,min=6,max=72"`
	Username    string `json:"username" validate:"required"`
	FullName    string `json:"full_name" validate:"required"`
	DateOfBirth Date   `json:"date_of_birth"`
	AgentID     *int64 `json:"agent_id,omitempty" validate:"omitempty,gt=0"`
}
