package model

import "time"

type InsurancePlan struct {
	ID        int64     `json:"plan_id"`
	Name      string    `json:"plan_name"`
	Details   string    `json:"plan_details"`
	CreatedAt time.Time `json:"created_at"`
}

type Scheme struct {
	ID        int64     `json:"scheme_id"`
	Name      string    `json:"scheme_name"`
	Details   string    `json:"scheme_details"`
	PlanID    int64     `json:"plan_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Policy struct {
	ID             int64     `json:"policy_id"`
	SchemeID       int64     `json:"scheme_id"`
	Details        string    `json:"policy_details"`
	Premium        float64   `json:"premium"`
	DateIssued     Date      `json:"date_issued"`
	MaturityPeriod int       `json:"maturity_period"`
	LapseDate      Date      `json:"policy_lapse_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// AssignedPolicy is the admin view of a policy: one row per assignment, or a
// single row with no customer when the policy has not been purchased.
type AssignedPolicy struct {
	Policy
	CustomerID *int64 `json:"-"`
}

type Assignment struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	PolicyID     int64     `json:"policy_id"`
	DateAssigned time.Time `json:"date_assigned"`
}

type Payment struct {
	ID          int64     `json:"payment_id"`
	CustomerID  int64     `json:"customer_id"`
	PolicyID    int64     `json:"policy_id"`
	Amount      float64   `json:"amount"`
	PaymentDate Date      `json:"payment_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type Commission struct {
	ID        int64     `json:"commission_id"`
	AgentID   int64     `json:"agent_id"`
	PolicyID  int64     `json:"policy_id"`
	Amount    float64   `json:"commission_amount"`
	CreatedAt time.Time `json:"created_at"`
}

type EmployeeScheme struct {
	ID         int64 `json:"employee_scheme_id"`
	EmployeeID int64 `json:"employee_id"`
	SchemeID   int64 `json:"scheme_id"`
}

type PolicyPremium struct {
	PolicyID    int64   `json:"policy_id"`
	BasePremium float64 `json:"base_premium"`
	Premium     float64 `json:"premium"`
}

type PremiumQuote struct {
	CustomerID     int64           `json:"customer_id"`
	Age            int             `json:"age"`
	RateOfInterest float64         `json:"rate_of_interest"`
	Policies       []int64         `json:"policies"`
	Breakdown      []PolicyPremium `json:"breakdown"`
	TotalPremium   float64         `json:"total_premium"`
}

type CommissionDetail struct {
	PolicyID      int64   `json:"policy_id"`
	PolicyDetails string  `json:"policy_details"`
	Premium       float64 `json:"premium"`
	Commission    float64 `json:"commission"`
}

type CommissionResult struct {
	AgentID           int64              `json:"agent_id"`
	TotalCommission   float64            `json:"total_commission"`
	CommissionRate    float64            `json:"commission_rate"`
	CommissionDetails []CommissionDetail `json:"commission_details"`
}

type PolicyPage struct {
	Page                   int
	Size                   int
	TotalPages             int
	TotalRecords           int
	TotalPurchasedPolicies *int
	Policies               []PolicyView
}

// PolicyView is a listed policy; CustomerID is only rendered for admins and
// holds either the owning customer id or "Not Assigned".
type PolicyView struct {
	Policy
	CustomerID any `json:"customer_id,omitempty"`
}

type Receipt struct {
	Path     string
	Filename string
}
