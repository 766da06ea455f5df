// Package calc holds the premium, commission and age arithmetic. Every
// function is pure; persistence of commission rows is the caller's job.
package calc

import (
	"math"
	"time"

	"go-insurance-admin/internal/model"
)

// Age returns the civil age in whole years on today. A zero date of birth is
// treated as missing.
func Age(dob time.Time, today time.Time) (int, error) {
	if dob.IsZero() {
		return 0, model.ErrMissingData
	}

	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}

	return age, nil
}

// Premium applies the age and interest loadings to a base premium.
// Callers round for display; rate sign is not checked here.
func Premium(basePremium float64, age int, ratePercent float64) float64 {
	ageFactor := 1 + float64(age)/100
	interestFactor := 1 + ratePercent/100
	return basePremium * ageFactor * interestFactor
}

// TotalPremium prices every policy and sums the results. The breakdown keeps
// the unrounded per-policy figures.
func TotalPremium(policies []model.Policy, age int, ratePercent float64) (float64, []model.PolicyPremium, error) {
	if len(policies) == 0 {
		return 0, nil, model.ErrNoPolicies
	}

	total := 0.0
	breakdown := make([]model.PolicyPremium, 0, len(policies))
	for _, policy := range policies {
		if policy.Premium <= 0 {
			return 0, nil, model.ErrMissingPremium
		}

		premium := Premium(policy.Premium, age, ratePercent)
		total += premium
		breakdown = append(breakdown, model.PolicyPremium{
			PolicyID:    policy.ID,
			BasePremium: policy.Premium,
			Premium:     premium,
		})
	}

	return total, breakdown, nil
}

func Commission(premium float64, ratePercent float64) float64 {
	return premium * ratePercent / 100
}

// TotalCommission computes the commission owed to an agent over the policies
// held by the agent's customers. Lookups are checked in order: agent, then
// customers, then policies.
func TotalCommission(agent *model.Principal, customers []model.Principal, policies []model.Policy, ratePercent float64) (float64, []model.CommissionDetail, error) {
	if agent == nil {
		return 0, nil, model.ErrAgentNotFound
	}
	if len(customers) == 0 {
		return 0, nil, model.ErrNoCustomersForAgent
	}
	if len(policies) == 0 {
		return 0, nil, model.ErrNoPoliciesForAgent
	}

	total := 0.0
	details := make([]model.CommissionDetail, 0, len(policies))
	for _, policy := range policies {
		amount := Commission(policy.Premium, ratePercent)
		total += amount
		details = append(details, model.CommissionDetail{
			PolicyID:      policy.ID,
			PolicyDetails: policy.Details,
			Premium:       policy.Premium,
			Commission:    amount,
		})
	}

	return total, details, nil
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
