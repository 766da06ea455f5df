package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-insurance-admin/internal/model"
	"go-insurance-admin/internal/repository"
	"go-insurance-admin/internal/repository/memstore"
)

var (
	_ PrincipalStore      = (*memstore.Principals)(nil)
	_ PlanStore           = (*memstore.Plans)(nil)
	_ SchemeStore         = (*memstore.Schemes)(nil)
	_ PolicyStore         = (*memstore.Policies)(nil)
	_ AssignmentStore     = (*memstore.Assignments)(nil)
	_ PaymentStore        = (*memstore.Payments)(nil)
	_ CommissionStore     = (*memstore.Commissions)(nil)
	_ EmployeeSchemeStore = (*memstore.EmployeeSchemes)(nil)
	_ AuditStore          = (*memstore.Audit)(nil)

	_ PrincipalStore      = (*repository.PrincipalRepository)(nil)
	_ PlanStore           = (*repository.PlanRepository)(nil)
	_ SchemeStore         = (*repository.SchemeRepository)(nil)
	_ PolicyStore         = (*repository.PolicyRepository)(nil)
	_ AssignmentStore     = (*repository.AssignmentRepository)(nil)
	_ PaymentStore        = (*repository.PaymentRepository)(nil)
	_ CommissionStore     = (*repository.CommissionRepository)(nil)
	_ EmployeeSchemeStore = (*repository.EmployeeSchemeRepository)(nil)
	_ AuditStore          = (*repository.AuditRepository)(nil)
)

var adminActor = model.AuditActor{Email: "root@example.com", Role: string(model.RoleAdmin), IP: "127.0.0.1"}

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *memstore.Store
	hasher *PasswordHasher
	audit  *AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	return &fixture{
		t:      t,
		ctx:    context.Background(),
		store:  store,
		hasher: NewPasswordHasher(4),
		audit:  NewAuditService(store.Audit()),
	}
}

func (f *fixture) principal(role model.Role, email string, agentID *int64) model.Principal {
	f.t.Helper()
	input := model.PrincipalInput{Email: email, Password: "secret1", Username: "u", FullName: "Full Name"}
	if role == model.RoleCustomer {
		input.DateOfBirth = model.NewDate(1990, time.June, 15)
		input.AgentID = agentID
	}
	p, err := createPrincipal(f.ctx, f.store.Principals(), f.hasher, role, input)
	require.NoError(f.t, err)
	return p
}

// policy creates a plan, scheme and policy chain with the given premium.
func (f *fixture) policy(details string, premium float64) model.Policy {
	f.t.Helper()
	catalog := NewCatalogService(f.store.Plans(), f.store.Schemes(), f.store.Policies(), f.audit)

	plan, err := catalog.CreatePlan(f.ctx, adminActor, model.InsurancePlanRequest{PlanName: "plan " + details, PlanDetails: "d"})
	require.NoError(f.t, err)
	scheme, err := catalog.CreateScheme(f.ctx, adminActor, model.SchemeRequest{SchemeName: "scheme " + details, SchemeDetails: "d", PlanID: plan.ID})
	require.NoError(f.t, err)
	policy, err := catalog.CreatePolicy(f.ctx, adminActor, model.PolicyRequest{
		PolicyDetails:   details,
		SchemeID:        scheme.ID,
		Premium:         premium,
		DateIssued:      model.NewDate(2024, time.January, 1),
		MaturityPeriod:  10,
		PolicyLapseDate: model.NewDate(2034, time.January, 1),
	})
	require.NoError(f.t, err)
	return policy
}

func (f *fixture) assign(customerID int64, policyID int64) {
	f.t.Helper()
	_, err := f.store.Assignments().Assign(f.ctx, customerID, policyID)
	require.NoError(f.t, err)
}
