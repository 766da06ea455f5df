package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-insurance-admin/internal/model"
)

func TestCatalogService(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.store.Plans(), f.store.Schemes(), f.store.Policies(), f.audit)

	plan, err := svc.CreatePlan(f.ctx, adminActor, model.InsurancePlanRequest{PlanName: " Life ", PlanDetails: "d"})
	require.NoError(t, err)
	assert.Equal(t, "Life", plan.Name)

	_, err = svc.CreatePlan(f.ctx, adminActor, model.InsurancePlanRequest{PlanName: "Life", PlanDetails: "again"})
	assert.ErrorIs(t, err, model.ErrPlanNameTaken)

	_, err = svc.CreateScheme(f.ctx, adminActor, model.SchemeRequest{SchemeName: "Family", SchemeDetails: "d", PlanID: plan.ID + 100})
	assert.ErrorIs(t, err, model.ErrPlanNotFound)

	scheme, err := svc.CreateScheme(f.ctx, adminActor, model.SchemeRequest{SchemeName: "Family", SchemeDetails: "d", PlanID: plan.ID})
	require.NoError(t, err)

	_, err = svc.CreateScheme(f.ctx, adminActor, model.SchemeRequest{SchemeName: "Family", SchemeDetails: "d", PlanID: plan.ID})
	assert.ErrorIs(t, err, model.ErrSchemeNameTaken)

	req := model.PolicyRequest{
		PolicyDetails:   "Term 10",
		SchemeID:        scheme.ID,
		Premium:         100,
		DateIssued:      model.NewDate(2024, time.January, 1),
		MaturityPeriod:  10,
		PolicyLapseDate: model.NewDate(2034, time.January, 1),
	}
	_, err = svc.CreatePolicy(f.ctx, adminActor, req)
	require.NoError(t, err)

	_, err = svc.CreatePolicy(f.ctx, adminActor, req)
	assert.ErrorIs(t, err, model.ErrPolicyNameTaken)

	req.PolicyDetails = "Term 20"
	req.SchemeID = scheme.ID + 100
	_, err = svc.CreatePolicy(f.ctx, adminActor, req)
	assert.ErrorIs(t, err, model.ErrSchemeNotFound)

	req.SchemeID = scheme.ID
	req.DateIssued = model.Date{}
	_, err = svc.CreatePolicy(f.ctx, adminActor, req)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, meta, err := f.audit.Query(f.ctx, model.AuditQuery{Status: "failed"})
	require.NoError(t, err)
	assert.Equal(t, 6, meta.TotalRecords)
}

func TestPrincipalService(t *testing.T) {
	f := newFixture(t)
	svc := NewPrincipalService(f.store.Principals(), f.store.Schemes(), f.store.EmployeeSchemes(), f.hasher, f.audit)

	employee, err := svc.Create(f.ctx, adminActor, model.RoleEmployee, model.PrincipalInput{
		Email: "e@example.com", Password: "secret1", Username: "e", FullName: "Emp",
	})
	require.NoError(t, err)

	t.Run("update keeps the hash without a password", func(t *testing.T) {
		updated, err := svc.Update(f.ctx, adminActor, model.RoleEmployee, employee.ID, model.PrincipalInput{
			Email: "e2@example.com", Username: "e2", FullName: "Emp Two",
		})
		require.NoError(t, err)
		assert.Equal(t, employee.PasswordHash, updated.PasswordHash)
		assert.Equal(t, model.RoleEmployee, updated.Role)
	})

	t.Run("update re-hashes a new password", func(t *testing.T) {
		updated, err := svc.Update(f.ctx, adminActor, model.RoleEmployee, employee.ID, model.PrincipalInput{
			Email: "e2@example.com", Password: "another1", Username: "e2", FullName: "Emp Two",
		})
		require.NoError(t, err)
		assert.True(t, f.hasher.Verify("another1", updated.PasswordHash))
	})

	t.Run("update to a taken email", func(t *testing.T) {
		_, err := svc.Create(f.ctx, adminActor, model.RoleEmployee, model.PrincipalInput{
			Email: "taken@example.com", Password: "secret1", Username: "t", FullName: "T",
		})
		require.NoError(t, err)

		_, err = svc.Update(f.ctx, adminActor, model.RoleEmployee, employee.ID, model.PrincipalInput{
			Email: "taken@example.com", Username: "e2", FullName: "Emp Two",
		})
		assert.ErrorIs(t, err, model.ErrEmailTaken)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(f.ctx, adminActor, model.RoleAgent, employee.ID, model.PrincipalInput{Email: "x@example.com"})
		assert.ErrorIs(t, err, model.ErrPrincipalNotFound)
		assert.ErrorIs(t, svc.Delete(f.ctx, adminActor, model.RoleCustomer, 4242), model.ErrPrincipalNotFound)
	})

	t.Run("scheme assignment is idempotent", func(t *testing.T) {
		policy := f.policy("Term 10", 100)
		first, err := svc.AssignScheme(f.ctx, adminActor, employee.ID, policy.SchemeID)
		require.NoError(t, err)
		second, err := svc.AssignScheme(f.ctx, adminActor, employee.ID, policy.SchemeID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		_, err = svc.AssignScheme(f.ctx, adminActor, employee.ID, policy.SchemeID+100)
		assert.ErrorIs(t, err, model.ErrSchemeNotFound)
	})

	t.Run("deleting a customer drops their assignments", func(t *testing.T) {
		customer := f.principal(model.RoleCustomer, "c@example.com", nil)
		policy := f.policy("Term 99", 100)
		f.assign(customer.ID, policy.ID)

		require.NoError(t, svc.Delete(f.ctx, adminActor, model.RoleCustomer, customer.ID))

		held, err := f.store.Assignments().Exists(f.ctx, customer.ID, policy.ID)
		require.NoError(t, err)
		assert.False(t, held)
	})
}
