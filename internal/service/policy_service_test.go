package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-insurance-admin/internal/model"
)

func TestPolicyService_List(t *testing.T) {
	f := newFixture(t)
	svc := NewPolicyService(f.store.Policies(), f.store.Assignments())

	first := f.policy("Term 10", 100)
	second := f.policy("Term 20", 200)
	f.policy("Term 30", 300)
	alice := f.principal(model.RoleCustomer, "alice@example.com", nil)
	bob := f.principal(model.RoleCustomer, "bob@example.com", nil)
	f.assign(alice.ID, first.ID)
	f.assign(bob.ID, first.ID)
	f.assign(alice.ID, second.ID)

	t.Run("customer sees the catalogue", func(t *testing.T) {
		page, err := svc.List(f.ctx, model.RoleCustomer, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, page.TotalRecords)
		assert.Equal(t, 2, page.TotalPages)
		assert.Nil(t, page.TotalPurchasedPolicies)
		require.Len(t, page.Policies, 2)
		assert.Nil(t, page.Policies[0].CustomerID)
	})

	t.Run("customer past the last page", func(t *testing.T) {
		_, err := svc.List(f.ctx, model.RoleCustomer, 3, 2)
		assert.ErrorIs(t, err, model.ErrEmptyPage)
	})

	t.Run("admin sees one row per assignment", func(t *testing.T) {
		page, err := svc.List(f.ctx, model.RoleAdmin, 1, 10)
		require.NoError(t, err)

		// Two rows for the policy sold twice, one for the other sold policy
		// and one for the unsold policy.
		assert.Equal(t, 4, page.TotalRecords)
		require.NotNil(t, page.TotalPurchasedPolicies)
		assert.Equal(t, 3, *page.TotalPurchasedPolicies)
		require.Len(t, page.Policies, 4)
		assert.Equal(t, alice.ID, page.Policies[0].CustomerID)
		assert.Equal(t, bob.ID, page.Policies[1].CustomerID)
		assert.Equal(t, "Not Assigned", page.Policies[3].CustomerID)
	})

	t.Run("paging bounds", func(t *testing.T) {
		_, err := svc.List(f.ctx, model.RoleAdmin, 0, 10)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		_, err = svc.List(f.ctx, model.RoleAdmin, 1, 0)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		_, err = svc.List(f.ctx, model.RoleAdmin, 1, MaxPageSize+1)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("other roles cannot list", func(t *testing.T) {
		_, err := svc.List(f.ctx, model.RoleEmployee, 1, 10)
		assert.ErrorIs(t, err, model.ErrInvalidRole)
	})
}

func TestPolicyService_Purchase(t *testing.T) {
	f := newFixture(t)
	svc := NewPolicyService(f.store.Policies(), f.store.Assignments())
	policy := f.policy("Term 10", 100)
	customer := f.principal(model.RoleCustomer, "c@example.com", nil)

	assignment, err := svc.Purchase(f.ctx, customer.ID, policy.ID)
	require.NoError(t, err)
	assert.Equal(t, policy.ID, assignment.PolicyID)

	_, err = svc.Purchase(f.ctx, customer.ID, policy.ID)
	assert.ErrorIs(t, err, model.ErrDuplicateAssignment)

	_, err = svc.Purchase(f.ctx, customer.ID, policy.ID+100)
	assert.ErrorIs(t, err, model.ErrPolicyNotFound)
}

func TestPolicyService_ConcurrentPurchaseAssignsOnce(t *testing.T) {
	f := newFixture(t)
	svc := NewPolicyService(f.store.Policies(), f.store.Assignments())
	policy := f.policy("Term 10", 100)
	customer := f.principal(model.RoleCustomer, "c@example.com", nil)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Purchase(f.ctx, customer.ID, policy.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, model.ErrDuplicateAssignment)
	}
	assert.Equal(t, 1, succeeded)

	count, err := f.store.Assignments().Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
