package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-insurance-admin/internal/model"
)

func TestCommissionService_Calculate(t *testing.T) {
	f := newFixture(t)
	svc := NewCommissionService(f.store.Principals(), f.store.Policies(), f.store.Commissions(), f.audit)

	t.Run("unknown agent", func(t *testing.T) {
		_, err := svc.Calculate(f.ctx, adminActor, 4242, 10)
		assert.ErrorIs(t, err, model.ErrAgentNotFound)
	})

	agent := f.principal(model.RoleAgent, "agent@example.com", nil)

	t.Run("agent without customers", func(t *testing.T) {
		_, err := svc.Calculate(f.ctx, adminActor, agent.ID, 10)
		assert.ErrorIs(t, err, model.ErrNoCustomersForAgent)
	})

	alice := f.principal(model.RoleCustomer, "alice@example.com", &agent.ID)
	bob := f.principal(model.RoleCustomer, "bob@example.com", &agent.ID)

	t.Run("customers without policies", func(t *testing.T) {
		_, err := svc.Calculate(f.ctx, adminActor, agent.ID, 10)
		assert.ErrorIs(t, err, model.ErrNoPoliciesForAgent)
	})

	shared := f.policy("Term 10", 1000)
	single := f.policy("Term 20", 250)
	f.assign(alice.ID, shared.ID)
	f.assign(bob.ID, shared.ID)
	f.assign(bob.ID, single.ID)

	t.Run("sums every held policy", func(t *testing.T) {
		result, err := svc.Calculate(f.ctx, adminActor, agent.ID, 10)
		require.NoError(t, err)
		assert.Len(t, result.CommissionDetails, 3)
		assert.InDelta(t, 225, result.TotalCommission, 1e-9)
	})

	t.Run("reruns append to the ledger", func(t *testing.T) {
		_, err := svc.Calculate(f.ctx, adminActor, agent.ID, 10)
		require.NoError(t, err)

		rows, err := f.store.Commissions().ListByAgent(f.ctx, agent.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 6)
	})

	t.Run("ledger lists every run", func(t *testing.T) {
		rows, err := svc.Ledger(f.ctx, agent.ID)
		require.NoError(t, err)
		require.Len(t, rows, 6)
		assert.Equal(t, agent.ID, rows[0].AgentID)

		_, err = svc.Ledger(f.ctx, 9999)
		assert.ErrorIs(t, err, model.ErrAgentNotFound)
	})

	t.Run("runs are audited", func(t *testing.T) {
		entries, meta, err := f.audit.Query(f.ctx, model.AuditQuery{Action: "calculate_commission"})
		require.NoError(t, err)
		assert.Equal(t, 5, meta.TotalRecords)
		assert.Equal(t, "success", entries[0].Status)
		assert.Equal(t, "failed", entries[len(entries)-1].Status)
	})
}
