package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-insurance-admin/internal/model"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(payment model.Payment, policy model.Policy, email string) (model.Receipt, error) {
	args := m.Called(payment, policy, email)
	return args.Get(0).(model.Receipt), args.Error(1)
}

func newCustomerService(f *fixture, renderer ReceiptRenderer) *CustomerService {
	svc := NewCustomerService(f.store.Principals(), f.store.Policies(), f.store.Assignments(), f.store.Payments(), renderer)
	svc.now = func() time.Time { return time.Date(2026, time.June, 14, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestCustomerService_Premium(t *testing.T) {
	f := newFixture(t)
	svc := newCustomerService(f, nil)

	// Born 1990-06-15, so 35 on 2026-06-14.
	customer := f.principal(model.RoleCustomer, "c@example.com", nil)

	t.Run("no policies", func(t *testing.T) {
		_, err := svc.Premium(f.ctx, customer.ID, 5)
		assert.ErrorIs(t, err, model.ErrNoPolicies)
	})

	first := f.policy("Term 10", 1000)
	second := f.policy("Term 20", 500)
	f.assign(customer.ID, first.ID)
	f.assign(customer.ID, second.ID)

	t.Run("sums own policies", func(t *testing.T) {
		quote, err := svc.Premium(f.ctx, customer.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, 35, quote.Age)
		assert.ElementsMatch(t, []int64{first.ID, second.ID}, quote.Policies)
		// 1500 * 1.35 * 1.10
		assert.InDelta(t, 2227.5, quote.TotalPremium, 1e-9)
	})

	t.Run("explicit ids", func(t *testing.T) {
		quote, err := svc.PremiumByPolicyIDs(f.ctx, customer.ID, []int64{first.ID}, 0)
		require.NoError(t, err)
		assert.InDelta(t, 1350, quote.TotalPremium, 1e-9)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.PremiumByPolicyIDs(f.ctx, customer.ID, []int64{first.ID, 4242}, 0)
		assert.ErrorIs(t, err, model.ErrPolicyNotFound)
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := svc.Premium(f.ctx, 4242, 0)
		assert.ErrorIs(t, err, model.ErrPrincipalNotFound)
	})
}

func TestCustomerService_MakePayment(t *testing.T) {
	f := newFixture(t)
	svc := newCustomerService(f, nil)
	owner := f.principal(model.RoleCustomer, "owner@example.com", nil)
	other := f.principal(model.RoleCustomer, "other@example.com", nil)
	policy := f.policy("Term 10", 1000)
	f.assign(owner.ID, policy.ID)

	payment, err := svc.MakePayment(f.ctx, owner.ID, policy.ID, 99.999)
	require.NoError(t, err)
	assert.Equal(t, 100.0, payment.Amount)
	assert.Equal(t, "2026-06-14", payment.PaymentDate.String())

	_, err = svc.MakePayment(f.ctx, other.ID, policy.ID, 10)
	assert.ErrorIs(t, err, model.ErrPaymentNotOwned)

	_, err = svc.MakePayment(f.ctx, owner.ID, policy.ID+100, 10)
	assert.ErrorIs(t, err, model.ErrPolicyNotFound)
}

func TestCustomerService_Receipt(t *testing.T) {
	f := newFixture(t)
	renderer := new(mockRenderer)
	svc := newCustomerService(f, renderer)

	owner := f.principal(model.RoleCustomer, "owner@example.com", nil)
	other := f.principal(model.RoleCustomer, "other@example.com", nil)
	policy := f.policy("Term 10", 1000)
	f.assign(owner.ID, policy.ID)
	payment, err := svc.MakePayment(f.ctx, owner.ID, policy.ID, 50)
	require.NoError(t, err)

	want := model.Receipt{Path: "/tmp/r.pdf", Filename: "r.pdf"}
	renderer.On("Render", payment, policy, owner.Email).Return(want, nil).Once()

	ownerCaller := model.Caller{Email: owner.Email, Role: model.RoleCustomer, CustomerID: &owner.ID}
	got, err := svc.Receipt(f.ctx, ownerCaller, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	otherCaller := model.Caller{Email: other.Email, Role: model.RoleCustomer, CustomerID: &other.ID}
	_, err = svc.Receipt(f.ctx, otherCaller, payment.ID)
	assert.ErrorIs(t, err, model.ErrPaymentNotOwned)

	_, err = svc.Receipt(f.ctx, ownerCaller, payment.ID+100)
	assert.ErrorIs(t, err, model.ErrPaymentNotFound)

	_, err = svc.Receipt(f.ctx, model.Caller{Email: owner.Email, Role: model.RoleAdmin}, payment.ID)
	assert.ErrorIs(t, err, model.ErrRoleMismatch)

	renderer.AssertExpectations(t)
}
