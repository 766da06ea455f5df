package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-insurance-admin/internal/middleware"
	"go-insurance-admin/internal/model"
	"go-insurance-admin/internal/repository/memstore"
	"go-insurance-admin/internal/service"
)

type customerHandlerFixture struct {
	handler  *CustomerHandler
	customer model.Principal
	held     model.Policy
	other    model.Policy
}

func newCustomerHandlerFixture(t *testing.T) customerHandlerFixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()

	customer, err := store.Principals().Create(ctx, model.Principal{
		Role:        model.RoleCustomer,
		Email:       "jane@example.com",
		Username:    "jane",
		FullName:    "Jane Doe",
		DateOfBirth: model.NewDate(1990, time.June, 15),
	})
	require.NoError(t, err)

	plan, err := store.Plans().Create(ctx, model.InsurancePlan{Name: "Life", Details: "cover"})
	require.NoError(t, err)
	scheme, err := store.Schemes().Create(ctx, model.Scheme{Name: "Family", Details: "d", PlanID: plan.ID})
	require.NoError(t, err)

	newPolicy := func(details string) model.Policy {
		policy, err := store.Policies().Create(ctx, model.Policy{SchemeID: scheme.ID, Details: details, Premium: 1000, MaturityPeriod: 10})
		require.NoError(t, err)
		return policy
	}
	held := newPolicy("Term 10")
	other := newPolicy("Term 20")
	_, err = store.Assignments().Assign(ctx, customer.ID, held.ID)
	require.NoError(t, err)

	svc := service.NewCustomerService(store.Principals(), store.Policies(), store.Assignments(), store.Payments(), nil)
	return customerHandlerFixture{
		handler:  NewCustomerHandler(svc, nil),
		customer: customer,
		held:     held,
		other:    other,
	}
}

func serveAs(caller *model.Caller, h http.HandlerFunc, body any) (*httptest.ResponseRecorder, model.APIResponse) {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	if caller != nil {
		req = req.WithContext(middleware.WithCaller(req.Context(), *caller))
	}

	rec := httptest.NewRecorder()
	h(rec, req)

	var decoded model.APIResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestCustomerHandler_CalculatePremium(t *testing.T) {
	f := newCustomerHandlerFixture(t)
	id := f.customer.ID
	customer := &model.Caller{Email: f.customer.Email, Role: model.RoleCustomer, CustomerID: &id}

	t.Run("quotes the caller's policies", func(t *testing.T) {
		rec, body := serveAs(customer, f.handler.CalculatePremium, model.CalculatePremiumRequest{RateOfInterest: 5})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		data, ok := body.Data.(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, id, data["customer_id"])
		assert.Equal(t, []any{float64(f.held.ID)}, data["policies"])
	})

	t.Run("caller without a customer id is forbidden", func(t *testing.T) {
		admin := &model.Caller{Email: "root@example.com", Role: model.RoleAdmin}
		rec, body := serveAs(admin, f.handler.CalculatePremium, model.CalculatePremiumRequest{})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		require.NotNil(t, body.Error)
	})

	t.Run("missing caller is unauthorized", func(t *testing.T) {
		rec, _ := serveAs(nil, f.handler.CalculatePremium, model.CalculatePremiumRequest{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("negative rate is rejected", func(t *testing.T) {
		rec, _ := serveAs(customer, f.handler.CalculatePremium, model.CalculatePremiumRequest{RateOfInterest: -1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCustomerHandler_MakePayment(t *testing.T) {
	f := newCustomerHandlerFixture(t)
	id := f.customer.ID
	customer := &model.Caller{Email: f.customer.Email, Role: model.RoleCustomer, CustomerID: &id}

	rec, body := serveAs(customer, f.handler.MakePayment, model.PaymentRequest{PolicyID: f.held.ID, Amount: 250})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data, ok := body.Data.(map[string]any)
	require.True(t, ok)
	assert.NotZero(t, data["payment_id"])

	rec, _ = serveAs(customer, f.handler.MakePayment, model.PaymentRequest{PolicyID: f.other.ID, Amount: 250})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = serveAs(customer, f.handler.MakePayment, model.PaymentRequest{PolicyID: 9999, Amount: 250})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
