package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-insurance-admin/internal/config"
	"go-insurance-admin/internal/metrics"
	"go-insurance-admin/internal/repository/memstore"
)

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func newTestAPI(t *testing.T) (apiClient, string) {
	t.Helper()
	return newTestAPIWithMetrics(t, metrics.New())
}

func newTestAPIWithMetrics(t *testing.T, m *metrics.Metrics) (apiClient, string) {
	t.Helper()

	receipts := t.TempDir()
	cfg := &config.Config{
		RequestTimeout:   5 * time.Second,
		JWTSecret:        "integration-secret",
		JWTAlgorithm:     "HS256",
		JWTAccessTTL:     30 * time.Minute,
		JWTRefreshTTL:    24 * time.Hour,
		BcryptCost:       4,
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
		ReceiptDir:       receipts,
	}

	store := memstore.New()
	stores := Stores{
		Principals:      store.Principals(),
		Plans:           store.Plans(),
		Schemes:         store.Schemes(),
		Policies:        store.Policies(),
		Assignments:     store.Assignments(),
		Payments:        store.Payments(),
		Commissions:     store.Commissions(),
		EmployeeSchemes: store.EmployeeSchemes(),
		Audit:           store.Audit(),
	}

	return apiClient{t: t, handler: NewHandler(cfg, stores, nil, m)}, receipts
}

func (c apiClient) do(method string, path string, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func dataField(t *testing.T, body map[string]any, key string) any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", body)
	return data[key]
}

func TestCustomerJourney(t *testing.T) {
	api, receiptDir := newTestAPI(t)

	rec, body := api.do(http.MethodPost, "/register-user?user_type=admin", "", map[string]any{
		"email": "root@example.com", "password": "secret1", "username": "root", "full_name": "Root Admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Admin registered successfully", body["message"])
	adminToken, _ := body["access_token"].(string)
	require.NotEmpty(t, adminToken)
	assert.Nil(t, body["refresh_token"])

	rec, body = api.do(http.MethodPost, "/admin/insurance-plans", adminToken, map[string]any{
		"plan_name": "Life", "plan_details": "Whole life cover",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	planID := dataField(t, body, "plan_id")

	rec, body = api.do(http.MethodPost, "/admin/scheme", adminToken, map[string]any{
		"scheme_name": "Family", "scheme_details": "Family scheme", "plan_id": planID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	schemeID := dataField(t, body, "scheme_id")

	rec, body = api.do(http.MethodPost, "/admin/policy", adminToken, map[string]any{
		"policy_details":    "Term 20",
		"scheme_id":         schemeID,
		"premium":           1000,
		"date_issued":       "2024-01-01",
		"maturity_period":   20,
		"policy_lapse_date": "2044-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	policyID := dataField(t, body, "policy_id")

	rec, _ = api.do(http.MethodPost, "/admin/policy", adminToken, map[string]any{
		"policy_details": "Term 20", "scheme_id": schemeID, "premium": 5,
		"date_issued": "2024-01-01", "maturity_period": 1, "policy_lapse_date": "2025-01-01",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do(http.MethodPost, "/register-customer", "", map[string]any{
		"email": "jane@example.com", "password": "secret1", "username": "jane",
		"full_name": "Jane Doe", "date_of_birth": "1990-06-15",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, body = api.do(http.MethodPost, "/login?user_type=customer", "", map[string]any{
		"email": "jane@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	customerToken, _ := body["access_token"].(string)
	require.NotEmpty(t, customerToken)
	require.NotEmpty(t, body["refresh_token"])

	rec, _ = api.do(http.MethodPost, "/login?user_type=customer", "", map[string]any{
		"email": "jane@example.com", "password": "wrong-one",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = api.do(http.MethodGet, "/policies/?user_type=customer&page=1&size=10", customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, body["total_records"])
	assert.EqualValues(t, 1, body["total_pages"])
	_, hasPurchased := body["total_purchased_policies"]
	assert.False(t, hasPurchased)

	rec, _ = api.do(http.MethodPost, "/policies/purchase", customerToken, map[string]any{"policy_id": policyID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, body = api.do(http.MethodPost, "/policies/purchase", customerToken, map[string]any{"policy_id": policyID})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "error", body["status"])

	rec, body = api.do(http.MethodGet, "/policies/?user_type=admin", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, body["total_purchased_policies"])
	rows, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.NotEqual(t, "Not Assigned", rows[0].(map[string]any)["customer_id"])

	rec, body = api.do(http.MethodPost, "/customer/calculate-premium", customerToken, map[string]any{"rate_of_interest": 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Greater(t, dataField(t, body, "total_premium").(float64), 1000.0)

	rec, body = api.do(http.MethodPost, "/customer/calculate-premium-by-policy-ids", customerToken, map[string]any{
		"policy_ids": []any{policyID, 9999}, "rate_of_interest": 5,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec, body = api.do(http.MethodPost, "/customer/make_payment", customerToken, map[string]any{
		"policy_id": policyID, "amount": 250.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	paymentID := int64(dataField(t, body, "payment_id").(float64))

	rec, _ = api.do(http.MethodGet, "/customer/download_receipt/"+jsonNumber(paymentID), customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Receipt_jane@example.com_")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	entries, err := os.ReadDir(receiptDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base("Receipt_jane@example.com_"+jsonNumber(paymentID)+".pdf"), entries[0].Name())
}

func TestRoleGates(t *testing.T) {
	api, _ := newTestAPI(t)

	rec, body := api.do(http.MethodPost, "/register-user?user_type=admin", "", map[string]any{
		"email": "root@example.com", "password": "secret1", "username": "root", "full_name": "Root Admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	adminToken := body["access_token"].(string)

	t.Run("admin token on customer route", func(t *testing.T) {
		rec, _ := api.do(http.MethodPost, "/customer/calculate-premium", adminToken, map[string]any{"rate_of_interest": 1})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no token", func(t *testing.T) {
		rec, _ := api.do(http.MethodPost, "/admin/insurance-plans", "", map[string]any{"plan_name": "x", "plan_details": "y"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec, _ := api.do(http.MethodPost, "/admin/insurance-plans", "not.a.jwt", map[string]any{"plan_name": "x", "plan_details": "y"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("customer cannot register through register-user", func(t *testing.T) {
		rec, _ := api.do(http.MethodPost, "/register-user?user_type=customer", "", map[string]any{
			"email": "c@example.com", "password": "secret1", "username": "c", "full_name": "C",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("employee cannot list policies", func(t *testing.T) {
		rec, _ := api.do(http.MethodGet, "/policies/?user_type=employee", adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty catalogue page", func(t *testing.T) {
		rec, _ := api.do(http.MethodPost, "/admin/customer", adminToken, map[string]any{
			"email": "c@example.com", "password": "secret1", "username": "c",
			"full_name": "C", "date_of_birth": "2000-01-01",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		_, login := api.do(http.MethodPost, "/login?user_type=customer", "", map[string]any{
			"email": "c@example.com", "password": "secret1",
		})
		rec, _ = api.do(http.MethodGet, "/policies/?user_type=customer", login["access_token"].(string), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("audit trail records admin actions", func(t *testing.T) {
		rec, body := api.do(http.MethodGet, "/admin/audit?action=create_customer", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.EqualValues(t, 1, body["total_records"])
	})

	t.Run("refresh rotates the pair", func(t *testing.T) {
		_, login := api.do(http.MethodPost, "/login?user_type=admin", "", map[string]any{
			"email": "root@example.com", "password": "secret1",
		})
		refresh := login["refresh_token"].(string)

		rec, body := api.do(http.MethodPost, "/refresh?user_type=admin", "", map[string]any{"refresh_token": refresh})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.NotEmpty(t, body["access_token"])

		// A refresh token is not an access token.
		rec, _ = api.do(http.MethodGet, "/admin/audit", refresh, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	api, _ := newTestAPI(t)

	rec, body := api.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "disabled", dataField(t, body, "database"))

	rec, _ = api.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func jsonNumber(v int64) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}

func TestAgentLedgerAndEmployeeSchemes(t *testing.T) {
	api, _ := newTestAPI(t)

	rec, body := api.do(http.MethodPost, "/register-user?user_type=admin", "", map[string]any{
		"email": "root@example.com", "password": "secret1", "username": "root", "full_name": "Root Admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	adminToken, _ := body["access_token"].(string)

	_, body = api.do(http.MethodPost, "/admin/insurance-plans", adminToken, map[string]any{
		"plan_name": "Health", "plan_details": "Hospital cover",
	})
	_, body = api.do(http.MethodPost, "/admin/scheme", adminToken, map[string]any{
		"scheme_name": "Senior", "scheme_details": "Over sixty", "plan_id": dataField(t, body, "plan_id"),
	})
	schemeID := dataField(t, body, "scheme_id")
	_, body = api.do(http.MethodPost, "/admin/policy", adminToken, map[string]any{
		"policy_details": "Hospital 5", "scheme_id": schemeID, "premium": 1000,
		"date_issued": "2024-01-01", "maturity_period": 5, "policy_lapse_date": "2029-01-01",
	})
	policyID := dataField(t, body, "policy_id")

	rec, body = api.do(http.MethodPost, "/admin/insurance_agent/", adminToken, map[string]any{
		"email": "agent@example.com", "password": "secret1", "username": "agent", "full_name": "Agent Smith",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	agentID := dataField(t, body, "id")

	rec, _ = api.do(http.MethodPost, "/admin/customer/", adminToken, map[string]any{
		"email": "carl@example.com", "password": "secret1", "username": "carl",
		"full_name": "Carl Client", "date_of_birth": "1980-02-02", "agent_id": agentID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	_, body = api.do(http.MethodPost, "/login?user_type=customer", "", map[string]any{
		"email": "carl@example.com", "password": "secret1",
	})
	customerToken, _ := body["access_token"].(string)
	rec, _ = api.do(http.MethodPost, "/policies/purchase", customerToken, map[string]any{"policy_id": policyID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = api.do(http.MethodPost, "/admin/calculate-commission", adminToken, map[string]any{
		"agent_id": agentID, "commission_rate": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	t.Run("commission ledger", func(t *testing.T) {
		rec, body := api.do(http.MethodGet, fmt.Sprintf("/admin/insurance_agent/%v/commissions", agentID), adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		rows, ok := body["data"].([]any)
		require.True(t, ok)
		require.Len(t, rows, 1)
		assert.EqualValues(t, 100, rows[0].(map[string]any)["commission_amount"])

		rec, _ = api.do(http.MethodGet, "/admin/insurance_agent/9999/commissions", adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec, _ = api.do(http.MethodGet, fmt.Sprintf("/admin/insurance_agent/%v/commissions", agentID), customerToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("employee scheme link", func(t *testing.T) {
		rec, body := api.do(http.MethodPost, "/admin/employee/", adminToken, map[string]any{
			"email": "emp@example.com", "password": "secret1", "username": "emp", "full_name": "Emma Ployee",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		employeeID := dataField(t, body, "id")

		path := fmt.Sprintf("/admin/employee/%v/schemes", employeeID)
		rec, _ = api.do(http.MethodPost, path, adminToken, map[string]any{"scheme_id": schemeID})
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})
}

func TestWithoutMetrics(t *testing.T) {
	api, _ := newTestAPIWithMetrics(t, nil)

	rec, _ := api.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := api.do(http.MethodPost, "/register-user?user_type=admin", "", map[string]any{
		"email": "root@example.com", "password": "secret1", "username": "root", "full_name": "Root Admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = api.do(http.MethodPost, "/login?user_type=admin", "", map[string]any{
		"email": "root@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, body["access_token"])
}
