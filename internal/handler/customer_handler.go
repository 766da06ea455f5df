package handler

import (
	"fmt"
	"net/http"
	"os"

	"go-insurance-admin/internal/metrics"
	"go-insurance-admin/internal/model"
	"go-insurance-admin/internal/service"
)

type CustomerHandler struct {
	service *service.CustomerService
	metrics *metrics.Metrics
}

func NewCustomerHandler(service *service.CustomerService, m *metrics.Metrics) *CustomerHandler {
	return &CustomerHandler{service: service, metrics: m}
}

func (h *CustomerHandler) CalculatePremium(w http.ResponseWriter, r *http.Request) {
	_, customerID, err := customerFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.CalculatePremiumRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	quote, err := h.service.Premium(r.Context(), customerID, payload.RateOfInterest)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.metrics.PremiumQuote()

	writeSuccess(w, http.StatusOK, "Premium calculated successfully", quote)
}

func (h *CustomerHandler) CalculatePremiumByPolicyIDs(w http.ResponseWriter, r *http.Request) {
	_, customerID, err := customerFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.PremiumByPolicyIDsRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	quote, err := h.service.PremiumByPolicyIDs(r.Context(), customerID, payload.PolicyIDs, payload.RateOfInterest)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.metrics.PremiumQuote()

	writeSuccess(w, http.StatusOK, "Premium calculated successfully", quote)
}

func (h *CustomerHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	_, customerID, err := customerFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.PaymentRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := h.service.MakePayment(r.Context(), customerID, payload.PolicyID, payload.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.metrics.Payment()

	writeSuccess(w, http.StatusCreated, "Payment processed successfully", model.PaymentReceipt{PaymentID: payment.ID})
}

func (h *CustomerHandler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	caller, _, err := customerFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	paymentID, err := pathID(r, "payment_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	receipt, err := h.service.Receipt(r.Context(), caller, paymentID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	file, err := os.Open(receipt.Path)
	if err != nil {
		writeError(w, r, fmt.Errorf("open receipt: %w", err))
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		writeError(w, r, fmt.Errorf("stat receipt: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", receipt.Filename))
	http.ServeContent(w, r, receipt.Filename, stat.ModTime(), file)
}
