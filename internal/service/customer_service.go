package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-insurance-admin/internal/calc"
	"go-insurance-admin/internal/model"
)

type ReceiptRenderer interface {
	Render(payment model.Payment, policy model.Policy, customerEmail string) (model.Receipt, error)
}

// CustomerService holds the operations a customer performs on their own
// account: premium quotes, payments and receipts.
type CustomerService struct {
	principals  PrincipalStore
	policies    PolicyStore
	assignments AssignmentStore
	payments    PaymentStore
	receipts    ReceiptRenderer
	now         func() time.Time
}

func NewCustomerService(principals PrincipalStore, policies PolicyStore, assignments AssignmentStore, payments PaymentStore, receipts ReceiptRenderer) *CustomerService {
	return &CustomerService{
		principals:  principals,
		policies:    policies,
		assignments: assignments,
		payments:    payments,
		receipts:    receipts,
		now:         time.Now,
	}
}

func (s *CustomerService) customerAge(ctx context.Context, customerID int64) (int, error) {
	customer, err := s.principals.FindByID(ctx, model.RoleCustomer, customerID)
	if err != nil {
		return 0, err
	}
	return calc.Age(customer.DateOfBirth.Time, s.now())
}

// Premium quotes the total premium over every policy the customer holds.
func (s *CustomerService) Premium(ctx context.Context, customerID int64, rate float64) (model.PremiumQuote, error) {
	age, err := s.customerAge(ctx, customerID)
	if err != nil {
		return model.PremiumQuote{}, err
	}

	policies, err := s.policies.ForCustomer(ctx, customerID)
	if err != nil {
		return model.PremiumQuote{}, err
	}

	return s.quote(customerID, age, rate, policies)
}

// PremiumByPolicyIDs quotes an explicit set of policies, held or not. Every
// id must name an existing policy.
func (s *CustomerService) PremiumByPolicyIDs(ctx context.Context, customerID int64, policyIDs []int64, rate float64) (model.PremiumQuote, error) {
	age, err := s.customerAge(ctx, customerID)
	if err != nil {
		return model.PremiumQuote{}, err
	}

	policies, err := s.policies.ByIDs(ctx, policyIDs)
	if err != nil {
		return model.PremiumQuote{}, err
	}

	found := make(map[int64]bool, len(policies))
	for _, p := range policies {
		found[p.ID] = true
	}
	for _, id := range policyIDs {
		if !found[id] {
			return model.PremiumQuote{}, fmt.Errorf("%w: %d", model.ErrPolicyNotFound, id)
		}
	}

	return s.quote(customerID, age, rate, policies)
}

func (s *CustomerService) quote(customerID int64, age int, rate float64, policies []model.Policy) (model.PremiumQuote, error) {
	total, breakdown, err := calc.TotalPremium(policies, age, rate)
	if err != nil {
		return model.PremiumQuote{}, err
	}

	ids := make([]int64, 0, len(policies))
	for _, p := range policies {
		ids = append(ids, p.ID)
	}

	slog.Info("premium calculated", "customer_id", customerID, "age", age, "rate", rate, "total_premium", total)
	return model.PremiumQuote{
		CustomerID:     customerID,
		Age:            age,
		RateOfInterest: rate,
		Policies:       ids,
		Breakdown:      breakdown,
		TotalPremium:   calc.Round2(total),
	}, nil
}

// MakePayment records a payment against a policy the customer holds.
func (s *CustomerService) MakePayment(ctx context.Context, customerID int64, policyID int64, amount float64) (model.Payment, error) {
	if _, err := s.policies.FindByID(ctx, policyID); err != nil {
		return model.Payment{}, err
	}

	held, err := s.assignments.Exists(ctx, customerID, policyID)
	if err != nil {
		return model.Payment{}, err
	}
	if !held {
		return model.Payment{}, model.ErrPaymentNotOwned
	}

	payment, err := s.payments.Create(ctx, model.Payment{
		CustomerID:  customerID,
		PolicyID:    policyID,
		Amount:      calc.Round2(amount),
		PaymentDate: model.DateOf(s.now().UTC()),
	})
	if err != nil {
		return model.Payment{}, err
	}

	slog.Info("payment processed", "payment_id", payment.ID, "customer_id", customerID, "policy_id", policyID)
	return payment, nil
}

// Receipt renders the PDF receipt of one of the caller's payments.
func (s *CustomerService) Receipt(ctx context.Context, caller model.Caller, paymentID int64) (model.Receipt, error) {
	if caller.CustomerID == nil {
		return model.Receipt{}, model.ErrRoleMismatch
	}

	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return model.Receipt{}, err
	}
	if payment.CustomerID != *caller.CustomerID {
		return model.Receipt{}, model.ErrPaymentNotOwned
	}

	policy, err := s.policies.FindByID(ctx, payment.PolicyID)
	if err != nil {
		return model.Receipt{}, err
	}

	receipt, err := s.receipts.Render(payment, policy, caller.Email)
	if err != nil {
		return model.Receipt{}, fmt.Errorf("render receipt: %w", err)
	}

	slog.Info("receipt generated", "payment_id", payment.ID, "file", receipt.Filename)
	return receipt, nil
}
