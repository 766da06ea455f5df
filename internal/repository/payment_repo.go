package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-insurance-admin/internal/model"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Create(ctx context.Context, p model.Payment) (model.Payment, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payments (customer_id, policy_id, amount, payment_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		p.CustomerID, p.PolicyID, p.Amount, p.PaymentDate.Time).
		Scan(&p.ID, &p.CreatedAt)
	if isForeignKeyViolation(err) {
		return model.Payment{}, model.ErrPolicyNotFound
	}
	if err != nil {
		return model.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (model.Payment, error) {
	var p model.Payment
	err := r.pool.QueryRow(ctx,
		`SELECT id, customer_id, policy_id, amount, payment_date, created_at
		 FROM payments WHERE id = $1`, id).
		Scan(&p.ID, &p.CustomerID, &p.PolicyID, &p.Amount, &p.PaymentDate, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Payment{}, model.ErrPaymentNotFound
	}
	if err != nil {
		return model.Payment{}, fmt.Errorf("find payment: %w", err)
	}
	return p, nil
}
