package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-insurance-admin/internal/model"
)

type AssignmentRepository struct {
	pool *pgxpool.Pool
}

func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Assign records that a customer purchased a policy. The unique
// (customer_id, policy_id) index makes concurrent duplicate purchases resolve
// to exactly one row; the loser gets ErrDuplicateAssignment.
func (r *AssignmentRepository) Assign(ctx context.Context, customerID int64, policyID int64) (model.Assignment, error) {
	a := model.Assignment{CustomerID: customerID, PolicyID: policyID}

	rows, err := r.pool.Query(ctx,
		`INSERT INTO customer_policies (customer_id, policy_id)
		 VALUES ($1, $2)
		 ON CONFLICT (customer_id, policy_id) DO NOTHING
		 RETURNING id, date_assigned`, customerID, policyID)
	if err != nil {
		return model.Assignment{}, fmt.Errorf("assign policy: %w", err)
	}
	defer rows.Close()

	inserted := false
	for rows.Next() {
		if err := rows.Scan(&a.ID, &a.DateAssigned); err != nil {
			return model.Assignment{}, fmt.Errorf("scan assignment: %w", err)
		}
		inserted = true
	}
	if err := rows.Err(); err != nil {
		if isForeignKeyViolation(err) {
			return model.Assignment{}, model.ErrPolicyNotFound
		}
		return model.Assignment{}, fmt.Errorf("assign policy: %w", err)
	}
	if !inserted {
		return model.Assignment{}, model.ErrDuplicateAssignment
	}
	return a, nil
}

func (r *AssignmentRepository) Exists(ctx context.Context, customerID int64, policyID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM customer_policies WHERE customer_id = $1 AND policy_id = $2)`,
		customerID, policyID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check assignment exists: %w", err)
	}
	return exists, nil
}

func (r *AssignmentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customer_policies`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return total, nil
}
