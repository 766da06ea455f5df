package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-insurance-admin/internal/database"
	"go-insurance-admin/internal/model"
)

type CommissionRepository struct {
	pool *pgxpool.Pool
}

func NewCommissionRepository(pool *pgxpool.Pool) *CommissionRepository {
	return &CommissionRepository{pool: pool}
}

// CreateBatch appends every commission row in one transaction; either all
// rows are stored or none are.
func (r *CommissionRepository) CreateBatch(ctx context.Context, commissions []model.Commission) error {
	if len(commissions) == 0 {
		return nil
	}

	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, c := range commissions {
			batch.Queue(
				`INSERT INTO commissions (agent_id, policy_id, commission_amount) VALUES ($1, $2, $3)`,
				c.AgentID, c.PolicyID, c.Amount)
		}

		results := tx.SendBatch(ctx, batch)
		for range commissions {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("insert commission: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("close commission batch: %w", err)
		}
		return nil
	})
}

func (r *CommissionRepository) ListByAgent(ctx context.Context, agentID int64) ([]model.Commission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, agent_id, policy_id, commission_amount, created_at
		 FROM commissions WHERE agent_id = $1 ORDER BY id`, agentID)
	if err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}
	defer rows.Close()

	commissions := make([]model.Commission, 0)
	for rows.Next() {
		var c model.Commission
		if err := rows.Scan(&c.ID, &c.AgentID, &c.PolicyID, &c.Amount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan commission: %w", err)
		}
		commissions = append(commissions, c)
	}
	return commissions, rows.Err()
}
