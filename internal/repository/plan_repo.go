package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-insurance-admin/internal/model"
)

type PlanRepository struct {
	pool *pgxpool.Pool
}

func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

func (r *PlanRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM insurance_plans WHERE plan_name = $1)`,
		strings.TrimSpace(name)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check plan name exists: %w", err)
	}
	return exists, nil
}

func (r *PlanRepository) Create(ctx context.Context, plan model.InsurancePlan) (model.InsurancePlan, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO insurance_plans (plan_name, plan_details)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		plan.Name, plan.Details).Scan(&plan.ID, &plan.CreatedAt)
	if isUniqueViolation(err) {
		return model.InsurancePlan{}, model.ErrPlanNameTaken
	}
	if err != nil {
		return model.InsurancePlan{}, fmt.Errorf("create insurance plan: %w", err)
	}
	return plan, nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id int64) (model.InsurancePlan, error) {
	var plan model.InsurancePlan
	err := r.pool.QueryRow(ctx,
		`SELECT id, plan_name, plan_details, created_at FROM insurance_plans WHERE id = $1`, id).
		Scan(&plan.ID, &plan.Name, &plan.Details, &plan.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.InsurancePlan{}, model.ErrPlanNotFound
	}
	if err != nil {
		return model.InsurancePlan{}, fmt.Errorf("find insurance plan: %w", err)
	}
	return plan, nil
}
