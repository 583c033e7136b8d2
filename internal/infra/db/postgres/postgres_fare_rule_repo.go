package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.FareRuleRepository = (*PostgresFareRuleRepo)(nil)

type PostgresFareRuleRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresFareRuleRepo(pool *pgxpool.Pool) *PostgresFareRuleRepo {
	return &PostgresFareRuleRepo{pool: pool}
}

const fareRuleColumns = `rule_id, public_id::text, name, price::text, plan_type`

func (r *PostgresFareRuleRepo) GetByPublicID(ctx context.Context, tx repository.Tx, publicID string) (*model.FareRule, error) {
	const q = `SELECT ` + fareRuleColumns + ` FROM fare_rules WHERE public_id::text = $1;`
	return r.queryOne(ctx, tx, q, publicID)
}

func (r *PostgresFareRuleRepo) GetByID(ctx context.Context, tx repository.Tx, ruleID int64) (*model.FareRule, error) {
	const q = `SELECT ` + fareRuleColumns + ` FROM fare_rules WHERE rule_id = $1;`
	return r.queryOne(ctx, tx, q, ruleID)
}

// Save upserts a fare rule by public id and fills RuleID.
func (r *PostgresFareRuleRepo) Save(ctx context.Context, tx repository.Tx, f *model.FareRule) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO fare_rules (public_id, name, price, plan_type)
VALUES ($1::uuid, $2, $3::numeric, $4)
ON CONFLICT (public_id) DO UPDATE
  SET name = EXCLUDED.name, price = EXCLUDED.price, plan_type = EXCLUDED.plan_type
RETURNING rule_id;`
	return ex.QueryRow(ctx, q, f.PublicID, f.Name, f.Price.String(), f.PlanType).Scan(&f.RuleID)
}

func (r *PostgresFareRuleRepo) queryOne(ctx context.Context, tx repository.Tx, q string, arg any) (*model.FareRule, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	var (
		f     model.FareRule
		price string
	)
	if err := ex.QueryRow(ctx, q, arg).Scan(&f.RuleID, &f.PublicID, &f.Name, &price, &f.PlanType); err != nil {
		return nil, rowErr(err, "fare rule")
	}
	if f.Price, err = parseAmount(price); err != nil {
		return nil, err
	}
	return &f, nil
}
