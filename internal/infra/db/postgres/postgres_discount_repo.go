package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
)

var _ repository.DiscountRepository = (*PostgresDiscountRepo)(nil)

type PostgresDiscountRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresDiscountRepo(pool *pgxpool.Pool) *PostgresDiscountRepo {
	return &PostgresDiscountRepo{pool: pool}
}

// GetPercentDiscount returns a zero rate when no row matches; absence means "no discount".
func (r *PostgresDiscountRepo) GetPercentDiscount(ctx context.Context, tx repository.Tx, months int, category model.DiscountCategory) (model.DiscountRate, error) {
	rate := model.DiscountRate{Months: months, Category: category, Percent: decimal.Zero}
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return rate, err
	}
	const q = `SELECT percent::text FROM discounts WHERE months = $1 AND category = $2;`
	var percent string
	if err := ex.QueryRow(ctx, q, months, string(category)).Scan(&percent); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rate, nil
		}
		return rate, rowErr(err, "discount")
	}
	if rate.Percent, err = parseAmount(percent); err != nil {
		return rate, err
	}
	return rate, nil
}

// Save upserts the percent for (months, category).
func (r *PostgresDiscountRepo) Save(ctx context.Context, tx repository.Tx, rate model.DiscountRate) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO discounts (months, category, percent) VALUES ($1, $2, $3::numeric)
ON CONFLICT (months, category) DO UPDATE SET percent = EXCLUDED.percent;`
	_, err = ex.Exec(ctx, q, rate.Months, string(rate.Category), rate.Percent.String())
	return err
}
