package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"subscription-billing/internal/domain"
	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*PostgresOrderRepo)(nil)

type PostgresOrderRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepo(pool *pgxpool.Pool) *PostgresOrderRepo {
	return &PostgresOrderRepo{pool: pool}
}

func (r *PostgresOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.OrderRecord) error {
	if o == nil || o.OrderID == "" || o.PaymentID == "" {
		return domain.ErrInvalidArgument
	}
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO orders (
  order_id, payment_id, gateway, user_id, fare_rule_id, months, rule_name, description,
  amount, quantity, currency, gateway_status, status, created_at
) VALUES ($1::uuid,$2,$3,$4::uuid,$5,$6,$7,$8,$9::numeric,$10,$11,$12,$13,$14);`
	_, err = ex.Exec(ctx, q,
		o.OrderID, o.PaymentID, o.Gateway, o.UserID, o.FareRuleID, o.Months, o.RuleName, o.Description,
		o.Amount.String(), o.Quantity, o.Currency, o.GatewayStatus, string(o.Status), o.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errors.Mark(errors.Wrapf(err, "order %s", o.OrderID), domain.ErrAlreadyExists)
		}
		return errors.Mark(errors.Wrap(err, "save order"), domain.ErrOperationFailed)
	}
	return nil
}

func (r *PostgresOrderRepo) FindByID(ctx context.Context, tx repository.Tx, orderID string) (*model.OrderRecord, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	const q = `
SELECT order_id::text, payment_id, gateway, user_id::text, fare_rule_id, months, rule_name, description,
       amount::text, quantity, currency, gateway_status, status, created_at
  FROM orders WHERE order_id::text = $1;`
	var (
		o      model.OrderRecord
		amount string
		status string
	)
	err = ex.QueryRow(ctx, q, orderID).Scan(
		&o.OrderID, &o.PaymentID, &o.Gateway, &o.UserID, &o.FareRuleID, &o.Months, &o.RuleName, &o.Description,
		&amount, &o.Quantity, &o.Currency, &o.GatewayStatus, &status, &o.CreatedAt,
	)
	if err != nil {
		return nil, rowErr(err, "order")
	}
	if o.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	return &o, nil
}

func (r *PostgresOrderRepo) GetOrderDetails(ctx context.Context, tx repository.Tx, orderID, userID string) (*model.OrderDetails, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	const q = `SELECT order_id::text, amount::text FROM orders WHERE order_id::text = $1 AND user_id::text = $2;`
	var (
		d      model.OrderDetails
		amount string
	)
	if err := ex.QueryRow(ctx, q, orderID, userID).Scan(&d.OrderID, &amount); err != nil {
		return nil, rowErr(err, "order")
	}
	if d.Price, err = parseAmount(amount); err != nil {
		return nil, err
	}
	return &d, nil
}

// FindActiveOrderID returns the latest paid order for the given subscription length.
func (r *PostgresOrderRepo) FindActiveOrderID(ctx context.Context, tx repository.Tx, months int, userID string) (string, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return "", err
	}
	const q = `
SELECT order_id::text FROM orders
 WHERE user_id::text = $1 AND months = $2 AND status = $3
 ORDER BY created_at DESC
 LIMIT 1;`
	var id string
	if err := ex.QueryRow(ctx, q, userID, months, string(model.OrderStatusSucceeded)).Scan(&id); err != nil {
		return "", rowErr(err, "active order")
	}
	return id, nil
}
