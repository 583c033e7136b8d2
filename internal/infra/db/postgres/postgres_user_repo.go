package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"

	"subscription-billing/internal/domain"
	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

// Save upserts a user keyed by account and fills ID.
func (r *PostgresUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (account, first_name, last_name, phone, registered_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (account) DO UPDATE SET
  first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, phone = EXCLUDED.phone
RETURNING id::text;`
	return ex.QueryRow(ctx, q, u.Account, u.FirstName, u.LastName, u.Phone, u.RegisteredAt).Scan(&u.ID)
}

func (r *PostgresUserRepo) ResolveAccount(ctx context.Context, tx repository.Tx, account string) (string, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return "", domain.ErrInvalidArgument
	}
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return "", err
	}
	var id string
	if err := ex.QueryRow(ctx, `SELECT id::text FROM users WHERE lower(account) = lower($1);`, account).Scan(&id); err != nil {
		return "", rowErr(err, "account")
	}
	return id, nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	const q = `
SELECT id::text, account, first_name, last_name, phone, registered_at
  FROM users WHERE id::text = $1;`
	var u model.User
	if err := ex.QueryRow(ctx, q, id).Scan(&u.ID, &u.Account, &u.FirstName, &u.LastName, &u.Phone, &u.RegisteredAt); err != nil {
		return nil, rowErr(err, "user")
	}
	return &u, nil
}

func (r *PostgresUserRepo) IsProfileEmpty(ctx context.Context, tx repository.Tx, userID string) (bool, error) {
	u, err := r.FindByID(ctx, tx, userID)
	if err != nil {
		return true, err
	}
	return u.IsProfileEmpty(), nil
}
