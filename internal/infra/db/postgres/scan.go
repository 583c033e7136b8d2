package postgres

import (
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"subscription-billing/internal/domain"
)

// Amounts travel as text (::text / ::numeric casts) so no pgtype extension is needed.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Mark(errors.Wrapf(err, "amount %q", s), domain.ErrReadDatabaseRow)
	}
	return d, nil
}

// rowErr maps pgx.ErrNoRows to a not-found error and wraps everything else.
func rowErr(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFoundf("%s not found", what)
	}
	if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
		return err
	}
	return errors.Mark(errors.Wrapf(err, "read %s", what), domain.ErrReadDatabaseRow)
}
