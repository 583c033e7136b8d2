package repository

import (
	"context"

	"subscription-billing/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

// UserRepository resolves identities and answers profile-completeness checks.
type UserRepository interface {
	// ResolveAccount maps an account string to a user id; domain.ErrNotFound if unknown.
	ResolveAccount(ctx context.Context, tx Tx, account string) (string, error)
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	// IsProfileEmpty reports whether the user's questionnaire is incomplete.
	IsProfileEmpty(ctx context.Context, tx Tx, userID string) (bool, error)
}
