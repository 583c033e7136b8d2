package repository

import (
	"context"

	"subscription-billing/internal/domain/model"
)

// -----------------------------
// Orders
// -----------------------------

type OrderRepository interface {
	// Save persists a new order record. Records are immutable except for status fields.
	Save(ctx context.Context, tx Tx, o *model.OrderRecord) error
	FindByID(ctx context.Context, tx Tx, orderID string) (*model.OrderRecord, error)
	// GetOrderDetails returns the price of an order owned by userID.
	GetOrderDetails(ctx context.Context, tx Tx, orderID, userID string) (*model.OrderDetails, error)
	// FindActiveOrderID returns the order that paid for the user's current subscription of the given length.
	FindActiveOrderID(ctx context.Context, tx Tx, months int, userID string) (string, error)
}
