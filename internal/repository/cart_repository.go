package repository

import (
	"context"

	"catalogcart/internal/domain/model"
)

// Cart persistence keyed by username. A user may own several cart records.
type CartRepository interface {
	// empty slice when the user has no carts
	ListByUsername(ctx context.Context, username string) ([]model.Record, error)
	// appends to the user's first cart, creating one if needed
	AddItem(ctx context.Context, username string, productID int64) error
	// removes the first occurrence; ErrNotFound when no cart holds productID
	RemoveItem(ctx context.Context, username string, productID int64) error
	// removes every cart of the user
	DeleteByUsername(ctx context.Context, username string) error
}
