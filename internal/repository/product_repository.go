package repository

import (
	"context"
	"errors"

	"catalogcart/internal/domain/model"
)

// ErrNotFound is returned by stores when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by Create when the record's id is already taken.
var ErrDuplicate = errors.New("duplicate id")

// Product persistence. Records are returned raw; loading happens in the usecase.
type ProductRepository interface {
	// in store order
	List(ctx context.Context) ([]model.Record, error)
	// ErrNotFound when absent
	FindByID(ctx context.Context, id int64) (model.Record, error)
	// the store assigns the id when the record has none; ErrDuplicate when it is taken
	Create(ctx context.Context, rec model.Record) error
	// ErrNotFound when the product does not exist
	UpdateQty(ctx context.Context, id int64, qty int64) error
	ListAdjustments(ctx context.Context, productID int64) ([]model.InventoryAdjustment, error)
}
