package usecase

import (
	"context"
	"errors"

	"catalogcart/internal/domain/model"
	"catalogcart/internal/pkg/logger"
	repo "catalogcart/internal/repository"
)

// ProductGetter resolves a product id; *ProductUsecase satisfies it.
type ProductGetter interface {
	GetProduct(ctx context.Context, id int64) (model.Product, error)
}

// CartUsecase aggregates cart records into resolved products. Membership
// changes go straight to the store.
type CartUsecase struct {
	cartRepo repo.CartRepository
	products ProductGetter
	log      *logger.Logger
}

// DI
func NewCartUsecase(cartRepo repo.CartRepository, products ProductGetter, log *logger.Logger) *CartUsecase {
	if log == nil {
		log = logger.NewNop()
	}
	return &CartUsecase{
		cartRepo: cartRepo,
		products: products,
		log:      log.With("component", "cart_usecase"),
	}
}

// LoadCart decodes rec and resolves every referenced product. A single
// missing product fails the whole cart.
func (u *CartUsecase) LoadCart(ctx context.Context, rec model.Record) (model.Cart, error) {
	stored, err := model.DecodeCartRecord(rec)
	if err != nil {
		return model.Cart{}, err
	}

	contents, err := u.resolve(ctx, stored)
	if err != nil {
		return model.Cart{}, err
	}

	return model.Cart{
		ID:       stored.ID,
		Username: stored.Username,
		Contents: contents,
		Cost:     stored.Cost,
	}, nil
}

// GetCart flattens all of the user's cart records into one product list,
// record order first, then stored order within each record.
func (u *CartUsecase) GetCart(ctx context.Context, username string) ([]model.Product, error) {
	recs, err := u.cartRepo.ListByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	products := []model.Product{}
	for _, rec := range recs {
		stored, err := model.DecodeCartRecord(rec)
		if err != nil {
			return nil, err
		}
		contents, err := u.resolve(ctx, stored)
		if err != nil {
			return nil, err
		}
		products = append(products, contents...)
	}
	return products, nil
}

// ListCarts is GetCart without flattening.
func (u *CartUsecase) ListCarts(ctx context.Context, username string) ([]model.Cart, error) {
	recs, err := u.cartRepo.ListByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	carts := make([]model.Cart, 0, len(recs))
	for _, rec := range recs {
		c, err := u.LoadCart(ctx, rec)
		if err != nil {
			return nil, err
		}
		carts = append(carts, c)
	}
	return carts, nil
}

func (u *CartUsecase) AddToCart(ctx context.Context, username string, productID int64) error {
	return u.cartRepo.AddItem(ctx, username, productID)
}

func (u *CartUsecase) RemoveFromCart(ctx context.Context, username string, productID int64) error {
	return u.cartRepo.RemoveItem(ctx, username, productID)
}

func (u *CartUsecase) DeleteCart(ctx context.Context, username string) error {
	return u.cartRepo.DeleteByUsername(ctx, username)
}

func (u *CartUsecase) resolve(ctx context.Context, stored model.StoredCart) ([]model.Product, error) {
	contents := make([]model.Product, 0, len(stored.ProductIDs))
	for _, id := range stored.ProductIDs {
		p, err := u.products.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				u.log.Warn("cart references missing product",
					"cart_id", stored.ID, "username", stored.Username, "product_id", id)
			}
			return nil, err
		}
		contents = append(contents, p)
	}
	return contents, nil
}
