package usecase

import (
	"context"
	"errors"
	"fmt"

	"catalogcart/internal/domain/model"
	"catalogcart/internal/pkg/logger"
	repo "catalogcart/internal/repository"
)

// ProductUsecase is the product catalog: it loads raw store records into
// Products and guards quantity writes.
type ProductUsecase struct {
	productRepo repo.ProductRepository
	log         *logger.Logger
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, log *logger.Logger) *ProductUsecase {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProductUsecase{
		productRepo: productRepo,
		log:         log.With("component", "product_usecase"),
	}
}

// ListProducts returns every product in store order.
func (u *ProductUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	recs, err := u.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(recs))
	for _, rec := range recs {
		p, err := model.LoadProduct(rec)
		if err != nil {
			return nil, fmt.Errorf("load product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	rec, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && rec == nil) {
		return model.Product{}, &model.NotFoundError{Resource: "product", ID: id}
	}
	if err != nil {
		return model.Product{}, err
	}
	return model.LoadProduct(rec)
}

// AddProduct checks qty when present and hands the record to the store as is.
func (u *ProductUsecase) AddProduct(ctx context.Context, rec model.Record) error {
	if rec.Has(model.FieldQty) {
		qty, err := rec.Int64(model.FieldQty)
		if err != nil {
			return err
		}
		if err := model.ValidateQty(qty); err != nil {
			u.log.Warn("rejected product", "qty", qty)
			return err
		}
	}
	return u.productRepo.Create(ctx, rec)
}

// UpdateQty does not check that id exists; the store reports ErrNotFound.
func (u *ProductUsecase) UpdateQty(ctx context.Context, id int64, qty int64) error {
	if err := model.ValidateQty(qty); err != nil {
		u.log.Warn("rejected qty update", "product_id", id, "qty", qty)
		return err
	}
	return u.productRepo.UpdateQty(ctx, id, qty)
}

func (u *ProductUsecase) ListAdjustments(ctx context.Context, productID int64) ([]model.InventoryAdjustment, error) {
	adjs, err := u.productRepo.ListAdjustments(ctx, productID)
	if err != nil {
		return nil, err
	}
	if adjs == nil {
		adjs = []model.InventoryAdjustment{}
	}
	return adjs, nil
}
