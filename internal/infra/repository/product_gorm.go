package repository

import (
	"context"
	"errors"
	"fmt"

	"catalogcart/internal/domain/model"
	repo "catalogcart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// all products, id order
func (r *ProductGormRepository) List(ctx context.Context) ([]model.Record, error) {
	var rows []productRow
	if err := r.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	recs := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.record())
	}
	return recs, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Record, error) {
	var row productRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.record(), nil
}

// insert; id is assigned by the database unless the record carries one.
// Needs TranslateError on the gorm config to report ErrDuplicate.
func (r *ProductGormRepository) Create(ctx context.Context, rec model.Record) error {
	row, err := productRowFromRecord(rec)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("product %d: %w", row.ID, repo.ErrDuplicate)
	}
	return err
}

// set qty and keep the adjustment history in one transaction
func (r *ProductGormRepository) UpdateQty(ctx context.Context, id int64, qty int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row productRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repo.ErrNotFound
		}
		if err != nil {
			return err
		}

		res := tx.Model(&productRow{}).Where("id = ?", id).Update("qty", qty)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		return tx.Create(&model.InventoryAdjustment{
			ProductID: id,
			Before:    row.Qty,
			After:     qty,
			Delta:     qty - row.Qty,
		}).Error
	})
}

func (r *ProductGormRepository) ListAdjustments(ctx context.Context, productID int64) ([]model.InventoryAdjustment, error) {
	var adjs []model.InventoryAdjustment
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&adjs).Error; err != nil {
		return nil, err
	}
	return adjs, nil
}

func productRowFromRecord(rec model.Record) (productRow, error) {
	var row productRow
	var err error

	if rec.Has(model.FieldID) {
		if row.ID, err = rec.Int64(model.FieldID); err != nil {
			return productRow{}, err
		}
	}
	if row.Name, err = rec.String(model.FieldName); err != nil {
		return productRow{}, err
	}
	if rec.Has(model.FieldDescription) {
		if row.Description, err = rec.String(model.FieldDescription); err != nil {
			return productRow{}, err
		}
	}
	row.Cost = decimal.Zero
	if rec.Has(model.FieldCost) {
		if row.Cost, err = rec.Decimal(model.FieldCost); err != nil {
			return productRow{}, err
		}
	}
	if rec.Has(model.FieldQty) {
		if row.Qty, err = rec.Int64(model.FieldQty); err != nil {
			return productRow{}, err
		}
	}
	return row, nil
}
