package repository

import (
	"context"
	"errors"

	"catalogcart/internal/domain/model"
	repo "catalogcart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// the user's carts, oldest first; contents stay encoded
func (r *CartGormRepository) ListByUsername(ctx context.Context, username string) ([]model.Record, error) {
	var rows []cartRow
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	recs := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.record())
	}
	return recs, nil
}

// append to the first cart, or create it
func (r *CartGormRepository) AddItem(ctx context.Context, username string, productID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row cartRow
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("username = ?", username).
			Order("id asc").
			First(&row).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&cartRow{
				Username: username,
				Cost:     decimal.Zero,
				Contents: model.EncodeContents([]int64{productID}),
			}).Error
		}
		if err != nil {
			return err
		}

		ids, err := model.DecodeContents([]byte(row.Contents))
		if err != nil {
			return err
		}
		ids = append(ids, productID)

		return tx.Model(&cartRow{}).
			Where("id = ?", row.ID).
			Update("contents", model.EncodeContents(ids)).Error
	})
}

// drop the first occurrence of productID across the user's carts
func (r *CartGormRepository) RemoveItem(ctx context.Context, username string, productID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []cartRow
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("username = ?", username).
			Order("id asc").
			Find(&rows).Error; err != nil {
			return err
		}

		for _, row := range rows {
			ids, err := model.DecodeContents([]byte(row.Contents))
			if err != nil {
				return err
			}
			kept, ok := removeFirst(ids, productID)
			if !ok {
				continue
			}
			return tx.Model(&cartRow{}).
				Where("id = ?", row.ID).
				Update("contents", model.EncodeContents(kept)).Error
		}
		return repo.ErrNotFound
	})
}

func (r *CartGormRepository) DeleteByUsername(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).
		Where("username = ?", username).
		Delete(&cartRow{}).Error
}

// Put inserts a raw cart record, for seeding.
func (r *CartGormRepository) Put(ctx context.Context, rec model.Record) error {
	stored, err := model.DecodeCartRecord(rec)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&cartRow{
		ID:       stored.ID,
		Username: stored.Username,
		Cost:     stored.Cost,
		Contents: model.EncodeContents(stored.ProductIDs),
	}).Error
}
