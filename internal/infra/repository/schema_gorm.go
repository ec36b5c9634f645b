package repository

import (
	"time"

	"catalogcart/internal/domain/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productRow struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text;not null;default:''"`
	Cost        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Qty         int64           `gorm:"not null;default:0"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime"`
}

func (productRow) TableName() string { return "products" }

func (p productRow) record() model.Record {
	return model.Record{
		model.FieldID:          p.ID,
		model.FieldName:        p.Name,
		model.FieldDescription: p.Description,
		model.FieldCost:        p.Cost,
		model.FieldQty:         p.Qty,
	}
}

// contents holds the encoded product-id sequence, e.g. "[1,2]"
type cartRow struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	Username  string          `gorm:"type:varchar(255);not null;index"`
	Cost      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Contents  string          `gorm:"type:text;not null"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime"`
}

func (cartRow) TableName() string { return "carts" }

func (c cartRow) record() model.Record {
	return model.Record{
		model.FieldID:       c.ID,
		model.FieldUsername: c.Username,
		model.FieldCost:     c.Cost,
		model.FieldContents: c.Contents,
	}
}

// AutoMigrate creates or updates the tables used by the gorm stores.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&productRow{},
		&cartRow{},
		&model.InventoryAdjustment{},
	)
}
