package model

import "time"

// quantity change history, one row per update_qty write
type InventoryAdjustment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Before    int64     `gorm:"not null" json:"before"`
	After     int64     `gorm:"not null" json:"after"`
	Delta     int64     `gorm:"not null" json:"delta"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
