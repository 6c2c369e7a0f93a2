package model

import "time"

// Movement types recorded in StockMovement.Type.
const (
	MovementProduction = "production"
	MovementAdjustment = "adjustment"
	MovementUpsert     = "upsert"
)

// StockMovement records every change applied to an article's available stock.
// Production and adjustment movements are written inside the same transaction
// as the stock update itself.
type StockMovement struct {
	ID          uint   `gorm:"primaryKey"`
	ArticleID   uint   `gorm:"not null;index"`
	ProductID   *uint  `gorm:"index"` // set when the change came from producing a product
	Type        string `gorm:"not null"`
	Quantity    int    `gorm:"not null"` // delta applied: positive = entry, negative = exit
	StockBefore int    `gorm:"not null"`
	StockAfter  int    `gorm:"not null"`
	CreatedAt   time.Time

	Article *Article `gorm:"foreignKey:ArticleID"`
}
