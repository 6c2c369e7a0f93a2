package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a finished good defined by a fixed recipe of articles
// (see ArticleOnProduct). Only Name and Price are mutable after creation.
type Product struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
