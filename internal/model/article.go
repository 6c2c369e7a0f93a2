package model

import "time"

// Article is a stock-keeping unit. Identification is the externally-assigned
// business code (unique across all articles); ID is the DB-assigned surrogate.
// AvailableStock may go negative after consumption — overdraft policy is left
// to callers of the consumption engine.
type Article struct {
	ID             uint      `gorm:"primaryKey"`
	Identification int64     `gorm:"uniqueIndex;not null"`
	Name           string    `gorm:"not null"`
	AvailableStock int       `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
