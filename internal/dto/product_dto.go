package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ArticleAssignment declares how many units of an article one unit of the
// product consumes. Duplicate articleIds in a creation request collapse to
// the first occurrence.
type ArticleAssignment struct {
	ArticleID uint `json:"articleId" validate:"required"`
	Quantity  int  `json:"quantity"  validate:"required,gt=0"`
}

// UpsertProductRequest creates a product (ID 0) together with its recipe, or
// updates name/price of an existing one. The recipe is immutable after
// creation: Articles is ignored on update.
type UpsertProductRequest struct {
	ID       uint                `json:"id"`
	Name     string              `json:"name"  validate:"required,min=1,max=120"`
	Price    decimal.Decimal     `json:"price" validate:"required"`
	Articles []ArticleAssignment `json:"articles" validate:"dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type CompositionEntry struct {
	ArticleID uint `json:"articleId"`
	Quantity  int  `json:"quantity"`
}

type ProductWithCompositionResponse struct {
	ProductResponse
	Articles []CompositionEntry `json:"articles"`
}

// ProductAvailabilityResponse carries the maximum producible quantity derived
// from current article stock.
type ProductAvailabilityResponse struct {
	ProductWithCompositionResponse
	QuantityAvailable int `json:"quantityAvailable"`
}
