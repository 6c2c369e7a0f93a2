package dto

import "time"

// ConsumeRequest is the body of the stock-update-by-product endpoint.
// Quantity defaults to 1 when the body is empty, matching the legacy client.
type ConsumeRequest struct {
	Quantity int `json:"quantity" validate:"omitempty,gt=0"`
}

// ArticleStockUpdate reports, for one article touched by a production run,
// the stock before and after plus the refreshed record.
type ArticleStockUpdate struct {
	Article       ArticleResponse `json:"article"`
	PreviousStock int             `json:"previousStock"`
	NewStock      int             `json:"newStock"`
}

// ─── Stock movements ─────────────────────────────────────────────────────────

type StockMovementFilter struct {
	ArticleID uint   `form:"articleId"`
	ProductID uint   `form:"productId"`
	Type      string `form:"type"`
}

type StockMovementResponse struct {
	ID          uint      `json:"id"`
	ArticleID   uint      `json:"articleId"`
	ProductID   *uint     `json:"productId"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	StockBefore int       `json:"stockBefore"`
	StockAfter  int       `json:"stockAfter"`
	CreatedAt   time.Time `json:"createdAt"`
}
