package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// UpsertArticleRequest creates an article when ID is 0 (or omitted) and
// updates the existing one otherwise.
type UpsertArticleRequest struct {
	ID             uint           `json:"id"`
	Identification Identification `json:"identification" validate:"required"`
	Name           string         `json:"name"           validate:"required,min=1,max=120"`
	AvailableStock int            `json:"availableStock"`
}

// AdjustStockRequest applies a relative stock delta to a single article.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"max=240"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ArticleFilter struct {
	Identification string `form:"identification"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ArticleResponse struct {
	ID             uint           `json:"id"`
	Identification Identification `json:"identification"`
	Name           string         `json:"name"`
	AvailableStock int            `json:"availableStock"`
}
