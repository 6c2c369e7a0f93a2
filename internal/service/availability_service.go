package service

import (
	"context"
	"math"

	"github.com/tiagostutz/demo-warehouse-software/internal/apperror"
	"github.com/tiagostutz/demo-warehouse-software/internal/dto"
	"github.com/tiagostutz/demo-warehouse-software/internal/model"
	"github.com/tiagostutz/demo-warehouse-software/internal/repository"

	"github.com/rs/zerolog/log"
)

// AvailabilityService derives, per product, the maximum producible quantity
// from current article stock: min over the recipe of floor(stock/quantity).
// A product with no recipe has availability 0 — nothing can be produced
// without a recipe.
type AvailabilityService interface {
	ForProduct(ctx context.Context, productID uint) (*dto.ProductAvailabilityResponse, error)
	ForAll(ctx context.Context) ([]dto.ProductAvailabilityResponse, error)
}

type availabilityService struct {
	products repository.ProductRepository
	articles repository.ArticleRepository
	cache    *AvailabilityCache
}

func NewAvailabilityService(products repository.ProductRepository, articles repository.ArticleRepository, cache *AvailabilityCache) AvailabilityService {
	return &availabilityService{products: products, articles: articles, cache: cache}
}

// ForProduct reports (nil, nil) when the product does not exist.
func (s *availabilityService) ForProduct(ctx context.Context, productID uint) (*dto.ProductAvailabilityResponse, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperror.Storage("availability.forProduct", err)
	}
	if p == nil {
		return nil, nil
	}

	composition, err := s.products.FindComposition(ctx, productID)
	if err != nil {
		return nil, apperror.Storage("availability.forProduct", err)
	}

	stocks, err := s.stocksFor(ctx, composition)
	if err != nil {
		return nil, apperror.Storage("availability.forProduct", err)
	}

	resp := &dto.ProductAvailabilityResponse{
		ProductWithCompositionResponse: *productToResponse(p, composition),
		QuantityAvailable:              producibleQuantity(p.ID, composition, stocks),
	}
	return resp, nil
}

// ForAll computes availability for every product with exactly three store
// round-trips: products, all composition rows, and one batched article fetch
// over the union of referenced ids. Per-row article lookups would dominate
// cost at scale. The result is cached in Redis until the next stock write.
func (s *availabilityService) ForAll(ctx context.Context) ([]dto.ProductAvailabilityResponse, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		return cached, nil
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperror.Storage("availability.forAll", err)
	}
	compositions, err := s.products.ListCompositions(ctx)
	if err != nil {
		return nil, apperror.Storage("availability.forAll", err)
	}

	byProduct := make(map[uint][]model.ArticleOnProduct)
	for _, row := range compositions {
		byProduct[row.ProductID] = append(byProduct[row.ProductID], row)
	}

	stocks, err := s.stocksFor(ctx, compositions)
	if err != nil {
		return nil, apperror.Storage("availability.forAll", err)
	}

	out := make([]dto.ProductAvailabilityResponse, 0, len(products))
	for i := range products {
		p := &products[i]
		composition := byProduct[p.ID]
		out = append(out, dto.ProductAvailabilityResponse{
			ProductWithCompositionResponse: *productToResponse(p, composition),
			QuantityAvailable:              producibleQuantity(p.ID, composition, stocks),
		})
	}

	s.cache.Set(ctx, out)
	return out, nil
}

// stocksFor fetches the union of referenced article ids in one call and
// returns a stock-by-id map.
func (s *availabilityService) stocksFor(ctx context.Context, composition []model.ArticleOnProduct) (map[uint]int, error) {
	idSet := make(map[uint]bool, len(composition))
	ids := make([]uint, 0, len(composition))
	for _, row := range composition {
		if !idSet[row.ArticleID] {
			idSet[row.ArticleID] = true
			ids = append(ids, row.ArticleID)
		}
	}

	articles, err := s.articles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	stocks := make(map[uint]int, len(articles))
	for _, a := range articles {
		stocks[a.ID] = a.AvailableStock
	}
	return stocks, nil
}

// producibleQuantity is min over the recipe of floor(stock/quantity).
// An entry whose article is no longer resolvable counts as 0 — a breach the
// product store should have prevented, so it is logged rather than fatal.
func producibleQuantity(productID uint, composition []model.ArticleOnProduct, stocks map[uint]int) int {
	if len(composition) == 0 {
		return 0
	}

	quantity := math.MaxInt
	for _, row := range composition {
		stock, ok := stocks[row.ArticleID]
		if !ok || row.Quantity <= 0 {
			log.Warn().
				Uint("product_id", productID).
				Uint("article_id", row.ArticleID).
				Msg("composition references an unresolvable article; availability forced to 0")
			return 0
		}
		if ratio := stock / row.Quantity; ratio < quantity {
			quantity = ratio
		}
	}
	if quantity < 0 {
		// negative stock from overdraft — nothing producible
		return 0
	}
	return quantity
}
