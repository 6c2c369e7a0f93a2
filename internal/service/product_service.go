package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tiagostutz/demo-warehouse-software/internal/apperror"
	"github.com/tiagostutz/demo-warehouse-software/internal/dto"
	"github.com/tiagostutz/demo-warehouse-software/internal/model"
	"github.com/tiagostutz/demo-warehouse-software/internal/repository"

	"gorm.io/gorm"
)

// ProductService is the business contract for products and their recipes.
type ProductService interface {
	Get(ctx context.Context, id uint) (*dto.ProductWithCompositionResponse, error)
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Upsert(ctx context.Context, req dto.UpsertProductRequest) (*dto.ProductWithCompositionResponse, error)
}

type productService struct {
	repo     repository.ProductRepository
	articles repository.ArticleRepository
	cache    *AvailabilityCache
}

func NewProductService(repo repository.ProductRepository, articles repository.ArticleRepository, cache *AvailabilityCache) ProductService {
	return &productService{repo: repo, articles: articles, cache: cache}
}

// Get fetches the product row first and only then its composition rows —
// an absent product skips the second fetch entirely.
func (s *productService) Get(ctx context.Context, id uint) (*dto.ProductWithCompositionResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage("product.get", err)
	}
	if p == nil {
		return nil, nil
	}

	composition, err := s.repo.FindComposition(ctx, id)
	if err != nil {
		return nil, apperror.Storage("product.get", err)
	}
	return productToResponse(p, composition), nil
}

func (s *productService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Storage("product.list", err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, dto.ProductResponse{
			ID:    products[i].ID,
			Name:  products[i].Name,
			Price: products[i].Price,
		})
	}
	return out, nil
}

// Upsert creates the product together with its deduplicated recipe in one
// transaction, or updates name/price only when req.ID is set. When any
// referenced article is missing the transaction aborts and zero rows survive.
func (s *productService) Upsert(ctx context.Context, req dto.UpsertProductRequest) (*dto.ProductWithCompositionResponse, error) {
	if req.ID != 0 {
		return s.update(ctx, req)
	}

	assignments := dedupeAssignments(req.Articles)

	// Per-unit quantities must be positive; enforced here, not just at the
	// HTTP binding, so the ingest loader cannot persist a recipe the
	// consumption engine would turn into a stock increase.
	for _, a := range assignments {
		if a.Quantity <= 0 {
			return nil, &apperror.ValidationError{
				Msg: fmt.Sprintf("quantity for article %d must be a positive integer", a.ArticleID),
			}
		}
	}

	p := &model.Product{Name: req.Name, Price: req.Price}
	var rows []model.ArticleOnProduct

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Validate the whole recipe before writing anything: one batched
		// lookup for the union of referenced article ids.
		ids := make([]uint, 0, len(assignments))
		for _, a := range assignments {
			ids = append(ids, a.ArticleID)
		}
		found, err := s.articles.FindByIDsTx(tx, ids)
		if err != nil {
			return err
		}
		known := make(map[uint]bool, len(found))
		for _, a := range found {
			known[a.ID] = true
		}
		for _, a := range assignments {
			if !known[a.ArticleID] {
				return &apperror.ReferentialIntegrityError{ArticleID: a.ArticleID}
			}
		}

		if err := s.repo.CreateTx(tx, p); err != nil {
			return err
		}
		rows = make([]model.ArticleOnProduct, 0, len(assignments))
		for _, a := range assignments {
			rows = append(rows, model.ArticleOnProduct{
				ProductID: p.ID,
				ArticleID: a.ArticleID,
				Quantity:  a.Quantity,
			})
		}
		return s.repo.CreateCompositionTx(tx, rows)
	})
	if txErr != nil {
		var ri *apperror.ReferentialIntegrityError
		if errors.As(txErr, &ri) {
			return nil, txErr
		}
		return nil, apperror.Storage("product.upsert", txErr)
	}

	s.cache.Invalidate(ctx)
	return productToResponse(p, rows), nil
}

// update touches name and price only; the recipe is immutable after creation.
func (s *productService) update(ctx context.Context, req dto.UpsertProductRequest) (*dto.ProductWithCompositionResponse, error) {
	p, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, apperror.Storage("product.upsert", err)
	}
	if p == nil {
		return nil, &apperror.NotFoundError{Entity: "product", ID: req.ID}
	}

	p.Name = req.Name
	p.Price = req.Price
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperror.Storage("product.upsert", err)
	}

	composition, err := s.repo.FindComposition(ctx, p.ID)
	if err != nil {
		return nil, apperror.Storage("product.upsert", err)
	}
	return productToResponse(p, composition), nil
}

// dedupeAssignments collapses duplicate article references to the first
// occurrence — input order is significant.
func dedupeAssignments(in []dto.ArticleAssignment) []dto.ArticleAssignment {
	seen := make(map[uint]bool, len(in))
	out := make([]dto.ArticleAssignment, 0, len(in))
	for _, a := range in {
		if seen[a.ArticleID] {
			continue
		}
		seen[a.ArticleID] = true
		out = append(out, a)
	}
	return out
}

func productToResponse(p *model.Product, composition []model.ArticleOnProduct) *dto.ProductWithCompositionResponse {
	resp := &dto.ProductWithCompositionResponse{
		ProductResponse: dto.ProductResponse{ID: p.ID, Name: p.Name, Price: p.Price},
		Articles:        make([]dto.CompositionEntry, 0, len(composition)),
	}
	for _, row := range composition {
		resp.Articles = append(resp.Articles, dto.CompositionEntry{
			ArticleID: row.ArticleID,
			Quantity:  row.Quantity,
		})
	}
	return resp
}
