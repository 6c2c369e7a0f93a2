package service

import (
	"context"
	"errors"
	"sort"

	"github.com/tiagostutz/demo-warehouse-software/internal/apperror"
	"github.com/tiagostutz/demo-warehouse-software/internal/dto"
	"github.com/tiagostutz/demo-warehouse-software/internal/model"
	"github.com/tiagostutz/demo-warehouse-software/internal/repository"

	"gorm.io/gorm"
)

// StockService is the consumption engine: it decrements article stock when a
// quantity of a product is produced, atomically across the whole recipe.
type StockService interface {
	Consume(ctx context.Context, productID uint, quantity int) ([]dto.ArticleStockUpdate, error)
	ListMovements(ctx context.Context, filter dto.StockMovementFilter) ([]dto.StockMovementResponse, error)
}

type stockService struct {
	articles  repository.ArticleRepository
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	cache     *AvailabilityCache
}

func NewStockService(
	articles repository.ArticleRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	cache *AvailabilityCache,
) StockService {
	return &stockService{articles: articles, products: products, movements: movements, cache: cache}
}

// Consume applies producing `quantity` units of the product: for each recipe
// entry the referenced article loses quantity*quantityPerUnit units of stock.
//
// All entries are updated in one transaction. Articles are re-read under
// SELECT ... FOR UPDATE, locked in ascending id order so that two concurrent
// runs over overlapping recipes cannot deadlock and cannot lose updates: the
// net effect of N concurrent consumptions equals N sequential ones. Stock may
// legally go negative — overdraft policy belongs to the calling layer.
// A lock conflict surfaces as StorageError; retrying the whole call is safe
// since the decrements are derived, not accumulated.
func (s *stockService) Consume(ctx context.Context, productID uint, quantity int) ([]dto.ArticleStockUpdate, error) {
	if quantity <= 0 {
		return nil, &apperror.ValidationError{Msg: "quantity must be a positive integer"}
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperror.Storage("stock.consume", err)
	}
	if p == nil {
		return nil, &apperror.NotFoundError{Entity: "product", ID: productID}
	}

	composition, err := s.products.FindComposition(ctx, productID)
	if err != nil {
		return nil, apperror.Storage("stock.consume", err)
	}

	sort.Slice(composition, func(i, j int) bool {
		return composition[i].ArticleID < composition[j].ArticleID
	})

	var updates []dto.ArticleStockUpdate
	txErr := runTx(ctx, s.articles.DB(), func(tx *gorm.DB) error {
		// Lock and re-read every article first; only start writing once the
		// whole recipe resolved, so an integrity breach aborts with no
		// partial decrement.
		locked := make([]*model.Article, len(composition))
		for i, row := range composition {
			a, err := s.articles.FindByIDForUpdateTx(tx, row.ArticleID)
			if err != nil {
				return err
			}
			if a == nil {
				return &apperror.ReferentialIntegrityError{ArticleID: row.ArticleID}
			}
			locked[i] = a
		}

		updates = make([]dto.ArticleStockUpdate, 0, len(composition))
		for i, row := range composition {
			a := locked[i]
			decrement := quantity * row.Quantity
			newStock := a.AvailableStock - decrement

			if err := s.articles.UpdateStockTx(tx, a.ID, newStock); err != nil {
				return err
			}
			if err := s.movements.CreateTx(tx, &model.StockMovement{
				ArticleID:   a.ID,
				ProductID:   &productID,
				Type:        model.MovementProduction,
				Quantity:    -decrement,
				StockBefore: a.AvailableStock,
				StockAfter:  newStock,
			}); err != nil {
				return err
			}

			refreshed := *a
			refreshed.AvailableStock = newStock
			updates = append(updates, dto.ArticleStockUpdate{
				Article:       *articleToResponse(&refreshed),
				PreviousStock: a.AvailableStock,
				NewStock:      newStock,
			})
		}
		return nil
	})
	if txErr != nil {
		var ri *apperror.ReferentialIntegrityError
		if errors.As(txErr, &ri) {
			return nil, txErr
		}
		return nil, apperror.Storage("stock.consume", txErr)
	}

	s.cache.Invalidate(ctx)
	return updates, nil
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.StockMovementFilter) ([]dto.StockMovementResponse, error) {
	movements, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, apperror.Storage("stock.listMovements", err)
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.StockMovementResponse{
			ID:          m.ID,
			ArticleID:   m.ArticleID,
			ProductID:   m.ProductID,
			Type:        m.Type,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}
