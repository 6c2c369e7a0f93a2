package service

import (
	"context"
	"errors"

	"github.com/tiagostutz/demo-warehouse-software/internal/apperror"
	"github.com/tiagostutz/demo-warehouse-software/internal/dto"
	"github.com/tiagostutz/demo-warehouse-software/internal/model"
	"github.com/tiagostutz/demo-warehouse-software/internal/repository"

	"gorm.io/gorm"
)

// ArticleService is the business contract for stock-keeping records.
// Lookups report absence as (nil, nil); only infrastructure failures and
// constraint violations come back as errors.
type ArticleService interface {
	Get(ctx context.Context, id uint) (*dto.ArticleResponse, error)
	GetByIdentification(ctx context.Context, identification int64) (*dto.ArticleResponse, error)
	List(ctx context.Context, filter dto.ArticleFilter) ([]dto.ArticleResponse, error)
	Upsert(ctx context.Context, req dto.UpsertArticleRequest) (*dto.ArticleResponse, error)
	AdjustStock(ctx context.Context, id uint, req dto.AdjustStockRequest) (*dto.ArticleResponse, error)
}

type articleService struct {
	repo      repository.ArticleRepository
	movements repository.StockMovementRepository
	cache     *AvailabilityCache
}

func NewArticleService(repo repository.ArticleRepository, movements repository.StockMovementRepository, cache *AvailabilityCache) ArticleService {
	return &articleService{repo: repo, movements: movements, cache: cache}
}

func (s *articleService) Get(ctx context.Context, id uint) (*dto.ArticleResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage("article.get", err)
	}
	if a == nil {
		return nil, nil
	}
	return articleToResponse(a), nil
}

func (s *articleService) GetByIdentification(ctx context.Context, identification int64) (*dto.ArticleResponse, error) {
	a, err := s.repo.FindByIdentification(ctx, identification)
	if err != nil {
		return nil, apperror.Storage("article.getByIdentification", err)
	}
	if a == nil {
		return nil, nil
	}
	return articleToResponse(a), nil
}

func (s *articleService) List(ctx context.Context, filter dto.ArticleFilter) ([]dto.ArticleResponse, error) {
	articles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Storage("article.list", err)
	}
	out := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		out = append(out, *articleToResponse(&articles[i]))
	}
	return out, nil
}

// Upsert inserts when req.ID is 0 and updates name, identification and
// availableStock otherwise. An identification already owned by a different
// article is a ConstraintViolation, checked up front and backed by the
// unique index for concurrent upserts.
func (s *articleService) Upsert(ctx context.Context, req dto.UpsertArticleRequest) (*dto.ArticleResponse, error) {
	identification := int64(req.Identification)

	existing, err := s.repo.FindByIdentification(ctx, identification)
	if err != nil {
		return nil, apperror.Storage("article.upsert", err)
	}
	if existing != nil && existing.ID != req.ID {
		return nil, &apperror.ConstraintViolationError{Field: "identification", Value: identification}
	}

	if req.ID == 0 {
		a := &model.Article{
			Identification: identification,
			Name:           req.Name,
			AvailableStock: req.AvailableStock,
		}
		txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.repo.CreateTx(tx, a); err != nil {
				return err
			}
			return s.recordUpsertMovementTx(tx, a.ID, 0, a.AvailableStock)
		})
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrDuplicatedKey) {
				return nil, &apperror.ConstraintViolationError{Field: "identification", Value: identification}
			}
			return nil, apperror.Storage("article.upsert", txErr)
		}
		s.cache.Invalidate(ctx)
		return articleToResponse(a), nil
	}

	a, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, apperror.Storage("article.upsert", err)
	}
	if a == nil {
		return nil, &apperror.NotFoundError{Entity: "article", ID: req.ID}
	}

	previousStock := a.AvailableStock
	a.Identification = identification
	a.Name = req.Name
	a.AvailableStock = req.AvailableStock
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, a); err != nil {
			return err
		}
		return s.recordUpsertMovementTx(tx, a.ID, previousStock, a.AvailableStock)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, &apperror.ConstraintViolationError{Field: "identification", Value: identification}
		}
		return nil, apperror.Storage("article.upsert", txErr)
	}
	s.cache.Invalidate(ctx)
	return articleToResponse(a), nil
}

// recordUpsertMovementTx keeps the audit trail complete when an upsert moves
// stock directly instead of going through the consumption engine. Written in
// the same transaction as the article row, like the other movement writers.
func (s *articleService) recordUpsertMovementTx(tx *gorm.DB, articleID uint, before, after int) error {
	if before == after {
		return nil
	}
	return s.movements.CreateTx(tx, &model.StockMovement{
		ArticleID:   articleID,
		Type:        model.MovementUpsert,
		Quantity:    after - before,
		StockBefore: before,
		StockAfter:  after,
	})
}

// AdjustStock applies a relative delta and records the movement in the same
// transaction. Meant for manual corrections; production runs go through the
// consumption engine instead.
func (s *articleService) AdjustStock(ctx context.Context, id uint, req dto.AdjustStockRequest) (*dto.ArticleResponse, error) {
	var updated *model.Article

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		a, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return &apperror.NotFoundError{Entity: "article", ID: id}
		}

		newStock := a.AvailableStock + req.Delta
		if err := s.repo.AdjustStockTx(tx, id, req.Delta); err != nil {
			return err
		}
		if err := s.movements.CreateTx(tx, &model.StockMovement{
			ArticleID:   id,
			Type:        model.MovementAdjustment,
			Quantity:    req.Delta,
			StockBefore: a.AvailableStock,
			StockAfter:  newStock,
		}); err != nil {
			return err
		}

		a.AvailableStock = newStock
		updated = a
		return nil
	})
	if txErr != nil {
		var nf *apperror.NotFoundError
		if errors.As(txErr, &nf) {
			return nil, txErr
		}
		return nil, apperror.Storage("article.adjustStock", txErr)
	}

	s.cache.Invalidate(ctx)
	return articleToResponse(updated), nil
}

func articleToResponse(a *model.Article) *dto.ArticleResponse {
	return &dto.ArticleResponse{
		ID:             a.ID,
		Identification: dto.Identification(a.Identification),
		Name:           a.Name,
		AvailableStock: a.AvailableStock,
	}
}
