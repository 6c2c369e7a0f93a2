package repository

import (
	"context"
	"errors"

	"github.com/tiagostutz/demo-warehouse-software/internal/dto"
	"github.com/tiagostutz/demo-warehouse-software/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository defines the data access contract for articles.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
//
// Lookups report absence as (nil, nil) — zero rows is not an error.
type ArticleRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Article, error)
	FindByIdentification(ctx context.Context, identification int64) (*model.Article, error)
	// FindByIDs fetches the union of the given ids in a single query.
	FindByIDs(ctx context.Context, ids []uint) ([]model.Article, error)
	List(ctx context.Context, filter dto.ArticleFilter) ([]model.Article, error)

	// Used inside transactions — callers must pass the tx instance.
	CreateTx(tx *gorm.DB, a *model.Article) error
	UpdateTx(tx *gorm.DB, a *model.Article) error
	FindByIDsTx(tx *gorm.DB, ids []uint) ([]model.Article, error)
	// FindByIDForUpdateTx row-locks the article until the tx commits or aborts.
	FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Article, error)
	UpdateStockTx(tx *gorm.DB, id uint, newStock int) error
	// AdjustStockTx applies available_stock += delta atomically.
	AdjustStockTx(tx *gorm.DB, id uint, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type articleRepo struct{ db *gorm.DB }

func NewArticleRepository(db *gorm.DB) ArticleRepository { return &articleRepo{db: db} }

func (r *articleRepo) FindByID(ctx context.Context, id uint) (*model.Article, error) {
	var a model.Article
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *articleRepo) FindByIdentification(ctx context.Context, identification int64) (*model.Article, error) {
	var a model.Article
	err := r.db.WithContext(ctx).Where("identification = ?", identification).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *articleRepo) FindByIDs(ctx context.Context, ids []uint) ([]model.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var articles []model.Article
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&articles).Error
	return articles, err
}

func (r *articleRepo) List(ctx context.Context, filter dto.ArticleFilter) ([]model.Article, error) {
	q := r.db.WithContext(ctx).Model(&model.Article{})
	if filter.Identification != "" {
		q = q.Where("identification = ?", filter.Identification)
	}
	var articles []model.Article
	err := q.Order("id ASC").Find(&articles).Error
	return articles, err
}

func (r *articleRepo) CreateTx(tx *gorm.DB, a *model.Article) error {
	return tx.Create(a).Error
}

func (r *articleRepo) UpdateTx(tx *gorm.DB, a *model.Article) error {
	return tx.Save(a).Error
}

func (r *articleRepo) FindByIDsTx(tx *gorm.DB, ids []uint) ([]model.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var articles []model.Article
	err := tx.Where("id IN ?", ids).Find(&articles).Error
	return articles, err
}

func (r *articleRepo) FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Article, error) {
	var a model.Article
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *articleRepo) UpdateStockTx(tx *gorm.DB, id uint, newStock int) error {
	return tx.Model(&model.Article{}).Where("id = ?", id).
		Update("available_stock", newStock).Error
}

func (r *articleRepo) AdjustStockTx(tx *gorm.DB, id uint, delta int) error {
	return tx.Model(&model.Article{}).Where("id = ?", id).
		Update("available_stock", gorm.Expr("available_stock + ?", delta)).Error
}

func (r *articleRepo) DB() *gorm.DB { return r.db }
