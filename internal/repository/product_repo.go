package repository

import (
	"context"
	"errors"

	"github.com/tiagostutz/demo-warehouse-software/internal/model"

	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products and their
// composition rows. Composition rows only exist through product creation and
// are never modified afterwards.
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	FindComposition(ctx context.Context, productID uint) ([]model.ArticleOnProduct, error)
	// ListCompositions returns every composition row of every product, used by
	// the availability calculator to avoid one fetch per product.
	ListCompositions(ctx context.Context) ([]model.ArticleOnProduct, error)
	Update(ctx context.Context, p *model.Product) error

	// Used inside transactions — callers must pass the tx instance.
	CreateTx(tx *gorm.DB, p *model.Product) error
	CreateCompositionTx(tx *gorm.DB, rows []model.ArticleOnProduct) error

	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindComposition(ctx context.Context, productID uint) ([]model.ArticleOnProduct, error) {
	var rows []model.ArticleOnProduct
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).
		Order("article_id ASC").Find(&rows).Error
	return rows, err
}

func (r *productRepo) ListCompositions(ctx context.Context) ([]model.ArticleOnProduct, error) {
	var rows []model.ArticleOnProduct
	err := r.db.WithContext(ctx).Order("product_id ASC, article_id ASC").Find(&rows).Error
	return rows, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) CreateCompositionTx(tx *gorm.DB, rows []model.ArticleOnProduct) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
