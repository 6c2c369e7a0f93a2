package service_test

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/tiagostutz/demo-warehouse-software/internal/dto"
	"github.com/tiagostutz/demo-warehouse-software/internal/model"

	"gorm.io/gorm"
)

// ── In-memory ArticleRepository stub ─────────────────────────────────────────

type stubArticleRepo struct {
	mu             sync.Mutex
	nextID         uint
	articles       map[uint]*model.Article
	findByIDsCalls int
}

func newStubArticleRepo() *stubArticleRepo {
	return &stubArticleRepo{articles: make(map[uint]*model.Article)}
}

// seed inserts an article directly, returning its assigned id.
func (r *stubArticleRepo) seed(identification int64, name string, stock int) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.articles[r.nextID] = &model.Article{
		ID:             r.nextID,
		Identification: identification,
		Name:           name,
		AvailableStock: stock,
	}
	return r.nextID
}

func (r *stubArticleRepo) stockOf(id uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.articles[id].AvailableStock
}

func (r *stubArticleRepo) FindByID(_ context.Context, id uint) (*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *stubArticleRepo) FindByIdentification(_ context.Context, identification int64) (*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.articles {
		if a.Identification == identification {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubArticleRepo) FindByIDs(_ context.Context, ids []uint) ([]model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findByIDsCalls++
	return r.findLocked(ids), nil
}

func (r *stubArticleRepo) findLocked(ids []uint) []model.Article {
	var out []model.Article
	for _, id := range ids {
		if a, ok := r.articles[id]; ok {
			out = append(out, *a)
		}
	}
	return out
}

func (r *stubArticleRepo) List(_ context.Context, filter dto.ArticleFilter) ([]model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint, 0, len(r.articles))
	for id := range r.articles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []model.Article
	for _, id := range ids {
		a := r.articles[id]
		if filter.Identification != "" && filter.Identification != formatInt64(a.Identification) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubArticleRepo) CreateTx(_ *gorm.DB, a *model.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	cp := *a
	r.articles[a.ID] = &cp
	return nil
}

func (r *stubArticleRepo) UpdateTx(_ *gorm.DB, a *model.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.articles[a.ID] = &cp
	return nil
}

func (r *stubArticleRepo) FindByIDsTx(_ *gorm.DB, ids []uint) ([]model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findByIDsCalls++
	return r.findLocked(ids), nil
}

func (r *stubArticleRepo) FindByIDForUpdateTx(_ *gorm.DB, id uint) (*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *stubArticleRepo) UpdateStockTx(_ *gorm.DB, id uint, newStock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.articles[id].AvailableStock = newStock
	return nil
}

func (r *stubArticleRepo) AdjustStockTx(_ *gorm.DB, id uint, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.articles[id].AvailableStock += delta
	return nil
}

func (r *stubArticleRepo) DB() *gorm.DB { return nil }

func formatInt64(v int64) string { return strconv.FormatInt(v, 10) }

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	mu               sync.Mutex
	nextID           uint
	products         map[uint]*model.Product
	compositions     []model.ArticleOnProduct
	compositionReads int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uint]*model.Product)}
}

func (r *stubProductRepo) seed(name string, rows []model.ArticleOnProduct) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.products[r.nextID] = &model.Product{ID: r.nextID, Name: name}
	for _, row := range rows {
		row.ProductID = r.nextID
		r.compositions = append(r.compositions, row)
	}
	return r.nextID
}

func (r *stubProductRepo) FindByID(_ context.Context, id uint) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.products[id])
	}
	return out, nil
}

func (r *stubProductRepo) FindComposition(_ context.Context, productID uint) ([]model.ArticleOnProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compositionReads++
	var out []model.ArticleOnProduct
	for _, row := range r.compositions {
		if row.ProductID == productID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ListCompositions(_ context.Context) ([]model.ArticleOnProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ArticleOnProduct, len(r.compositions))
	copy(out, r.compositions)
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) CreateCompositionTx(_ *gorm.DB, rows []model.ArticleOnProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compositions = append(r.compositions, rows...)
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── In-memory StockMovementRepository stub ───────────────────────────────────

type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement

	// when set, CreateTx fails with this error
	failCreate error
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uint(len(r.movements) + 1)
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter dto.StockMovementFilter) ([]model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if filter.ArticleID != 0 && m.ArticleID != filter.ArticleID {
			continue
		}
		if filter.ProductID != 0 && (m.ProductID == nil || *m.ProductID != filter.ProductID) {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
