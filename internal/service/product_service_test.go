package service_test

import (
	"context"
	"testing"

	"github.com/tiagostutz/demo-warehouse-software/internal/apperror"
	"github.com/tiagostutz/demo-warehouse-software/internal/dto"
	"github.com/tiagostutz/demo-warehouse-software/internal/model"
	"github.com/tiagostutz/demo-warehouse-software/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductUpsertCreatesWithComposition(t *testing.T) {
	articles := newStubArticleRepo()
	leg := articles.seed(503, "leg", 12)
	screw := articles.seed(804, "screw", 50)
	products := newStubProductRepo()
	svc := service.NewProductService(products, articles, nil)

	resp, err := svc.Upsert(context.Background(), dto.UpsertProductRequest{
		Name:  "dining table",
		Price: decimal.NewFromFloat(129.90),
		Articles: []dto.ArticleAssignment{
			{ArticleID: leg, Quantity: 4},
			{ArticleID: screw, Quantity: 8},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "dining table", resp.Name)
	require.Len(t, resp.Articles, 2)
	assert.Equal(t, dto.CompositionEntry{ArticleID: leg, Quantity: 4}, resp.Articles[0])
	assert.Equal(t, dto.CompositionEntry{ArticleID: screw, Quantity: 8}, resp.Articles[1])
}

func TestProductUpsertDeduplicatesFirstWins(t *testing.T) {
	articles := newStubArticleRepo()
	a := articles.seed(503, "leg", 12)
	b := articles.seed(804, "screw", 50)
	products := newStubProductRepo()
	svc := service.NewProductService(products, articles, nil)

	resp, err := svc.Upsert(context.Background(), dto.UpsertProductRequest{
		Name:  "stool",
		Price: decimal.NewFromInt(20),
		Articles: []dto.ArticleAssignment{
			{ArticleID: a, Quantity: 2},
			{ArticleID: b, Quantity: 1},
			{ArticleID: a, Quantity: 6}, // duplicate, ignored
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Articles, 2)
	assert.Equal(t, dto.CompositionEntry{ArticleID: a, Quantity: 2}, resp.Articles[0])
	assert.Equal(t, dto.CompositionEntry{ArticleID: b, Quantity: 1}, resp.Articles[1])
}

func TestProductUpsertUnknownArticleAbortsAtomically(t *testing.T) {
	articles := newStubArticleRepo()
	known := articles.seed(503, "leg", 12)
	products := newStubProductRepo()
	svc := service.NewProductService(products, articles, nil)

	_, err := svc.Upsert(context.Background(), dto.UpsertProductRequest{
		Name:  "ghost chair",
		Price: decimal.NewFromInt(10),
		Articles: []dto.ArticleAssignment{
			{ArticleID: known, Quantity: 1},
			{ArticleID: 999, Quantity: 2},
		},
	})
	var ri *apperror.ReferentialIntegrityError
	require.ErrorAs(t, err, &ri)
	assert.Equal(t, uint(999), ri.ArticleID)

	// nothing survives the abort
	remaining, listErr := svc.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, remaining)
	assert.Empty(t, products.compositions)
}

func TestProductUpsertRejectsNonPositiveQuantity(t *testing.T) {
	articles := newStubArticleRepo()
	leg := articles.seed(503, "leg", 12)
	screw := articles.seed(804, "screw", 50)
	products := newStubProductRepo()
	svc := service.NewProductService(products, articles, nil)

	for _, quantity := range []int{0, -2} {
		_, err := svc.Upsert(context.Background(), dto.UpsertProductRequest{
			Name:  "broken stool",
			Price: decimal.NewFromInt(20),
			Articles: []dto.ArticleAssignment{
				{ArticleID: leg, Quantity: 1},
				{ArticleID: screw, Quantity: quantity},
			},
		})
		var ve *apperror.ValidationError
		require.ErrorAs(t, err, &ve)
	}

	// rejected before anything is written
	remaining, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Empty(t, products.compositions)
}

func TestProductUpsertUpdateTouchesNameAndPriceOnly(t *testing.T) {
	articles := newStubArticleRepo()
	leg := articles.seed(503, "leg", 12)
	products := newStubProductRepo()
	id := products.seed("stool", []model.ArticleOnProduct{{ArticleID: leg, Quantity: 3}})
	svc := service.NewProductService(products, articles, nil)

	resp, err := svc.Upsert(context.Background(), dto.UpsertProductRequest{
		ID:    id,
		Name:  "bar stool",
		Price: decimal.NewFromInt(35),
		Articles: []dto.ArticleAssignment{
			{ArticleID: leg, Quantity: 99}, // recipe is immutable, ignored
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "bar stool", resp.Name)
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, dto.CompositionEntry{ArticleID: leg, Quantity: 3}, resp.Articles[0])
}

func TestProductUpsertUpdateUnknownID(t *testing.T) {
	svc := service.NewProductService(newStubProductRepo(), newStubArticleRepo(), nil)

	_, err := svc.Upsert(context.Background(), dto.UpsertProductRequest{
		ID:    7,
		Name:  "nothing",
		Price: decimal.NewFromInt(1),
	})
	var nf *apperror.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Entity)
}

func TestProductGetAbsentSkipsCompositionFetch(t *testing.T) {
	products := newStubProductRepo()
	svc := service.NewProductService(products, newStubArticleRepo(), nil)

	resp, err := svc.Get(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Zero(t, products.compositionReads)
}

func TestProductGetIncludesComposition(t *testing.T) {
	articles := newStubArticleRepo()
	leg := articles.seed(503, "leg", 12)
	products := newStubProductRepo()
	id := products.seed("stool", []model.ArticleOnProduct{{ArticleID: leg, Quantity: 3}})
	svc := service.NewProductService(products, articles, nil)

	resp, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "stool", resp.Name)
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, dto.CompositionEntry{ArticleID: leg, Quantity: 3}, resp.Articles[0])
}
