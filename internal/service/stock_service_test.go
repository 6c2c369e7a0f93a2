package service_test

import (
	"context"
	"testing"

	"github.com/tiagostutz/demo-warehouse-software/internal/apperror"
	"github.com/tiagostutz/demo-warehouse-software/internal/dto"
	"github.com/tiagostutz/demo-warehouse-software/internal/model"
	"github.com/tiagostutz/demo-warehouse-software/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockWorld struct {
	articles  *stubArticleRepo
	products  *stubProductRepo
	movements *stubMovementRepo
	stock     service.StockService
}

func newStockWorld() *stockWorld {
	w := &stockWorld{
		articles:  newStubArticleRepo(),
		products:  newStubProductRepo(),
		movements: newStubMovementRepo(),
	}
	w.stock = service.NewStockService(w.articles, w.products, w.movements, nil)
	return w
}

func (w *stockWorld) availability(t *testing.T, productID uint) int {
	t.Helper()
	svc := service.NewAvailabilityService(w.products, w.articles, nil)
	resp, err := svc.ForProduct(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp.QuantityAvailable
}

func TestConsumeDecrementsAvailability(t *testing.T) {
	w := newStockWorld()
	seat := w.articles.seed(905, "seat", 2)
	stool := w.products.seed("stool", []model.ArticleOnProduct{{ArticleID: seat, Quantity: 1}})

	assert.Equal(t, 2, w.availability(t, stool))

	updates, err := w.stock.Consume(context.Background(), stool, 1)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, 2, updates[0].PreviousStock)
	assert.Equal(t, 1, updates[0].NewStock)
	assert.Equal(t, 1, w.availability(t, stool))

	_, err = w.stock.Consume(context.Background(), stool, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, w.availability(t, stool))
}

func TestConsumeQuantityScalesRecipe(t *testing.T) {
	w := newStockWorld()
	leg := w.articles.seed(503, "leg", 20)
	screw := w.articles.seed(804, "screw", 100)
	table := w.products.seed("table", []model.ArticleOnProduct{
		{ArticleID: leg, Quantity: 4},
		{ArticleID: screw, Quantity: 8},
	})

	updates, err := w.stock.Consume(context.Background(), table, 3)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, 8, w.articles.stockOf(leg))    // 20 - 3*4
	assert.Equal(t, 76, w.articles.stockOf(screw)) // 100 - 3*8
}

// consuming n then m must equal consuming n+m in one call.
func TestConsumeIsAdditive(t *testing.T) {
	build := func() (*stockWorld, uint, uint) {
		w := newStockWorld()
		leg := w.articles.seed(503, "leg", 50)
		p := w.products.seed("stool", []model.ArticleOnProduct{{ArticleID: leg, Quantity: 3}})
		return w, p, leg
	}

	split, splitP, splitLeg := build()
	_, err := split.stock.Consume(context.Background(), splitP, 2)
	require.NoError(t, err)
	_, err = split.stock.Consume(context.Background(), splitP, 5)
	require.NoError(t, err)

	once, onceP, onceLeg := build()
	_, err = once.stock.Consume(context.Background(), onceP, 7)
	require.NoError(t, err)

	assert.Equal(t, once.articles.stockOf(onceLeg), split.articles.stockOf(splitLeg))
}

func TestConsumeSharedArticleAcrossProducts(t *testing.T) {
	w := newStockWorld()
	leg := w.articles.seed(503, "leg", 12)
	stool := w.products.seed("stool", []model.ArticleOnProduct{{ArticleID: leg, Quantity: 1}})
	table := w.products.seed("table", []model.ArticleOnProduct{{ArticleID: leg, Quantity: 3}})

	_, err := w.stock.Consume(context.Background(), stool, 2)
	require.NoError(t, err)
	_, err = w.stock.Consume(context.Background(), table, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, w.articles.stockOf(leg)) // 12 - 2*1 - 3*3
}

func TestConsumeRejectsNonPositiveQuantity(t *testing.T) {
	w := newStockWorld()
	p := w.products.seed("stool", nil)

	var ve *apperror.ValidationError
	_, err := w.stock.Consume(context.Background(), p, 0)
	require.ErrorAs(t, err, &ve)
	_, err = w.stock.Consume(context.Background(), p, -2)
	require.ErrorAs(t, err, &ve)
}

func TestConsumeUnknownProduct(t *testing.T) {
	w := newStockWorld()

	_, err := w.stock.Consume(context.Background(), 42, 1)
	var nf *apperror.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Entity)
}

func TestConsumeEmptyRecipeIsNoOp(t *testing.T) {
	w := newStockWorld()
	p := w.products.seed("bare", nil)

	updates, err := w.stock.Consume(context.Background(), p, 3)
	require.NoError(t, err)
	assert.Empty(t, updates)
	assert.Empty(t, w.movements.movements)
}

func TestConsumeIntegrityBreachLeavesStockUntouched(t *testing.T) {
	w := newStockWorld()
	leg := w.articles.seed(503, "leg", 5)
	p := w.products.seed("broken", []model.ArticleOnProduct{
		{ArticleID: leg, Quantity: 1},
		{ArticleID: 999, Quantity: 2},
	})

	_, err := w.stock.Consume(context.Background(), p, 1)
	var ri *apperror.ReferentialIntegrityError
	require.ErrorAs(t, err, &ri)
	assert.Equal(t, uint(999), ri.ArticleID)

	// every article resolved before any write: no partial decrement
	assert.Equal(t, 5, w.articles.stockOf(leg))
	assert.Empty(t, w.movements.movements)
}

func TestConsumeAllowsOverdraft(t *testing.T) {
	w := newStockWorld()
	leg := w.articles.seed(503, "leg", 2)
	p := w.products.seed("stool", []model.ArticleOnProduct{{ArticleID: leg, Quantity: 1}})

	updates, err := w.stock.Consume(context.Background(), p, 5)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, -3, updates[0].NewStock)
	assert.Equal(t, -3, w.articles.stockOf(leg))
}

func TestConsumeRecordsMovements(t *testing.T) {
	w := newStockWorld()
	leg := w.articles.seed(503, "leg", 20)
	screw := w.articles.seed(804, "screw", 100)
	table := w.products.seed("table", []model.ArticleOnProduct{
		{ArticleID: leg, Quantity: 4},
		{ArticleID: screw, Quantity: 8},
	})

	_, err := w.stock.Consume(context.Background(), table, 2)
	require.NoError(t, err)

	svc := w.stock
	recorded, err := svc.ListMovements(context.Background(), dto.StockMovementFilter{ProductID: table})
	require.NoError(t, err)
	require.Len(t, recorded, 2)
	for _, m := range recorded {
		assert.Equal(t, model.MovementProduction, m.Type)
		require.NotNil(t, m.ProductID)
		assert.Equal(t, table, *m.ProductID)
	}

	legOnly, err := svc.ListMovements(context.Background(), dto.StockMovementFilter{ArticleID: leg})
	require.NoError(t, err)
	require.Len(t, legOnly, 1)
	assert.Equal(t, -8, legOnly[0].Quantity) // 2 * 4, signed as a decrement
	assert.Equal(t, 20, legOnly[0].StockBefore)
	assert.Equal(t, 12, legOnly[0].StockAfter)
}
