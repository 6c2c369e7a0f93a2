package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/tiagostutz/demo-warehouse-software/internal/dto"
	"github.com/tiagostutz/demo-warehouse-software/internal/service"

	"github.com/rs/zerolog/log"
)

// Loader pushes parsed incoming files through the store services. It talks to
// the stores directly — the ingest process carries its own DB handle rather
// than going through the HTTP API.
type Loader struct {
	articles service.ArticleService
	products service.ProductService
}

func NewLoader(articles service.ArticleService, products service.ProductService) *Loader {
	return &Loader{articles: articles, products: products}
}

// LoadInventory upserts every article of an inventory file. Articles are
// matched by identification so re-delivering a file is idempotent: known
// codes update stock and name, unknown ones insert.
func (l *Loader) LoadInventory(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	articles, err := ParseInventory(f)
	if err != nil {
		return err
	}

	for _, in := range articles {
		identification, err := in.Identification()
		if err != nil {
			return err
		}
		stock, err := in.StockValue()
		if err != nil {
			return err
		}

		req := dto.UpsertArticleRequest{
			Identification: dto.Identification(identification),
			Name:           in.Name,
			AvailableStock: stock,
		}
		existing, err := l.articles.GetByIdentification(ctx, identification)
		if err != nil {
			return err
		}
		if existing != nil {
			req.ID = existing.ID
		}

		if _, err := l.articles.Upsert(ctx, req); err != nil {
			return fmt.Errorf("upserting article %d: %w", identification, err)
		}
	}

	log.Info().Int("articles", len(articles)).Str("file", path).Msg("inventory file ingested")
	return nil
}

// LoadProducts creates every product of a products file, resolving each
// recipe entry's art_id to the article's database id. A recipe referencing an
// unknown code fails the whole file — nothing of it is loaded beyond the
// products already committed.
func (l *Loader) LoadProducts(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	products, err := ParseProducts(f)
	if err != nil {
		return err
	}

	for _, in := range products {
		price, err := in.PriceValue()
		if err != nil {
			return err
		}

		assignments := make([]dto.ArticleAssignment, 0, len(in.ContainArticles))
		for _, pa := range in.ContainArticles {
			identification, err := pa.Identification()
			if err != nil {
				return err
			}
			amount, err := pa.Amount()
			if err != nil {
				return err
			}
			article, err := l.articles.GetByIdentification(ctx, identification)
			if err != nil {
				return err
			}
			if article == nil {
				return fmt.Errorf("product %q references unknown art_id %d", in.Name, identification)
			}
			assignments = append(assignments, dto.ArticleAssignment{
				ArticleID: article.ID,
				Quantity:  amount,
			})
		}

		req := dto.UpsertProductRequest{Name: in.Name, Price: price, Articles: assignments}
		if _, err := l.products.Upsert(ctx, req); err != nil {
			return fmt.Errorf("creating product %q: %w", in.Name, err)
		}
	}

	log.Info().Int("products", len(products)).Str("file", path).Msg("products file ingested")
	return nil
}
