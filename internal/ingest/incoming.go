// Package ingest implements the warehouse data ingestion pipeline: JSON files
// dropped into an incoming folder are parsed, loaded through the article and
// product services, and moved to a success or fail folder.
//
// The file formats are the legacy exchange formats, all values string-typed:
//
//	inventory.json: {"inventory":[{"art_id":"1","name":"leg","stock":"12"}]}
//	products.json:  {"products":[{"name":"chair","price":"24.90",
//	                  "contain_articles":[{"art_id":"1","amount_of":"4"}]}]}
//
// art_id is the article's business identification, not its database id.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
)

// IncomingArticle is one entry of the inventory file.
type IncomingArticle struct {
	ArtID string `json:"art_id"`
	Name  string `json:"name"`
	Stock string `json:"stock"`
}

// IncomingProductArticle is one recipe entry of an incoming product.
type IncomingProductArticle struct {
	ArtID    string `json:"art_id"`
	AmountOf string `json:"amount_of"`
}

// IncomingProduct is one entry of the products file.
type IncomingProduct struct {
	Name            string                   `json:"name"`
	Price           string                   `json:"price"`
	ContainArticles []IncomingProductArticle `json:"contain_articles"`
}

type inventoryFile struct {
	Inventory []IncomingArticle `json:"inventory"`
}

type productsFile struct {
	Products []IncomingProduct `json:"products"`
}

// ParseInventory decodes an inventory file.
func ParseInventory(r io.Reader) ([]IncomingArticle, error) {
	var f inventoryFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding inventory file: %w", err)
	}
	return f.Inventory, nil
}

// ParseProducts decodes a products file.
func ParseProducts(r io.Reader) ([]IncomingProduct, error) {
	var f productsFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding products file: %w", err)
	}
	return f.Products, nil
}

// Identification parses the string-typed business code.
func (a IncomingArticle) Identification() (int64, error) {
	v, err := strconv.ParseInt(a.ArtID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("art_id %q is not a valid identification: %w", a.ArtID, err)
	}
	return v, nil
}

// StockValue parses the string-typed stock count.
func (a IncomingArticle) StockValue() (int, error) {
	v, err := strconv.Atoi(a.Stock)
	if err != nil {
		return 0, fmt.Errorf("stock %q of art_id %s is not an integer: %w", a.Stock, a.ArtID, err)
	}
	return v, nil
}

// PriceValue parses the string-typed price.
func (p IncomingProduct) PriceValue() (decimal.Decimal, error) {
	v, err := decimal.NewFromString(p.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q of product %q is not a decimal: %w", p.Price, p.Name, err)
	}
	return v, nil
}

// Identification parses the string-typed business code of a recipe entry.
func (pa IncomingProductArticle) Identification() (int64, error) {
	v, err := strconv.ParseInt(pa.ArtID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("art_id %q is not a valid identification: %w", pa.ArtID, err)
	}
	return v, nil
}

// Amount parses the string-typed per-unit quantity.
func (pa IncomingProductArticle) Amount() (int, error) {
	v, err := strconv.Atoi(pa.AmountOf)
	if err != nil {
		return 0, fmt.Errorf("amount_of %q of art_id %s is not an integer: %w", pa.AmountOf, pa.ArtID, err)
	}
	return v, nil
}
