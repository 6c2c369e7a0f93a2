package model

// ArticleOnProduct links a product to one article of its recipe: producing one
// unit of the product consumes Quantity units of the article. At most one row
// per (product, article) pair. Rows are created together with the product and
// never change afterwards.
type ArticleOnProduct struct {
	ProductID uint `gorm:"primaryKey;autoIncrement:false"`
	ArticleID uint `gorm:"primaryKey;autoIncrement:false"`
	Quantity  int  `gorm:"not null"`
}

// TableName overrides GORM's default pluralization (article_on_products).
func (ArticleOnProduct) TableName() string { return "articles_on_products" }
