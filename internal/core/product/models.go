package product

import (
	"time"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/schema"
)

const CollectionName = "products"

type Product struct {
	collection.Envelope
	Name          string  `json:"name"`
	CategoryID    string  `json:"categoryId"`
	Unit          string  `json:"unit"`
	StockSystem   float64 `json:"stockSystem"`
	StockPhysical float64 `json:"stockPhysical"`
	MinStock      float64 `json:"minStock"`
	Price         float64 `json:"price"`
	Description   string  `json:"description"`
}

// LowStock reports whether the recorded stock has reached the minimum.
func (p *Product) LowStock() bool {
	return p.StockSystem <= p.MinStock
}

func Definition() *collection.Definition[Product] {
	return &collection.Definition[Product]{
		Name: CollectionName,
		Schema: schema.Object("product", map[string]*schema.Property{
			"name":          schema.Text(),
			"categoryId":    schema.Text(),
			"unit":          schema.Text(),
			"stockSystem":   schema.NonNegative(),
			"stockPhysical": schema.NonNegative(),
			"minStock":      schema.NonNegative(),
			"price":         schema.NonNegative(),
			"description":   schema.String(),
		}, []string{"name", "categoryId", "unit", "stockSystem", "minStock", "price"}),
		Envelope:     func(p *Product) *collection.Envelope { return &p.Envelope },
		SearchFields: func(p *Product) []string { return []string{p.Name, p.Description} },
		Filters: map[string]func(*Product) string{
			"categoryId": func(p *Product) string { return p.CategoryID },
			"unit":       func(p *Product) string { return p.Unit },
		},
		Flags: map[string]func(*Product, time.Time) bool{
			"lowStock": func(p *Product, _ time.Time) bool { return p.LowStock() },
		},
		DisplayName: func(p *Product) string { return p.Name },
		Price:       func(p *Product) float64 { return p.Price },
		Defaults: func(p map[string]interface{}, _ time.Time) {
			if _, ok := p["stockPhysical"]; !ok {
				p["stockPhysical"] = p["stockSystem"]
			}
		},
		Placement:    collection.Append,
		DefaultLimit: collection.DefaultLimit,
	}
}
