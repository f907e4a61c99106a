package category

import (
	"regexp"
	"strings"
	"time"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/schema"
)

const CollectionName = "categories"

type Category struct {
	collection.Envelope
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

var whitespace = regexp.MustCompile(`\s+`)

// Slugify lowercases name and joins words with dashes.
func Slugify(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

func Definition() *collection.Definition[Category] {
	return &collection.Definition[Category]{
		Name: CollectionName,
		Schema: schema.Object("category", map[string]*schema.Property{
			"name":        schema.Text(),
			"slug":        schema.String(),
			"description": schema.String(),
			"icon":        schema.String(),
			"color":       schema.String(),
		}, []string{"name"}),
		Envelope:     func(c *Category) *collection.Envelope { return &c.Envelope },
		SearchFields: func(c *Category) []string { return []string{c.Name, c.Description} },
		Filters: map[string]func(*Category) string{
			"slug": func(c *Category) string { return c.Slug },
		},
		DisplayName: func(c *Category) string { return c.Name },
		Unique:      func(c *Category) string { return c.Slug },
		Defaults: func(p map[string]interface{}, _ time.Time) {
			if s, _ := p["slug"].(string); s == "" {
				name, _ := p["name"].(string)
				p["slug"] = Slugify(name)
			}
			if s, _ := p["icon"].(string); s == "" {
				p["icon"] = "📦"
			}
			if s, _ := p["color"].(string); s == "" {
				p["color"] = "#6366f1"
			}
		},
		Placement:    collection.Append,
		DefaultLimit: collection.DefaultLimit,
	}
}
