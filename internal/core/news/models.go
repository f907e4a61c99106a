package news

import (
	"time"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/schema"
)

const CollectionName = "articles"

var Categories = []string{
	"politik", "ekonomi", "olahraga", "teknologi", "kesehatan",
	"hiburan", "pendidikan", "kriminal", "lainnya",
}

type Article struct {
	collection.Envelope
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Content        string    `json:"content"`
	ImageURL       string    `json:"imageUrl"`
	Category       string    `json:"category"`
	Source         string    `json:"source"`
	Author         string    `json:"author"`
	PublishedAt    time.Time `json:"publishedAt"`
	Location       string    `json:"location"`
	Tags           []string  `json:"tags"`
	ViewCount      int       `json:"viewCount"`
	IsBreakingNews bool      `json:"isBreakingNews"`
	IsBookmarked   bool      `json:"isBookmarked"`
}

const SortPopular collection.SortKey = "popular"

func Definition() *collection.Definition[Article] {
	return &collection.Definition[Article]{
		Name: CollectionName,
		Schema: schema.Object("article", map[string]*schema.Property{
			"title":          schema.Text(),
			"description":    schema.String(),
			"content":        schema.String(),
			"imageUrl":       schema.String(),
			"category":       schema.Enum(Categories...),
			"source":         schema.String(),
			"author":         schema.String(),
			"publishedAt":    schema.DateTime(),
			"location":       schema.String(),
			"tags":           schema.ArrayOf(schema.String()),
			"viewCount":      schema.NonNegative(),
			"isBreakingNews": schema.Boolean(),
			"isBookmarked":   schema.Boolean(),
		}, []string{"title", "content", "category"}),
		Envelope:     func(a *Article) *collection.Envelope { return &a.Envelope },
		SearchFields: func(a *Article) []string { return []string{a.Title, a.Description} },
		Filters: map[string]func(*Article) string{
			"category": func(a *Article) string { return a.Category },
		},
		Matchers: map[string]func(*Article, string) bool{
			"location": func(a *Article, v string) bool { return collection.Contains(a.Location, v) },
		},
		Flags: map[string]func(*Article, time.Time) bool{
			"breaking":   func(a *Article, _ time.Time) bool { return a.IsBreakingNews },
			"bookmarked": func(a *Article, _ time.Time) bool { return a.IsBookmarked },
		},
		DisplayName: func(a *Article) string { return a.Title },
		Sorts: map[collection.SortKey]func(a, b *Article) int{
			SortPopular: func(a, b *Article) int { return b.ViewCount - a.ViewCount },
		},
		Defaults: func(p map[string]interface{}, now time.Time) {
			if _, ok := p["publishedAt"]; !ok {
				p["publishedAt"] = now
			}
			if _, ok := p["tags"]; !ok {
				p["tags"] = []string{}
			}
			p["viewCount"] = 0
		},
		Placement:    collection.Append,
		DefaultLimit: collection.DefaultLimit,
	}
}
