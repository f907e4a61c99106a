package note

import (
	"time"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/schema"
)

const CollectionName = "notes"

var Categories = []string{"personal", "work", "ideas", "todo", "other"}

const DefaultColor = "#3b82f6"

type Note struct {
	collection.Envelope
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Color    string `json:"color"`
	IsPinned bool   `json:"isPinned"`
}

func Definition() *collection.Definition[Note] {
	return &collection.Definition[Note]{
		Name: CollectionName,
		Schema: schema.Object("note", map[string]*schema.Property{
			"title":    schema.Text(),
			"content":  schema.String(),
			"category": schema.Enum(Categories...),
			"color":    schema.String(),
			"isPinned": schema.Boolean(),
		}, []string{"title", "category"}),
		Envelope:     func(n *Note) *collection.Envelope { return &n.Envelope },
		SearchFields: func(n *Note) []string { return []string{n.Title, n.Content} },
		Filters: map[string]func(*Note) string{
			"category": func(n *Note) string { return n.Category },
		},
		Flags: map[string]func(*Note, time.Time) bool{
			"isPinned": func(n *Note, _ time.Time) bool { return n.IsPinned },
		},
		DisplayName: func(n *Note) string { return n.Title },
		DefaultSort: collection.SortLatest,
		Pinned:      func(n *Note) bool { return n.IsPinned },
		Defaults: func(p map[string]interface{}, _ time.Time) {
			if s, _ := p["color"].(string); s == "" {
				p["color"] = DefaultColor
			}
			if _, ok := p["isPinned"]; !ok {
				p["isPinned"] = false
			}
		},
		Placement:    collection.Prepend,
		DefaultLimit: 50,
	}
}
