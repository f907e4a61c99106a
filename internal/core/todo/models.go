package todo

import (
	"time"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/schema"
)

const CollectionName = "todos"

const SortPriority collection.SortKey = "priority"

type Todo struct {
	collection.Envelope
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
}

var priorityRank = collection.Ranked("high", "medium", "low")

func Definition() *collection.Definition[Todo] {
	return &collection.Definition[Todo]{
		Name: CollectionName,
		Schema: schema.Object("todo", map[string]*schema.Property{
			"title":       schema.Text(),
			"description": schema.String(),
			"completed":   schema.Boolean(),
			"priority":    schema.Enum("low", "medium", "high"),
		}, []string{"title", "priority"}),
		Envelope:     func(t *Todo) *collection.Envelope { return &t.Envelope },
		SearchFields: func(t *Todo) []string { return []string{t.Title, t.Description} },
		Filters: map[string]func(*Todo) string{
			"priority": func(t *Todo) string { return t.Priority },
		},
		Flags: map[string]func(*Todo, time.Time) bool{
			"completed": func(t *Todo, _ time.Time) bool { return t.Completed },
			"active":    func(t *Todo, _ time.Time) bool { return !t.Completed },
		},
		DisplayName: func(t *Todo) string { return t.Title },
		Sorts: map[collection.SortKey]func(a, b *Todo) int{
			SortPriority: func(a, b *Todo) int { return priorityRank(a.Priority) - priorityRank(b.Priority) },
		},
		Defaults: func(p map[string]interface{}, _ time.Time) {
			p["completed"] = false
		},
		Placement:    collection.Prepend,
		DefaultLimit: collection.DefaultLimit,
	}
}
