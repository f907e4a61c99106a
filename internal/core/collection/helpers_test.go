package collection

import (
	"fmt"
	"time"

	"github.com/appshelf/appshelf/internal/core/schema"
)

type card struct {
	Envelope
	Title    string  `json:"title"`
	Body     string  `json:"body,omitempty"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Pinned   bool    `json:"isPinned"`
	Slug     string  `json:"slug,omitempty"`
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func cardDefinition() *Definition[card] {
	return &Definition[card]{
		Name: "cards",
		Schema: schema.Object("card", map[string]*schema.Property{
			"title":    schema.Text(),
			"body":     schema.String(),
			"category": schema.String(),
			"price":    schema.NonNegative(),
			"isPinned": schema.Boolean(),
		}, []string{"title"}),
		Envelope:     func(c *card) *Envelope { return &c.Envelope },
		SearchFields: func(c *card) []string { return []string{c.Title, c.Body} },
		Filters: map[string]func(*card) string{
			"category": func(c *card) string { return c.Category },
		},
		Matchers: map[string]func(*card, string) bool{
			"body": func(c *card, v string) bool { return Contains(c.Body, v) },
		},
		Flags: map[string]func(*card, time.Time) bool{
			"expensive": func(c *card, _ time.Time) bool { return c.Price >= 100 },
		},
		DisplayName: func(c *card) string { return c.Title },
		Price:       func(c *card) float64 { return c.Price },
		Placement:   Append,
	}
}

func pinnedDefinition() *Definition[card] {
	def := cardDefinition()
	def.Name = "pinned-cards"
	def.Pinned = func(c *card) bool { return c.Pinned }
	def.Placement = Prepend
	def.DefaultLimit = 50
	return def
}

// cards builds n cards with ids c00.., createdAt one minute apart.
func cards(n int) []card {
	out := make([]card, n)
	for i := range out {
		ts := epoch.Add(time.Duration(i) * time.Minute)
		out[i] = card{
			Envelope: Envelope{ID: fmt.Sprintf("c%02d", i), CreatedAt: ts, UpdatedAt: ts},
			Title:    fmt.Sprintf("Card %02d", i),
		}
	}
	return out
}

func ids(items []card) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.ID
	}
	return out
}
