package task

import (
	"time"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/schema"
)

const CollectionName = "tasks"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	SortDueDate  collection.SortKey = "dueDate"
	SortPriority collection.SortKey = "priority"
)

type Task struct {
	collection.Envelope
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	DueDate     collection.Date `json:"dueDate"`
	UserID      string          `json:"userId"`
}

// Overdue reports whether an unfinished task is past its due date.
func (t *Task) Overdue(now time.Time) bool {
	return t.Status != StatusCompleted && t.DueDate.Before(now)
}

type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

var priorityRank = collection.Ranked(PriorityHigh, PriorityMedium, PriorityLow)

func Definition() *collection.Definition[Task] {
	return &collection.Definition[Task]{
		Name: CollectionName,
		Schema: schema.Object("task", map[string]*schema.Property{
			"title":       schema.Text(),
			"description": schema.String(),
			"status":      schema.Enum(StatusPending, StatusInProgress, StatusCompleted),
			"priority":    schema.Enum(PriorityLow, PriorityMedium, PriorityHigh),
			"dueDate":     schema.Date(),
			"userId":      schema.Text(),
		}, []string{"title", "dueDate", "userId"}),
		Envelope:     func(t *Task) *collection.Envelope { return &t.Envelope },
		SearchFields: func(t *Task) []string { return []string{t.Title, t.Description} },
		Filters: map[string]func(*Task) string{
			"status":   func(t *Task) string { return t.Status },
			"priority": func(t *Task) string { return t.Priority },
			"userId":   func(t *Task) string { return t.UserID },
		},
		Flags: map[string]func(*Task, time.Time) bool{
			"overdue": (*Task).Overdue,
		},
		DisplayName: func(t *Task) string { return t.Title },
		Sorts: map[collection.SortKey]func(a, b *Task) int{
			SortDueDate:  func(a, b *Task) int { return a.DueDate.Compare(b.DueDate.Time) },
			SortPriority: func(a, b *Task) int { return priorityRank(a.Priority) - priorityRank(b.Priority) },
		},
		Defaults: func(p map[string]interface{}, _ time.Time) {
			if s, _ := p["status"].(string); s == "" {
				p["status"] = StatusPending
			}
			if s, _ := p["priority"].(string); s == "" {
				p["priority"] = PriorityMedium
			}
		},
		Placement:    collection.Prepend,
		DefaultLimit: collection.DefaultLimit,
	}
}
