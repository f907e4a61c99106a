package news

import (
	"context"
	"strings"

	"github.com/appshelf/appshelf/internal/core/collection"
)

type Service struct {
	store *collection.Store[Article]
}

func NewService(store *collection.Store[Article]) *Service {
	return &Service{store: store}
}

func (s *Service) Store() *collection.Store[Article] {
	return s.store
}

// IncrementViews records one read of the article.
func (s *Service) IncrementViews(ctx context.Context, id string) (Article, error) {
	return s.store.Mutate(ctx, id, func(a *Article) error {
		a.ViewCount++
		return nil
	})
}

func (s *Service) ToggleBookmark(ctx context.Context, id string) (Article, error) {
	return s.store.Mutate(ctx, id, func(a *Article) error {
		a.IsBookmarked = !a.IsBookmarked
		return nil
	})
}

// Breaking returns breaking news, newest first.
func (s *Service) Breaking(limit int) []Article {
	return s.store.Query(collection.Query{
		Flags:  map[string]bool{"breaking": true},
		SortBy: collection.SortLatest,
		Limit:  limit,
	}).Items
}

func (s *Service) ByCategory(category string, q collection.Query) collection.Page[Article] {
	if q.Filters == nil {
		q.Filters = map[string]string{}
	}
	q.Filters["category"] = category
	return s.store.Query(q)
}

// Search matches title, description and tags.
func (s *Service) Search(term string, q collection.Query) collection.Page[Article] {
	if strings.TrimSpace(term) == "" {
		return s.store.Query(q)
	}
	needle := strings.ToLower(term)

	matched := s.store.Filter(func(a *Article) bool {
		if collection.Contains(a.Title, needle) || collection.Contains(a.Description, needle) {
			return true
		}
		for _, tag := range a.Tags {
			if collection.Contains(tag, needle) {
				return true
			}
		}
		return false
	})

	q.Search = ""
	return collection.Run(s.store.Definition(), matched, q)
}
