package todo

import (
	"context"

	"github.com/appshelf/appshelf/internal/core/collection"
)

type Service struct {
	store *collection.Store[Todo]
}

func NewService(store *collection.Store[Todo]) *Service {
	return &Service{store: store}
}

func (s *Service) Store() *collection.Store[Todo] {
	return s.store
}

func (s *Service) Toggle(ctx context.Context, id string) (Todo, error) {
	return s.store.Mutate(ctx, id, func(t *Todo) error {
		t.Completed = !t.Completed
		return nil
	})
}

// ClearCompleted removes every completed todo and returns how many went.
func (s *Service) ClearCompleted(ctx context.Context) (int, error) {
	return s.store.RemoveWhere(ctx, func(t *Todo) bool { return t.Completed })
}
