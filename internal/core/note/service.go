package note

import (
	"context"

	"github.com/appshelf/appshelf/internal/core/collection"
)

type Service struct {
	store *collection.Store[Note]
}

func NewService(store *collection.Store[Note]) *Service {
	return &Service{store: store}
}

func (s *Service) Store() *collection.Store[Note] {
	return s.store
}

// TogglePin flips the pin. The store moves pinned notes to the front.
func (s *Service) TogglePin(ctx context.Context, id string) (Note, error) {
	return s.store.Mutate(ctx, id, func(n *Note) error {
		n.IsPinned = !n.IsPinned
		return nil
	})
}

func (s *Service) Pinned() []Note {
	return s.store.Filter(func(n *Note) bool { return n.IsPinned })
}
