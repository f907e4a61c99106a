package farmsurvey

import (
	"context"
	"fmt"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/validation"
)

// transitions maps a target status to the status it must come from.
var transitions = map[string]string{
	StatusSubmitted: StatusDraft,
	StatusVerified:  StatusSubmitted,
}

type Service struct {
	store *collection.Store[Survey]
}

func NewService(store *collection.Store[Survey]) *Service {
	return &Service{store: store}
}

func (s *Service) Store() *collection.Store[Survey] {
	return s.store
}

func (s *Service) Submit(ctx context.Context, id string) (Survey, error) {
	return s.transition(ctx, id, StatusSubmitted)
}

func (s *Service) Verify(ctx context.Context, id string) (Survey, error) {
	return s.transition(ctx, id, StatusVerified)
}

func (s *Service) transition(ctx context.Context, id, to string) (Survey, error) {
	from := transitions[to]
	return s.store.Mutate(ctx, id, func(sv *Survey) error {
		if sv.Status != from {
			return validation.New("status", fmt.Sprintf("cannot move from %s to %s", sv.Status, to))
		}
		sv.Status = to
		return nil
	})
}
