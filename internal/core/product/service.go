package product

import (
	"context"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/validation"
)

type Service struct {
	store *collection.Store[Product]
}

func NewService(store *collection.Store[Product]) *Service {
	return &Service{store: store}
}

func (s *Service) Store() *collection.Store[Product] {
	return s.store
}

// Adjustment is the outcome of a stock count.
type Adjustment struct {
	Product  Product `json:"product"`
	Variance float64 `json:"variance"`
}

// Adjust records a physical stock count. Variance is physical minus the
// system stock; a negative variance means goods are missing.
func (s *Service) Adjust(ctx context.Context, id string, physical float64) (Adjustment, error) {
	if physical < 0 {
		return Adjustment{}, validation.New("stockPhysical", "must be greater than or equal to 0")
	}

	p, err := s.store.Mutate(ctx, id, func(p *Product) error {
		p.StockPhysical = physical
		return nil
	})
	if err != nil && p.ID == "" {
		return Adjustment{}, err
	}
	return Adjustment{Product: p, Variance: p.StockPhysical - p.StockSystem}, err
}
