package todo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/validation"
	"github.com/appshelf/appshelf/internal/storage/memory"
)

func newTestService() *Service {
	return NewService(collection.NewStore(Definition(), memory.New(), validation.NewValidator()))
}

func add(t *testing.T, s *Service, title, priority string) Todo {
	t.Helper()
	todo, err := s.Store().Create(context.Background(), map[string]interface{}{
		"title":     title,
		"priority":  priority,
		"completed": true,
	})
	require.NoError(t, err)
	return todo
}

func TestCreate_StartsIncompleteAndPrepends(t *testing.T) {
	s := newTestService()
	a := add(t, s, "a", "low")
	b := add(t, s, "b", "high")

	assert.False(t, a.Completed)
	all := s.Store().All()
	assert.Equal(t, []string{b.ID, a.ID}, []string{all[0].ID, all[1].ID})
}

func TestToggleAndClearCompleted(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	a := add(t, s, "a", "low")
	b := add(t, s, "b", "medium")
	c := add(t, s, "c", "high")

	for _, id := range []string{a.ID, c.ID} {
		done, err := s.Toggle(ctx, id)
		require.NoError(t, err)
		assert.True(t, done.Completed)
	}

	p := s.Store().Query(collection.Query{Flags: map[string]bool{"active": true}})
	require.Equal(t, 1, p.Total)
	assert.Equal(t, b.ID, p.Items[0].ID)

	n, err := s.ClearCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, s.Store().Len())

	n, err = s.ClearCompleted(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSortPriority(t *testing.T) {
	s := newTestService()
	low := add(t, s, "a", "low")
	high := add(t, s, "b", "high")
	medium := add(t, s, "c", "medium")

	p := s.Store().Query(collection.Query{SortBy: SortPriority})
	assert.Equal(t, []string{high.ID, medium.ID, low.ID}, []string{p.Items[0].ID, p.Items[1].ID, p.Items[2].ID})
}
