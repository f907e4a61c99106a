package news

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/validation"
	"github.com/appshelf/appshelf/internal/storage/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := collection.NewStore(Definition(), memory.New(), validation.NewValidator())
	return NewService(store)
}

func create(t *testing.T, s *Service, payload map[string]interface{}) Article {
	t.Helper()
	a, err := s.Store().Create(context.Background(), payload)
	require.NoError(t, err)
	return a
}

func TestCreate_Defaults(t *testing.T) {
	s := newTestService(t)

	a := create(t, s, map[string]interface{}{
		"title":     "Banjir di Bandung",
		"content":   "...",
		"category":  "lainnya",
		"viewCount": 99,
	})

	assert.Zero(t, a.ViewCount)
	assert.False(t, a.PublishedAt.IsZero())
	assert.NotNil(t, a.Tags)
	assert.WithinDuration(t, a.CreatedAt, a.PublishedAt, time.Second)
}

func TestCreate_RejectsUnknownCategory(t *testing.T) {
	s := newTestService(t)

	_, err := s.Store().Create(context.Background(), map[string]interface{}{
		"title": "x", "content": "y", "category": "gosip",
	})
	assert.True(t, validation.IsValidationError(err))
}

func TestIncrementViewsAndBookmark(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := create(t, s, map[string]interface{}{"title": "x", "content": "y", "category": "ekonomi"})

	for i := 0; i < 3; i++ {
		_, err := s.IncrementViews(ctx, a.ID)
		require.NoError(t, err)
	}
	b, err := s.ToggleBookmark(ctx, a.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, b.ViewCount)
	assert.True(t, b.IsBookmarked)

	b, err = s.ToggleBookmark(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, b.IsBookmarked)

	_, err = s.IncrementViews(ctx, "missing")
	assert.ErrorIs(t, err, collection.ErrNotFound)
}

func TestBreaking(t *testing.T) {
	s := newTestService(t)
	create(t, s, map[string]interface{}{"title": "calm", "content": "y", "category": "ekonomi"})
	first := create(t, s, map[string]interface{}{"title": "alert 1", "content": "y", "category": "politik", "isBreakingNews": true})
	second := create(t, s, map[string]interface{}{"title": "alert 2", "content": "y", "category": "politik", "isBreakingNews": true})

	got := s.Breaking(5)
	require.Len(t, got, 2)
	ids := []string{got[0].ID, got[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
}

func TestSearchMatchesTags(t *testing.T) {
	s := newTestService(t)
	create(t, s, map[string]interface{}{"title": "Harga naik", "content": "y", "category": "ekonomi", "tags": []string{"cabai", "pasar"}})
	create(t, s, map[string]interface{}{"title": "Cabai langka", "content": "y", "category": "ekonomi"})
	create(t, s, map[string]interface{}{"title": "Sepak bola", "content": "y", "category": "olahraga"})

	p := s.Search("CABAI", collection.Query{})
	assert.Equal(t, 2, p.Total)

	// plain engine search does not look at tags
	p = s.Store().Query(collection.Query{Search: "pasar"})
	assert.Zero(t, p.Total)
}

func TestByCategoryAndLocation(t *testing.T) {
	s := newTestService(t)
	create(t, s, map[string]interface{}{"title": "a", "content": "y", "category": "ekonomi", "location": "Kota Bandung"})
	create(t, s, map[string]interface{}{"title": "b", "content": "y", "category": "ekonomi", "location": "Jakarta"})
	create(t, s, map[string]interface{}{"title": "c", "content": "y", "category": "olahraga", "location": "Bandung"})

	p := s.ByCategory("ekonomi", collection.Query{Filters: map[string]string{"location": "bandung"}})
	require.Equal(t, 1, p.Total)
	assert.Equal(t, "a", p.Items[0].Title)
}

func TestSortPopular(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := create(t, s, map[string]interface{}{"title": "a", "content": "y", "category": "ekonomi"})
	b := create(t, s, map[string]interface{}{"title": "b", "content": "y", "category": "ekonomi"})
	_, _ = s.IncrementViews(ctx, b.ID)

	p := s.Store().Query(collection.Query{SortBy: SortPopular})
	assert.Equal(t, []string{b.ID, a.ID}, []string{p.Items[0].ID, p.Items[1].ID})
}
