package collection

import (
	"math"
	"net/url"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	items := cards(3)
	items[0].Title = "Harga Cabai Naik"
	items[1].Body = "pasar CABAI ramai"
	items[2].Title = "Banjir"

	page := Run(cardDefinition(), items, Query{Search: "CaBai"})

	assert.Equal(t, []string{"c00", "c01"}, ids(page.Items))
	assert.Equal(t, 2, page.Total)
}

func TestRun_SearchKeepsSurroundingSpaces(t *testing.T) {
	items := cards(2)
	items[0].Title = "xfoo"
	items[1].Title = "bar foo"

	page := Run(cardDefinition(), items, Query{Search: " foo"})

	assert.Equal(t, []string{"c01"}, ids(page.Items))
}

func TestRun_BlankSearchMatchesEverything(t *testing.T) {
	page := Run(cardDefinition(), cards(4), Query{Search: "   "})
	assert.Equal(t, 4, page.Total)
}

func TestRun_FiltersCompose(t *testing.T) {
	items := cards(4)
	items[0].Category, items[0].Price = "food", 150
	items[1].Category, items[1].Price = "food", 10
	items[2].Category, items[2].Price = "tools", 300
	items[3].Category = "Food"

	def := cardDefinition()

	page := Run(def, items, Query{Filters: map[string]string{"category": "food"}})
	assert.Equal(t, []string{"c00", "c01"}, ids(page.Items), "equality is case-sensitive")

	page = Run(def, items, Query{
		Filters: map[string]string{"category": "food"},
		Flags:   map[string]bool{"expensive": true},
	})
	assert.Equal(t, []string{"c00"}, ids(page.Items))

	page = Run(def, items, Query{Flags: map[string]bool{"expensive": false}})
	assert.Equal(t, []string{"c01", "c03"}, ids(page.Items))

	// every result satisfies every constraint, and dropping one never shrinks the set
	narrow := Run(def, items, Query{Search: "card", Filters: map[string]string{"category": "food"}, Flags: map[string]bool{"expensive": true}})
	wide := Run(def, items, Query{Search: "card", Filters: map[string]string{"category": "food"}})
	assert.Subset(t, ids(wide.Items), ids(narrow.Items))
}

func TestRun_MatcherIsSubstring(t *testing.T) {
	items := cards(3)
	items[0].Body = "Kota Bandung"
	items[1].Body = "Jakarta Selatan"
	items[2].Body = "bandung barat"

	page := Run(cardDefinition(), items, Query{Filters: map[string]string{"body": "BANDUNG"}})
	assert.Equal(t, []string{"c00", "c02"}, ids(page.Items))
}

func TestRun_UnknownFilterIgnored(t *testing.T) {
	page := Run(cardDefinition(), cards(3), Query{
		Filters: map[string]string{"colour": "red"},
		Flags:   map[string]bool{"shiny": true},
	})
	assert.Equal(t, 3, page.Total)
}

func TestRun_PaginationScenario(t *testing.T) {
	def := cardDefinition()
	items := cards(25)

	p1 := Run(def, items, Query{Page: 1, Limit: 10})
	assert.Len(t, p1.Items, 10)
	assert.Equal(t, 25, p1.Total)
	assert.True(t, p1.HasMore)

	p3 := Run(def, items, Query{Page: 3, Limit: 10})
	assert.Len(t, p3.Items, 5)
	assert.False(t, p3.HasMore)

	p4 := Run(def, items, Query{Page: 4, Limit: 10})
	assert.Empty(t, p4.Items)
	assert.NotNil(t, p4.Items)
	assert.False(t, p4.HasMore)
	assert.Equal(t, 25, p4.Total)
}

func TestRun_PagesConcatenateToFullResult(t *testing.T) {
	def := cardDefinition()
	items := cards(23)

	full := Run(def, items, Query{SortBy: SortLatest, Limit: MaxLimit})
	require.Len(t, full.Items, 23)

	for _, limit := range []int{1, 4, 7, 10, 23, 50} {
		var all []string
		for page := 1; ; page++ {
			p := Run(def, items, Query{SortBy: SortLatest, Page: page, Limit: limit})
			all = append(all, ids(p.Items)...)
			if !p.HasMore {
				break
			}
		}
		assert.Equal(t, ids(full.Items), all, "limit %d", limit)
	}
}

func TestRun_Normalisation(t *testing.T) {
	def := cardDefinition()
	items := cards(150)

	p := Run(def, items, Query{Page: -3, Limit: 0})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, "c00", p.Items[0].ID)

	p = Run(def, items, Query{Limit: 1000})
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Len(t, p.Items, MaxLimit)

	p = Run(pinnedDefinition(), items, Query{})
	assert.Equal(t, 50, p.Limit)
}

func TestRun_PageBeyondRangeHuge(t *testing.T) {
	q, err := ParseQuery(url.Values{"page": {"1000000000000000000"}, "limit": {"10"}}, cardDefinition().Describe())
	require.NoError(t, err)

	var page Page[card]
	require.NotPanics(t, func() { page = Run(cardDefinition(), cards(5), q) })
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.Total)
	assert.False(t, page.HasMore)

	page = Run(cardDefinition(), cards(5), Query{Page: math.MaxInt, Limit: MaxLimit})
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}

func TestRun_Offset(t *testing.T) {
	p := Run(cardDefinition(), cards(25), Query{Offset: 20, Limit: 10})

	assert.Equal(t, []string{"c20", "c21", "c22", "c23", "c24"}, ids(p.Items))
	assert.Equal(t, 3, p.Page)
	assert.False(t, p.HasMore)
}

func TestRun_SortLatestAndOldest(t *testing.T) {
	def := cardDefinition()
	items := cards(5)

	latest := Run(def, items, Query{SortBy: SortLatest})
	assert.Equal(t, []string{"c04", "c03", "c02", "c01", "c00"}, ids(latest.Items))

	oldest := Run(def, items, Query{SortBy: SortOldest})
	assert.Equal(t, []string{"c00", "c01", "c02", "c03", "c04"}, ids(oldest.Items))
}

func TestRun_PriceSortIsStableAndAcceptsAliases(t *testing.T) {
	items := cards(4)
	items[0].Price = 5000
	items[1].Price = 1000
	items[2].Price = 3000
	items[3].Price = 1000

	def := cardDefinition()
	for _, key := range []SortKey{SortPriceAsc, "price-ascending", "PRICE-ASC"} {
		p := Run(def, items, Query{SortBy: key})
		assert.Equal(t, []string{"c01", "c03", "c02", "c00"}, ids(p.Items), string(key))
	}

	p := Run(def, items, Query{SortBy: "price-descending"})
	assert.Equal(t, []string{"c00", "c02", "c01", "c03"}, ids(p.Items))
}

func TestRun_NameSortIsLocaleAware(t *testing.T) {
	items := cards(3)
	items[0].Title = "Banana"
	items[1].Title = "Äpfel"
	items[2].Title = "apple"

	p := Run(cardDefinition(), items, Query{SortBy: SortTitle})
	assert.Equal(t, []string{"Äpfel", "apple", "Banana"}, []string{p.Items[0].Title, p.Items[1].Title, p.Items[2].Title})
}

func TestRun_UnknownSortKeepsNaturalOrder(t *testing.T) {
	items := cards(5)
	slices.Reverse(items)

	p := Run(cardDefinition(), items, Query{SortBy: "by-vibes"})
	assert.Equal(t, ids(items), ids(p.Items))
}

func TestRun_PinnedFirst(t *testing.T) {
	items := cards(25)
	for _, i := range []int{2, 11, 19} {
		items[i].Pinned = true
	}

	def := pinnedDefinition()
	p := Run(def, items, Query{SortBy: SortLatest, Page: 1, Limit: 10})

	require.Len(t, p.Items, 10)
	assert.Equal(t, []string{"c19", "c11", "c02"}, ids(p.Items[:3]))
	for _, c := range p.Items[3:] {
		assert.False(t, c.Pinned)
	}
	assert.Equal(t, "c24", p.Items[3].ID)

	// no sort key still keeps pinned ahead of natural order
	p = Run(def, items, Query{})
	assert.Equal(t, []string{"c02", "c11", "c19", "c00"}, ids(p.Items[:4]))

	// the pinned partition survives an unknown key too
	p = Run(def, items, Query{SortBy: "mystery"})
	assert.Equal(t, []string{"c02", "c11", "c19"}, ids(p.Items[:3]))
}

func TestRun_DefaultSort(t *testing.T) {
	def := pinnedDefinition()
	def.DefaultSort = SortLatest

	p := Run(def, cards(5), Query{})
	assert.Equal(t, "c04", p.Items[0].ID)

	p = Run(def, cards(5), Query{SortBy: SortOldest})
	assert.Equal(t, "c00", p.Items[0].ID)
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	items := cards(10)
	items[3].Pinned = true
	before := slices.Clone(items)

	Run(pinnedDefinition(), items, Query{SortBy: SortLatest, Search: "card", Limit: 3})

	assert.Equal(t, before, items)
}

func TestRun_Deterministic(t *testing.T) {
	items := cards(12)
	for i := range items {
		items[i].Price = float64(i % 3)
	}
	q := Query{SortBy: SortPriceAsc, Page: 2, Limit: 5}

	assert.Equal(t, Run(cardDefinition(), items, q), Run(cardDefinition(), items, q))
}
