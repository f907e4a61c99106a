package collection

import (
	"context"
	"slices"
	"sort"
)

// Collection is the type-erased view of a Store used by the catalog
// endpoint and the CLI.
type Collection interface {
	Name() string
	Key() string
	Describe() Descriptor
	Load(ctx context.Context, fixture []byte) error
	Seed(ctx context.Context, fixture []byte) error
	Browse(q Query) Page[any]
	Len() int
}

// Describe reports the definition plus the current item count.
func (s *Store[T]) Describe() Descriptor {
	d := s.def.Describe()
	d.Count = s.Len()
	return d
}

// Browse is Query with the items boxed.
func (s *Store[T]) Browse(q Query) Page[any] {
	p := s.Query(q)
	items := make([]any, len(p.Items))
	for i := range p.Items {
		items[i] = p.Items[i]
	}
	return Page[any]{Items: items, Total: p.Total, Page: p.Page, Limit: p.Limit, HasMore: p.HasMore}
}

func (d *Definition[T]) Describe() Descriptor {
	filters := make([]string, 0, len(d.Filters)+len(d.Matchers))
	for name := range d.Filters {
		filters = append(filters, name)
	}
	for name := range d.Matchers {
		filters = append(filters, name)
	}
	sort.Strings(filters)

	flags := make([]string, 0, len(d.Flags))
	for name := range d.Flags {
		flags = append(flags, name)
	}
	sort.Strings(flags)

	placement := d.Placement
	if placement == "" {
		placement = Append
	}

	return Descriptor{
		Name:         d.Name,
		Schema:       d.Schema,
		Filters:      slices.Compact(filters),
		Flags:        flags,
		Sorts:        d.SortKeys(),
		DefaultSort:  d.DefaultSort,
		Placement:    placement,
		DefaultLimit: d.defaultLimit(),
		Pinned:       d.Pinned != nil,
	}
}

// Registry keeps collections in registration order.
type Registry struct {
	byName map[string]Collection
	order  []Collection
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Collection)}
}

func (r *Registry) Register(c Collection) {
	if _, exists := r.byName[c.Name()]; exists {
		panic("collection: duplicate registration of " + c.Name())
	}
	r.byName[c.Name()] = c
	r.order = append(r.order, c)
}

func (r *Registry) Get(name string) (Collection, bool) {
	c, ok := r.byName[name]
	return c, ok
}

func (r *Registry) All() []Collection {
	return slices.Clone(r.order)
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, c := range r.order {
		names[i] = c.Name()
	}
	return names
}
