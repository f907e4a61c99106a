package collection

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/language"
)

var (
	ErrNotFound = errors.New("entity not found")
	ErrConflict = errors.New("entity already exists")
)

// PersistenceError reports that a committed in-memory mutation could not be
// written to the key-value store. The mutation is not rolled back.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError reports whether err carries a *PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// Envelope holds the fields every entity carries. Entity types embed it.
type Envelope struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// envelopeKeys are ignored in create and update payloads.
var envelopeKeys = []string{"id", "createdAt", "updatedAt"}

// Placement says where a created entity goes.
type Placement string

const (
	Append  Placement = "append"
	Prepend Placement = "prepend"
)

// Definition describes one entity type to the query engine and the store.
type Definition[T any] struct {
	Name   string
	Schema map[string]interface{}

	// Envelope returns the embedded envelope of an entity.
	Envelope func(*T) *Envelope

	SearchFields func(*T) []string
	Filters      map[string]func(*T) string
	// Matchers are valued filters that are not plain equality, such as a
	// substring match on a location.
	Matchers map[string]func(item *T, value string) bool
	Flags    map[string]func(*T, time.Time) bool

	// DisplayName backs the name/title sort keys.
	DisplayName func(*T) string
	Price       func(*T) float64
	// Sorts holds type-specific orderings beyond the common keys.
	Sorts       map[SortKey]func(a, b *T) int
	DefaultSort SortKey

	Pinned func(*T) bool

	// Unique, when set, must return a distinct key per entity; create and
	// update fail with ErrConflict on a duplicate.
	Unique func(*T) string

	// Defaults fills optional payload fields before a create is decoded.
	Defaults func(payload map[string]interface{}, now time.Time)

	Placement    Placement
	DefaultLimit int
	Locale       language.Tag
}

func (d *Definition[T]) defaultLimit() int {
	if d.DefaultLimit > 0 {
		return d.DefaultLimit
	}
	return DefaultLimit
}

// Descriptor is the type-erased catalog view of a Definition.
type Descriptor struct {
	Name         string                 `json:"name"`
	Schema       map[string]interface{} `json:"schema"`
	Filters      []string               `json:"filters"`
	Flags        []string               `json:"flags"`
	Sorts        []SortKey              `json:"sorts"`
	DefaultSort  SortKey                `json:"defaultSort,omitempty"`
	Placement    Placement              `json:"placement"`
	DefaultLimit int                    `json:"defaultLimit"`
	Pinned       bool                   `json:"pinned"`
	Count        int                    `json:"count"`
}
