package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/appshelf/appshelf/internal/core/validation"
	"github.com/appshelf/appshelf/internal/storage"
)

type options struct {
	key    string
	log    zerolog.Logger
	now    func() time.Time
	newID  func() string
	buffer int
}

type Option func(*options)

// WithKey sets the key-value key the collection snapshot is stored under.
func WithKey(key string) Option {
	return func(o *options) { o.key = key }
}

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

// WithEventBuffer sets the channel capacity handed to subscribers.
func WithEventBuffer(n int) Option {
	return func(o *options) { o.buffer = n }
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Store owns one ordered collection. Mutations are committed in memory
// first and then written behind as a whole-collection snapshot.
type Store[T any] struct {
	def       *Definition[T]
	kv        storage.KV
	validator *validation.Validator
	opts      options

	mu      sync.RWMutex
	items   []T
	version uint64

	persistMu sync.Mutex
	persisted uint64

	subsMu  sync.Mutex
	subs    map[uint64]chan Event[T]
	nextSub uint64
}

func NewStore[T any](def *Definition[T], kv storage.KV, validator *validation.Validator, opts ...Option) *Store[T] {
	o := options{
		key:    def.Name,
		log:    zerolog.Nop(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  newID,
		buffer: 16,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[T]{
		def:       def,
		kv:        kv,
		validator: validator,
		opts:      o,
		items:     []T{},
		subs:      make(map[uint64]chan Event[T]),
	}
}

func (s *Store[T]) Name() string { return s.def.Name }

func (s *Store[T]) Key() string { return s.opts.key }

func (s *Store[T]) Definition() *Definition[T] { return s.def }

// Load fills the collection from its stored snapshot, or from fixture when
// nothing is stored yet. The fixture is not written back.
func (s *Store[T]) Load(ctx context.Context, fixture []byte) error {
	data, err := s.kv.Get(ctx, s.opts.key)
	source := "snapshot"
	switch {
	case errors.Is(err, storage.ErrNotFound):
		data, source = fixture, "fixture"
	case err != nil:
		return fmt.Errorf("load %s: %w", s.opts.key, err)
	}

	items, err := s.decode(data)
	if err != nil {
		return fmt.Errorf("decode %s %s: %w", source, s.opts.key, err)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.opts.log.Debug().Str("collection", s.def.Name).Str("source", source).Int("count", len(items)).Msg("collection loaded")
	return nil
}

// Seed replaces the collection with fixture and persists it.
func (s *Store[T]) Seed(ctx context.Context, fixture []byte) error {
	items, err := s.decode(fixture)
	if err != nil {
		return fmt.Errorf("decode fixture %s: %w", s.def.Name, err)
	}

	s.mu.Lock()
	s.items = items
	data, version := s.commitLocked(EventReset, "")
	s.mu.Unlock()

	return s.persist(ctx, version, data)
}

func (s *Store[T]) decode(data []byte) ([]T, error) {
	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if s.def.Envelope(&items[i]).ID == "" {
			return nil, fmt.Errorf("entry %d has no id", i)
		}
	}
	return items, nil
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// All returns a copy of the collection in its natural order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexLocked(id); idx >= 0 {
		return s.items[idx], nil
	}
	var zero T
	return zero, ErrNotFound
}

// Find returns the first entity, in natural order, that satisfies pred.
func (s *Store[T]) Find(pred func(*T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.items {
		if pred(&s.items[i]) {
			return s.items[i], true
		}
	}
	var zero T
	return zero, false
}

// Filter returns every entity satisfying pred, in natural order.
func (s *Store[T]) Filter(pred func(*T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []T{}
	for i := range s.items {
		if pred(&s.items[i]) {
			out = append(out, s.items[i])
		}
	}
	return out
}

func (s *Store[T]) Query(q Query) Page[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Run(s.def, s.items, q)
}

// Create validates payload, fills defaults, assigns id and timestamps and
// places the new entity. A *PersistenceError is returned together with the
// created entity, which stays in the collection.
func (s *Store[T]) Create(ctx context.Context, payload map[string]interface{}) (T, error) {
	var zero T
	if payload == nil {
		return zero, validation.New("payload", "is required")
	}

	clean := withoutEnvelope(payload)
	if s.validator != nil {
		if err := s.validator.ValidateNamed(s.def.Name, clean, s.def.Schema); err != nil {
			return zero, err
		}
	}

	now := s.opts.now()
	if s.def.Defaults != nil {
		s.def.Defaults(clean, now)
	}

	var item T
	if err := decodeMap(clean, &item); err != nil {
		return zero, validation.New("payload", err.Error())
	}
	env := s.def.Envelope(&item)
	env.ID = s.opts.newID()
	env.CreatedAt = now
	env.UpdatedAt = now

	s.mu.Lock()
	if s.conflictLocked(&item, -1) {
		s.mu.Unlock()
		return zero, ErrConflict
	}
	if s.def.Placement == Prepend {
		s.items = slices.Insert(s.items, 0, item)
	} else {
		s.items = append(s.items, item)
	}
	data, version := s.commitLocked(EventCreate, env.ID)
	s.mu.Unlock()

	return item, s.persist(ctx, version, data)
}

// Update shallow-merges patch into the entity. Envelope fields in the patch
// are ignored.
func (s *Store[T]) Update(ctx context.Context, id string, patch map[string]interface{}) (T, error) {
	var zero T

	clean := withoutEnvelope(patch)
	if s.validator != nil {
		if err := s.validator.ValidatePartialNamed(s.def.Name, clean, s.def.Schema); err != nil {
			return zero, err
		}
	}

	return s.apply(ctx, id, func(prev T) (T, error) {
		current, err := encodeMap(prev)
		if err != nil {
			return zero, err
		}
		maps.Copy(current, clean)

		var next T
		if err := decodeMap(current, &next); err != nil {
			return zero, validation.New("payload", err.Error())
		}
		return next, nil
	})
}

// Mutate applies fn to a copy of the entity and commits the result the
// same way Update does. An error from fn aborts without changes.
func (s *Store[T]) Mutate(ctx context.Context, id string, fn func(*T) error) (T, error) {
	return s.apply(ctx, id, func(prev T) (T, error) {
		next := prev
		if err := fn(&next); err != nil {
			return prev, err
		}
		return next, nil
	})
}

func (s *Store[T]) apply(ctx context.Context, id string, change func(T) (T, error)) (T, error) {
	var zero T

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return zero, ErrNotFound
	}

	prev := s.items[idx]
	next, err := change(prev)
	if err != nil {
		s.mu.Unlock()
		return zero, err
	}

	pe, ne := s.def.Envelope(&prev), s.def.Envelope(&next)
	ne.ID, ne.CreatedAt = pe.ID, pe.CreatedAt
	ne.UpdatedAt = s.opts.now()
	if ne.UpdatedAt.Before(pe.UpdatedAt) {
		ne.UpdatedAt = pe.UpdatedAt
	}

	if s.conflictLocked(&next, idx) {
		s.mu.Unlock()
		return zero, ErrConflict
	}

	s.items[idx] = next
	if s.def.Pinned != nil && s.def.Pinned(&prev) != s.def.Pinned(&next) {
		s.repinLocked()
	}
	data, version := s.commitLocked(EventUpdate, id)
	s.mu.Unlock()

	return next, s.persist(ctx, version, data)
}

// Delete removes exactly one entity. A missing id is ErrNotFound.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	data, version := s.commitLocked(EventDelete, id)
	s.mu.Unlock()

	return s.persist(ctx, version, data)
}

// RemoveWhere deletes every entity satisfying pred and returns how many
// were removed.
func (s *Store[T]) RemoveWhere(ctx context.Context, pred func(*T) bool) (int, error) {
	s.mu.Lock()
	var removed []string
	kept := s.items[:0:0]
	for i := range s.items {
		if pred(&s.items[i]) {
			removed = append(removed, s.def.Envelope(&s.items[i]).ID)
			continue
		}
		kept = append(kept, s.items[i])
	}
	if len(removed) == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	s.items = kept

	var data []byte
	var version uint64
	for _, id := range removed {
		data, version = s.commitLocked(EventDelete, id)
	}
	s.mu.Unlock()

	return len(removed), s.persist(ctx, version, data)
}

func (s *Store[T]) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.items {
		if s.def.Envelope(&s.items[i]).ID == id {
			return i
		}
	}
	return -1
}

func (s *Store[T]) conflictLocked(item *T, skip int) bool {
	if s.def.Unique == nil {
		return false
	}
	key := s.def.Unique(item)
	if key == "" {
		return false
	}
	for i := range s.items {
		if i != skip && s.def.Unique(&s.items[i]) == key {
			return true
		}
	}
	return false
}

// repinLocked orders the collection pinned first, then most recently
// updated first.
func (s *Store[T]) repinLocked() {
	sort.SliceStable(s.items, func(i, j int) bool {
		a, b := &s.items[i], &s.items[j]
		pa, pb := s.def.Pinned(a), s.def.Pinned(b)
		if pa != pb {
			return pa
		}
		return s.def.Envelope(a).UpdatedAt.After(s.def.Envelope(b).UpdatedAt)
	})
}

// commitLocked bumps the version, serialises the snapshot and notifies
// subscribers. It must be called with mu held.
func (s *Store[T]) commitLocked(kind EventType, id string) ([]byte, uint64) {
	s.version++

	data, err := json.Marshal(s.items)
	if err != nil {
		s.opts.log.Error().Err(err).Str("collection", s.def.Name).Msg("failed to encode snapshot")
		data = nil
	}

	s.publish(Event[T]{
		Type:       kind,
		Collection: s.def.Name,
		ID:         id,
		Version:    s.version,
		Snapshot:   slices.Clone(s.items),
	})
	return data, s.version
}

// persist writes a snapshot unless a newer one has already been written.
func (s *Store[T]) persist(ctx context.Context, version uint64, data []byte) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if version <= s.persisted {
		return nil
	}

	err := errors.New("snapshot could not be encoded")
	if data != nil {
		err = s.kv.Set(ctx, s.opts.key, data)
	}
	if err != nil {
		s.opts.log.Error().Err(err).
			Str("collection", s.def.Name).
			Str("key", s.opts.key).
			Uint64("version", version).
			Msg("failed to persist collection")
		return &PersistenceError{Key: s.opts.key, Err: err}
	}

	s.persisted = version
	return nil
}

func withoutEnvelope(payload map[string]interface{}) map[string]interface{} {
	clean := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		if !slices.Contains(envelopeKeys, k) {
			clean[k] = v
		}
	}
	return clean
}

func encodeMap(v any) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeMap(m map[string]interface{}, out any) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
