package collection

import (
	"context"
	"slices"
)

type EventType string

const (
	EventCreate EventType = "create"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
	EventReset  EventType = "reset"
)

// Event is emitted after every committed mutation. Snapshot is the whole
// collection after the change, so a consumer that missed events can resync
// from the latest one.
type Event[T any] struct {
	Type       EventType `json:"type"`
	Collection string    `json:"collection"`
	ID         string    `json:"id,omitempty"`
	Version    uint64    `json:"version"`
	Snapshot   []T       `json:"snapshot"`
}

// Subscribe returns a channel of events that is closed when ctx ends.
// A subscriber whose buffer is full misses events instead of blocking
// writers.
func (s *Store[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	ch := make(chan Event[T], s.opts.buffer)

	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subsMu.Unlock()

	go func() {
		<-ctx.Done()
		s.subsMu.Lock()
		delete(s.subs, id)
		close(ch)
		s.subsMu.Unlock()
	}()

	return ch
}

// Current returns the present state as a reset event, for consumers that
// need a starting point before the first change.
func (s *Store[T]) Current() Event[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Event[T]{
		Type:       EventReset,
		Collection: s.def.Name,
		Version:    s.version,
		Snapshot:   slices.Clone(s.items),
	}
}

func (s *Store[T]) publish(ev Event[T]) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.opts.log.Warn().
				Str("collection", s.def.Name).
				Uint64("subscriber", id).
				Uint64("version", ev.Version).
				Msg("subscriber buffer full, event dropped")
		}
	}
}
