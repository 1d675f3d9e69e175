// Package eventstore holds the append-only domain event log and fans
// appended events out to subscribed projections.
package eventstore

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/logger"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// Subscriber consumes a single event. A subscriber's error (or panic) is
// logged and isolated; it never affects the append or other subscribers.
type Subscriber func(event model.Event) error

// Store is the in-memory event store. Append is the only mutating
// operation; events are never edited or deleted. Each appended event is
// delivered synchronously to all subscribers registered for its type, in
// registration order.
type Store struct {
	mu          sync.RWMutex
	byAggregate map[uuid.UUID][]model.Event
	all         []model.Event
	subscribers map[model.EventType][]Subscriber
	anySubs     []Subscriber
}

// NewStore creates an empty event store.
func NewStore() *Store {
	return &Store{
		byAggregate: make(map[uuid.UUID][]model.Event),
		subscribers: make(map[model.EventType][]Subscriber),
	}
}

// Subscribe registers fn for events of the given type. Fan-out iterates
// subscribers deterministically in registration order.
func (s *Store) Subscribe(eventType model.EventType, fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers[eventType] = append(s.subscribers[eventType], fn)
}

// SubscribeAll registers fn for every event type. Used by sinks that relay
// the whole stream, such as the websocket feed.
func (s *Store) SubscribeAll(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anySubs = append(s.anySubs, fn)
}

// Append stores the events and delivers each to its subscribers. The append
// completes before delivery starts, so a failing subscriber cannot roll it
// back.
func (s *Store) Append(events ...model.Event) {
	for _, event := range events {
		s.mu.Lock()
		aggregateID := event.Meta().AggregateID
		s.byAggregate[aggregateID] = append(s.byAggregate[aggregateID], event)
		s.all = append(s.all, event)

		subs := make([]Subscriber, 0, len(s.subscribers[event.Type()])+len(s.anySubs))
		subs = append(subs, s.subscribers[event.Type()]...)
		subs = append(subs, s.anySubs...)
		s.mu.Unlock()

		for _, fn := range subs {
			deliver(fn, event)
		}
	}
}

// deliver invokes one subscriber, containing errors and panics.
func deliver(fn Subscriber, event model.Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event subscriber panicked",
				logger.String("eventType", string(event.Type())),
				logger.String("eventId", event.Meta().EventID.String()),
				logger.Any("panic", r),
			)
		}
	}()
	if err := fn(event); err != nil {
		logger.Error("event subscriber failed",
			logger.String("eventType", string(event.Type())),
			logger.String("eventId", event.Meta().EventID.String()),
			logger.ErrorField(err),
		)
	}
}

// EventsForAggregate returns the chronological events appended under the
// given aggregate id.
func (s *Store) EventsForAggregate(aggregateID uuid.UUID) []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := s.byAggregate[aggregateID]
	out := make([]model.Event, len(events))
	copy(out, events)
	return out
}

// EventsByType returns all events of the given type, chronological across
// all aggregates.
func (s *Store) EventsByType(eventType model.EventType) []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Event
	for _, event := range s.all {
		if event.Type() == eventType {
			out = append(out, event)
		}
	}
	return out
}

// AllEvents returns every stored event in append order.
func (s *Store) AllEvents() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Event, len(s.all))
	copy(out, s.all)
	return out
}

// Len returns the number of stored events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.all)
}

// String describes the store for debug logging.
func (s *Store) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("eventstore(%d events, %d aggregates)", len(s.all), len(s.byAggregate))
}
