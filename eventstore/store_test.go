package eventstore

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

func createdEvent(aggregateID uuid.UUID) model.ReleaseCreated {
	return model.ReleaseCreated{
		EventMeta: model.NewEventMeta(aggregateID, time.Now()),
		Title:     "Test",
		ArtistID:  uuid.New(),
	}
}

func TestAppendPreservesOrderPerAggregate(t *testing.T) {
	store := NewStore()
	aggregateID := uuid.New()

	first := createdEvent(aggregateID)
	second := model.ReleaseWithdrawn{
		EventMeta: model.NewEventMeta(aggregateID, time.Now()),
		ArtistID:  uuid.New(),
	}
	store.Append(first, second)

	events := store.EventsForAggregate(aggregateID)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventReleaseCreated, events[0].Type())
	assert.Equal(t, model.EventReleaseWithdrawn, events[1].Type())
	assert.Equal(t, 2, store.Len())
}

func TestSubscribersReceiveOnlyTheirType(t *testing.T) {
	store := NewStore()

	var created, withdrawn int
	store.Subscribe(model.EventReleaseCreated, func(model.Event) error {
		created++
		return nil
	})
	store.Subscribe(model.EventReleaseWithdrawn, func(model.Event) error {
		withdrawn++
		return nil
	})

	store.Append(createdEvent(uuid.New()))
	store.Append(createdEvent(uuid.New()))

	assert.Equal(t, 2, created)
	assert.Equal(t, 0, withdrawn)
}

func TestSubscribeAllSeesEverything(t *testing.T) {
	store := NewStore()

	var seen []model.EventType
	store.SubscribeAll(func(e model.Event) error {
		seen = append(seen, e.Type())
		return nil
	})

	aggregateID := uuid.New()
	store.Append(
		createdEvent(aggregateID),
		model.ReleaseWithdrawn{EventMeta: model.NewEventMeta(aggregateID, time.Now())},
	)

	assert.Equal(t, []model.EventType{model.EventReleaseCreated, model.EventReleaseWithdrawn}, seen)
}

func TestFailingSubscriberDoesNotAffectOthersOrAppend(t *testing.T) {
	store := NewStore()

	var after int
	store.Subscribe(model.EventReleaseCreated, func(model.Event) error {
		return errors.New("projection broken")
	})
	store.Subscribe(model.EventReleaseCreated, func(model.Event) error {
		panic("projection very broken")
	})
	store.Subscribe(model.EventReleaseCreated, func(model.Event) error {
		after++
		return nil
	})

	store.Append(createdEvent(uuid.New()))

	assert.Equal(t, 1, after)
	assert.Equal(t, 1, store.Len())
}

func TestEventsByType(t *testing.T) {
	store := NewStore()
	store.Append(createdEvent(uuid.New()))
	store.Append(model.ReleaseWithdrawn{EventMeta: model.NewEventMeta(uuid.New(), time.Now())})
	store.Append(createdEvent(uuid.New()))

	assert.Len(t, store.EventsByType(model.EventReleaseCreated), 2)
	assert.Len(t, store.EventsByType(model.EventReleaseWithdrawn), 1)
	assert.Len(t, store.AllEvents(), 3)
}
