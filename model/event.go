package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType tags each domain event variant. The event store fans events out
// through an explicit registry keyed by these constants; there is no
// reflection-based dispatch.
type EventType string

const (
	EventReleaseCreated        EventType = "release.created"
	EventSongsAddedToRelease   EventType = "release.songs_added"
	EventReleaseDateProposed   EventType = "release.date_proposed"
	EventReleaseDateApproved   EventType = "release.date_approved"
	EventReleasePublished      EventType = "release.published"
	EventReleaseWithdrawn      EventType = "release.withdrawn"
	EventStreamRecorded        EventType = "stream.recorded"
	EventStreamMonetized       EventType = "stream.monetized"
	EventPaymentReportRequested EventType = "payment.report_requested"
)

// Event is an immutable fact recording a state change. Once appended to the
// event store it is never edited or deleted.
type Event interface {
	Type() EventType
	Meta() EventMeta
}

// EventMeta carries the fields shared by every domain event.
type EventMeta struct {
	EventID     uuid.UUID `json:"eventId"`
	AggregateID uuid.UUID `json:"aggregateId"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Meta implements Event for any struct embedding EventMeta.
func (m EventMeta) Meta() EventMeta { return m }

// NewEventMeta stamps a fresh event identity. occurredAt comes from the
// injected clock so event streams are reproducible in tests.
func NewEventMeta(aggregateID uuid.UUID, occurredAt time.Time) EventMeta {
	return EventMeta{
		EventID:     uuid.New(),
		AggregateID: aggregateID,
		OccurredAt:  occurredAt,
	}
}

// ReleaseCreated records that a new release entered the system in DRAFT.
type ReleaseCreated struct {
	EventMeta
	Title    string    `json:"title"`
	ArtistID uuid.UUID `json:"artistId"`
}

func (ReleaseCreated) Type() EventType { return EventReleaseCreated }

// SongsAddedToRelease records songs joining a release's song set.
type SongsAddedToRelease struct {
	EventMeta
	ArtistID uuid.UUID   `json:"artistId"`
	SongIDs  []uuid.UUID `json:"songIds"`
}

func (SongsAddedToRelease) Type() EventType { return EventSongsAddedToRelease }

// ReleaseDateProposed records an artist proposing a release date.
type ReleaseDateProposed struct {
	EventMeta
	ArtistID     uuid.UUID `json:"artistId"`
	ProposedDate time.Time `json:"proposedDate"`
}

func (ReleaseDateProposed) Type() EventType { return EventReleaseDateProposed }

// ReleaseDateApproved records a label approving a release date.
type ReleaseDateApproved struct {
	EventMeta
	LabelID      uuid.UUID `json:"labelId"`
	ApprovedDate time.Time `json:"approvedDate"`
}

func (ReleaseDateApproved) Type() EventType { return EventReleaseDateApproved }

// ReleasePublished records a release going live on its publication date.
type ReleasePublished struct {
	EventMeta
	ArtistID      uuid.UUID `json:"artistId"`
	PublishedDate time.Time `json:"publishedDate"`
}

func (ReleasePublished) Type() EventType { return EventReleasePublished }

// ReleaseWithdrawn records a published release leaving distribution.
type ReleaseWithdrawn struct {
	EventMeta
	ArtistID uuid.UUID `json:"artistId"`
}

func (ReleaseWithdrawn) Type() EventType { return EventReleaseWithdrawn }

// StreamRecorded records a play of a song. The aggregate id is the stream
// id; artist and title are denormalized so projections need no joins.
type StreamRecorded struct {
	EventMeta
	SongID     uuid.UUID     `json:"songId"`
	UserID     uuid.UUID     `json:"userId"`
	ArtistID   uuid.UUID     `json:"artistId"`
	SongTitle  string        `json:"songTitle"`
	StreamedAt time.Time     `json:"streamedAt"`
	Duration   time.Duration `json:"duration"`
}

func (StreamRecorded) Type() EventType { return EventStreamRecorded }

// IsMonetizable reports whether the recorded play earns money.
func (e StreamRecorded) IsMonetizable() bool {
	return IsMonetizable(e.Duration)
}

// StreamMonetized records the payout earned by a single monetizable stream.
// It always immediately follows the StreamRecorded event for the same
// stream id.
type StreamMonetized struct {
	EventMeta
	SongID     uuid.UUID     `json:"songId"`
	ArtistID   uuid.UUID     `json:"artistId"`
	StreamedAt time.Time     `json:"streamedAt"`
	Duration   time.Duration `json:"duration"`
	Amount     Amount        `json:"amount"`
}

func (StreamMonetized) Type() EventType { return EventStreamMonetized }

// PaymentReportRequested records an artist asking for a payment report; the
// read side picks it up to advance the artist's last-payment marker.
type PaymentReportRequested struct {
	EventMeta
	RequestID  uuid.UUID  `json:"requestId"`
	ArtistName string     `json:"artistName"`
	FromDate   *time.Time `json:"fromDate,omitempty"`
	ToDate     *time.Time `json:"toDate,omitempty"`
}

func (PaymentReportRequested) Type() EventType { return EventPaymentReportRequested }
