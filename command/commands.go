// Package command holds the write side: typed commands and their handlers.
// Every handler follows the same shape: load, authorize, mutate through the
// aggregate, persist, then emit events.
package command

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// Command is a request to change state. Validate checks the command's own
// shape; business rules are checked by the handler against loaded state.
type Command interface {
	Validate() error
}

// CreateRelease opens a new release in DRAFT for an artist.
type CreateRelease struct {
	ReleaseID uuid.UUID `json:"releaseId"`
	Title     string    `json:"title"`
	ArtistID  uuid.UUID `json:"artistId"`
}

func (c CreateRelease) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("%w: release title must not be empty", model.ErrInvalidInput)
	}
	if c.ArtistID == uuid.Nil {
		return fmt.Errorf("%w: artist id must be set", model.ErrInvalidInput)
	}
	return nil
}

// AddSongsToRelease adds songs to a release owned by the artist.
type AddSongsToRelease struct {
	ReleaseID uuid.UUID   `json:"releaseId"`
	ArtistID  uuid.UUID   `json:"artistId"`
	SongIDs   []uuid.UUID `json:"songIds"`
}

func (c AddSongsToRelease) Validate() error {
	if c.ReleaseID == uuid.Nil {
		return fmt.Errorf("%w: release id must be set", model.ErrInvalidInput)
	}
	if c.ArtistID == uuid.Nil {
		return fmt.Errorf("%w: artist id must be set", model.ErrInvalidInput)
	}
	if len(c.SongIDs) == 0 {
		return fmt.Errorf("%w: at least one song id is required", model.ErrInvalidInput)
	}
	return nil
}

// ProposeReleaseDate has the artist propose (or re-propose) a release date.
type ProposeReleaseDate struct {
	ReleaseID    uuid.UUID `json:"releaseId"`
	ArtistID     uuid.UUID `json:"artistId"`
	ProposedDate time.Time `json:"proposedDate"`
}

func (c ProposeReleaseDate) Validate() error {
	if c.ReleaseID == uuid.Nil {
		return fmt.Errorf("%w: release id must be set", model.ErrInvalidInput)
	}
	if c.ArtistID == uuid.Nil {
		return fmt.Errorf("%w: artist id must be set", model.ErrInvalidInput)
	}
	if c.ProposedDate.IsZero() {
		return fmt.Errorf("%w: proposed date must be set", model.ErrInvalidInput)
	}
	return nil
}

// ApproveReleaseDate has the label approve the proposed date.
type ApproveReleaseDate struct {
	ReleaseID uuid.UUID `json:"releaseId"`
	LabelID   uuid.UUID `json:"labelId"`
}

func (c ApproveReleaseDate) Validate() error {
	if c.ReleaseID == uuid.Nil {
		return fmt.Errorf("%w: release id must be set", model.ErrInvalidInput)
	}
	if c.LabelID == uuid.Nil {
		return fmt.Errorf("%w: label id must be set", model.ErrInvalidInput)
	}
	return nil
}

// PublishRelease publishes an approved release whose date has arrived. It is
// issued by the publisher job as well as directly over the API.
type PublishRelease struct {
	ReleaseID uuid.UUID `json:"releaseId"`
}

func (c PublishRelease) Validate() error {
	if c.ReleaseID == uuid.Nil {
		return fmt.Errorf("%w: release id must be set", model.ErrInvalidInput)
	}
	return nil
}

// WithdrawRelease has the artist take a published release out of
// distribution.
type WithdrawRelease struct {
	ReleaseID uuid.UUID `json:"releaseId"`
	ArtistID  uuid.UUID `json:"artistId"`
}

func (c WithdrawRelease) Validate() error {
	if c.ReleaseID == uuid.Nil {
		return fmt.Errorf("%w: release id must be set", model.ErrInvalidInput)
	}
	if c.ArtistID == uuid.Nil {
		return fmt.Errorf("%w: artist id must be set", model.ErrInvalidInput)
	}
	return nil
}

// RecordStream records a user playing a song for some duration.
type RecordStream struct {
	SongID   uuid.UUID     `json:"songId"`
	UserID   uuid.UUID     `json:"userId"`
	Duration time.Duration `json:"duration"`
}

func (c RecordStream) Validate() error {
	if c.SongID == uuid.Nil {
		return fmt.Errorf("%w: song id must be set", model.ErrInvalidInput)
	}
	if c.UserID == uuid.Nil {
		return fmt.Errorf("%w: user id must be set", model.ErrInvalidInput)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: stream duration must not be negative", model.ErrInvalidInput)
	}
	return nil
}

// RequestPaymentReport asks for a payment report, advancing the artist's
// last-payment marker on the read side.
type RequestPaymentReport struct {
	ArtistID uuid.UUID  `json:"artistId"`
	FromDate *time.Time `json:"fromDate,omitempty"`
	ToDate   *time.Time `json:"toDate,omitempty"`
}

func (c RequestPaymentReport) Validate() error {
	if c.ArtistID == uuid.Nil {
		return fmt.Errorf("%w: artist id must be set", model.ErrInvalidInput)
	}
	if c.FromDate != nil && c.ToDate != nil && c.ToDate.Before(*c.FromDate) {
		return fmt.Errorf("%w: report range end before start", model.ErrInvalidInput)
	}
	return nil
}
