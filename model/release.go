package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReleaseStatus is the lifecycle state of a release.
type ReleaseStatus string

const (
	StatusDraft     ReleaseStatus = "DRAFT"
	StatusProposed  ReleaseStatus = "PROPOSED"
	StatusApproved  ReleaseStatus = "APPROVED"
	StatusPublished ReleaseStatus = "PUBLISHED"
	StatusWithdrawn ReleaseStatus = "WITHDRAWN"
)

// Release is the aggregate root for the release lifecycle:
// DRAFT -> PROPOSED -> APPROVED -> PUBLISHED -> WITHDRAWN. All mutation goes
// through the methods below, which enforce the transition guards. Fields are
// exported for serialization only; callers must not assign them directly.
type Release struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	ArtistID     uuid.UUID     `json:"artistId"`
	SongIDs      []uuid.UUID   `json:"songIds"`
	ProposedDate *time.Time    `json:"proposedDate,omitempty"`
	ApprovedDate *time.Time    `json:"approvedDate,omitempty"`
	PublishedAt  *time.Time    `json:"publishedDate,omitempty"`
	Status       ReleaseStatus `json:"status"`
}

// NewRelease creates a new release in DRAFT with an empty song set.
func NewRelease(id uuid.UUID, title string, artistID uuid.UUID) *Release {
	return &Release{
		ID:       id,
		Title:    title,
		ArtistID: artistID,
		SongIDs:  []uuid.UUID{},
		Status:   StatusDraft,
	}
}

// AddSongs unions the given song ids into the release's song set. Adding an
// already-present song is a no-op. Fails once the release is withdrawn.
func (r *Release) AddSongs(songIDs []uuid.UUID) error {
	if r.Status == StatusWithdrawn {
		return fmt.Errorf("%w: cannot add songs to a withdrawn release", ErrBusinessRule)
	}
	for _, id := range songIDs {
		if !r.ContainsSong(id) {
			r.SongIDs = append(r.SongIDs, id)
		}
	}
	return nil
}

// ProposeReleaseDate sets the proposed date and moves the release to
// PROPOSED. Re-proposing while PROPOSED or APPROVED is allowed and resets
// the status to PROPOSED, so the label has to approve again.
func (r *Release) ProposeReleaseDate(date time.Time) error {
	if r.Status == StatusWithdrawn {
		return fmt.Errorf("%w: cannot propose a release date for a withdrawn release", ErrBusinessRule)
	}
	d := date
	r.ProposedDate = &d
	r.Status = StatusProposed
	return nil
}

// ApproveReleaseDate sets the approved date and moves the release to
// APPROVED. Only a proposed release can be approved.
func (r *Release) ApproveReleaseDate(date time.Time) error {
	if r.Status != StatusProposed {
		return fmt.Errorf("%w: cannot approve a date for a release that has not been proposed", ErrBusinessRule)
	}
	d := date
	r.ApprovedDate = &d
	r.Status = StatusApproved
	return nil
}

// Publish moves an approved release to PUBLISHED once its approved date is
// reached. currentDate comes from the injected clock, never the wall clock.
func (r *Release) Publish(currentDate time.Time) error {
	if r.Status != StatusApproved {
		return fmt.Errorf("%w: cannot publish a release that has not been approved", ErrBusinessRule)
	}
	if r.ApprovedDate.After(currentDate) {
		return fmt.Errorf("%w: cannot publish a release before its approved date", ErrBusinessRule)
	}
	d := currentDate
	r.PublishedAt = &d
	r.Status = StatusPublished
	return nil
}

// Withdraw takes a published release out of distribution. WITHDRAWN is
// terminal; the song set and dates are retained for audit.
func (r *Release) Withdraw() error {
	if r.Status != StatusPublished {
		return fmt.Errorf("%w: only published releases can be withdrawn", ErrBusinessRule)
	}
	r.Status = StatusWithdrawn
	return nil
}

// ContainsSong reports whether the song is part of this release.
func (r *Release) ContainsSong(songID uuid.UUID) bool {
	for _, id := range r.SongIDs {
		if id == songID {
			return true
		}
	}
	return false
}

// IsPublished reports whether this release is currently published.
func (r *Release) IsPublished() bool {
	return r.Status == StatusPublished
}

// IsWithdrawn reports whether this release has been withdrawn.
func (r *Release) IsWithdrawn() bool {
	return r.Status == StatusWithdrawn
}
