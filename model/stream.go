package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// monetizationThreshold is the minimum play length for a stream to earn
// money. Exactly 30 seconds does not qualify; it must be exceeded.
const monetizationThreshold = 30 * time.Second

// Stream represents a single play of a song. Streams are immutable once
// recorded; the monetizable flag is derived at creation and never changes.
type Stream struct {
	ID        uuid.UUID     `json:"id"`
	SongID    uuid.UUID     `json:"songId"`
	UserID    uuid.UUID     `json:"userId"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	Monetized bool          `json:"monetized"`
}

// NewStream records a play of a song. The duration may be zero (a skipped
// play) but never negative.
func NewStream(id, songID, userID uuid.UUID, timestamp time.Time, duration time.Duration) (*Stream, error) {
	if duration < 0 {
		return nil, fmt.Errorf("%w: stream duration cannot be negative", ErrInvalidInput)
	}
	return &Stream{
		ID:        id,
		SongID:    songID,
		UserID:    userID,
		Timestamp: timestamp,
		Duration:  duration,
		Monetized: IsMonetizable(duration),
	}, nil
}

// IsMonetizable reports whether a play of the given length earns money.
func IsMonetizable(duration time.Duration) bool {
	return duration > monetizationThreshold
}
