package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Song represents a single song that can be added to releases. Songs are
// created once and never mutated.
type Song struct {
	ID       uuid.UUID     `json:"id"`
	Title    string        `json:"title"`
	ArtistID uuid.UUID     `json:"artistId"`
	Duration time.Duration `json:"duration"`
}

// NewSong creates a new song. The duration must be positive.
func NewSong(id uuid.UUID, title string, artistID uuid.UUID, duration time.Duration) (*Song, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: song title cannot be empty", ErrInvalidInput)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: song duration must be positive", ErrInvalidInput)
	}
	return &Song{ID: id, Title: title, ArtistID: artistID, Duration: duration}, nil
}

// IsCreatedBy reports whether this song belongs to the given artist.
func (s *Song) IsCreatedBy(artistID uuid.UUID) bool {
	return s.ArtistID == artistID
}
