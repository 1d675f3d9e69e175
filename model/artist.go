package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Artist represents an artist who creates songs and releases. Artists are
// created once and never mutated afterwards. Every artist is signed to a
// label; unlabeled artists are not supported.
type Artist struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	LabelID uuid.UUID `json:"labelId"`
}

// NewArtist creates a new artist.
func NewArtist(id uuid.UUID, name string, labelID uuid.UUID) (*Artist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: artist name cannot be empty", ErrInvalidInput)
	}
	if labelID == uuid.Nil {
		return nil, fmt.Errorf("%w: artist requires a label", ErrInvalidInput)
	}
	return &Artist{ID: id, Name: name, LabelID: labelID}, nil
}

// BelongsToLabel reports whether this artist is signed to the given label.
func (a *Artist) BelongsToLabel(labelID uuid.UUID) bool {
	return a.LabelID == labelID
}
