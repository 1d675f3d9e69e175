package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// LabelRecord represents a record label. The label owns approval authority
// over its artists' release dates.
type LabelRecord struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewLabelRecord creates a new record label.
func NewLabelRecord(id uuid.UUID, name string) (*LabelRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: label name cannot be empty", ErrInvalidInput)
	}
	return &LabelRecord{ID: id, Name: name}, nil
}

// CanApproveRelease reports whether this label may approve the release. A
// release without a proposed date cannot be approved.
func (l *LabelRecord) CanApproveRelease(release *Release) bool {
	return release.ProposedDate != nil
}
