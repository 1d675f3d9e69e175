// Package repository defines the persistence contracts the core needs and
// provides in-memory and MySQL implementations.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// Lookups return (nil, nil) when the entity does not exist; command
// handlers translate that into their own not-found errors.

// ArtistRepository defines artist data operations.
type ArtistRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Artist, error)
	Save(ctx context.Context, artist *model.Artist) error
}

// LabelRepository defines record-label data operations.
type LabelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.LabelRecord, error)
	Save(ctx context.Context, label *model.LabelRecord) error
}

// SongRepository defines song data operations.
type SongRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Song, error)
	FindByArtistID(ctx context.Context, artistID uuid.UUID) ([]*model.Song, error)
	FindAll(ctx context.Context) ([]*model.Song, error)
	Save(ctx context.Context, song *model.Song) error
}

// ReleaseRepository defines release data operations.
type ReleaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Release, error)
	FindByArtistID(ctx context.Context, artistID uuid.UUID) ([]*model.Release, error)
	// FindBySongID returns every release whose song set contains the song.
	FindBySongID(ctx context.Context, songID uuid.UUID) ([]*model.Release, error)
	// FindReadyForPublishing returns approved releases whose approved date
	// is on or before the given date.
	FindReadyForPublishing(ctx context.Context, date time.Time) ([]*model.Release, error)
	Save(ctx context.Context, release *model.Release) error
}

// StreamRepository defines stream data operations. Artist-scoped queries
// join through song ownership.
type StreamRepository interface {
	FindBySongID(ctx context.Context, songID uuid.UUID) ([]*model.Stream, error)
	FindByArtistID(ctx context.Context, artistID uuid.UUID) ([]*model.Stream, error)
	FindMonetizableByArtistID(ctx context.Context, artistID uuid.UUID, from, to time.Time) ([]*model.Stream, error)
	Save(ctx context.Context, stream *model.Stream) error
}

// Repositories bundles the five repositories a dispatcher needs.
type Repositories struct {
	Artists  ArtistRepository
	Labels   LabelRepository
	Songs    SongRepository
	Releases ReleaseRepository
	Streams  StreamRepository
}
