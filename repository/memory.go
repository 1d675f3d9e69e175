package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// The in-memory repositories back the core in tests and in the default
// deployment. Lookups return copies so a handler that mutates an aggregate
// and then fails publishes nothing; only Save makes a change visible.

// MemoryArtistRepository keeps artists in a map.
type MemoryArtistRepository struct {
	mu      sync.RWMutex
	artists map[uuid.UUID]model.Artist
}

// NewMemoryArtistRepository creates an empty artist repository.
func NewMemoryArtistRepository() *MemoryArtistRepository {
	return &MemoryArtistRepository{artists: make(map[uuid.UUID]model.Artist)}
}

func (r *MemoryArtistRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Artist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	artist, ok := r.artists[id]
	if !ok {
		return nil, nil
	}
	return &artist, nil
}

func (r *MemoryArtistRepository) Save(_ context.Context, artist *model.Artist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artists[artist.ID] = *artist
	return nil
}

// MemoryLabelRepository keeps labels in a map.
type MemoryLabelRepository struct {
	mu     sync.RWMutex
	labels map[uuid.UUID]model.LabelRecord
}

// NewMemoryLabelRepository creates an empty label repository.
func NewMemoryLabelRepository() *MemoryLabelRepository {
	return &MemoryLabelRepository{labels: make(map[uuid.UUID]model.LabelRecord)}
}

func (r *MemoryLabelRepository) FindByID(_ context.Context, id uuid.UUID) (*model.LabelRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	label, ok := r.labels[id]
	if !ok {
		return nil, nil
	}
	return &label, nil
}

func (r *MemoryLabelRepository) Save(_ context.Context, label *model.LabelRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels[label.ID] = *label
	return nil
}

// MemorySongRepository keeps songs in a map and preserves insertion order
// for deterministic listings.
type MemorySongRepository struct {
	mu    sync.RWMutex
	songs map[uuid.UUID]model.Song
	order []uuid.UUID
}

// NewMemorySongRepository creates an empty song repository.
func NewMemorySongRepository() *MemorySongRepository {
	return &MemorySongRepository{songs: make(map[uuid.UUID]model.Song)}
}

func (r *MemorySongRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	song, ok := r.songs[id]
	if !ok {
		return nil, nil
	}
	return &song, nil
}

func (r *MemorySongRepository) FindByArtistID(_ context.Context, artistID uuid.UUID) ([]*model.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Song
	for _, id := range r.order {
		song := r.songs[id]
		if song.ArtistID == artistID {
			s := song
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *MemorySongRepository) FindAll(_ context.Context) ([]*model.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Song, 0, len(r.order))
	for _, id := range r.order {
		song := r.songs[id]
		s := song
		out = append(out, &s)
	}
	return out, nil
}

func (r *MemorySongRepository) Save(_ context.Context, song *model.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.songs[song.ID]; !exists {
		r.order = append(r.order, song.ID)
	}
	r.songs[song.ID] = *song
	return nil
}

// MemoryReleaseRepository keeps releases in a map.
type MemoryReleaseRepository struct {
	mu       sync.RWMutex
	releases map[uuid.UUID]model.Release
	order    []uuid.UUID
}

// NewMemoryReleaseRepository creates an empty release repository.
func NewMemoryReleaseRepository() *MemoryReleaseRepository {
	return &MemoryReleaseRepository{releases: make(map[uuid.UUID]model.Release)}
}

func cloneRelease(r model.Release) *model.Release {
	songIDs := make([]uuid.UUID, len(r.SongIDs))
	copy(songIDs, r.SongIDs)
	r.SongIDs = songIDs
	return &r
}

func (r *MemoryReleaseRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Release, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	release, ok := r.releases[id]
	if !ok {
		return nil, nil
	}
	return cloneRelease(release), nil
}

func (r *MemoryReleaseRepository) FindByArtistID(_ context.Context, artistID uuid.UUID) ([]*model.Release, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Release
	for _, id := range r.order {
		release := r.releases[id]
		if release.ArtistID == artistID {
			out = append(out, cloneRelease(release))
		}
	}
	return out, nil
}

func (r *MemoryReleaseRepository) FindBySongID(_ context.Context, songID uuid.UUID) ([]*model.Release, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Release
	for _, id := range r.order {
		release := r.releases[id]
		if release.ContainsSong(songID) {
			out = append(out, cloneRelease(release))
		}
	}
	return out, nil
}

func (r *MemoryReleaseRepository) FindReadyForPublishing(_ context.Context, date time.Time) ([]*model.Release, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Release
	for _, id := range r.order {
		release := r.releases[id]
		if release.Status == model.StatusApproved && !release.ApprovedDate.After(date) {
			out = append(out, cloneRelease(release))
		}
	}
	return out, nil
}

func (r *MemoryReleaseRepository) Save(_ context.Context, release *model.Release) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.releases[release.ID]; !exists {
		r.order = append(r.order, release.ID)
	}
	r.releases[release.ID] = *cloneRelease(*release)
	return nil
}

// MemoryStreamRepository keeps streams in append order. Artist-scoped
// queries join through the song repository for ownership.
type MemoryStreamRepository struct {
	mu      sync.RWMutex
	streams []model.Stream
	songs   SongRepository
}

// NewMemoryStreamRepository creates an empty stream repository. The song
// repository resolves which artist owns each streamed song.
func NewMemoryStreamRepository(songs SongRepository) *MemoryStreamRepository {
	return &MemoryStreamRepository{songs: songs}
}

func (r *MemoryStreamRepository) FindBySongID(_ context.Context, songID uuid.UUID) ([]*model.Stream, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Stream
	for i := range r.streams {
		if r.streams[i].SongID == songID {
			s := r.streams[i]
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *MemoryStreamRepository) FindByArtistID(ctx context.Context, artistID uuid.UUID) ([]*model.Stream, error) {
	songs, err := r.songs.FindByArtistID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	owned := make(map[uuid.UUID]bool, len(songs))
	for _, song := range songs {
		owned[song.ID] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Stream
	for i := range r.streams {
		if owned[r.streams[i].SongID] {
			s := r.streams[i]
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *MemoryStreamRepository) FindMonetizableByArtistID(ctx context.Context, artistID uuid.UUID, from, to time.Time) ([]*model.Stream, error) {
	streams, err := r.FindByArtistID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	var out []*model.Stream
	for _, stream := range streams {
		if !stream.Monetized {
			continue
		}
		if stream.Timestamp.Before(from) || stream.Timestamp.After(to) {
			continue
		}
		out = append(out, stream)
	}
	return out, nil
}

func (r *MemoryStreamRepository) Save(_ context.Context, stream *model.Stream) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streams = append(r.streams, *stream)
	return nil
}

// NewMemoryRepositories wires a full in-memory repository set.
func NewMemoryRepositories() Repositories {
	songs := NewMemorySongRepository()
	return Repositories{
		Artists:  NewMemoryArtistRepository(),
		Labels:   NewMemoryLabelRepository(),
		Songs:    songs,
		Releases: NewMemoryReleaseRepository(),
		Streams:  NewMemoryStreamRepository(songs),
	}
}
