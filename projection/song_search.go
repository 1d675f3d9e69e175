package projection

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

// SongSearchProjection maintains the searchable song set: songs belonging
// to a release that is currently published and not withdrawn. Titles are
// matched with Levenshtein distance, case-insensitively.
type SongSearchProjection struct {
	songs repository.SongRepository

	mu                sync.RWMutex
	songsByRelease    map[uuid.UUID]map[uuid.UUID]bool
	publishedReleases map[uuid.UUID]bool
	titles            map[uuid.UUID]SongReadModel
}

// NewSongSearchProjection creates the search projection. Song titles are
// resolved through the song repository when songs join a release.
func NewSongSearchProjection(songs repository.SongRepository) *SongSearchProjection {
	return &SongSearchProjection{
		songs:             songs,
		songsByRelease:    make(map[uuid.UUID]map[uuid.UUID]bool),
		publishedReleases: make(map[uuid.UUID]bool),
		titles:            make(map[uuid.UUID]SongReadModel),
	}
}

// Register subscribes the projection to the events it consumes.
func (p *SongSearchProjection) Register(store *eventstore.Store) {
	store.Subscribe(model.EventSongsAddedToRelease, p.onSongsAdded)
	store.Subscribe(model.EventReleasePublished, p.onReleasePublished)
	store.Subscribe(model.EventReleaseWithdrawn, p.onReleaseWithdrawn)
}

func (p *SongSearchProjection) onSongsAdded(event model.Event) error {
	e, ok := event.(model.SongsAddedToRelease)
	if !ok {
		return nil
	}

	// Resolve titles outside the lock; repository reads don't depend on
	// projection state.
	resolved := make([]SongReadModel, 0, len(e.SongIDs))
	for _, songID := range e.SongIDs {
		song, err := p.songs.FindByID(context.Background(), songID)
		if err != nil {
			return err
		}
		if song == nil {
			continue
		}
		resolved = append(resolved, SongReadModel{ID: song.ID, Title: song.Title, ArtistID: song.ArtistID})
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	releaseSongs := p.songsByRelease[e.AggregateID]
	if releaseSongs == nil {
		releaseSongs = make(map[uuid.UUID]bool)
		p.songsByRelease[e.AggregateID] = releaseSongs
	}
	for _, rm := range resolved {
		releaseSongs[rm.ID] = true
		p.titles[rm.ID] = rm
	}
	return nil
}

func (p *SongSearchProjection) onReleasePublished(event model.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.publishedReleases[event.Meta().AggregateID] = true
	return nil
}

func (p *SongSearchProjection) onReleaseWithdrawn(event model.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.publishedReleases, event.Meta().AggregateID)
	return nil
}

// SearchableSongIDs returns the ids of all songs in published releases.
func (p *SongSearchProjection) SearchableSongIDs() map[uuid.UUID]bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[uuid.UUID]bool)
	for releaseID := range p.publishedReleases {
		for songID := range p.songsByRelease[releaseID] {
			out[songID] = true
		}
	}
	return out
}

// SearchByTitle returns every searchable song whose case-folded title is
// within maxDistance edits of the case-folded query. An empty query matches
// nothing. A negative distance is a radius that contains nothing and also
// matches nothing.
func (p *SongSearchProjection) SearchByTitle(query string, maxDistance int) []SongReadModel {
	if query == "" || maxDistance < 0 {
		return nil
	}

	searchable := p.SearchableSongIDs()
	queryLower := strings.ToLower(query)

	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []SongReadModel
	for songID := range searchable {
		rm, ok := p.titles[songID]
		if !ok {
			continue
		}
		if levenshtein(queryLower, strings.ToLower(rm.Title)) <= maxDistance {
			out = append(out, rm)
		}
	}
	return out
}
