package projection

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// StreamStatsProjection keeps live stream counters per song and per artist,
// plus per-day play counts for each song.
type StreamStatsProjection struct {
	mu       sync.RWMutex
	bySong   map[uuid.UUID]*StreamStatistics
	byArtist map[uuid.UUID]*StreamStatistics
	daily    map[uuid.UUID]map[string]int
}

// NewStreamStatsProjection creates the stream statistics projection.
func NewStreamStatsProjection() *StreamStatsProjection {
	return &StreamStatsProjection{
		bySong:   make(map[uuid.UUID]*StreamStatistics),
		byArtist: make(map[uuid.UUID]*StreamStatistics),
		daily:    make(map[uuid.UUID]map[string]int),
	}
}

// Register subscribes the projection to the events it consumes.
func (p *StreamStatsProjection) Register(store *eventstore.Store) {
	store.Subscribe(model.EventStreamRecorded, p.onStreamRecorded)
}

func (p *StreamStatsProjection) onStreamRecorded(event model.Event) error {
	e, ok := event.(model.StreamRecorded)
	if !ok {
		return nil
	}
	monetized := e.IsMonetizable()

	p.mu.Lock()
	defer p.mu.Unlock()
	bump(p.bySong, e.SongID, monetized)
	bump(p.byArtist, e.ArtistID, monetized)

	day := e.StreamedAt.UTC().Format("2006-01-02")
	days := p.daily[e.SongID]
	if days == nil {
		days = make(map[string]int)
		p.daily[e.SongID] = days
	}
	days[day]++
	return nil
}

func bump(stats map[uuid.UUID]*StreamStatistics, id uuid.UUID, monetized bool) {
	s := stats[id]
	if s == nil {
		s = &StreamStatistics{}
		stats[id] = s
	}
	s.TotalStreams++
	if monetized {
		s.MonetizedStreams++
	} else {
		s.NonMonetizedStreams++
	}
}

// SongStats returns the song's stream counters.
func (p *StreamStatsProjection) SongStats(songID uuid.UUID) StreamStatistics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s := p.bySong[songID]; s != nil {
		return *s
	}
	return StreamStatistics{}
}

// ArtistStats returns the artist's stream counters.
func (p *StreamStatsProjection) ArtistStats(artistID uuid.UUID) StreamStatistics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s := p.byArtist[artistID]; s != nil {
		return *s
	}
	return StreamStatistics{}
}

// DailySongStreams returns the song's play counts keyed by UTC date.
func (p *StreamStatsProjection) DailySongStreams(songID uuid.UUID) map[string]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]int, len(p.daily[songID]))
	for day, n := range p.daily[songID] {
		out[day] = n
	}
	return out
}
