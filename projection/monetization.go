package projection

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// MonetizationProjection keeps running monetization totals per artist and
// per song, updated from monetization events as they happen.
type MonetizationProjection struct {
	mu           sync.RWMutex
	artistTotals map[uuid.UUID]model.Amount
	songTotals   map[uuid.UUID]model.Amount
	byArtist     map[uuid.UUID][]MonetizedStreamRecord
}

// NewMonetizationProjection creates the monetization projection.
func NewMonetizationProjection() *MonetizationProjection {
	return &MonetizationProjection{
		artistTotals: make(map[uuid.UUID]model.Amount),
		songTotals:   make(map[uuid.UUID]model.Amount),
		byArtist:     make(map[uuid.UUID][]MonetizedStreamRecord),
	}
}

// Register subscribes the projection to the events it consumes.
func (p *MonetizationProjection) Register(store *eventstore.Store) {
	store.Subscribe(model.EventStreamMonetized, p.onStreamMonetized)
}

func (p *MonetizationProjection) onStreamMonetized(event model.Event) error {
	e, ok := event.(model.StreamMonetized)
	if !ok {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.artistTotals[e.ArtistID] = p.artistTotals[e.ArtistID].Add(e.Amount)
	p.songTotals[e.SongID] = p.songTotals[e.SongID].Add(e.Amount)
	p.byArtist[e.ArtistID] = append(p.byArtist[e.ArtistID], MonetizedStreamRecord{
		StreamID:  e.AggregateID,
		SongID:    e.SongID,
		Timestamp: e.StreamedAt,
		Amount:    e.Amount,
	})
	return nil
}

// ArtistTotal returns the artist's accumulated monetization amount.
func (p *MonetizationProjection) ArtistTotal(artistID uuid.UUID) model.Amount {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.artistTotals[artistID]
}

// SongTotal returns the song's accumulated monetization amount.
func (p *MonetizationProjection) SongTotal(songID uuid.UUID) model.Amount {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.songTotals[songID]
}

// MonetizedStreams returns the artist's monetized plays in event order.
func (p *MonetizationProjection) MonetizedStreams(artistID uuid.UUID) []MonetizedStreamRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	records := p.byArtist[artistID]
	out := make([]MonetizedStreamRecord, len(records))
	copy(out, records)
	return out
}

// MonetizedStreamsInRange returns the artist's monetized plays whose
// timestamps fall within [from, to], in event order.
func (p *MonetizationProjection) MonetizedStreamsInRange(artistID uuid.UUID, from, to time.Time) []MonetizedStreamRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []MonetizedStreamRecord
	for _, rec := range p.byArtist[artistID] {
		if rec.Timestamp.Before(from) || rec.Timestamp.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
