package projection

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

// ArtistStreamProjection serves per-artist stream reports. The event
// subscription keeps a title cache warm; report generation recomputes from
// the repositories so the numbers are exact.
type ArtistStreamProjection struct {
	artists repository.ArtistRepository
	songs   repository.SongRepository
	streams repository.StreamRepository

	mu         sync.Mutex
	titleCache map[uuid.UUID]map[uuid.UUID]string
}

// NewArtistStreamProjection creates the artist stream projection.
func NewArtistStreamProjection(artists repository.ArtistRepository, songs repository.SongRepository, streams repository.StreamRepository) *ArtistStreamProjection {
	return &ArtistStreamProjection{
		artists:    artists,
		songs:      songs,
		streams:    streams,
		titleCache: make(map[uuid.UUID]map[uuid.UUID]string),
	}
}

// Register subscribes the projection to the events it consumes.
func (p *ArtistStreamProjection) Register(store *eventstore.Store) {
	store.Subscribe(model.EventStreamRecorded, p.onStreamRecorded)
}

func (p *ArtistStreamProjection) onStreamRecorded(event model.Event) error {
	e, ok := event.(model.StreamRecorded)
	if !ok {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	titles := p.titleCache[e.ArtistID]
	if titles == nil {
		titles = make(map[uuid.UUID]string)
		p.titleCache[e.ArtistID] = titles
	}
	titles[e.SongID] = e.SongTitle
	return nil
}

// GenerateStreamReport builds the artist's stream report for an optional
// date window. Songs are sorted by total stream count, most streamed first;
// ties keep first-seen order so the output is deterministic.
func (p *ArtistStreamProjection) GenerateStreamReport(ctx context.Context, artistID uuid.UUID, fromDate, toDate *time.Time) (*ArtistStreamReport, error) {
	artist, err := p.artists.FindByID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, fmt.Errorf("%w: artist %s", model.ErrNotFound, artistID)
	}
	if fromDate != nil && toDate != nil && toDate.Before(*fromDate) {
		return nil, fmt.Errorf("%w: report range end before start", model.ErrInvalidInput)
	}

	songs, err := p.songs.FindByArtistID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	titles := make(map[uuid.UUID]string, len(songs))
	for _, song := range songs {
		titles[song.ID] = song.Title
	}
	// Fall back to titles captured from stream events for songs the
	// repository no longer returns.
	p.mu.Lock()
	for songID, title := range p.titleCache[artistID] {
		if _, ok := titles[songID]; !ok {
			titles[songID] = title
		}
	}
	p.mu.Unlock()

	streams, err := p.streams.FindByArtistID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if fromDate != nil && toDate != nil {
		filtered := streams[:0]
		for _, stream := range streams {
			if stream.Timestamp.Before(*fromDate) || stream.Timestamp.After(*toDate) {
				continue
			}
			filtered = append(filtered, stream)
		}
		streams = filtered
	}

	// Group by song in first-seen order.
	var songOrder []uuid.UUID
	bySong := make(map[uuid.UUID][]*model.Stream)
	for _, stream := range streams {
		if _, seen := bySong[stream.SongID]; !seen {
			songOrder = append(songOrder, stream.SongID)
		}
		bySong[stream.SongID] = append(bySong[stream.SongID], stream)
	}

	report := &ArtistStreamReport{
		ArtistID:   artistID,
		ArtistName: artist.Name,
		FromDate:   fromDate,
		ToDate:     toDate,
		Songs:      make([]SongStreamStats, 0, len(songOrder)),
	}

	for _, songID := range songOrder {
		stats := SongStreamStats{SongID: songID, Title: titles[songID]}
		if stats.Title == "" {
			stats.Title = "Unknown Song"
		}
		for _, stream := range bySong[songID] {
			stats.TotalStreams++
			if stream.Monetized {
				stats.MonetizedStreams++
			} else {
				stats.NonMonetizedStreams++
			}
		}
		report.TotalStreams += stats.TotalStreams
		report.MonetizedStreams += stats.MonetizedStreams
		report.NonMonetizedStreams += stats.NonMonetizedStreams
		report.Songs = append(report.Songs, stats)
	}

	sort.SliceStable(report.Songs, func(i, j int) bool {
		return report.Songs[i].TotalStreams > report.Songs[j].TotalStreams
	})

	return report, nil
}
