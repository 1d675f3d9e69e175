package projection

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

// fixedStreamRepo returns a canned stream list regardless of the song
// catalog, standing in for streams whose song is gone from the repository.
type fixedStreamRepo struct {
	streams []*model.Stream
}

func (r *fixedStreamRepo) FindBySongID(_ context.Context, songID uuid.UUID) ([]*model.Stream, error) {
	var out []*model.Stream
	for _, s := range r.streams {
		if s.SongID == songID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fixedStreamRepo) FindByArtistID(context.Context, uuid.UUID) ([]*model.Stream, error) {
	return r.streams, nil
}

func (r *fixedStreamRepo) FindMonetizableByArtistID(context.Context, uuid.UUID, time.Time, time.Time) ([]*model.Stream, error) {
	var out []*model.Stream
	for _, s := range r.streams {
		if s.Monetized {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fixedStreamRepo) Save(_ context.Context, stream *model.Stream) error {
	r.streams = append(r.streams, stream)
	return nil
}

func TestStreamReportFallsBackToEventTitles(t *testing.T) {
	ctx := context.Background()
	artists := repository.NewMemoryArtistRepository()
	songs := repository.NewMemorySongRepository()
	streams := &fixedStreamRepo{}

	artist, err := model.NewArtist(uuid.New(), "Nova Reed", uuid.New())
	require.NoError(t, err)
	require.NoError(t, artists.Save(ctx, artist))

	// The stream's song is absent from the song repository; only the event
	// carried its title.
	songID := uuid.New()
	playedAt := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	stream, err := model.NewStream(uuid.New(), songID, uuid.New(), playedAt, 45*time.Second)
	require.NoError(t, err)
	require.NoError(t, streams.Save(ctx, stream))

	store := eventstore.NewStore()
	p := NewArtistStreamProjection(artists, songs, streams)
	p.Register(store)

	store.Append(model.StreamRecorded{
		EventMeta:  model.NewEventMeta(stream.ID, playedAt),
		SongID:     songID,
		UserID:     stream.UserID,
		ArtistID:   artist.ID,
		SongTitle:  "Vanished Tune",
		StreamedAt: playedAt,
		Duration:   stream.Duration,
	})

	report, err := p.GenerateStreamReport(ctx, artist.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, report.Songs, 1)
	assert.Equal(t, "Vanished Tune", report.Songs[0].Title)
}

func TestStreamReportUnknownSongWithoutCachedTitle(t *testing.T) {
	ctx := context.Background()
	artists := repository.NewMemoryArtistRepository()
	songs := repository.NewMemorySongRepository()

	artist, err := model.NewArtist(uuid.New(), "Nova Reed", uuid.New())
	require.NoError(t, err)
	require.NoError(t, artists.Save(ctx, artist))

	playedAt := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	stream, err := model.NewStream(uuid.New(), uuid.New(), uuid.New(), playedAt, 45*time.Second)
	require.NoError(t, err)
	streams := &fixedStreamRepo{streams: []*model.Stream{stream}}

	p := NewArtistStreamProjection(artists, songs, streams)

	report, err := p.GenerateStreamReport(ctx, artist.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, report.Songs, 1)
	assert.Equal(t, "Unknown Song", report.Songs[0].Title)
}
