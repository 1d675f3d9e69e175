package command

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/projection"
)

// TestReleaseLifecycleEndToEnd drives a release from creation through
// withdrawal and checks the read side along the way.
func TestReleaseLifecycleEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	search := projection.NewSongSearchProjection(f.repos.Songs)
	search.Register(f.store)
	artistStreams := projection.NewArtistStreamProjection(f.repos.Artists, f.repos.Songs, f.repos.Streams)
	artistStreams.Register(f.store)
	payments := projection.NewPaymentReportProjection(f.repos.Artists, f.repos.Songs, f.repos.Streams, f.clock)
	payments.Register(f.store)

	// Create the release and attach both songs.
	release := f.createRelease(t, "Midnight Sessions")
	require.NoError(t, f.dispatcher.AddSongsToRelease(ctx, AddSongsToRelease{
		ReleaseID: release.ID,
		ArtistID:  f.artist.ID,
		SongIDs:   []uuid.UUID{f.songA.ID, f.songB.ID},
	}))

	// Negotiate the release date.
	tomorrow := f.clock.Today().AddDate(0, 0, 1)
	require.NoError(t, f.dispatcher.ProposeReleaseDate(ctx, ProposeReleaseDate{
		ReleaseID: release.ID, ArtistID: f.artist.ID, ProposedDate: tomorrow,
	}))
	require.NoError(t, f.dispatcher.ApproveReleaseDate(ctx, ApproveReleaseDate{
		ReleaseID: release.ID, LabelID: f.label.ID,
	}))

	// Not searchable until published.
	assert.Empty(t, search.SearchByTitle("Bad Habits", 0))

	f.clock.Advance(24 * time.Hour)
	require.NoError(t, f.dispatcher.PublishRelease(ctx, PublishRelease{ReleaseID: release.ID}))

	// Fuzzy search over the published catalog.
	exact := search.SearchByTitle("Bad Habits", 0)
	require.Len(t, exact, 1)
	assert.Equal(t, f.songA.ID, exact[0].ID)

	fuzzy := search.SearchByTitle("bad habi", 2)
	require.Len(t, fuzzy, 1)
	assert.Equal(t, "Bad Habits", fuzzy[0].Title)

	assert.Empty(t, search.SearchByTitle("Bad Habi", 1))
	assert.Empty(t, search.SearchByTitle("Bad Habits", -1))

	// Streams: two monetizable, one too short.
	listener := uuid.New()
	for _, play := range []struct {
		song     uuid.UUID
		duration time.Duration
	}{
		{f.songA.ID, 45 * time.Second},
		{f.songA.ID, 25 * time.Second},
		{f.songB.ID, 31 * time.Second},
	} {
		_, err := f.dispatcher.RecordStream(ctx, RecordStream{
			SongID: play.song, UserID: listener, Duration: play.duration,
		})
		require.NoError(t, err)
	}

	streamReport, err := artistStreams.GenerateStreamReport(ctx, f.artist.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, streamReport.TotalStreams)
	assert.Equal(t, 2, streamReport.MonetizedStreams)
	assert.Equal(t, 1, streamReport.NonMonetizedStreams)

	paymentReport, err := payments.GeneratePaymentReport(ctx, f.artist.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, paymentReport.MonetizableStreams)
	assert.Equal(t, model.AmountForStreams(2), paymentReport.TotalAmount)
	require.Len(t, paymentReport.Songs, 2)
	for _, song := range paymentReport.Songs {
		assert.Equal(t, 1, song.StreamCount)
		assert.Equal(t, model.AmountForStreams(1), song.Amount)
	}

	// Withdraw and verify the songs leave the search index.
	require.NoError(t, f.dispatcher.WithdrawRelease(ctx, WithdrawRelease{
		ReleaseID: release.ID, ArtistID: f.artist.ID,
	}))
	assert.Empty(t, search.SearchByTitle("Bad Habits", 2))

	// The release's event stream tells the whole story in order.
	var types []model.EventType
	for _, event := range f.store.EventsForAggregate(release.ID) {
		types = append(types, event.Type())
	}
	assert.Equal(t, []model.EventType{
		model.EventReleaseCreated,
		model.EventSongsAddedToRelease,
		model.EventReleaseDateProposed,
		model.EventReleaseDateApproved,
		model.EventReleasePublished,
		model.EventReleaseWithdrawn,
	}, types)
}

// TestMonetizationReportDefaultsToLastPaymentRequest covers the "since last
// payout" window.
func TestMonetizationReportDefaultsToLastPaymentRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payments := projection.NewPaymentReportProjection(f.repos.Artists, f.repos.Songs, f.repos.Streams, f.clock)
	payments.Register(f.store)

	f.publishedRelease(t, f.songA.ID, f.songB.ID)

	_, err := f.dispatcher.RecordStream(ctx, RecordStream{
		SongID: f.songA.ID, UserID: uuid.New(), Duration: time.Minute,
	})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.dispatcher.RequestPaymentReport(ctx, RequestPaymentReport{ArtistID: f.artist.ID})
	require.NoError(t, err)

	// Only plays after the payment request count toward the next report.
	f.clock.Advance(time.Hour)
	_, err = f.dispatcher.RecordStream(ctx, RecordStream{
		SongID: f.songB.ID, UserID: uuid.New(), Duration: 2 * time.Minute,
	})
	require.NoError(t, err)

	report, err := payments.GenerateMonetizationReport(ctx, f.artist.ID, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, report.LastPaymentDate)
	assert.Equal(t, 1, report.TotalStreams)
	assert.Equal(t, 1, report.MonetizableStreams)
	assert.Equal(t, model.AmountForStreams(1), report.EstimatedRevenue)
}
