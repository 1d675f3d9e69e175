package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojtabanasehzadeh/music-distribution-service/clock"
	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

type fixture struct {
	repos      repository.Repositories
	store      *eventstore.Store
	clock      *clock.Fixed
	dispatcher *Dispatcher

	label  *model.LabelRecord
	artist *model.Artist
	songA  *model.Song
	songB  *model.Song
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	repos := repository.NewMemoryRepositories()
	store := eventstore.NewStore()
	clk := clock.NewFixed(time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	label, err := model.NewLabelRecord(uuid.New(), "Night Owl Records")
	require.NoError(t, err)
	require.NoError(t, repos.Labels.Save(ctx, label))

	artist, err := model.NewArtist(uuid.New(), "Nova Reed", label.ID)
	require.NoError(t, err)
	require.NoError(t, repos.Artists.Save(ctx, artist))

	songA, err := model.NewSong(uuid.New(), "Bad Habits", artist.ID, 3*time.Minute)
	require.NoError(t, err)
	require.NoError(t, repos.Songs.Save(ctx, songA))

	songB, err := model.NewSong(uuid.New(), "Winter", artist.ID, 4*time.Minute)
	require.NoError(t, err)
	require.NoError(t, repos.Songs.Save(ctx, songB))

	return &fixture{
		repos:      repos,
		store:      store,
		clock:      clk,
		dispatcher: NewDispatcher(repos, store, clk),
		label:      label,
		artist:     artist,
		songA:      songA,
		songB:      songB,
	}
}

func (f *fixture) createRelease(t *testing.T, title string) *model.Release {
	t.Helper()
	release, err := f.dispatcher.CreateRelease(context.Background(), CreateRelease{
		Title:    title,
		ArtistID: f.artist.ID,
	})
	require.NoError(t, err)
	return release
}

// publishedRelease walks the songs through the whole negotiation so they
// are streamable. Proposing today's date keeps the fixture clock untouched.
func (f *fixture) publishedRelease(t *testing.T, songIDs ...uuid.UUID) *model.Release {
	t.Helper()
	ctx := context.Background()
	release := f.createRelease(t, "Live Catalog")
	require.NoError(t, f.dispatcher.AddSongsToRelease(ctx, AddSongsToRelease{
		ReleaseID: release.ID, ArtistID: f.artist.ID, SongIDs: songIDs,
	}))
	require.NoError(t, f.dispatcher.ProposeReleaseDate(ctx, ProposeReleaseDate{
		ReleaseID: release.ID, ArtistID: f.artist.ID, ProposedDate: f.clock.Today(),
	}))
	require.NoError(t, f.dispatcher.ApproveReleaseDate(ctx, ApproveReleaseDate{
		ReleaseID: release.ID, LabelID: f.label.ID,
	}))
	require.NoError(t, f.dispatcher.PublishRelease(ctx, PublishRelease{ReleaseID: release.ID}))
	return release
}

func TestCreateReleaseUnknownArtist(t *testing.T) {
	f := newFixture(t)
	_, err := f.dispatcher.CreateRelease(context.Background(), CreateRelease{
		Title:    "Ghost Album",
		ArtistID: uuid.New(),
	})
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestCreateReleaseEmitsEvent(t *testing.T) {
	f := newFixture(t)
	release := f.createRelease(t, "First Light")

	events := f.store.EventsForAggregate(release.ID)
	require.Len(t, events, 1)
	created, ok := events[0].(model.ReleaseCreated)
	require.True(t, ok)
	assert.Equal(t, "First Light", created.Title)
	assert.Equal(t, f.artist.ID, created.ArtistID)
}

func TestAddSongsRejectsForeignSong(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	release := f.createRelease(t, "First Light")

	otherArtist, err := model.NewArtist(uuid.New(), "Rival", f.label.ID)
	require.NoError(t, err)
	require.NoError(t, f.repos.Artists.Save(ctx, otherArtist))
	foreign, err := model.NewSong(uuid.New(), "Not Yours", otherArtist.ID, time.Minute)
	require.NoError(t, err)
	require.NoError(t, f.repos.Songs.Save(ctx, foreign))

	err = f.dispatcher.AddSongsToRelease(ctx, AddSongsToRelease{
		ReleaseID: release.ID,
		ArtistID:  f.artist.ID,
		SongIDs:   []uuid.UUID{f.songA.ID, foreign.ID},
	})
	assert.True(t, errors.Is(err, model.ErrBusinessRule))

	// the failed command must not have persisted a partial song set
	stored, err := f.repos.Releases.FindByID(ctx, release.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.SongIDs)
	assert.Len(t, f.store.EventsForAggregate(release.ID), 1)
}

func TestAddSongsRejectsWrongOwner(t *testing.T) {
	f := newFixture(t)
	release := f.createRelease(t, "First Light")

	err := f.dispatcher.AddSongsToRelease(context.Background(), AddSongsToRelease{
		ReleaseID: release.ID,
		ArtistID:  uuid.New(),
		SongIDs:   []uuid.UUID{f.songA.ID},
	})
	assert.True(t, errors.Is(err, model.ErrBusinessRule))
}

func TestProposeRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	release := f.createRelease(t, "First Light")

	rival, err := model.NewArtist(uuid.New(), "Rival", f.label.ID)
	require.NoError(t, err)
	require.NoError(t, f.repos.Artists.Save(ctx, rival))

	err = f.dispatcher.ProposeReleaseDate(ctx, ProposeReleaseDate{
		ReleaseID:    release.ID,
		ArtistID:     rival.ID,
		ProposedDate: f.clock.Today().AddDate(0, 0, 7),
	})
	assert.True(t, errors.Is(err, model.ErrBusinessRule))
}

func TestProposeUnknownArtist(t *testing.T) {
	f := newFixture(t)
	release := f.createRelease(t, "First Light")

	err := f.dispatcher.ProposeReleaseDate(context.Background(), ProposeReleaseDate{
		ReleaseID:    release.ID,
		ArtistID:     uuid.New(),
		ProposedDate: f.clock.Today().AddDate(0, 0, 7),
	})
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestProposePastDateRejected(t *testing.T) {
	f := newFixture(t)
	release := f.createRelease(t, "First Light")

	err := f.dispatcher.ProposeReleaseDate(context.Background(), ProposeReleaseDate{
		ReleaseID:    release.ID,
		ArtistID:     f.artist.ID,
		ProposedDate: f.clock.Today().AddDate(0, 0, -1),
	})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	// today is the earliest acceptable date
	err = f.dispatcher.ProposeReleaseDate(context.Background(), ProposeReleaseDate{
		ReleaseID:    release.ID,
		ArtistID:     f.artist.ID,
		ProposedDate: f.clock.Today(),
	})
	assert.NoError(t, err)
}

func TestApproveStaleProposedDateFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	release := f.createRelease(t, "First Light")

	require.NoError(t, f.dispatcher.ProposeReleaseDate(ctx, ProposeReleaseDate{
		ReleaseID:    release.ID,
		ArtistID:     f.artist.ID,
		ProposedDate: f.clock.Today().AddDate(0, 0, 1),
	}))

	// The label sits on the proposal until the date has passed.
	f.clock.Advance(48 * time.Hour)
	err := f.dispatcher.ApproveReleaseDate(ctx, ApproveReleaseDate{
		ReleaseID: release.ID,
		LabelID:   f.label.ID,
	})
	assert.True(t, errors.Is(err, model.ErrBusinessRule))
}

func TestApproveRequiresSameLabel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	release := f.createRelease(t, "First Light")
	require.NoError(t, f.dispatcher.ProposeReleaseDate(ctx, ProposeReleaseDate{
		ReleaseID:    release.ID,
		ArtistID:     f.artist.ID,
		ProposedDate: f.clock.Today().AddDate(0, 0, 7),
	}))

	otherLabel, err := model.NewLabelRecord(uuid.New(), "Competing Records")
	require.NoError(t, err)
	require.NoError(t, f.repos.Labels.Save(ctx, otherLabel))

	err = f.dispatcher.ApproveReleaseDate(ctx, ApproveReleaseDate{
		ReleaseID: release.ID,
		LabelID:   otherLabel.ID,
	})
	assert.True(t, errors.Is(err, model.ErrBusinessRule))
}

func TestApproveWithoutProposalFails(t *testing.T) {
	f := newFixture(t)
	release := f.createRelease(t, "First Light")

	err := f.dispatcher.ApproveReleaseDate(context.Background(), ApproveReleaseDate{
		ReleaseID: release.ID,
		LabelID:   f.label.ID,
	})
	assert.True(t, errors.Is(err, model.ErrBusinessRule))
}

func TestPublishBeforeApprovedDateFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	release := f.createRelease(t, "First Light")
	tomorrow := f.clock.Today().AddDate(0, 0, 1)

	require.NoError(t, f.dispatcher.ProposeReleaseDate(ctx, ProposeReleaseDate{
		ReleaseID: release.ID, ArtistID: f.artist.ID, ProposedDate: tomorrow,
	}))
	require.NoError(t, f.dispatcher.ApproveReleaseDate(ctx, ApproveReleaseDate{
		ReleaseID: release.ID, LabelID: f.label.ID,
	}))

	err := f.dispatcher.PublishRelease(ctx, PublishRelease{ReleaseID: release.ID})
	assert.True(t, errors.Is(err, model.ErrBusinessRule))

	f.clock.Advance(24 * time.Hour)
	require.NoError(t, f.dispatcher.PublishRelease(ctx, PublishRelease{ReleaseID: release.ID}))

	stored, err := f.repos.Releases.FindByID(ctx, release.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, stored.Status)
}

func TestRecordStreamUnknownSong(t *testing.T) {
	f := newFixture(t)
	_, err := f.dispatcher.RecordStream(context.Background(), RecordStream{
		SongID:   uuid.New(),
		UserID:   uuid.New(),
		Duration: time.Minute,
	})
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRecordStreamRequiresPublishedRelease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// songA is in no release at all
	_, err := f.dispatcher.RecordStream(ctx, RecordStream{
		SongID: f.songA.ID, UserID: uuid.New(), Duration: 45 * time.Second,
	})
	assert.True(t, errors.Is(err, model.ErrBusinessRule))
	assert.Empty(t, f.store.EventsByType(model.EventStreamRecorded))
	assert.Empty(t, f.store.EventsByType(model.EventStreamMonetized))

	stored, err := f.repos.Streams.FindBySongID(ctx, f.songA.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	// a withdrawn release does not make its songs streamable again
	release := f.publishedRelease(t, f.songA.ID)
	require.NoError(t, f.dispatcher.WithdrawRelease(ctx, WithdrawRelease{
		ReleaseID: release.ID, ArtistID: f.artist.ID,
	}))
	_, err = f.dispatcher.RecordStream(ctx, RecordStream{
		SongID: f.songA.ID, UserID: uuid.New(), Duration: 45 * time.Second,
	})
	assert.True(t, errors.Is(err, model.ErrBusinessRule))
}

func TestRecordStreamEmitsMonetizationForLongPlays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publishedRelease(t, f.songA.ID)

	long, err := f.dispatcher.RecordStream(ctx, RecordStream{
		SongID: f.songA.ID, UserID: uuid.New(), Duration: 45 * time.Second,
	})
	require.NoError(t, err)
	assert.True(t, long.Monetized)

	short, err := f.dispatcher.RecordStream(ctx, RecordStream{
		SongID: f.songA.ID, UserID: uuid.New(), Duration: 25 * time.Second,
	})
	require.NoError(t, err)
	assert.False(t, short.Monetized)

	longEvents := f.store.EventsForAggregate(long.ID)
	require.Len(t, longEvents, 2)
	assert.Equal(t, model.EventStreamRecorded, longEvents[0].Type())
	monetized, ok := longEvents[1].(model.StreamMonetized)
	require.True(t, ok)
	assert.Equal(t, model.MonetizationAmount(45*time.Second), monetized.Amount)

	shortEvents := f.store.EventsForAggregate(short.ID)
	require.Len(t, shortEvents, 1)
	assert.Equal(t, model.EventStreamRecorded, shortEvents[0].Type())
}

func TestRequestPaymentReportEmitsEvent(t *testing.T) {
	f := newFixture(t)
	requestID, err := f.dispatcher.RequestPaymentReport(context.Background(), RequestPaymentReport{
		ArtistID: f.artist.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, requestID)

	events := f.store.EventsByType(model.EventPaymentReportRequested)
	require.Len(t, events, 1)
	requested, ok := events[0].(model.PaymentReportRequested)
	require.True(t, ok)
	assert.Equal(t, f.artist.ID, requested.AggregateID)
	assert.Equal(t, f.artist.Name, requested.ArtistName)
}

func TestDispatchRejectsInvalidCommands(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.dispatcher.Dispatch(ctx, CreateRelease{ArtistID: f.artist.ID})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	err = f.dispatcher.Dispatch(ctx, RecordStream{
		SongID: f.songA.ID, UserID: uuid.New(), Duration: -time.Second,
	})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	err = f.dispatcher.Dispatch(ctx, AddSongsToRelease{
		ReleaseID: uuid.New(), ArtistID: f.artist.ID,
	})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}
