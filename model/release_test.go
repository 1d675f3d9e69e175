package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRelease(t *testing.T) *Release {
	t.Helper()
	return NewRelease(uuid.New(), "Test Album", uuid.New())
}

func TestNewReleaseStartsInDraft(t *testing.T) {
	release := newTestRelease(t)
	assert.Equal(t, StatusDraft, release.Status)
	assert.Empty(t, release.SongIDs)
	assert.Nil(t, release.ProposedDate)
	assert.Nil(t, release.ApprovedDate)
	assert.Nil(t, release.PublishedAt)
}

func TestAddSongsIsIdempotent(t *testing.T) {
	release := newTestRelease(t)
	songA := uuid.New()
	songB := uuid.New()

	require.NoError(t, release.AddSongs([]uuid.UUID{songA, songB}))
	require.NoError(t, release.AddSongs([]uuid.UUID{songA}))

	assert.Len(t, release.SongIDs, 2)
	assert.True(t, release.ContainsSong(songA))
	assert.True(t, release.ContainsSong(songB))
}

func TestAddSongsFailsOnWithdrawnRelease(t *testing.T) {
	release := publishedRelease(t)
	require.NoError(t, release.Withdraw())

	err := release.AddSongs([]uuid.UUID{uuid.New()})
	assert.True(t, errors.Is(err, ErrBusinessRule))
}

func TestProposeMovesToProposed(t *testing.T) {
	release := newTestRelease(t)
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, release.ProposeReleaseDate(date))

	assert.Equal(t, StatusProposed, release.Status)
	require.NotNil(t, release.ProposedDate)
	assert.Equal(t, date, *release.ProposedDate)
}

func TestReProposeResetsApprovedToProposed(t *testing.T) {
	release := newTestRelease(t)
	first := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, release.ProposeReleaseDate(first))
	require.NoError(t, release.ApproveReleaseDate(first))
	require.Equal(t, StatusApproved, release.Status)

	second := first.AddDate(0, 1, 0)
	require.NoError(t, release.ProposeReleaseDate(second))

	assert.Equal(t, StatusProposed, release.Status)
	assert.Equal(t, second, *release.ProposedDate)
}

func TestApproveRequiresProposed(t *testing.T) {
	release := newTestRelease(t)
	err := release.ApproveReleaseDate(time.Now())
	assert.True(t, errors.Is(err, ErrBusinessRule))
}

func TestPublishRequiresApproval(t *testing.T) {
	release := newTestRelease(t)
	err := release.Publish(time.Now())
	assert.True(t, errors.Is(err, ErrBusinessRule))
}

func TestPublishBeforeApprovedDateFails(t *testing.T) {
	release := newTestRelease(t)
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, release.ProposeReleaseDate(date))
	require.NoError(t, release.ApproveReleaseDate(date))

	err := release.Publish(date.AddDate(0, 0, -1))
	assert.True(t, errors.Is(err, ErrBusinessRule))
	assert.Equal(t, StatusApproved, release.Status)
}

func TestPublishOnApprovedDateSucceeds(t *testing.T) {
	release := newTestRelease(t)
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, release.ProposeReleaseDate(date))
	require.NoError(t, release.ApproveReleaseDate(date))

	require.NoError(t, release.Publish(date))

	assert.Equal(t, StatusPublished, release.Status)
	assert.True(t, release.IsPublished())
	require.NotNil(t, release.PublishedAt)
}

func TestWithdrawOnlyFromPublished(t *testing.T) {
	release := newTestRelease(t)
	err := release.Withdraw()
	assert.True(t, errors.Is(err, ErrBusinessRule))

	release = publishedRelease(t)
	require.NoError(t, release.Withdraw())
	assert.True(t, release.IsWithdrawn())
}

func TestWithdrawnIsTerminal(t *testing.T) {
	release := publishedRelease(t)
	require.NoError(t, release.Withdraw())

	assert.True(t, errors.Is(release.ProposeReleaseDate(time.Now()), ErrBusinessRule))
	assert.True(t, errors.Is(release.ApproveReleaseDate(time.Now()), ErrBusinessRule))
	assert.True(t, errors.Is(release.Publish(time.Now()), ErrBusinessRule))
	assert.True(t, errors.Is(release.Withdraw(), ErrBusinessRule))
	assert.Equal(t, StatusWithdrawn, release.Status)
}

func TestWithdrawKeepsSongSetAndDates(t *testing.T) {
	release := publishedRelease(t)
	song := uuid.New()
	// withdrawn releases retain their history for audit
	require.NoError(t, release.AddSongs([]uuid.UUID{song}))
	require.NoError(t, release.Withdraw())

	assert.True(t, release.ContainsSong(song))
	assert.NotNil(t, release.ApprovedDate)
	assert.NotNil(t, release.PublishedAt)
}

func publishedRelease(t *testing.T) *Release {
	t.Helper()
	release := NewRelease(uuid.New(), "Live Album", uuid.New())
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, release.ProposeReleaseDate(date))
	require.NoError(t, release.ApproveReleaseDate(date))
	require.NoError(t, release.Publish(date))
	return release
}
