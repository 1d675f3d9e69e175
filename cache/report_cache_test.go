package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/projection"
)

func setupRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		RedisClient.Close()
		RedisClient = nil
	})
}

func TestPaymentReportCacheRoundTrip(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	report := &projection.PaymentReport{
		ReportID:           uuid.New(),
		ArtistID:           uuid.New(),
		ArtistName:         "Nova Reed",
		MonetizableStreams: 2,
		TotalAmount:        model.AmountForStreams(2),
		GeneratedAt:        time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		Songs: []projection.SongPayment{
			{SongID: uuid.New(), Title: "Bad Habits", StreamCount: 2, Amount: model.AmountForStreams(2)},
		},
	}

	miss, err := GetPaymentReport(ctx, report.ArtistID, "-", "-")
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, SetPaymentReport(ctx, report, "-", "-", time.Minute))

	hit, err := GetPaymentReport(ctx, report.ArtistID, "-", "-")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, report.ReportID, hit.ReportID)
	assert.Equal(t, report.TotalAmount, hit.TotalAmount)
	require.Len(t, hit.Songs, 1)
	assert.Equal(t, "Bad Habits", hit.Songs[0].Title)
}

func TestSearchCacheDistinguishesEmptyHitFromMiss(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	_, hit, err := GetSearchResults(ctx, "winter", 2)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, SetSearchResults(ctx, "winter", 2, nil, time.Minute))

	results, hit, err := GetSearchResults(ctx, "winter", 2)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Empty(t, results)
}

func TestSearchCacheKeyedByDistance(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	song := projection.SongReadModel{ID: uuid.New(), Title: "Winter", ArtistID: uuid.New()}
	require.NoError(t, SetSearchResults(ctx, "winter", 2, []projection.SongReadModel{song}, time.Minute))

	_, hit, err := GetSearchResults(ctx, "winter", 1)
	require.NoError(t, err)
	assert.False(t, hit)

	results, hit, err := GetSearchResults(ctx, "winter", 2)
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, results, 1)
	assert.Equal(t, song.ID, results[0].ID)
}

func TestInvalidateSearchDropsOnlySearchKeys(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	require.NoError(t, SetSearchResults(ctx, "winter", 2, nil, time.Minute))
	report := &projection.ArtistStreamReport{ArtistID: uuid.New(), ArtistName: "Nova Reed"}
	require.NoError(t, SetStreamReport(ctx, report, "-", "-", time.Minute))

	require.NoError(t, InvalidateSearch(ctx))

	_, hit, err := GetSearchResults(ctx, "winter", 2)
	require.NoError(t, err)
	assert.False(t, hit)

	cached, err := GetStreamReport(ctx, report.ArtistID, "-", "-")
	require.NoError(t, err)
	assert.NotNil(t, cached)
}

func TestCacheDisabledIsNoOp(t *testing.T) {
	RedisClient = nil
	ctx := context.Background()

	assert.False(t, Enabled())
	report, err := GetPaymentReport(ctx, uuid.New(), "-", "-")
	require.NoError(t, err)
	assert.Nil(t, report)
	require.NoError(t, SetSearchResults(ctx, "q", 1, nil, time.Minute))
	require.NoError(t, InvalidateSearch(ctx))
}
