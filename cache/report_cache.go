package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/projection"
)

// Report and search caching is cache-aside: the HTTP layer tries the cache,
// generates on a miss and stores the result with a TTL. A cold or down
// cache only costs regeneration.

func paymentReportKey(artistID uuid.UUID, from, to string) string {
	return fmt.Sprintf("report:payment:%s:%s:%s", artistID, from, to)
}

func streamReportKey(artistID uuid.UUID, from, to string) string {
	return fmt.Sprintf("report:streams:%s:%s:%s", artistID, from, to)
}

func searchKey(query string, maxDistance int) string {
	return fmt.Sprintf("search:title:%d:%s", maxDistance, query)
}

// GetPaymentReport returns the cached payment report, or nil on a miss.
func GetPaymentReport(ctx context.Context, artistID uuid.UUID, from, to string) (*projection.PaymentReport, error) {
	if RedisClient == nil {
		return nil, nil
	}
	data, err := RedisClient.Get(ctx, paymentReportKey(artistID, from, to)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached payment report: %w", err)
	}
	var report projection.PaymentReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached payment report: %w", err)
	}
	return &report, nil
}

// SetPaymentReport caches the payment report with the given TTL.
func SetPaymentReport(ctx context.Context, report *projection.PaymentReport, from, to string, ttl time.Duration) error {
	if RedisClient == nil {
		return nil
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal payment report: %w", err)
	}
	return RedisClient.Set(ctx, paymentReportKey(report.ArtistID, from, to), data, ttl).Err()
}

// GetStreamReport returns the cached stream report, or nil on a miss.
func GetStreamReport(ctx context.Context, artistID uuid.UUID, from, to string) (*projection.ArtistStreamReport, error) {
	if RedisClient == nil {
		return nil, nil
	}
	data, err := RedisClient.Get(ctx, streamReportKey(artistID, from, to)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached stream report: %w", err)
	}
	var report projection.ArtistStreamReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached stream report: %w", err)
	}
	return &report, nil
}

// SetStreamReport caches the stream report with the given TTL.
func SetStreamReport(ctx context.Context, report *projection.ArtistStreamReport, from, to string, ttl time.Duration) error {
	if RedisClient == nil {
		return nil
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal stream report: %w", err)
	}
	return RedisClient.Set(ctx, streamReportKey(report.ArtistID, from, to), data, ttl).Err()
}

// GetSearchResults returns cached search results. The bool reports a hit;
// an empty result set is a valid cached value.
func GetSearchResults(ctx context.Context, query string, maxDistance int) ([]projection.SongReadModel, bool, error) {
	if RedisClient == nil {
		return nil, false, nil
	}
	data, err := RedisClient.Get(ctx, searchKey(query, maxDistance)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached search results: %w", err)
	}
	var results []projection.SongReadModel
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached search results: %w", err)
	}
	return results, true, nil
}

// SetSearchResults caches the search results with the given TTL.
func SetSearchResults(ctx context.Context, query string, maxDistance int, results []projection.SongReadModel, ttl time.Duration) error {
	if RedisClient == nil {
		return nil
	}
	if results == nil {
		results = []projection.SongReadModel{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal search results: %w", err)
	}
	return RedisClient.Set(ctx, searchKey(query, maxDistance), data, ttl).Err()
}

// InvalidateSearch drops all cached search results. Called when a release is
// published or withdrawn so stale result sets don't outlive the TTL.
func InvalidateSearch(ctx context.Context) error {
	if RedisClient == nil {
		return nil
	}
	iter := RedisClient.Scan(ctx, 0, "search:title:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := RedisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate search cache: %w", err)
		}
	}
	return iter.Err()
}
