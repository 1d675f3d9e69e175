package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonetizationThresholdIsStrict(t *testing.T) {
	assert.False(t, IsMonetizable(29*time.Second))
	assert.False(t, IsMonetizable(30*time.Second))
	assert.True(t, IsMonetizable(30*time.Second+time.Millisecond))
	assert.True(t, IsMonetizable(31*time.Second))
}

func TestNewStreamDerivesMonetizedFlag(t *testing.T) {
	now := time.Now()

	short, err := NewStream(uuid.New(), uuid.New(), uuid.New(), now, 25*time.Second)
	require.NoError(t, err)
	assert.False(t, short.Monetized)

	long, err := NewStream(uuid.New(), uuid.New(), uuid.New(), now, 45*time.Second)
	require.NoError(t, err)
	assert.True(t, long.Monetized)
}

func TestNewStreamAllowsZeroDuration(t *testing.T) {
	stream, err := NewStream(uuid.New(), uuid.New(), uuid.New(), time.Now(), 0)
	require.NoError(t, err)
	assert.False(t, stream.Monetized)
}

func TestNewStreamRejectsNegativeDuration(t *testing.T) {
	_, err := NewStream(uuid.New(), uuid.New(), uuid.New(), time.Now(), -time.Second)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestMonetizationAmountCountsStartedMinutes(t *testing.T) {
	// 0.004 per started minute
	assert.Equal(t, StreamRate, MonetizationAmount(45*time.Second))
	assert.Equal(t, StreamRate, MonetizationAmount(60*time.Second))
	assert.Equal(t, 2*StreamRate, MonetizationAmount(61*time.Second))
	assert.Equal(t, 3*StreamRate, MonetizationAmount(150*time.Second))
}

func TestAmountForStreams(t *testing.T) {
	assert.Equal(t, Amount(0), AmountForStreams(0))
	assert.Equal(t, Amount(8000), AmountForStreams(2))
	assert.InDelta(t, 0.008, AmountForStreams(2).Float64(), 1e-9)
}

func TestAmountJSONRoundTrip(t *testing.T) {
	a := AmountForStreams(3)
	data, err := a.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "0.012", string(data))

	var back Amount
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, a, back)
}
