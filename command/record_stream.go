package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/clock"
	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

// RecordStreamHandler records song plays and, for plays long enough to earn
// money, emits the monetization event right behind the recording event.
type RecordStreamHandler struct {
	songs    repository.SongRepository
	releases repository.ReleaseRepository
	streams  repository.StreamRepository
	store    *eventstore.Store
	clock    clock.Clock
}

func NewRecordStreamHandler(songs repository.SongRepository, releases repository.ReleaseRepository, streams repository.StreamRepository, store *eventstore.Store, clk clock.Clock) *RecordStreamHandler {
	return &RecordStreamHandler{songs: songs, releases: releases, streams: streams, store: store, clock: clk}
}

func (h *RecordStreamHandler) Handle(ctx context.Context, cmd RecordStream) (*model.Stream, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	song, err := h.songs.FindByID(ctx, cmd.SongID)
	if err != nil {
		return nil, err
	}
	if song == nil {
		return nil, fmt.Errorf("%w: song %s", model.ErrNotFound, cmd.SongID)
	}

	// A song is only streamable while at least one release carrying it is
	// published.
	releases, err := h.releases.FindBySongID(ctx, cmd.SongID)
	if err != nil {
		return nil, err
	}
	available := false
	for _, release := range releases {
		if release.IsPublished() {
			available = true
			break
		}
	}
	if !available {
		return nil, fmt.Errorf("%w: song is not available for streaming", model.ErrBusinessRule)
	}

	stream, err := model.NewStream(uuid.New(), cmd.SongID, cmd.UserID, h.clock.Now(), cmd.Duration)
	if err != nil {
		return nil, err
	}
	if err := h.streams.Save(ctx, stream); err != nil {
		return nil, err
	}

	events := []model.Event{model.StreamRecorded{
		EventMeta:  model.NewEventMeta(stream.ID, h.clock.Now()),
		SongID:     song.ID,
		UserID:     stream.UserID,
		ArtistID:   song.ArtistID,
		SongTitle:  song.Title,
		StreamedAt: stream.Timestamp,
		Duration:   stream.Duration,
	}}
	if stream.Monetized {
		events = append(events, model.StreamMonetized{
			EventMeta:  model.NewEventMeta(stream.ID, h.clock.Now()),
			SongID:     song.ID,
			ArtistID:   song.ArtistID,
			StreamedAt: stream.Timestamp,
			Duration:   stream.Duration,
			Amount:     model.MonetizationAmount(stream.Duration),
		})
	}
	h.store.Append(events...)

	return stream, nil
}
