package command

import (
	"context"
	"fmt"

	"github.com/mojtabanasehzadeh/music-distribution-service/clock"
	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

// AddSongsHandler adds songs to a release.
type AddSongsHandler struct {
	artists  repository.ArtistRepository
	songs    repository.SongRepository
	releases repository.ReleaseRepository
	store    *eventstore.Store
	clock    clock.Clock
	locks    *aggregateLocks
}

func NewAddSongsHandler(artists repository.ArtistRepository, songs repository.SongRepository, releases repository.ReleaseRepository, store *eventstore.Store, clk clock.Clock, locks *aggregateLocks) *AddSongsHandler {
	return &AddSongsHandler{artists: artists, songs: songs, releases: releases, store: store, clock: clk, locks: locks}
}

// Handle adds the songs to the release. Every song must exist and belong to
// the commanding artist; the command fails as a whole if any does not, so a
// partial add never persists.
func (h *AddSongsHandler) Handle(ctx context.Context, cmd AddSongsToRelease) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock := h.locks.Lock(cmd.ReleaseID)
	defer unlock()

	release, err := h.releases.FindByID(ctx, cmd.ReleaseID)
	if err != nil {
		return err
	}
	if release == nil {
		return fmt.Errorf("%w: release %s", model.ErrNotFound, cmd.ReleaseID)
	}
	if release.ArtistID != cmd.ArtistID {
		return fmt.Errorf("%w: release does not belong to this artist", model.ErrBusinessRule)
	}

	for _, songID := range cmd.SongIDs {
		song, err := h.songs.FindByID(ctx, songID)
		if err != nil {
			return err
		}
		if song == nil {
			return fmt.Errorf("%w: song %s", model.ErrNotFound, songID)
		}
		if !song.IsCreatedBy(cmd.ArtistID) {
			return fmt.Errorf("%w: song %s was not created by this artist", model.ErrBusinessRule, songID)
		}
	}

	if err := release.AddSongs(cmd.SongIDs); err != nil {
		return err
	}
	if err := h.releases.Save(ctx, release); err != nil {
		return err
	}

	h.store.Append(model.SongsAddedToRelease{
		EventMeta: model.NewEventMeta(release.ID, h.clock.Now()),
		ArtistID:  cmd.ArtistID,
		SongIDs:   cmd.SongIDs,
	})
	return nil
}
