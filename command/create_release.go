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

// CreateReleaseHandler opens new releases.
type CreateReleaseHandler struct {
	artists  repository.ArtistRepository
	releases repository.ReleaseRepository
	store    *eventstore.Store
	clock    clock.Clock
}

func NewCreateReleaseHandler(artists repository.ArtistRepository, releases repository.ReleaseRepository, store *eventstore.Store, clk clock.Clock) *CreateReleaseHandler {
	return &CreateReleaseHandler{artists: artists, releases: releases, store: store, clock: clk}
}

// Handle creates the release in DRAFT. A zero ReleaseID in the command gets
// a fresh id.
func (h *CreateReleaseHandler) Handle(ctx context.Context, cmd CreateRelease) (*model.Release, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	artist, err := h.artists.FindByID(ctx, cmd.ArtistID)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, fmt.Errorf("%w: artist %s", model.ErrNotFound, cmd.ArtistID)
	}

	releaseID := cmd.ReleaseID
	if releaseID == uuid.Nil {
		releaseID = uuid.New()
	}
	release := model.NewRelease(releaseID, cmd.Title, cmd.ArtistID)
	if err := h.releases.Save(ctx, release); err != nil {
		return nil, err
	}

	h.store.Append(model.ReleaseCreated{
		EventMeta: model.NewEventMeta(release.ID, h.clock.Now()),
		Title:     release.Title,
		ArtistID:  release.ArtistID,
	})
	return release, nil
}
