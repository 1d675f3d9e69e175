package command

import (
	"context"
	"fmt"

	"github.com/mojtabanasehzadeh/music-distribution-service/clock"
	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

// PublishHandler publishes approved releases whose date has arrived. The
// current date comes from the injected clock, never the wall clock directly.
type PublishHandler struct {
	releases repository.ReleaseRepository
	store    *eventstore.Store
	clock    clock.Clock
	locks    *aggregateLocks
}

func NewPublishHandler(releases repository.ReleaseRepository, store *eventstore.Store, clk clock.Clock, locks *aggregateLocks) *PublishHandler {
	return &PublishHandler{releases: releases, store: store, clock: clk, locks: locks}
}

func (h *PublishHandler) Handle(ctx context.Context, cmd PublishRelease) error {
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

	if err := release.Publish(h.clock.Today()); err != nil {
		return err
	}
	if err := h.releases.Save(ctx, release); err != nil {
		return err
	}

	h.store.Append(model.ReleasePublished{
		EventMeta:     model.NewEventMeta(release.ID, h.clock.Now()),
		ArtistID:      release.ArtistID,
		PublishedDate: *release.PublishedAt,
	})
	return nil
}
