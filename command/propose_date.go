package command

import (
	"context"
	"fmt"

	"github.com/mojtabanasehzadeh/music-distribution-service/clock"
	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

// ProposeDateHandler records an artist's proposed release date.
type ProposeDateHandler struct {
	artists  repository.ArtistRepository
	releases repository.ReleaseRepository
	store    *eventstore.Store
	clock    clock.Clock
	locks    *aggregateLocks
}

func NewProposeDateHandler(artists repository.ArtistRepository, releases repository.ReleaseRepository, store *eventstore.Store, clk clock.Clock, locks *aggregateLocks) *ProposeDateHandler {
	return &ProposeDateHandler{artists: artists, releases: releases, store: store, clock: clk, locks: locks}
}

// Handle proposes the date. Re-proposing while PROPOSED or APPROVED resets
// the release to PROPOSED, so the label has to approve the new date.
func (h *ProposeDateHandler) Handle(ctx context.Context, cmd ProposeReleaseDate) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if cmd.ProposedDate.Before(h.clock.Today()) {
		return fmt.Errorf("%w: proposed date cannot be in the past", model.ErrInvalidInput)
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

	artist, err := h.artists.FindByID(ctx, cmd.ArtistID)
	if err != nil {
		return err
	}
	if artist == nil {
		return fmt.Errorf("%w: artist %s", model.ErrNotFound, cmd.ArtistID)
	}
	if release.ArtistID != artist.ID {
		return fmt.Errorf("%w: release does not belong to this artist", model.ErrBusinessRule)
	}

	if err := release.ProposeReleaseDate(cmd.ProposedDate); err != nil {
		return err
	}
	if err := h.releases.Save(ctx, release); err != nil {
		return err
	}

	h.store.Append(model.ReleaseDateProposed{
		EventMeta:    model.NewEventMeta(release.ID, h.clock.Now()),
		ArtistID:     cmd.ArtistID,
		ProposedDate: cmd.ProposedDate,
	})
	return nil
}
