package command

import (
	"context"
	"fmt"

	"github.com/mojtabanasehzadeh/music-distribution-service/clock"
	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

// WithdrawHandler takes published releases out of distribution.
type WithdrawHandler struct {
	releases repository.ReleaseRepository
	store    *eventstore.Store
	clock    clock.Clock
	locks    *aggregateLocks
}

func NewWithdrawHandler(releases repository.ReleaseRepository, store *eventstore.Store, clk clock.Clock, locks *aggregateLocks) *WithdrawHandler {
	return &WithdrawHandler{releases: releases, store: store, clock: clk, locks: locks}
}

func (h *WithdrawHandler) Handle(ctx context.Context, cmd WithdrawRelease) error {
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

	if err := release.Withdraw(); err != nil {
		return err
	}
	if err := h.releases.Save(ctx, release); err != nil {
		return err
	}

	h.store.Append(model.ReleaseWithdrawn{
		EventMeta: model.NewEventMeta(release.ID, h.clock.Now()),
		ArtistID:  cmd.ArtistID,
	})
	return nil
}
