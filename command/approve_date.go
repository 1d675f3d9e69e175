package command

import (
	"context"
	"fmt"

	"github.com/mojtabanasehzadeh/music-distribution-service/clock"
	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

// ApproveDateHandler records a label's approval of a proposed release date.
type ApproveDateHandler struct {
	labels   repository.LabelRepository
	artists  repository.ArtistRepository
	releases repository.ReleaseRepository
	store    *eventstore.Store
	clock    clock.Clock
	locks    *aggregateLocks
}

func NewApproveDateHandler(labels repository.LabelRepository, artists repository.ArtistRepository, releases repository.ReleaseRepository, store *eventstore.Store, clk clock.Clock, locks *aggregateLocks) *ApproveDateHandler {
	return &ApproveDateHandler{labels: labels, artists: artists, releases: releases, store: store, clock: clk, locks: locks}
}

// Handle approves the release's proposed date. Only the label the release's
// artist is signed to may approve.
func (h *ApproveDateHandler) Handle(ctx context.Context, cmd ApproveReleaseDate) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock := h.locks.Lock(cmd.ReleaseID)
	defer unlock()

	label, err := h.labels.FindByID(ctx, cmd.LabelID)
	if err != nil {
		return err
	}
	if label == nil {
		return fmt.Errorf("%w: label %s", model.ErrNotFound, cmd.LabelID)
	}

	release, err := h.releases.FindByID(ctx, cmd.ReleaseID)
	if err != nil {
		return err
	}
	if release == nil {
		return fmt.Errorf("%w: release %s", model.ErrNotFound, cmd.ReleaseID)
	}

	artist, err := h.artists.FindByID(ctx, release.ArtistID)
	if err != nil {
		return err
	}
	if artist == nil {
		return fmt.Errorf("%w: artist %s", model.ErrNotFound, release.ArtistID)
	}
	if !artist.BelongsToLabel(label.ID) {
		return fmt.Errorf("%w: artist is not signed to this label", model.ErrBusinessRule)
	}
	if !label.CanApproveRelease(release) {
		return fmt.Errorf("%w: release has no proposed date to approve", model.ErrBusinessRule)
	}

	approvedDate := *release.ProposedDate
	if approvedDate.Before(h.clock.Today()) {
		return fmt.Errorf("%w: proposed date has already passed, the artist must propose a new one", model.ErrBusinessRule)
	}
	if err := release.ApproveReleaseDate(approvedDate); err != nil {
		return err
	}
	if err := h.releases.Save(ctx, release); err != nil {
		return err
	}

	h.store.Append(model.ReleaseDateApproved{
		EventMeta:    model.NewEventMeta(release.ID, h.clock.Now()),
		LabelID:      label.ID,
		ApprovedDate: approvedDate,
	})
	return nil
}
