// Package job holds background jobs. The only one today is the release
// publisher.
package job

import (
	"context"
	"time"

	"github.com/mojtabanasehzadeh/music-distribution-service/clock"
	"github.com/mojtabanasehzadeh/music-distribution-service/command"
	"github.com/mojtabanasehzadeh/music-distribution-service/logger"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

// releasePublisher is the slice of the dispatcher the job needs.
type releasePublisher interface {
	PublishRelease(ctx context.Context, cmd command.PublishRelease) error
}

// Publisher periodically publishes approved releases whose date has
// arrived. Each release is published through the regular command path so
// the same guards and events apply.
type Publisher struct {
	releases   repository.ReleaseRepository
	dispatcher releasePublisher
	clock      clock.Clock
	interval   time.Duration
}

// NewPublisher creates the publisher job.
func NewPublisher(releases repository.ReleaseRepository, dispatcher releasePublisher, clk clock.Clock, interval time.Duration) *Publisher {
	return &Publisher{releases: releases, dispatcher: dispatcher, clock: clk, interval: interval}
}

// Run checks immediately, then on every tick, until the context is
// cancelled.
func (p *Publisher) Run(ctx context.Context) {
	p.RunOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("release publisher stopped")
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce publishes every release that is due today. A failing release is
// logged and skipped; it does not block the others.
func (p *Publisher) RunOnce(ctx context.Context) {
	today := p.clock.Today()
	releases, err := p.releases.FindReadyForPublishing(ctx, today)
	if err != nil {
		logger.Error("failed to find releases ready for publishing", logger.ErrorField(err))
		return
	}
	if len(releases) == 0 {
		return
	}

	logger.Info("publishing due releases", logger.Int("count", len(releases)))
	for _, release := range releases {
		err := p.dispatcher.PublishRelease(ctx, command.PublishRelease{ReleaseID: release.ID})
		if err != nil {
			logger.Error("failed to publish release",
				logger.String("releaseId", release.ID.String()),
				logger.ErrorField(err),
			)
			continue
		}
		logger.Info("published release",
			logger.String("releaseId", release.ID.String()),
			logger.String("title", release.Title),
		)
	}
}
