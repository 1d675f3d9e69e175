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

// Dispatcher routes commands to their handlers. It is the single entry
// point of the write side; the HTTP layer and the publisher job both go
// through it.
type Dispatcher struct {
	createRelease *CreateReleaseHandler
	addSongs      *AddSongsHandler
	proposeDate   *ProposeDateHandler
	approveDate   *ApproveDateHandler
	publish       *PublishHandler
	withdraw      *WithdrawHandler
	recordStream  *RecordStreamHandler
	paymentReport *RequestPaymentReportHandler
}

// NewDispatcher wires every handler against the given repositories, event
// store and clock. Handlers touching releases share one lock set so
// concurrent commands on the same release serialize.
func NewDispatcher(repos repository.Repositories, store *eventstore.Store, clk clock.Clock) *Dispatcher {
	locks := newAggregateLocks()
	return &Dispatcher{
		createRelease: NewCreateReleaseHandler(repos.Artists, repos.Releases, store, clk),
		addSongs:      NewAddSongsHandler(repos.Artists, repos.Songs, repos.Releases, store, clk, locks),
		proposeDate:   NewProposeDateHandler(repos.Artists, repos.Releases, store, clk, locks),
		approveDate:   NewApproveDateHandler(repos.Labels, repos.Artists, repos.Releases, store, clk, locks),
		publish:       NewPublishHandler(repos.Releases, store, clk, locks),
		withdraw:      NewWithdrawHandler(repos.Releases, store, clk, locks),
		recordStream:  NewRecordStreamHandler(repos.Songs, repos.Releases, repos.Streams, store, clk),
		paymentReport: NewRequestPaymentReportHandler(repos.Artists, store, clk),
	}
}

func (d *Dispatcher) CreateRelease(ctx context.Context, cmd CreateRelease) (*model.Release, error) {
	return d.createRelease.Handle(ctx, cmd)
}

func (d *Dispatcher) AddSongsToRelease(ctx context.Context, cmd AddSongsToRelease) error {
	return d.addSongs.Handle(ctx, cmd)
}

func (d *Dispatcher) ProposeReleaseDate(ctx context.Context, cmd ProposeReleaseDate) error {
	return d.proposeDate.Handle(ctx, cmd)
}

func (d *Dispatcher) ApproveReleaseDate(ctx context.Context, cmd ApproveReleaseDate) error {
	return d.approveDate.Handle(ctx, cmd)
}

func (d *Dispatcher) PublishRelease(ctx context.Context, cmd PublishRelease) error {
	return d.publish.Handle(ctx, cmd)
}

func (d *Dispatcher) WithdrawRelease(ctx context.Context, cmd WithdrawRelease) error {
	return d.withdraw.Handle(ctx, cmd)
}

func (d *Dispatcher) RecordStream(ctx context.Context, cmd RecordStream) (*model.Stream, error) {
	return d.recordStream.Handle(ctx, cmd)
}

func (d *Dispatcher) RequestPaymentReport(ctx context.Context, cmd RequestPaymentReport) (uuid.UUID, error) {
	return d.paymentReport.Handle(ctx, cmd)
}

// Dispatch routes an untyped command, discarding handler return values.
// Callers that need the created entity use the typed methods instead.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case CreateRelease:
		_, err := d.CreateRelease(ctx, c)
		return err
	case AddSongsToRelease:
		return d.AddSongsToRelease(ctx, c)
	case ProposeReleaseDate:
		return d.ProposeReleaseDate(ctx, c)
	case ApproveReleaseDate:
		return d.ApproveReleaseDate(ctx, c)
	case PublishRelease:
		return d.PublishRelease(ctx, c)
	case WithdrawRelease:
		return d.WithdrawRelease(ctx, c)
	case RecordStream:
		_, err := d.RecordStream(ctx, c)
		return err
	case RequestPaymentReport:
		_, err := d.RequestPaymentReport(ctx, c)
		return err
	default:
		return fmt.Errorf("%w: unknown command %T", model.ErrInvalidInput, cmd)
	}
}
