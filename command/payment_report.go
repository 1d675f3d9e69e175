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

// RequestPaymentReportHandler records payment report requests. The report
// itself is generated on the read side; this handler only emits the event
// that advances the artist's last-payment marker.
type RequestPaymentReportHandler struct {
	artists repository.ArtistRepository
	store   *eventstore.Store
	clock   clock.Clock
}

func NewRequestPaymentReportHandler(artists repository.ArtistRepository, store *eventstore.Store, clk clock.Clock) *RequestPaymentReportHandler {
	return &RequestPaymentReportHandler{artists: artists, store: store, clock: clk}
}

// Handle emits the request event and returns its request id.
func (h *RequestPaymentReportHandler) Handle(ctx context.Context, cmd RequestPaymentReport) (uuid.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return uuid.Nil, err
	}

	artist, err := h.artists.FindByID(ctx, cmd.ArtistID)
	if err != nil {
		return uuid.Nil, err
	}
	if artist == nil {
		return uuid.Nil, fmt.Errorf("%w: artist %s", model.ErrNotFound, cmd.ArtistID)
	}

	requestID := uuid.New()
	h.store.Append(model.PaymentReportRequested{
		EventMeta:  model.NewEventMeta(artist.ID, h.clock.Now()),
		RequestID:  requestID,
		ArtistName: artist.Name,
		FromDate:   cmd.FromDate,
		ToDate:     cmd.ToDate,
	})
	return requestID, nil
}
