package projection

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/clock"
	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

// PaymentReportProjection serves payment and monetization reports. It
// tracks each artist's last payment request so monetization summaries can
// default their window to "since the last request".
type PaymentReportProjection struct {
	artists repository.ArtistRepository
	songs   repository.SongRepository
	streams repository.StreamRepository
	clock   clock.Clock

	mu               sync.Mutex
	lastPaymentDates map[uuid.UUID]time.Time
}

// NewPaymentReportProjection creates the payment report projection.
func NewPaymentReportProjection(artists repository.ArtistRepository, songs repository.SongRepository, streams repository.StreamRepository, clk clock.Clock) *PaymentReportProjection {
	return &PaymentReportProjection{
		artists:          artists,
		songs:            songs,
		streams:          streams,
		clock:            clk,
		lastPaymentDates: make(map[uuid.UUID]time.Time),
	}
}

// Register subscribes the projection to the events it consumes.
func (p *PaymentReportProjection) Register(store *eventstore.Store) {
	store.Subscribe(model.EventPaymentReportRequested, p.onPaymentReportRequested)
}

func (p *PaymentReportProjection) onPaymentReportRequested(event model.Event) error {
	e, ok := event.(model.PaymentReportRequested)
	if !ok {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastPaymentDates[e.AggregateID] = p.clock.Now()
	return nil
}

// LastPaymentDate returns when the artist last requested a payment report.
func (p *PaymentReportProjection) LastPaymentDate(artistID uuid.UUID) (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.lastPaymentDates[artistID]
	return t, ok
}

// GeneratePaymentReport builds the payment report for an artist. Each
// song's amount is the flat per-stream rate times its monetizable stream
// count; songs are sorted by amount, highest first.
func (p *PaymentReportProjection) GeneratePaymentReport(ctx context.Context, artistID uuid.UUID, fromDate, toDate *time.Time) (*PaymentReport, error) {
	artist, err := p.artists.FindByID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, fmt.Errorf("%w: artist %s", model.ErrNotFound, artistID)
	}
	if fromDate != nil && toDate != nil && toDate.Before(*fromDate) {
		return nil, fmt.Errorf("%w: report range end before start", model.ErrInvalidInput)
	}

	from := time.Unix(0, 0).UTC()
	if fromDate != nil {
		from = *fromDate
	}
	to := p.clock.Now()
	if toDate != nil {
		to = *toDate
	}

	songs, err := p.songs.FindByArtistID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	titles := make(map[uuid.UUID]string, len(songs))
	for _, song := range songs {
		titles[song.ID] = song.Title
	}

	monetizable, err := p.streams.FindMonetizableByArtistID(ctx, artistID, from, to)
	if err != nil {
		return nil, err
	}

	var songOrder []uuid.UUID
	counts := make(map[uuid.UUID]int)
	for _, stream := range monetizable {
		if _, seen := counts[stream.SongID]; !seen {
			songOrder = append(songOrder, stream.SongID)
		}
		counts[stream.SongID]++
	}

	report := &PaymentReport{
		ReportID:           uuid.New(),
		ArtistID:           artistID,
		ArtistName:         artist.Name,
		MonetizableStreams: len(monetizable),
		FromDate:           fromDate,
		ToDate:             toDate,
		GeneratedAt:        p.clock.Now(),
		Songs:              make([]SongPayment, 0, len(songOrder)),
	}

	for _, songID := range songOrder {
		title := titles[songID]
		if title == "" {
			title = "Unknown Song"
		}
		amount := model.AmountForStreams(counts[songID])
		report.TotalAmount = report.TotalAmount.Add(amount)
		report.Songs = append(report.Songs, SongPayment{
			SongID:      songID,
			Title:       title,
			StreamCount: counts[songID],
			Amount:      amount,
		})
	}

	sort.SliceStable(report.Songs, func(i, j int) bool {
		return report.Songs[i].Amount > report.Songs[j].Amount
	})

	return report, nil
}

// GenerateMonetizationReport summarizes an artist's monetization. A missing
// "from" bound defaults to the artist's last payment request (or the epoch)
// and a missing "to" bound defaults to now.
func (p *PaymentReportProjection) GenerateMonetizationReport(ctx context.Context, artistID uuid.UUID, fromDate, toDate *time.Time) (*MonetizationReport, error) {
	artist, err := p.artists.FindByID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, fmt.Errorf("%w: artist %s", model.ErrNotFound, artistID)
	}
	if fromDate != nil && toDate != nil && toDate.Before(*fromDate) {
		return nil, fmt.Errorf("%w: report range end before start", model.ErrInvalidInput)
	}

	var lastPayment *time.Time
	if t, ok := p.LastPaymentDate(artistID); ok {
		lastPayment = &t
	}

	from := time.Unix(0, 0).UTC()
	if fromDate != nil {
		from = *fromDate
	} else if lastPayment != nil {
		from = *lastPayment
	}
	to := p.clock.Now()
	if toDate != nil {
		to = *toDate
	}

	streams, err := p.streams.FindByArtistID(ctx, artistID)
	if err != nil {
		return nil, err
	}

	report := &MonetizationReport{
		ArtistID:        artistID,
		ArtistName:      artist.Name,
		LastPaymentDate: lastPayment,
		FromDate:        from,
		ToDate:          to,
		GeneratedAt:     p.clock.Now(),
	}
	for _, stream := range streams {
		if stream.Timestamp.Before(from) || stream.Timestamp.After(to) {
			continue
		}
		report.TotalStreams++
		if stream.Monetized {
			report.MonetizableStreams++
		}
	}
	report.EstimatedRevenue = model.AmountForStreams(report.MonetizableStreams)

	return report, nil
}
