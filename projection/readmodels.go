// Package projection holds the read side: event-driven read models and
// on-demand report generation.
package projection

import (
	"time"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// SongStreamStats is the per-song line of an artist stream report.
type SongStreamStats struct {
	SongID              uuid.UUID `json:"songId"`
	Title               string    `json:"title"`
	TotalStreams        int       `json:"totalStreams"`
	MonetizedStreams    int       `json:"monetizedStreams"`
	NonMonetizedStreams int       `json:"nonMonetizedStreams"`
}

// ArtistStreamReport summarizes an artist's streams in a date window.
type ArtistStreamReport struct {
	ArtistID            uuid.UUID         `json:"artistId"`
	ArtistName          string            `json:"artistName"`
	TotalStreams        int               `json:"totalStreams"`
	MonetizedStreams    int               `json:"monetizedStreams"`
	NonMonetizedStreams int               `json:"nonMonetizedStreams"`
	FromDate            *time.Time        `json:"fromDate,omitempty"`
	ToDate              *time.Time        `json:"toDate,omitempty"`
	Songs               []SongStreamStats `json:"songs"`
}

// SongPayment is the per-song line of a payment report.
type SongPayment struct {
	SongID      uuid.UUID    `json:"songId"`
	Title       string       `json:"title"`
	StreamCount int          `json:"streamCount"`
	Amount      model.Amount `json:"amount"`
}

// PaymentReport lists what an artist is owed for monetizable streams in a
// date window.
type PaymentReport struct {
	ReportID           uuid.UUID     `json:"reportId"`
	ArtistID           uuid.UUID     `json:"artistId"`
	ArtistName         string        `json:"artistName"`
	MonetizableStreams int           `json:"monetizableStreams"`
	TotalAmount        model.Amount  `json:"totalAmount"`
	FromDate           *time.Time    `json:"fromDate,omitempty"`
	ToDate             *time.Time    `json:"toDate,omitempty"`
	GeneratedAt        time.Time     `json:"generatedAt"`
	Songs              []SongPayment `json:"songs"`
}

// MonetizationReport summarizes monetization since the artist's last
// payment request (or a caller-supplied window).
type MonetizationReport struct {
	ArtistID           uuid.UUID    `json:"artistId"`
	ArtistName         string       `json:"artistName"`
	TotalStreams       int          `json:"totalStreams"`
	MonetizableStreams int          `json:"monetizableStreams"`
	EstimatedRevenue   model.Amount `json:"estimatedRevenue"`
	LastPaymentDate    *time.Time   `json:"lastPaymentDate,omitempty"`
	FromDate           time.Time    `json:"fromDate"`
	ToDate             time.Time    `json:"toDate"`
	GeneratedAt        time.Time    `json:"generatedAt"`
}

// StreamStatistics is a running total/monetized/non-monetized counter.
type StreamStatistics struct {
	TotalStreams        int `json:"totalStreams"`
	MonetizedStreams    int `json:"monetizedStreams"`
	NonMonetizedStreams int `json:"nonMonetizedStreams"`
}

// SongReadModel is the search projection's view of a song.
type SongReadModel struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	ArtistID uuid.UUID `json:"artistId"`
}

// MonetizedStreamRecord is one monetized play in an artist's history.
type MonetizedStreamRecord struct {
	StreamID  uuid.UUID    `json:"streamId"`
	SongID    uuid.UUID    `json:"songId"`
	Timestamp time.Time    `json:"timestamp"`
	Amount    model.Amount `json:"amount"`
}
