package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mojtabanasehzadeh/music-distribution-service/clock"
	"github.com/mojtabanasehzadeh/music-distribution-service/command"
	"github.com/mojtabanasehzadeh/music-distribution-service/config"
	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/logger"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/projection"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
)

// APIHandler holds the dependencies of the HTTP API.
type APIHandler struct {
	cfg           *config.Config
	repos         repository.Repositories
	dispatcher    *command.Dispatcher
	store         *eventstore.Store
	clock         clock.Clock
	search        *projection.SongSearchProjection
	artistStreams *projection.ArtistStreamProjection
	payments      *projection.PaymentReportProjection
	monetization  *projection.MonetizationProjection
	stats         *projection.StreamStatsProjection
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(
	cfg *config.Config,
	repos repository.Repositories,
	dispatcher *command.Dispatcher,
	store *eventstore.Store,
	clk clock.Clock,
	search *projection.SongSearchProjection,
	artistStreams *projection.ArtistStreamProjection,
	payments *projection.PaymentReportProjection,
	monetization *projection.MonetizationProjection,
	stats *projection.StreamStatsProjection,
) *APIHandler {
	return &APIHandler{
		cfg:           cfg,
		repos:         repos,
		dispatcher:    dispatcher,
		store:         store,
		clock:         clk,
		search:        search,
		artistStreams: artistStreams,
		payments:      payments,
		monetization:  monetization,
		stats:         stats,
	}
}

// RegisterRoutes attaches every API endpoint to the router.
func (h *APIHandler) RegisterRoutes(router *mux.Router) {
	// Catalog
	router.HandleFunc("/api/labels", h.CreateLabelHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/artists", h.CreateArtistHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/songs", h.CreateSongHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/songs/search", h.SearchSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/{id}", h.GetSongHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/{id}/stats", h.GetSongStatsHandler).Methods(http.MethodGet)

	// Release lifecycle
	router.HandleFunc("/api/releases", h.CreateReleaseHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/releases/{id}", h.GetReleaseHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/releases/{id}/songs", h.AddSongsHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/releases/{id}/propose", h.ProposeDateHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/releases/{id}/approve", h.ApproveDateHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/releases/{id}/publish", h.PublishReleaseHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/releases/{id}/withdraw", h.WithdrawReleaseHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/releases/{id}/events", h.GetReleaseEventsHandler).Methods(http.MethodGet)

	// Streaming and reports
	router.HandleFunc("/api/streams", h.RecordStreamHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/artists/{id}/releases", h.GetArtistReleasesHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}/stats", h.GetArtistStatsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}/reports/streams", h.GetStreamReportHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}/reports/payment", h.RequestPaymentReportHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/artists/{id}/reports/payment", h.GetPaymentReportHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}/reports/monetization", h.GetMonetizationReportHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}/monetized-streams", h.GetMonetizedStreamsHandler).Methods(http.MethodGet)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors to HTTP status codes: invalid input is 400,
// missing entities 404, rejected business rules 409, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrBusinessRule):
		status = http.StatusConflict
	default:
		logger.Error("request failed", logger.ErrorField(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s %q", model.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// parseDate accepts a date ("2006-01-02") or an RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", model.ErrInvalidInput, raw)
	}
	return t, nil
}

// queryDateRange reads optional from/to query parameters.
func queryDateRange(r *http.Request) (from, to *time.Time, err error) {
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}

func rangeKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
