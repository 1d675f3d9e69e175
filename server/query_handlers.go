package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/mojtabanasehzadeh/music-distribution-service/cache"
	"github.com/mojtabanasehzadeh/music-distribution-service/command"
	"github.com/mojtabanasehzadeh/music-distribution-service/logger"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/projection"
	"github.com/mojtabanasehzadeh/music-distribution-service/storage"
)

func (h *APIHandler) GetSongHandler(w http.ResponseWriter, r *http.Request) {
	songID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	song, err := h.repos.Songs.FindByID(r.Context(), songID)
	if err != nil {
		writeError(w, err)
		return
	}
	if song == nil {
		writeError(w, fmt.Errorf("%w: song %s", model.ErrNotFound, songID))
		return
	}
	writeJSON(w, http.StatusOK, song)
}

// SearchSongsHandler fuzzy-matches published song titles. maxDistance
// defaults to 2 edits.
func (h *APIHandler) SearchSongsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("title")
	if query == "" {
		writeError(w, fmt.Errorf("%w: title query parameter is required", model.ErrInvalidInput))
		return
	}
	maxDistance := 2
	if raw := r.URL.Query().Get("maxDistance"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, fmt.Errorf("%w: invalid maxDistance %q", model.ErrInvalidInput, raw))
			return
		}
		maxDistance = parsed
	}

	if cached, hit, err := cache.GetSearchResults(r.Context(), query, maxDistance); err != nil {
		logger.Warn("search cache read failed", logger.ErrorField(err))
	} else if hit {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	results := h.search.SearchByTitle(query, maxDistance)
	if results == nil {
		results = []projection.SongReadModel{}
	}
	if err := cache.SetSearchResults(r.Context(), query, maxDistance, results, h.cfg.CacheTTL); err != nil {
		logger.Warn("search cache write failed", logger.ErrorField(err))
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *APIHandler) GetSongStatsHandler(w http.ResponseWriter, r *http.Request) {
	songID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.stats.SongStats(songID))
}

func (h *APIHandler) GetReleaseHandler(w http.ResponseWriter, r *http.Request) {
	releaseID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	release, err := h.repos.Releases.FindByID(r.Context(), releaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	if release == nil {
		writeError(w, fmt.Errorf("%w: release %s", model.ErrNotFound, releaseID))
		return
	}
	writeJSON(w, http.StatusOK, release)
}

// eventEnvelope pairs an event with its type tag for serialization.
type eventEnvelope struct {
	Type  model.EventType `json:"type"`
	Event model.Event     `json:"event"`
}

func (h *APIHandler) GetReleaseEventsHandler(w http.ResponseWriter, r *http.Request) {
	releaseID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	events := h.store.EventsForAggregate(releaseID)
	envelopes := make([]eventEnvelope, 0, len(events))
	for _, event := range events {
		envelopes = append(envelopes, eventEnvelope{Type: event.Type(), Event: event})
	}
	writeJSON(w, http.StatusOK, envelopes)
}

func (h *APIHandler) GetArtistReleasesHandler(w http.ResponseWriter, r *http.Request) {
	artistID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	releases, err := h.repos.Releases.FindByArtistID(r.Context(), artistID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, releases)
}

func (h *APIHandler) GetArtistStatsHandler(w http.ResponseWriter, r *http.Request) {
	artistID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.stats.ArtistStats(artistID))
}

func (h *APIHandler) GetStreamReportHandler(w http.ResponseWriter, r *http.Request) {
	artistID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	from, to, err := queryDateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	fromKey, toKey := rangeKey(from), rangeKey(to)
	if cached, err := cache.GetStreamReport(r.Context(), artistID, fromKey, toKey); err != nil {
		logger.Warn("stream report cache read failed", logger.ErrorField(err))
	} else if cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	report, err := h.artistStreams.GenerateStreamReport(r.Context(), artistID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := cache.SetStreamReport(r.Context(), report, fromKey, toKey, h.cfg.CacheTTL); err != nil {
		logger.Warn("stream report cache write failed", logger.ErrorField(err))
	}
	writeJSON(w, http.StatusOK, report)
}

// RequestPaymentReportHandler records the payment request, generates the
// report and, when archiving is enabled, uploads it.
func (h *APIHandler) RequestPaymentReportHandler(w http.ResponseWriter, r *http.Request) {
	artistID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	from, to, err := queryDateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := h.payments.GeneratePaymentReport(r.Context(), artistID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	// Record the request after a successful generation so a rejected
	// request never advances the last-payment marker.
	_, err = h.dispatcher.RequestPaymentReport(r.Context(), command.RequestPaymentReport{
		ArtistID: artistID,
		FromDate: from,
		ToDate:   to,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if storage.Enabled() {
		if _, err := storage.ArchivePaymentReport(r.Context(), report); err != nil {
			logger.Warn("payment report archive failed", logger.ErrorField(err))
		}
	}
	if err := cache.SetPaymentReport(r.Context(), report, rangeKey(from), rangeKey(to), h.cfg.CacheTTL); err != nil {
		logger.Warn("payment report cache write failed", logger.ErrorField(err))
	}
	writeJSON(w, http.StatusOK, report)
}

// GetPaymentReportHandler serves the cached report for the requested range
// without advancing the last-payment marker. Misses are 404; requesting a
// fresh report is the POST on the same path.
func (h *APIHandler) GetPaymentReportHandler(w http.ResponseWriter, r *http.Request) {
	artistID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	from, to, err := queryDateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := cache.GetPaymentReport(r.Context(), artistID, rangeKey(from), rangeKey(to))
	if err != nil {
		writeError(w, err)
		return
	}
	if report == nil {
		writeError(w, fmt.Errorf("%w: no generated payment report for artist %s", model.ErrNotFound, artistID))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *APIHandler) GetMonetizationReportHandler(w http.ResponseWriter, r *http.Request) {
	artistID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	from, to, err := queryDateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := h.payments.GenerateMonetizationReport(r.Context(), artistID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *APIHandler) GetMonetizedStreamsHandler(w http.ResponseWriter, r *http.Request) {
	artistID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.monetization.MonetizedStreams(artistID))
}
