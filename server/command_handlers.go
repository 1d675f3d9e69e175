package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/command"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// Catalog handlers create the entities commands operate on. Labels, artists
// and songs are created once and never mutated, so these write straight to
// the repositories.

type createLabelRequest struct {
	Name string `json:"name"`
}

func (h *APIHandler) CreateLabelHandler(w http.ResponseWriter, r *http.Request) {
	var req createLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", model.ErrInvalidInput))
		return
	}

	label, err := model.NewLabelRecord(uuid.New(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.repos.Labels.Save(r.Context(), label); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, label)
}

type createArtistRequest struct {
	Name    string    `json:"name"`
	LabelID uuid.UUID `json:"labelId"`
}

func (h *APIHandler) CreateArtistHandler(w http.ResponseWriter, r *http.Request) {
	var req createArtistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", model.ErrInvalidInput))
		return
	}

	label, err := h.repos.Labels.FindByID(r.Context(), req.LabelID)
	if err != nil {
		writeError(w, err)
		return
	}
	if label == nil {
		writeError(w, fmt.Errorf("%w: label %s", model.ErrNotFound, req.LabelID))
		return
	}

	artist, err := model.NewArtist(uuid.New(), req.Name, req.LabelID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.repos.Artists.Save(r.Context(), artist); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, artist)
}

type createSongRequest struct {
	Title           string    `json:"title"`
	ArtistID        uuid.UUID `json:"artistId"`
	DurationSeconds int       `json:"durationSeconds"`
}

func (h *APIHandler) CreateSongHandler(w http.ResponseWriter, r *http.Request) {
	var req createSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", model.ErrInvalidInput))
		return
	}

	artist, err := h.repos.Artists.FindByID(r.Context(), req.ArtistID)
	if err != nil {
		writeError(w, err)
		return
	}
	if artist == nil {
		writeError(w, fmt.Errorf("%w: artist %s", model.ErrNotFound, req.ArtistID))
		return
	}

	song, err := model.NewSong(uuid.New(), req.Title, req.ArtistID, time.Duration(req.DurationSeconds)*time.Second)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.repos.Songs.Save(r.Context(), song); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

// Release lifecycle handlers go through the command dispatcher.

type createReleaseRequest struct {
	Title    string    `json:"title"`
	ArtistID uuid.UUID `json:"artistId"`
}

func (h *APIHandler) CreateReleaseHandler(w http.ResponseWriter, r *http.Request) {
	var req createReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", model.ErrInvalidInput))
		return
	}

	release, err := h.dispatcher.CreateRelease(r.Context(), command.CreateRelease{
		Title:    req.Title,
		ArtistID: req.ArtistID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, release)
}

type addSongsRequest struct {
	ArtistID uuid.UUID   `json:"artistId"`
	SongIDs  []uuid.UUID `json:"songIds"`
}

func (h *APIHandler) AddSongsHandler(w http.ResponseWriter, r *http.Request) {
	releaseID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req addSongsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", model.ErrInvalidInput))
		return
	}

	err = h.dispatcher.AddSongsToRelease(r.Context(), command.AddSongsToRelease{
		ReleaseID: releaseID,
		ArtistID:  req.ArtistID,
		SongIDs:   req.SongIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type proposeDateRequest struct {
	ArtistID     uuid.UUID `json:"artistId"`
	ProposedDate string    `json:"proposedDate"`
}

func (h *APIHandler) ProposeDateHandler(w http.ResponseWriter, r *http.Request) {
	releaseID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req proposeDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", model.ErrInvalidInput))
		return
	}
	proposedDate, err := parseDate(req.ProposedDate)
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.dispatcher.ProposeReleaseDate(r.Context(), command.ProposeReleaseDate{
		ReleaseID:    releaseID,
		ArtistID:     req.ArtistID,
		ProposedDate: proposedDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type approveDateRequest struct {
	LabelID uuid.UUID `json:"labelId"`
}

func (h *APIHandler) ApproveDateHandler(w http.ResponseWriter, r *http.Request) {
	releaseID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req approveDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", model.ErrInvalidInput))
		return
	}

	err = h.dispatcher.ApproveReleaseDate(r.Context(), command.ApproveReleaseDate{
		ReleaseID: releaseID,
		LabelID:   req.LabelID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) PublishReleaseHandler(w http.ResponseWriter, r *http.Request) {
	releaseID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.dispatcher.PublishRelease(r.Context(), command.PublishRelease{ReleaseID: releaseID})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type withdrawRequest struct {
	ArtistID uuid.UUID `json:"artistId"`
}

func (h *APIHandler) WithdrawReleaseHandler(w http.ResponseWriter, r *http.Request) {
	releaseID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", model.ErrInvalidInput))
		return
	}

	err = h.dispatcher.WithdrawRelease(r.Context(), command.WithdrawRelease{
		ReleaseID: releaseID,
		ArtistID:  req.ArtistID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type recordStreamRequest struct {
	SongID          uuid.UUID `json:"songId"`
	UserID          uuid.UUID `json:"userId"`
	DurationSeconds int       `json:"durationSeconds"`
}

func (h *APIHandler) RecordStreamHandler(w http.ResponseWriter, r *http.Request) {
	var req recordStreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", model.ErrInvalidInput))
		return
	}

	stream, err := h.dispatcher.RecordStream(r.Context(), command.RecordStream{
		SongID:   req.SongID,
		UserID:   req.UserID,
		Duration: time.Duration(req.DurationSeconds) * time.Second,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stream)
}
