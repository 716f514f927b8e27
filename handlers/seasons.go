package handlers

import (
	"encoding/json"
	"net/http"

	"paddle-league-go/models"
	"paddle-league-go/services"

	"github.com/gorilla/mux"
)

// SeasonHandler exposes season lifecycle administration
type SeasonHandler struct {
	seasonService *services.SeasonService
}

// NewSeasonHandler creates a new season handler
func NewSeasonHandler(seasonService *services.SeasonService) *SeasonHandler {
	return &SeasonHandler{
		seasonService: seasonService,
	}
}

// ListSeasons returns all seasons, newest first
func (h *SeasonHandler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.seasonService.ListSeasons(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, seasons)
}

// GetActiveSeason returns the currently active season
func (h *SeasonHandler) GetActiveSeason(w http.ResponseWriter, r *http.Request) {
	season, err := h.seasonService.GetActiveSeason(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if season == nil {
		respondError(w, http.StatusNotFound, "no active season")
		return
	}

	respondJSON(w, http.StatusOK, season)
}

// CreateSeason stores a new season with league defaults applied
func (h *SeasonHandler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var season models.Season
	if err := json.NewDecoder(r.Body).Decode(&season); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.seasonService.CreateSeason(r.Context(), &season); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, season)
}

// DeleteSeason removes a season and all of its games and snapshots
func (h *SeasonHandler) DeleteSeason(w http.ResponseWriter, r *http.Request) {
	seasonID := mux.Vars(r)["id"]

	if err := h.seasonService.DeleteSeason(r.Context(), seasonID); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ActivateSeason marks a season active, deactivating any other
func (h *SeasonHandler) ActivateSeason(w http.ResponseWriter, r *http.Request) {
	seasonID := mux.Vars(r)["id"]

	if err := h.seasonService.ActivateSeason(r.Context(), seasonID); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "activated"})
}
