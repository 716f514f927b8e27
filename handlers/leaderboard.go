package handlers

import (
	"errors"
	"net/http"

	"paddle-league-go/models"
	"paddle-league-go/services"

	"github.com/gorilla/mux"
)

// LeaderboardHandler serves the season standings read path
type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// GetLeaderboard returns the ranked and unranked standings for a season
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	seasonID := mux.Vars(r)["id"]

	standings, err := h.leaderboardService.Standings(r.Context(), seasonID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, standings)
}
