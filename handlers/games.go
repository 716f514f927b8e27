package handlers

import (
	"encoding/json"
	"net/http"

	"paddle-league-go/logging"
	"paddle-league-go/middleware"
	"paddle-league-go/models"
	"paddle-league-go/services"

	"github.com/gorilla/mux"
)

// GameHandler exposes the game mutation triggers and the season game log
type GameHandler struct {
	gameService *services.GameService
	logger      *logging.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		logger:      logging.WithPrefix("GameHandler"),
	}
}

// CreateGame records a new game and triggers a season replay
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var game models.Game
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if player := middleware.GetPlayerFromContext(r); player != nil {
		game.RecordedBy = player.ID
	}

	if err := h.gameService.RecordGame(r.Context(), &game); err != nil {
		h.logger.Warnf("Rejected game submission: %v", err)
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, game)
}

// UpdateGame edits a stored game and triggers a season replay
func (h *GameHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	var game models.Game
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	game.ID = mux.Vars(r)["id"]

	if err := h.gameService.UpdateGame(r.Context(), &game); err != nil {
		h.logger.Warnf("Rejected game edit for %s: %v", game.ID, err)
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// DeleteGame removes a stored game and triggers a season replay
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	if err := h.gameService.DeleteGame(r.Context(), gameID); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetSeasonGames returns the season's chronological game log with stamped deltas
func (h *GameHandler) GetSeasonGames(w http.ResponseWriter, r *http.Request) {
	seasonID := mux.Vars(r)["id"]

	games, err := h.gameService.GamesForSeason(r.Context(), seasonID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, games)
}
