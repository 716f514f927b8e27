package handlers

import (
	"encoding/json"
	"net/http"

	"paddle-league-go/models"
	"paddle-league-go/services"
)

// PlayerHandler exposes player management
type PlayerHandler struct {
	playerService *services.PlayerService
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
	}
}

// registerRequest is the payload for creating a player
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

// ListPlayers returns all players without sensitive fields
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.ListPlayers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	safe := make([]models.Player, 0, len(players))
	for _, player := range players {
		safe = append(safe, player.ToSafePlayer())
	}

	respondJSON(w, http.StatusOK, safe)
}

// RegisterPlayer creates a new player seeded at the baseline rating
func (h *PlayerHandler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player := &models.Player{
		Name:    req.Name,
		Email:   req.Email,
		IsAdmin: req.IsAdmin,
	}

	if err := h.playerService.RegisterPlayer(r.Context(), player, req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, player.ToSafePlayer())
}
