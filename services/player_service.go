package services

import (
	"context"
	"fmt"
	"time"

	"paddle-league-go/config"
	"paddle-league-go/models"
)

// PlayerAdminRepository defines the player management operations
type PlayerAdminRepository interface {
	PlayerRepository
	Insert(ctx context.Context, player *models.Player) error
	FindAll(ctx context.Context) ([]*models.Player, error)
}

// PlayerService handles player management
type PlayerService struct {
	playerRepo PlayerAdminRepository
	league     config.LeagueConfig
}

// NewPlayerService creates a new player service
func NewPlayerService(playerRepo PlayerAdminRepository, league config.LeagueConfig) *PlayerService {
	return &PlayerService{
		playerRepo: playerRepo,
		league:     league,
	}
}

// RegisterPlayer creates a new player seeded at the baseline rating
func (s *PlayerService) RegisterPlayer(ctx context.Context, player *models.Player, password string) error {
	if player.Name == "" || player.Email == "" {
		return fmt.Errorf("player name and email are required")
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}

	existing, err := s.playerRepo.FindByEmail(ctx, player.Email)
	if err != nil {
		return fmt.Errorf("failed to check for existing player: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("a player with email %s already exists", player.Email)
	}

	if err := player.HashPassword(password); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	player.Rating = s.league.BaselineRating
	player.CreatedAt = time.Now()
	player.UpdatedAt = player.CreatedAt

	if err := s.playerRepo.Insert(ctx, player); err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

// ListPlayers returns all players
func (s *PlayerService) ListPlayers(ctx context.Context) ([]*models.Player, error) {
	return s.playerRepo.FindAll(ctx)
}

// GetPlayer returns one player by id
func (s *PlayerService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	return s.playerRepo.FindByID(ctx, id)
}
