package services

import (
	"context"
	"fmt"
	"time"

	"paddle-league-go/config"
	"paddle-league-go/logging"
	"paddle-league-go/models"
)

// SeasonRepository defines the season lifecycle operations
type SeasonRepository interface {
	SeasonStore
	Insert(ctx context.Context, season *models.Season) error
	FindActive(ctx context.Context) (*models.Season, error)
	FindAll(ctx context.Context) ([]*models.Season, error)
	SetActive(ctx context.Context, seasonID string) error
	Delete(ctx context.Context, seasonID string) error
}

// SeasonPurger removes all of a season's records from one collection when
// the season itself is deleted
type SeasonPurger interface {
	DeleteBySeason(ctx context.Context, seasonID string) error
}

// SeasonService handles season lifecycle: creation with league defaults and
// the single-active-season invariant. The replay engine only reads seasons.
type SeasonService struct {
	seasonRepo   SeasonRepository
	gamePurger   SeasonPurger
	ratingPurger SeasonPurger
	league       config.LeagueConfig
	logger       *logging.Logger
}

// NewSeasonService creates a new season service. The purgers may be nil when
// season deletion is not wanted.
func NewSeasonService(seasonRepo SeasonRepository, gamePurger, ratingPurger SeasonPurger, league config.LeagueConfig) *SeasonService {
	return &SeasonService{
		seasonRepo:   seasonRepo,
		gamePurger:   gamePurger,
		ratingPurger: ratingPurger,
		league:       league,
		logger:       logging.WithPrefix("SeasonService"),
	}
}

// CreateSeason stores a new season, filling unset rating configuration from
// the league defaults
func (s *SeasonService) CreateSeason(ctx context.Context, season *models.Season) error {
	if season.Name == "" {
		return models.NewValidationError("season name is required")
	}
	if season.StartsAt.IsZero() || season.EndsAt.IsZero() {
		return models.NewValidationError("season start and end times are required")
	}
	if !season.EndsAt.After(season.StartsAt) {
		return models.NewValidationError("season end must be after its start")
	}

	if season.BaselineRating <= 0 {
		season.BaselineRating = s.league.BaselineRating
	}
	if season.KFactor <= 0 {
		season.KFactor = s.league.KFactor
	}
	if season.MinRankedGames <= 0 {
		season.MinRankedGames = s.league.MinRankedGames
	}
	season.Active = false
	season.CreatedAt = time.Now()

	if err := s.seasonRepo.Insert(ctx, season); err != nil {
		return fmt.Errorf("failed to create season: %w", err)
	}

	s.logger.Infof("Created season %s (%s, baseline=%d, K=%d, minGames=%d)",
		season.ID, season.Name, season.BaselineRating, season.KFactor, season.MinRankedGames)

	return nil
}

// ActivateSeason marks one season active, deactivating any other
func (s *SeasonService) ActivateSeason(ctx context.Context, seasonID string) error {
	season, err := s.seasonRepo.FindByID(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("failed to load season %s: %w", seasonID, err)
	}
	if season == nil {
		return fmt.Errorf("season %s: %w", seasonID, models.ErrNotFound)
	}

	if err := s.seasonRepo.SetActive(ctx, seasonID); err != nil {
		return fmt.Errorf("failed to activate season %s: %w", seasonID, err)
	}

	s.logger.Infof("Activated season %s (%s)", season.ID, season.Name)
	return nil
}

// DeleteSeason removes a season along with all of its games and rating
// snapshots. The active season cannot be deleted.
func (s *SeasonService) DeleteSeason(ctx context.Context, seasonID string) error {
	season, err := s.seasonRepo.FindByID(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("failed to load season %s: %w", seasonID, err)
	}
	if season == nil {
		return fmt.Errorf("season %s: %w", seasonID, models.ErrNotFound)
	}
	if season.Active {
		return models.NewValidationError("cannot delete the active season")
	}

	if s.gamePurger != nil {
		if err := s.gamePurger.DeleteBySeason(ctx, seasonID); err != nil {
			return fmt.Errorf("failed to delete games for season %s: %w", seasonID, err)
		}
	}
	if s.ratingPurger != nil {
		if err := s.ratingPurger.DeleteBySeason(ctx, seasonID); err != nil {
			return fmt.Errorf("failed to delete ratings for season %s: %w", seasonID, err)
		}
	}

	if err := s.seasonRepo.Delete(ctx, seasonID); err != nil {
		return fmt.Errorf("failed to delete season %s: %w", seasonID, err)
	}

	s.logger.Infof("Deleted season %s (%s)", season.ID, season.Name)
	return nil
}

// GetActiveSeason returns the currently active season, or nil if none is
func (s *SeasonService) GetActiveSeason(ctx context.Context) (*models.Season, error) {
	return s.seasonRepo.FindActive(ctx)
}

// GetSeason returns one season by id
func (s *SeasonService) GetSeason(ctx context.Context, seasonID string) (*models.Season, error) {
	return s.seasonRepo.FindByID(ctx, seasonID)
}

// ListSeasons returns all seasons, newest first
func (s *SeasonService) ListSeasons(ctx context.Context) ([]*models.Season, error) {
	return s.seasonRepo.FindAll(ctx)
}
