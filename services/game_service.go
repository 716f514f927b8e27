package services

import (
	"context"
	"fmt"
	"time"

	"paddle-league-go/config"
	"paddle-league-go/logging"
	"paddle-league-go/models"
)

// GameRepository defines the full game persistence surface the mutation
// triggers need, on top of what replay reads
type GameRepository interface {
	GameStore
	Insert(ctx context.Context, game *models.Game) error
	FindByID(ctx context.Context, id string) (*models.Game, error)
	FindRecentBySeason(ctx context.Context, seasonID string, since time.Time) ([]*models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, gameID string) error
}

// GameService is the mutation-trigger side of the rating engine: it admits
// games against the validity rules and kicks off a full season replay after
// every successful mutation, since any historical change invalidates every
// subsequently computed delta.
type GameService struct {
	gameRepo   GameRepository
	seasonRepo SeasonStore
	ratingRepo RatingStore
	replay     *ReplayService
	league     config.LeagueConfig
	logger     *logging.Logger
}

// NewGameService creates a new game service
func NewGameService(
	gameRepo GameRepository,
	seasonRepo SeasonStore,
	ratingRepo RatingStore,
	replay *ReplayService,
	league config.LeagueConfig,
) *GameService {
	return &GameService{
		gameRepo:   gameRepo,
		seasonRepo: seasonRepo,
		ratingRepo: ratingRepo,
		replay:     replay,
		league:     league,
		logger:     logging.WithPrefix("GameService"),
	}
}

// RecordGame validates and stores a new game, stamps a provisional delta
// from current ratings for immediate feedback, and replays the season to
// make the stored values authoritative
func (s *GameService) RecordGame(ctx context.Context, game *models.Game) error {
	if err := game.Validate(); err != nil {
		return fmt.Errorf("invalid game: %w", err)
	}

	season, err := s.seasonRepo.FindByID(ctx, game.SeasonID)
	if err != nil {
		return fmt.Errorf("failed to load season %s: %w", game.SeasonID, err)
	}
	if season == nil {
		return fmt.Errorf("season %s: %w", game.SeasonID, models.ErrNotFound)
	}

	if !season.Contains(game.PlayedAt) {
		s.logger.Warnf("Game time %s falls outside season %s window", game.PlayedAt.Format(time.RFC3339), season.ID)
	}

	// Ids are generated by the store; a client-supplied id would persist as a
	// raw string the object-id lookups could never address. The delta is
	// computed below, never taken from the submission.
	game.ID = ""
	game.EloChange = 0
	game.CreatedAt = time.Now()

	if err := s.checkDuplicate(ctx, game); err != nil {
		return err
	}

	// Provisional delta against current snapshot ratings; the replay below
	// overwrites it with the authoritative value
	delta, err := s.provisionalDelta(ctx, season, game)
	if err != nil {
		s.logger.Warnf("Could not compute provisional delta: %v", err)
	} else {
		game.EloChange = delta
	}

	if err := s.gameRepo.Insert(ctx, game); err != nil {
		return fmt.Errorf("failed to store game: %w", err)
	}

	s.logger.Infof("Recorded game %s in season %s (%d-%d)", game.ID, game.SeasonID, game.Team1.Score, game.Team2.Score)

	if err := s.replay.ReplaySeason(ctx, game.SeasonID); err != nil {
		return fmt.Errorf("game stored but season replay failed: %w", err)
	}

	return nil
}

// UpdateGame applies a structural edit to a stored game and replays every
// affected season
func (s *GameService) UpdateGame(ctx context.Context, game *models.Game) error {
	if err := game.Validate(); err != nil {
		return fmt.Errorf("invalid game: %w", err)
	}

	existing, err := s.gameRepo.FindByID(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to load game %s: %w", game.ID, err)
	}
	if existing == nil {
		return fmt.Errorf("game %s: %w", game.ID, models.ErrNotFound)
	}

	season, err := s.seasonRepo.FindByID(ctx, game.SeasonID)
	if err != nil {
		return fmt.Errorf("failed to load season %s: %w", game.SeasonID, err)
	}
	if season == nil {
		return fmt.Errorf("season %s: %w", game.SeasonID, models.ErrNotFound)
	}

	// Creation time is the dedup key, never editable
	game.CreatedAt = existing.CreatedAt

	if err := s.gameRepo.Update(ctx, game); err != nil {
		return fmt.Errorf("failed to update game %s: %w", game.ID, err)
	}

	s.logger.Infof("Updated game %s", game.ID)

	if existing.SeasonID != game.SeasonID {
		if err := s.replay.ReplaySeason(ctx, existing.SeasonID); err != nil {
			return fmt.Errorf("game updated but replay of season %s failed: %w", existing.SeasonID, err)
		}
	}
	if err := s.replay.ReplaySeason(ctx, game.SeasonID); err != nil {
		return fmt.Errorf("game updated but season replay failed: %w", err)
	}

	return nil
}

// DeleteGame removes a stored game and replays its season. Players left
// without any game in the season lose their snapshot in the replay.
func (s *GameService) DeleteGame(ctx context.Context, gameID string) error {
	existing, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to load game %s: %w", gameID, err)
	}
	if existing == nil {
		return fmt.Errorf("game %s: %w", gameID, models.ErrNotFound)
	}

	if err := s.gameRepo.Delete(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game %s: %w", gameID, err)
	}

	s.logger.Infof("Deleted game %s from season %s", gameID, existing.SeasonID)

	if err := s.replay.ReplaySeason(ctx, existing.SeasonID); err != nil {
		return fmt.Errorf("game deleted but season replay failed: %w", err)
	}

	return nil
}

// GamesForSeason returns the season's chronological game log
func (s *GameService) GamesForSeason(ctx context.Context, seasonID string) ([]*models.Game, error) {
	games, err := s.gameRepo.FindBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load games for season %s: %w", seasonID, err)
	}
	return games, nil
}

// checkDuplicate rejects a game matching a recent submission with the same
// teams and scores. This catches double-submits, not legitimate rematches:
// the window is short and keys off creation time, not game time.
func (s *GameService) checkDuplicate(ctx context.Context, game *models.Game) error {
	window := s.league.DuplicateWindow
	if window <= 0 {
		return nil
	}

	recent, err := s.gameRepo.FindRecentBySeason(ctx, game.SeasonID, game.CreatedAt.Add(-window))
	if err != nil {
		return fmt.Errorf("failed to check for duplicate submission: %w", err)
	}

	for _, other := range recent {
		if game.SameMatchup(other) {
			return models.NewValidationError("duplicate submission: an identical game was recorded %s ago",
				game.CreatedAt.Sub(other.CreatedAt).Round(time.Second))
		}
	}

	return nil
}

// provisionalDelta computes an immediate delta from the players' current
// snapshot ratings, seeding absent players at the season baseline
func (s *GameService) provisionalDelta(ctx context.Context, season *models.Season, game *models.Game) (int, error) {
	baseline := season.BaselineRating
	if baseline <= 0 {
		baseline = s.league.BaselineRating
	}
	kFactor := season.KFactor
	if kFactor <= 0 {
		kFactor = s.league.KFactor
	}

	ratings := make(map[string]int, 4)
	for _, playerID := range game.PlayerIDs() {
		snapshot, err := s.ratingRepo.FindBySeasonPlayer(ctx, season.ID, playerID)
		if err != nil {
			return 0, err
		}
		if snapshot != nil {
			ratings[playerID] = snapshot.Rating
		} else {
			ratings[playerID] = baseline
		}
	}

	team1 := TeamRating(ratings[game.Team1.Players[0]], ratings[game.Team1.Players[1]])
	team2 := TeamRating(ratings[game.Team2.Players[0]], ratings[game.Team2.Players[1]])

	return EloDelta(team1, team2, game.Team1Won(), game.Margin(), kFactor), nil
}
