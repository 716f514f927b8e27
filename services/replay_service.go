package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"paddle-league-go/config"
	"paddle-league-go/logging"
	"paddle-league-go/models"
)

// SeasonStore defines the season lookups the rating services need
type SeasonStore interface {
	FindByID(ctx context.Context, id string) (*models.Season, error)
}

// GameStore defines the game operations the rating services need
type GameStore interface {
	FindBySeason(ctx context.Context, seasonID string) ([]*models.Game, error)
	UpdateEloChange(ctx context.Context, gameID string, delta int) error
}

// RatingStore defines the snapshot operations the rating services need.
// The replay service is the only component that writes through it.
type RatingStore interface {
	FindBySeasonPlayer(ctx context.Context, seasonID, playerID string) (*models.PlayerSeasonRating, error)
	FindBySeason(ctx context.Context, seasonID string) ([]*models.PlayerSeasonRating, error)
	Upsert(ctx context.Context, rating *models.PlayerSeasonRating) error
	DeleteBySeasonExcept(ctx context.Context, seasonID string, keep []string) error
}

// PlayerStatsStore mirrors a player's final season state onto their
// lifetime record when the active season is replayed
type PlayerStatsStore interface {
	UpdateLifetimeStats(ctx context.Context, playerID string, rating, wins, losses int) error
}

// playerState is the in-memory fold state for one player during a replay
type playerState struct {
	rating  int
	wins    int
	losses  int
	highest int
	lowest  int
}

// ReplayService recomputes a season's entire rating history from scratch.
// Any historical mutation invalidates every subsequently computed delta, so
// the engine always re-derives the full season rather than patching.
type ReplayService struct {
	seasonRepo SeasonStore
	gameRepo   GameStore
	ratingRepo RatingStore
	playerRepo PlayerStatsStore
	league     config.LeagueConfig
	logger     *logging.Logger

	// Per-season locks serialize concurrent replays of the same season so
	// racing mutations cannot clobber each other's snapshot writes
	mu          sync.Mutex
	seasonLocks map[string]*sync.Mutex
}

// NewReplayService creates a new replay service. playerRepo may be nil when
// lifetime-stat mirroring is not wanted (e.g. in tests).
func NewReplayService(
	seasonRepo SeasonStore,
	gameRepo GameStore,
	ratingRepo RatingStore,
	playerRepo PlayerStatsStore,
	league config.LeagueConfig,
) *ReplayService {
	return &ReplayService{
		seasonRepo:  seasonRepo,
		gameRepo:    gameRepo,
		ratingRepo:  ratingRepo,
		playerRepo:  playerRepo,
		league:      league,
		logger:      logging.WithPrefix("ReplayService"),
		seasonLocks: make(map[string]*sync.Mutex),
	}
}

// lockSeason acquires the exclusive lock for one season and returns its
// release function
func (s *ReplayService) lockSeason(seasonID string) func() {
	s.mu.Lock()
	lock, exists := s.seasonLocks[seasonID]
	if !exists {
		lock = &sync.Mutex{}
		s.seasonLocks[seasonID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// ReplaySeason recomputes every player's rating, record, and extrema for a
// season by folding the rating formula over the season's games in strict
// game-time order. All snapshots for the season are fully overwritten;
// snapshots of players no longer appearing in any game are removed. The
// operation is idempotent: replaying an unchanged season produces identical
// results.
func (s *ReplayService) ReplaySeason(ctx context.Context, seasonID string) error {
	unlock := s.lockSeason(seasonID)
	defer unlock()

	started := time.Now()

	season, err := s.seasonRepo.FindByID(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("failed to load season %s: %w", seasonID, err)
	}
	if season == nil {
		return fmt.Errorf("season %s: %w", seasonID, models.ErrNotFound)
	}

	baseline := season.BaselineRating
	if baseline <= 0 {
		baseline = s.league.BaselineRating
	}
	kFactor := season.KFactor
	if kFactor <= 0 {
		kFactor = s.league.KFactor
	}

	games, err := s.gameRepo.FindBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("failed to load games for season %s: %w", seasonID, err)
	}

	// The store already sorts, but ordering is the core correctness
	// invariant of the fold, so never trust the input permutation
	sortGamesChronologically(games)

	// Seed every player appearing in the season at the baseline
	states := make(map[string]*playerState)
	for _, game := range games {
		if !game.HasValidTeams() {
			continue
		}
		for _, playerID := range game.PlayerIDs() {
			if _, exists := states[playerID]; !exists {
				states[playerID] = &playerState{
					rating:  baseline,
					highest: baseline,
					lowest:  baseline,
				}
			}
		}
	}

	skipped := 0
	for _, game := range games {
		if !game.HasValidTeams() {
			// Malformed historical record. Validation at admission time
			// should make this impossible; skip it but surface the smell.
			s.logger.Errorf("Skipping malformed game %s in season %s: team without two players", game.ID, seasonID)
			skipped++
			continue
		}

		if err := s.applyGame(ctx, game, states, kFactor); err != nil {
			return err
		}
	}

	playerIDs := make([]string, 0, len(states))
	for playerID := range states {
		playerIDs = append(playerIDs, playerID)
	}
	sort.Strings(playerIDs)

	// Persist final state, fully replacing any prior snapshot. A failure
	// partway leaves the season inconsistent until the next successful
	// replay; callers retry the whole replay rather than repairing.
	now := time.Now()
	for _, playerID := range playerIDs {
		state := states[playerID]
		snapshot := &models.PlayerSeasonRating{
			SeasonID:      seasonID,
			PlayerID:      playerID,
			Rating:        state.rating,
			Wins:          state.wins,
			Losses:        state.losses,
			HighestRating: state.highest,
			LowestRating:  state.lowest,
			UpdatedAt:     now,
		}
		if err := s.ratingRepo.Upsert(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to persist snapshot for player %s: %w", playerID, err)
		}
	}

	if err := s.ratingRepo.DeleteBySeasonExcept(ctx, seasonID, playerIDs); err != nil {
		return fmt.Errorf("failed to prune stale snapshots for season %s: %w", seasonID, err)
	}

	// Mirror final season state onto lifetime player records for the
	// active season
	if season.Active && s.playerRepo != nil {
		for _, playerID := range playerIDs {
			state := states[playerID]
			if err := s.playerRepo.UpdateLifetimeStats(ctx, playerID, state.rating, state.wins, state.losses); err != nil {
				s.logger.Errorf("Failed to mirror lifetime stats for player %s: %v", playerID, err)
			}
		}
	}

	if skipped > 0 {
		s.logger.Warnf("Replay of season %s skipped %d malformed games", seasonID, skipped)
	}
	s.logger.Infof("Replayed season %s: %d games, %d players in %s",
		seasonID, len(games)-skipped, len(playerIDs), time.Since(started))

	return nil
}

// applyGame folds one game into the running player states and stamps the
// computed delta back onto the game record
func (s *ReplayService) applyGame(ctx context.Context, game *models.Game, states map[string]*playerState, kFactor int) error {
	team1 := TeamRating(states[game.Team1.Players[0]].rating, states[game.Team1.Players[1]].rating)
	team2 := TeamRating(states[game.Team2.Players[0]].rating, states[game.Team2.Players[1]].rating)

	delta := EloDelta(team1, team2, game.Team1Won(), game.Margin(), kFactor)

	winners, losers := game.Team1.Players, game.Team2.Players
	if !game.Team1Won() {
		winners, losers = losers, winners
	}

	for _, playerID := range winners {
		state := states[playerID]
		state.rating += delta
		state.wins++
		if state.rating > state.highest {
			state.highest = state.rating
		}
	}
	for _, playerID := range losers {
		state := states[playerID]
		state.rating -= delta
		state.losses++
		if state.rating < state.lowest {
			state.lowest = state.rating
		}
	}

	if game.EloChange != delta {
		if err := s.gameRepo.UpdateEloChange(ctx, game.ID, delta); err != nil {
			return fmt.Errorf("failed to stamp delta on game %s: %w", game.ID, err)
		}
		game.EloChange = delta
	}

	return nil
}

// sortGamesChronologically orders games ascending by game time, breaking
// ties by creation time and then id so repeated replays of unchanged data
// are deterministic
func sortGamesChronologically(games []*models.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		if !games[i].PlayedAt.Equal(games[j].PlayedAt) {
			return games[i].PlayedAt.Before(games[j].PlayedAt)
		}
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.Before(games[j].CreatedAt)
		}
		return games[i].ID < games[j].ID
	})
}
