package services

import (
	"context"
	"fmt"
	"sort"

	"paddle-league-go/config"
	"paddle-league-go/logging"
	"paddle-league-go/models"
)

// PlayerDirectory resolves player ids to their records for display
type PlayerDirectory interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.Player, error)
}

// LeaderboardService projects persisted season snapshots into a ranked
// leaderboard. It never writes.
type LeaderboardService struct {
	seasonRepo SeasonStore
	ratingRepo RatingStore
	playerRepo PlayerDirectory
	league     config.LeagueConfig
	logger     *logging.Logger
}

// NewLeaderboardService creates a new leaderboard service. playerRepo may be
// nil when name enrichment is not wanted.
func NewLeaderboardService(
	seasonRepo SeasonStore,
	ratingRepo RatingStore,
	playerRepo PlayerDirectory,
	league config.LeagueConfig,
) *LeaderboardService {
	return &LeaderboardService{
		seasonRepo: seasonRepo,
		ratingRepo: ratingRepo,
		playerRepo: playerRepo,
		league:     league,
		logger:     logging.WithPrefix("LeaderboardService"),
	}
}

// Standings returns the season leaderboard: players at or above the season's
// minimum-games threshold ranked by rating, everyone else unranked with raw
// stats preserved. Ties on rating break on fewer games played, then player id.
func (s *LeaderboardService) Standings(ctx context.Context, seasonID string) (*models.Standings, error) {
	season, err := s.seasonRepo.FindByID(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load season %s: %w", seasonID, err)
	}
	if season == nil {
		return nil, fmt.Errorf("season %s: %w", seasonID, models.ErrNotFound)
	}

	minGames := season.MinRankedGames
	if minGames <= 0 {
		minGames = s.league.MinRankedGames
	}

	snapshots, err := s.ratingRepo.FindBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings for season %s: %w", seasonID, err)
	}

	standings := &models.Standings{
		SeasonID: seasonID,
		Ranked:   []models.StandingEntry{},
		Unranked: []models.StandingEntry{},
	}

	for _, snapshot := range snapshots {
		entry := models.StandingEntry{
			PlayerID:      snapshot.PlayerID,
			Rating:        snapshot.Rating,
			Wins:          snapshot.Wins,
			Losses:        snapshot.Losses,
			GamesPlayed:   snapshot.GamesPlayed(),
			HighestRating: snapshot.HighestRating,
			LowestRating:  snapshot.LowestRating,
		}

		if entry.GamesPlayed >= minGames {
			standings.Ranked = append(standings.Ranked, entry)
		} else {
			standings.Unranked = append(standings.Unranked, entry)
		}
	}

	sortStandingEntries(standings.Ranked)
	sortStandingEntries(standings.Unranked)

	for i := range standings.Ranked {
		standings.Ranked[i].Rank = i + 1
	}

	if err := s.attachPlayerNames(ctx, standings); err != nil {
		// Names are display sugar; the projection itself is still valid
		s.logger.Warnf("Failed to resolve player names for season %s: %v", seasonID, err)
	}

	return standings, nil
}

// sortStandingEntries orders entries by rating descending with an explicit
// deterministic tiebreak: fewer games played ranks higher, then ascending
// player id
func sortStandingEntries(entries []models.StandingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		if entries[i].GamesPlayed != entries[j].GamesPlayed {
			return entries[i].GamesPlayed < entries[j].GamesPlayed
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
}

// attachPlayerNames fills in display names for every entry
func (s *LeaderboardService) attachPlayerNames(ctx context.Context, standings *models.Standings) error {
	if s.playerRepo == nil {
		return nil
	}

	ids := make([]string, 0, len(standings.Ranked)+len(standings.Unranked))
	for _, entry := range standings.Ranked {
		ids = append(ids, entry.PlayerID)
	}
	for _, entry := range standings.Unranked {
		ids = append(ids, entry.PlayerID)
	}
	if len(ids) == 0 {
		return nil
	}

	players, err := s.playerRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range standings.Ranked {
		if player, ok := players[standings.Ranked[i].PlayerID]; ok {
			standings.Ranked[i].PlayerName = player.Name
		}
	}
	for i := range standings.Unranked {
		if player, ok := players[standings.Unranked[i].PlayerID]; ok {
			standings.Unranked[i].PlayerName = player.Name
		}
	}

	return nil
}
