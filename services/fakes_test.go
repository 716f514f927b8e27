package services

import (
	"context"
	"fmt"
	"time"

	"paddle-league-go/config"
	"paddle-league-go/models"
)

// In-memory store fakes backing the service tests.

var testLeague = config.LeagueConfig{
	BaselineRating:  1500,
	KFactor:         32,
	MinRankedGames:  5,
	DuplicateWindow: 30 * time.Second,
}

type fakeSeasonRepo struct {
	seasons map[string]*models.Season
	nextID  int
}

func newFakeSeasonRepo(seasons ...*models.Season) *fakeSeasonRepo {
	repo := &fakeSeasonRepo{seasons: make(map[string]*models.Season)}
	for _, season := range seasons {
		repo.seasons[season.ID] = season
	}
	return repo
}

func (f *fakeSeasonRepo) FindByID(ctx context.Context, id string) (*models.Season, error) {
	return f.seasons[id], nil
}

func (f *fakeSeasonRepo) Insert(ctx context.Context, season *models.Season) error {
	f.nextID++
	season.ID = fmt.Sprintf("s%d", f.nextID)
	f.seasons[season.ID] = season
	return nil
}

func (f *fakeSeasonRepo) FindActive(ctx context.Context) (*models.Season, error) {
	for _, season := range f.seasons {
		if season.Active {
			return season, nil
		}
	}
	return nil, nil
}

func (f *fakeSeasonRepo) FindAll(ctx context.Context) ([]*models.Season, error) {
	var seasons []*models.Season
	for _, season := range f.seasons {
		seasons = append(seasons, season)
	}
	return seasons, nil
}

func (f *fakeSeasonRepo) SetActive(ctx context.Context, seasonID string) error {
	if _, exists := f.seasons[seasonID]; !exists {
		return models.ErrNotFound
	}
	for _, season := range f.seasons {
		season.Active = season.ID == seasonID
	}
	return nil
}

func (f *fakeSeasonRepo) Delete(ctx context.Context, seasonID string) error {
	if _, exists := f.seasons[seasonID]; !exists {
		return models.ErrNotFound
	}
	delete(f.seasons, seasonID)
	return nil
}

type fakeGameRepo struct {
	games  []*models.Game
	nextID int
}

func newFakeGameRepo(games ...*models.Game) *fakeGameRepo {
	repo := &fakeGameRepo{}
	for _, game := range games {
		g := *game
		if g.ID == "" {
			repo.nextID++
			g.ID = fmt.Sprintf("g%d", repo.nextID)
		}
		repo.games = append(repo.games, &g)
	}
	return repo
}

func (f *fakeGameRepo) Insert(ctx context.Context, game *models.Game) error {
	f.nextID++
	game.ID = fmt.Sprintf("g%d", f.nextID)
	g := *game
	f.games = append(f.games, &g)
	return nil
}

func (f *fakeGameRepo) FindByID(ctx context.Context, id string) (*models.Game, error) {
	for _, game := range f.games {
		if game.ID == id {
			g := *game
			return &g, nil
		}
	}
	return nil, nil
}

func (f *fakeGameRepo) FindBySeason(ctx context.Context, seasonID string) ([]*models.Game, error) {
	// Returned in insertion order: the replay engine must sort itself
	var games []*models.Game
	for _, game := range f.games {
		if game.SeasonID == seasonID {
			g := *game
			games = append(games, &g)
		}
	}
	return games, nil
}

func (f *fakeGameRepo) FindRecentBySeason(ctx context.Context, seasonID string, since time.Time) ([]*models.Game, error) {
	var games []*models.Game
	for _, game := range f.games {
		if game.SeasonID == seasonID && !game.CreatedAt.Before(since) {
			g := *game
			games = append(games, &g)
		}
	}
	return games, nil
}

func (f *fakeGameRepo) Update(ctx context.Context, game *models.Game) error {
	for i, existing := range f.games {
		if existing.ID == game.ID {
			g := *game
			f.games[i] = &g
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeGameRepo) UpdateEloChange(ctx context.Context, gameID string, delta int) error {
	for _, game := range f.games {
		if game.ID == gameID {
			game.EloChange = delta
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeGameRepo) Delete(ctx context.Context, gameID string) error {
	for i, game := range f.games {
		if game.ID == gameID {
			f.games = append(f.games[:i], f.games[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeGameRepo) DeleteBySeason(ctx context.Context, seasonID string) error {
	var kept []*models.Game
	for _, game := range f.games {
		if game.SeasonID != seasonID {
			kept = append(kept, game)
		}
	}
	f.games = kept
	return nil
}

func (f *fakeGameRepo) eloChange(gameID string) int {
	for _, game := range f.games {
		if game.ID == gameID {
			return game.EloChange
		}
	}
	return -1
}

type fakeRatingRepo struct {
	snapshots map[string]*models.PlayerSeasonRating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{snapshots: make(map[string]*models.PlayerSeasonRating)}
}

func ratingKey(seasonID, playerID string) string {
	return seasonID + "|" + playerID
}

func (f *fakeRatingRepo) FindBySeasonPlayer(ctx context.Context, seasonID, playerID string) (*models.PlayerSeasonRating, error) {
	snapshot, exists := f.snapshots[ratingKey(seasonID, playerID)]
	if !exists {
		return nil, nil
	}
	s := *snapshot
	return &s, nil
}

func (f *fakeRatingRepo) FindBySeason(ctx context.Context, seasonID string) ([]*models.PlayerSeasonRating, error) {
	var ratings []*models.PlayerSeasonRating
	for _, snapshot := range f.snapshots {
		if snapshot.SeasonID == seasonID {
			s := *snapshot
			ratings = append(ratings, &s)
		}
	}
	return ratings, nil
}

func (f *fakeRatingRepo) Upsert(ctx context.Context, rating *models.PlayerSeasonRating) error {
	s := *rating
	f.snapshots[ratingKey(rating.SeasonID, rating.PlayerID)] = &s
	return nil
}

func (f *fakeRatingRepo) DeleteBySeasonExcept(ctx context.Context, seasonID string, keep []string) error {
	keepSet := make(map[string]bool, len(keep))
	for _, playerID := range keep {
		keepSet[playerID] = true
	}
	for key, snapshot := range f.snapshots {
		if snapshot.SeasonID == seasonID && !keepSet[snapshot.PlayerID] {
			delete(f.snapshots, key)
		}
	}
	return nil
}

func (f *fakeRatingRepo) DeleteBySeason(ctx context.Context, seasonID string) error {
	for key, snapshot := range f.snapshots {
		if snapshot.SeasonID == seasonID {
			delete(f.snapshots, key)
		}
	}
	return nil
}

type lifetimeUpdate struct {
	rating, wins, losses int
}

type fakePlayerStatsRepo struct {
	updates map[string]lifetimeUpdate
}

func newFakePlayerStatsRepo() *fakePlayerStatsRepo {
	return &fakePlayerStatsRepo{updates: make(map[string]lifetimeUpdate)}
}

func (f *fakePlayerStatsRepo) UpdateLifetimeStats(ctx context.Context, playerID string, rating, wins, losses int) error {
	f.updates[playerID] = lifetimeUpdate{rating: rating, wins: wins, losses: losses}
	return nil
}
