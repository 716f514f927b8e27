package services

import (
	"context"
	"testing"

	"paddle-league-go/models"
)

func seedSnapshot(ratingRepo *fakeRatingRepo, seasonID, playerID string, rating, wins, losses int) {
	ratingRepo.snapshots[ratingKey(seasonID, playerID)] = &models.PlayerSeasonRating{
		SeasonID:      seasonID,
		PlayerID:      playerID,
		Rating:        rating,
		Wins:          wins,
		Losses:        losses,
		HighestRating: rating,
		LowestRating:  rating,
	}
}

func TestStandingsMinimumGamesThreshold(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"))
	ratingRepo := newFakeRatingRepo()

	// One game short of the threshold of 5
	seedSnapshot(ratingRepo, "s1", "fringe", 1600, 2, 2)
	// Exactly at the threshold
	seedSnapshot(ratingRepo, "s1", "regular", 1550, 3, 2)

	service := NewLeaderboardService(seasonRepo, ratingRepo, nil, testLeague)

	standings, err := service.Standings(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}

	if len(standings.Ranked) != 1 || standings.Ranked[0].PlayerID != "regular" {
		t.Errorf("expected only player at threshold in ranked, got %+v", standings.Ranked)
	}
	if len(standings.Unranked) != 1 || standings.Unranked[0].PlayerID != "fringe" {
		t.Errorf("expected player below threshold in unranked, got %+v", standings.Unranked)
	}
	if standings.Ranked[0].Rank != 1 {
		t.Errorf("expected rank 1, got %d", standings.Ranked[0].Rank)
	}
	if standings.Unranked[0].Rank != 0 {
		t.Errorf("unranked players carry no rank, got %d", standings.Unranked[0].Rank)
	}
}

func TestStandingsRankOrder(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"))
	ratingRepo := newFakeRatingRepo()

	seedSnapshot(ratingRepo, "s1", "third", 1480, 3, 4)
	seedSnapshot(ratingRepo, "s1", "first", 1620, 6, 1)
	seedSnapshot(ratingRepo, "s1", "second", 1555, 4, 3)

	service := NewLeaderboardService(seasonRepo, ratingRepo, nil, testLeague)

	standings, err := service.Standings(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}

	if len(standings.Ranked) != 3 {
		t.Fatalf("expected 3 ranked players, got %d", len(standings.Ranked))
	}
	for i, want := range []string{"first", "second", "third"} {
		if standings.Ranked[i].PlayerID != want {
			t.Errorf("position %d: expected %s got %s", i, want, standings.Ranked[i].PlayerID)
		}
		if standings.Ranked[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d got %d", i, i+1, standings.Ranked[i].Rank)
		}
	}
}

func TestStandingsTiebreak(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"))
	ratingRepo := newFakeRatingRepo()

	// Same rating: fewer games played ranks higher, then player id
	seedSnapshot(ratingRepo, "s1", "busy", 1550, 5, 4)
	seedSnapshot(ratingRepo, "s1", "efficient", 1550, 4, 1)
	seedSnapshot(ratingRepo, "s1", "alpha", 1550, 2, 3)
	seedSnapshot(ratingRepo, "s1", "beta", 1550, 3, 2)

	service := NewLeaderboardService(seasonRepo, ratingRepo, nil, testLeague)

	standings, err := service.Standings(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"alpha", "beta", "efficient", "busy"}
	for i, playerID := range want {
		if standings.Ranked[i].PlayerID != playerID {
			t.Errorf("position %d: expected %s got %s", i, playerID, standings.Ranked[i].PlayerID)
		}
	}
}

func TestStandingsEmptySeason(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"))
	service := NewLeaderboardService(seasonRepo, newFakeRatingRepo(), nil, testLeague)

	standings, err := service.Standings(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(standings.Ranked) != 0 || len(standings.Unranked) != 0 {
		t.Errorf("expected empty standings, got %+v", standings)
	}
}

func TestStandingsUnknownSeason(t *testing.T) {
	service := NewLeaderboardService(newFakeSeasonRepo(), newFakeRatingRepo(), nil, testLeague)

	if _, err := service.Standings(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown season")
	}
}
