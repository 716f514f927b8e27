package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"paddle-league-go/models"
)

func newTestGameService(seasonRepo *fakeSeasonRepo, gameRepo *fakeGameRepo, ratingRepo *fakeRatingRepo) *GameService {
	replay := newTestReplayService(seasonRepo, gameRepo, ratingRepo)
	return NewGameService(gameRepo, seasonRepo, ratingRepo, replay, testLeague)
}

func TestRecordGameStampsAuthoritativeDelta(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"))
	gameRepo := newFakeGameRepo()
	ratingRepo := newFakeRatingRepo()
	service := newTestGameService(seasonRepo, gameRepo, ratingRepo)

	game := doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 2, gameTime(10))
	if err := service.RecordGame(context.Background(), game); err != nil {
		t.Fatal(err)
	}

	if game.ID == "" {
		t.Fatal("expected game id to be assigned")
	}
	// Equal 1500 teams, margin 9: round(32 * 0.5 * 1.5) = 24
	if got := gameRepo.eloChange(game.ID); got != 24 {
		t.Errorf("expected stored delta 24, got %d", got)
	}
	if snapshot := snapshotOf(t, ratingRepo, "s1", "a"); snapshot.Rating != 1524 {
		t.Errorf("expected winner rating 1524, got %d", snapshot.Rating)
	}
}

func TestRecordGameIgnoresClientSuppliedFields(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"))
	gameRepo := newFakeGameRepo()
	ratingRepo := newFakeRatingRepo()
	service := newTestGameService(seasonRepo, gameRepo, ratingRepo)

	game := doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 9, gameTime(10))
	game.ID = "client-chosen-id"
	game.EloChange = 999

	if err := service.RecordGame(context.Background(), game); err != nil {
		t.Fatal(err)
	}

	if game.ID == "client-chosen-id" {
		t.Error("expected the store to assign the id, not the submission")
	}
	if got := gameRepo.eloChange(game.ID); got != 16 {
		t.Errorf("expected computed delta 16, got %d", got)
	}
}

func TestRecordGameRejectsInvalidGames(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"))
	gameRepo := newFakeGameRepo()
	service := newTestGameService(seasonRepo, gameRepo, newFakeRatingRepo())

	cases := []struct {
		name string
		game *models.Game
	}{
		{"margin below two", doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 10, gameTime(10))},
		{"winning score below eleven", doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 10, 5, gameTime(10))},
		{"tie", doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 11, gameTime(10))},
		{"negative score", doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, -1, gameTime(10))},
		{"player on both teams", doublesGame("s1", []string{"a", "b"}, []string{"a", "d"}, 11, 9, gameTime(10))},
		{"duplicate within team", doublesGame("s1", []string{"a", "a"}, []string{"c", "d"}, 11, 9, gameTime(10))},
		{"one-player team", doublesGame("s1", []string{"a"}, []string{"c", "d"}, 11, 9, gameTime(10))},
		{"missing game time", doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 9, time.Time{})},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := service.RecordGame(context.Background(), c.game); err == nil {
				t.Error("expected rejection")
			}
		})
	}

	if len(gameRepo.games) != 0 {
		t.Errorf("expected no games stored, got %d", len(gameRepo.games))
	}
}

func TestRecordGameUnknownSeason(t *testing.T) {
	service := newTestGameService(newFakeSeasonRepo(), newFakeGameRepo(), newFakeRatingRepo())

	game := doublesGame("missing", []string{"a", "b"}, []string{"c", "d"}, 11, 9, gameTime(10))
	err := service.RecordGame(context.Background(), game)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordGameRejectsDuplicateSubmission(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"))
	gameRepo := newFakeGameRepo()
	service := newTestGameService(seasonRepo, gameRepo, newFakeRatingRepo())

	first := doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 9, gameTime(10))
	if err := service.RecordGame(context.Background(), first); err != nil {
		t.Fatal(err)
	}

	// Same matchup and scores resubmitted immediately
	second := doublesGame("s1", []string{"b", "a"}, []string{"d", "c"}, 11, 9, gameTime(10))
	err := service.RecordGame(context.Background(), second)
	if err == nil {
		t.Fatal("expected duplicate rejection")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate error, got %v", err)
	}
	if len(gameRepo.games) != 1 {
		t.Errorf("expected 1 stored game, got %d", len(gameRepo.games))
	}
}

func TestRecordGameAllowsRematchWithDifferentScore(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"))
	gameRepo := newFakeGameRepo()
	service := newTestGameService(seasonRepo, gameRepo, newFakeRatingRepo())

	first := doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 9, gameTime(10))
	if err := service.RecordGame(context.Background(), first); err != nil {
		t.Fatal(err)
	}

	rematch := doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 7, gameTime(11))
	if err := service.RecordGame(context.Background(), rematch); err != nil {
		t.Fatalf("rematch with different score should pass: %v", err)
	}
}

func TestUpdateGameReplaysSeason(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"))
	gameRepo := newFakeGameRepo(
		doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 9, gameTime(10)),
	)
	ratingRepo := newFakeRatingRepo()
	service := newTestGameService(seasonRepo, gameRepo, ratingRepo)

	replay := newTestReplayService(seasonRepo, gameRepo, ratingRepo)
	if err := replay.ReplaySeason(context.Background(), "s1"); err != nil {
		t.Fatal(err)
	}

	// Widen the margin from 2 to 9; the delta must grow from 16 to 24
	edited := doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 2, gameTime(10))
	edited.ID = "g1"
	if err := service.UpdateGame(context.Background(), edited); err != nil {
		t.Fatal(err)
	}

	if got := gameRepo.eloChange("g1"); got != 24 {
		t.Errorf("expected stamped delta 24 after edit, got %d", got)
	}
	if snapshot := snapshotOf(t, ratingRepo, "s1", "c"); snapshot.Rating != 1476 {
		t.Errorf("expected loser rating 1476 after edit, got %d", snapshot.Rating)
	}
}

func TestUpdateGameMovingSeasonsReplaysBoth(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"), testSeason("s2"))
	gameRepo := newFakeGameRepo(
		doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 9, gameTime(10)),
	)
	ratingRepo := newFakeRatingRepo()
	service := newTestGameService(seasonRepo, gameRepo, ratingRepo)

	replay := newTestReplayService(seasonRepo, gameRepo, ratingRepo)
	if err := replay.ReplaySeason(context.Background(), "s1"); err != nil {
		t.Fatal(err)
	}

	moved := doublesGame("s2", []string{"a", "b"}, []string{"c", "d"}, 11, 9, gameTime(10))
	moved.ID = "g1"
	if err := service.UpdateGame(context.Background(), moved); err != nil {
		t.Fatal(err)
	}

	// The old season no longer has games, so its snapshots are pruned
	oldSnapshots, err := ratingRepo.FindBySeason(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(oldSnapshots) != 0 {
		t.Errorf("expected old season snapshots pruned, got %d", len(oldSnapshots))
	}

	if snapshot := snapshotOf(t, ratingRepo, "s2", "a"); snapshot.Rating != 1516 {
		t.Errorf("expected rating 1516 in new season, got %d", snapshot.Rating)
	}
}

func TestUpdateGameNotFound(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"))
	service := newTestGameService(seasonRepo, newFakeGameRepo(), newFakeRatingRepo())

	game := doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 9, gameTime(10))
	game.ID = "missing"
	err := service.UpdateGame(context.Background(), game)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteGameReplaysSeason(t *testing.T) {
	seasonRepo := newFakeSeasonRepo(testSeason("s1"))
	gameRepo := newFakeGameRepo(
		doublesGame("s1", []string{"a", "b"}, []string{"c", "d"}, 11, 9, gameTime(10)),
		doublesGame("s1", []string{"a", "b"}, []string{"e", "f"}, 11, 5, gameTime(11)),
	)
	ratingRepo := newFakeRatingRepo()
	service := newTestGameService(seasonRepo, gameRepo, ratingRepo)

	replay := newTestReplayService(seasonRepo, gameRepo, ratingRepo)
	if err := replay.ReplaySeason(context.Background(), "s1"); err != nil {
		t.Fatal(err)
	}

	if err := service.DeleteGame(context.Background(), "g2"); err != nil {
		t.Fatal(err)
	}

	// e and f only appeared in the deleted game
	snapshots, err := ratingRepo.FindBySeason(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 4 {
		t.Errorf("expected 4 snapshots after delete, got %d", len(snapshots))
	}
	if snapshot := snapshotOf(t, ratingRepo, "s1", "a"); snapshot.Rating != 1516 || snapshot.Wins != 1 {
		t.Errorf("expected rating rebuilt to 1516/1 win, got %d/%d", snapshot.Rating, snapshot.Wins)
	}
}

func TestDeleteGameNotFound(t *testing.T) {
	service := newTestGameService(newFakeSeasonRepo(), newFakeGameRepo(), newFakeRatingRepo())

	err := service.DeleteGame(context.Background(), "missing")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
