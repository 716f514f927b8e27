package services

import (
	"math"

	"paddle-league-go/models"
)

// ExpectedScore returns the probability of winning for the side with
// ownRating against opponentRating, on the standard 400-point ELO curve
func ExpectedScore(ownRating, opponentRating float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (opponentRating-ownRating)/400.0))
}

// MarginMultiplier scales the rating change by the score differential.
// A minimum 2-point win carries multiplier 1.0; each extra point adds 0.1,
// capped at 1.5 from a margin of 7 up.
func MarginMultiplier(margin int) float64 {
	bonus := float64(margin-models.MinWinMargin) / 10.0
	if bonus < 0 {
		bonus = 0
	}
	if bonus > 0.5 {
		bonus = 0.5
	}
	return 1.0 + bonus
}

// TeamRating returns a team's rating as the mean of its two players' ratings
func TeamRating(rating1, rating2 int) float64 {
	return (float64(rating1) + float64(rating2)) / 2.0
}

// EloDelta computes the rating change magnitude for one game. The change is
// evaluated from team1's perspective and returned as a nonnegative integer;
// the caller applies it with + to the winners and - to the losers, which
// makes the result symmetric regardless of team order.
func EloDelta(team1Rating, team2Rating float64, team1Won bool, margin, kFactor int) int {
	expected := ExpectedScore(team1Rating, team2Rating)

	actual := 0.0
	if team1Won {
		actual = 1.0
	}

	raw := float64(kFactor) * (actual - expected) * MarginMultiplier(margin)
	return int(math.Round(math.Abs(raw)))
}
