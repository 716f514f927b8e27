package services

import (
	"math"
	"testing"
)

func TestExpectedScore(t *testing.T) {
	cases := []struct {
		own, opponent float64
		expected      float64
	}{
		{1500, 1500, 0.5},
		{1900, 1500, 1.0 / (1.0 + math.Pow(10, -1))},
		{1500, 1900, 1.0 / (1.0 + math.Pow(10, 1))},
	}

	for k, c := range cases {
		actual := ExpectedScore(c.own, c.opponent)
		if math.Abs(actual-c.expected) > 1e-9 {
			t.Errorf("case #%d: expected %f got %f", k, c.expected, actual)
		}
	}
}

func TestExpectedScoresSumToOne(t *testing.T) {
	pairs := [][2]float64{{1500, 1500}, {1650, 1480}, {1200, 2100}}
	for k, pair := range pairs {
		sum := ExpectedScore(pair[0], pair[1]) + ExpectedScore(pair[1], pair[0])
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("case #%d: expected scores sum to %f, want 1", k, sum)
		}
	}
}

func TestMarginMultiplier(t *testing.T) {
	cases := []struct {
		margin   int
		expected float64
	}{
		{0, 1.0},
		{1, 1.0},
		{2, 1.0},
		{3, 1.1},
		{5, 1.3},
		{7, 1.5},
		{9, 1.5},
		{12, 1.5},
		{20, 1.5},
	}

	for k, c := range cases {
		actual := MarginMultiplier(c.margin)
		if math.Abs(actual-c.expected) > 1e-9 {
			t.Errorf("case #%d: margin %d: expected %f got %f", k, c.margin, c.expected, actual)
		}
	}
}

func TestMarginMultiplierMonotonic(t *testing.T) {
	prev := MarginMultiplier(0)
	for margin := 1; margin <= 15; margin++ {
		cur := MarginMultiplier(margin)
		if cur < prev {
			t.Errorf("multiplier decreased from %f to %f at margin %d", prev, cur, margin)
		}
		prev = cur
	}
}

func TestEloDeltaEvenTeams(t *testing.T) {
	// Equal team ratings, minimum margin: round(32 * 0.5 * 1.0) = 16
	if delta := EloDelta(1500, 1500, true, 2, 32); delta != 16 {
		t.Errorf("expected delta 16 got %d", delta)
	}

	// Equal team ratings, margin 9: round(32 * 0.5 * 1.5) = 24
	if delta := EloDelta(1500, 1500, true, 9, 32); delta != 24 {
		t.Errorf("expected delta 24 got %d", delta)
	}
}

func TestEloDeltaSymmetry(t *testing.T) {
	cases := []struct {
		ratingA, ratingB float64
		margin           int
	}{
		{1500, 1500, 2},
		{1600, 1450, 5},
		{1320, 1710, 9},
		{2000, 1000, 11},
	}

	for k, c := range cases {
		win := EloDelta(c.ratingA, c.ratingB, true, c.margin, 32)
		loss := EloDelta(c.ratingB, c.ratingA, false, c.margin, 32)
		if win != loss {
			t.Errorf("case #%d: delta not symmetric: %d vs %d", k, win, loss)
		}
	}
}

func TestEloDeltaNonnegative(t *testing.T) {
	// A heavy favorite losing by a wide margin must still yield a
	// nonnegative magnitude
	if delta := EloDelta(2000, 1200, false, 11, 32); delta < 0 {
		t.Errorf("expected nonnegative delta, got %d", delta)
	}
}

func TestEloDeltaUnderdogGainsMore(t *testing.T) {
	favorite := EloDelta(1700, 1400, true, 2, 32)
	underdog := EloDelta(1400, 1700, true, 2, 32)
	if underdog <= favorite {
		t.Errorf("underdog win (%d) should outweigh favorite win (%d)", underdog, favorite)
	}
}

func TestTeamRating(t *testing.T) {
	if r := TeamRating(1500, 1500); r != 1500 {
		t.Errorf("expected 1500 got %f", r)
	}
	if r := TeamRating(1490, 1521); r != 1505.5 {
		t.Errorf("expected 1505.5 got %f", r)
	}
}
