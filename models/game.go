package models

import (
	"time"
)

// Standard win condition for a doubles game
const (
	MinWinningScore = 11
	MinWinMargin    = 2
)

// Team is one side of a doubles game: two distinct players and their score
type Team struct {
	Players []string `json:"players" bson:"players"`
	Score   int      `json:"score" bson:"score"`
}

// HasPlayers reports whether the team carries exactly two player references.
// Historical records can be missing the players array entirely; the replay
// engine skips such games instead of aborting.
func (t *Team) HasPlayers() bool {
	return len(t.Players) == 2
}

// Game represents one recorded doubles game
type Game struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	SeasonID   string    `json:"seasonId" bson:"seasonId"`
	Team1      Team      `json:"team1" bson:"team1"`
	Team2      Team      `json:"team2" bson:"team2"`
	PlayedAt   time.Time `json:"playedAt" bson:"playedAt"` // Ordering key for replay
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	EloChange  int       `json:"eloChange" bson:"eloChange"` // Nonnegative magnitude; sign applied per team
	RecordedBy string    `json:"recordedBy,omitempty" bson:"recordedBy,omitempty"`
}

// Team1Won reports whether team1 scored higher than team2
func (g *Game) Team1Won() bool {
	return g.Team1.Score > g.Team2.Score
}

// Margin returns the absolute score differential
func (g *Game) Margin() int {
	margin := g.Team1.Score - g.Team2.Score
	if margin < 0 {
		margin = -margin
	}
	return margin
}

// PlayerIDs returns all four player identities, team1 first
func (g *Game) PlayerIDs() []string {
	ids := make([]string, 0, 4)
	ids = append(ids, g.Team1.Players...)
	ids = append(ids, g.Team2.Players...)
	return ids
}

// HasValidTeams reports whether both teams carry exactly two players
func (g *Game) HasValidTeams() bool {
	return g.Team1.HasPlayers() && g.Team2.HasPlayers()
}

// SameMatchup reports whether the other game has identical team compositions
// and scores, in either team order. Used for duplicate-submission detection.
func (g *Game) SameMatchup(other *Game) bool {
	if samePair(g.Team1.Players, other.Team1.Players) && samePair(g.Team2.Players, other.Team2.Players) {
		return g.Team1.Score == other.Team1.Score && g.Team2.Score == other.Team2.Score
	}
	if samePair(g.Team1.Players, other.Team2.Players) && samePair(g.Team2.Players, other.Team1.Players) {
		return g.Team1.Score == other.Team2.Score && g.Team2.Score == other.Team1.Score
	}
	return false
}

// Validate enforces the game-admission rules: exactly two distinct players
// per team, no player on both sides, a winning score of at least 11, and a
// win margin of at least 2. Replay never re-checks these.
func (g *Game) Validate() error {
	if !g.HasValidTeams() {
		return NewValidationError("each team must have exactly two players")
	}

	seen := make(map[string]bool, 4)
	for _, id := range g.PlayerIDs() {
		if id == "" {
			return NewValidationError("player id cannot be empty")
		}
		if seen[id] {
			return NewValidationError("player %s appears more than once", id)
		}
		seen[id] = true
	}

	if g.Team1.Score < 0 || g.Team2.Score < 0 {
		return NewValidationError("scores cannot be negative")
	}
	if g.Team1.Score == g.Team2.Score {
		return NewValidationError("games cannot end in a tie")
	}

	winning, losing := g.Team1.Score, g.Team2.Score
	if losing > winning {
		winning, losing = losing, winning
	}
	if winning < MinWinningScore {
		return NewValidationError("winning score must be at least %d, got %d", MinWinningScore, winning)
	}
	if winning-losing < MinWinMargin {
		return NewValidationError("win margin must be at least %d, got %d", MinWinMargin, winning-losing)
	}

	if g.PlayedAt.IsZero() {
		return NewValidationError("game time is required")
	}

	return nil
}

// samePair compares two player pairs ignoring order within the pair
func samePair(a, b []string) bool {
	if len(a) != 2 || len(b) != 2 {
		return false
	}
	return (a[0] == b[0] && a[1] == b[1]) || (a[0] == b[1] && a[1] == b[0])
}
