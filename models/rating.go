package models

import (
	"time"
)

// PlayerSeasonRating is the persisted rating snapshot for one player in one
// season. It is fully overwritten on every replay, never patched, and the
// replay engine is its only writer.
type PlayerSeasonRating struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	SeasonID      string    `json:"seasonId" bson:"seasonId"`
	PlayerID      string    `json:"playerId" bson:"playerId"`
	Rating        int       `json:"rating" bson:"rating"`
	Wins          int       `json:"wins" bson:"wins"`
	Losses        int       `json:"losses" bson:"losses"`
	HighestRating int       `json:"highestRating" bson:"highestRating"`
	LowestRating  int       `json:"lowestRating" bson:"lowestRating"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// GamesPlayed returns the number of season games the snapshot covers
func (r *PlayerSeasonRating) GamesPlayed() int {
	return r.Wins + r.Losses
}

// StandingEntry is one row of the season leaderboard
type StandingEntry struct {
	Rank          int    `json:"rank,omitempty"`
	PlayerID      string `json:"playerId"`
	PlayerName    string `json:"playerName,omitempty"`
	Rating        int    `json:"rating"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	GamesPlayed   int    `json:"gamesPlayed"`
	HighestRating int    `json:"highestRating"`
	LowestRating  int    `json:"lowestRating"`
}

// Standings splits a season's players into ranked and unranked buckets.
// Players below the season's minimum-games threshold keep their stats but
// carry no rank.
type Standings struct {
	SeasonID string          `json:"seasonId"`
	Ranked   []StandingEntry `json:"ranked"`
	Unranked []StandingEntry `json:"unranked"`
}
