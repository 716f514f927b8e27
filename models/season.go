package models

import (
	"time"
)

// Season represents a rating period with its own configuration.
// Exactly one season is active at a time; activation is handled by
// the season service, not the replay engine.
type Season struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	Name           string    `json:"name" bson:"name"`
	StartsAt       time.Time `json:"startsAt" bson:"startsAt"`
	EndsAt         time.Time `json:"endsAt" bson:"endsAt"`
	Active         bool      `json:"active" bson:"active"`
	BaselineRating int       `json:"baselineRating" bson:"baselineRating"`
	KFactor        int       `json:"kFactor" bson:"kFactor"`
	MinRankedGames int       `json:"minRankedGames" bson:"minRankedGames"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// Contains reports whether t falls within the season window [StartsAt, EndsAt)
func (s *Season) Contains(t time.Time) bool {
	return !t.Before(s.StartsAt) && t.Before(s.EndsAt)
}
