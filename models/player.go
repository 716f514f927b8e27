package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Player represents a league member
type Player struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"` // Never serialize password in JSON
	IsAdmin   bool      `json:"isAdmin" bson:"isAdmin"`
	Rating    int       `json:"rating" bson:"rating"` // Lifetime rating, seeded at the league baseline
	Wins      int       `json:"wins" bson:"wins"`
	Losses    int       `json:"losses" bson:"losses"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// LoginRequest represents login form data
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Player Player `json:"player"`
	Token  string `json:"token"`
}

// HashPassword hashes the player's password using bcrypt
func (p *Player) HashPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies the provided password against the stored hash
func (p *Player) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(password))
	return err == nil
}

// ToSafePlayer returns a copy of the player without sensitive fields
func (p *Player) ToSafePlayer() Player {
	return Player{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		IsAdmin:   p.IsAdmin,
		Rating:    p.Rating,
		Wins:      p.Wins,
		Losses:    p.Losses,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		// Password intentionally omitted
	}
}
