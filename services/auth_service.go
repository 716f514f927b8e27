package services

import (
	"context"
	"errors"
	"time"

	"paddle-league-go/models"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService handles authentication operations
type AuthService struct {
	playerRepo  PlayerRepository
	jwtSecret   []byte
	tokenExpiry time.Duration
}

// PlayerRepository interface for player data operations
type PlayerRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Player, error)
	FindByID(ctx context.Context, id string) (*models.Player, error)
}

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	PlayerID string `json:"player_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service
func NewAuthService(playerRepo PlayerRepository, jwtSecret string) *AuthService {
	return &AuthService{
		playerRepo:  playerRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: 30 * 24 * time.Hour, // Token expires in 30 days
	}
}

// Login authenticates a player and returns a JWT token
func (a *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	player, err := a.playerRepo.FindByEmail(ctx, email)
	if err != nil || player == nil {
		return nil, errors.New("invalid email or password")
	}

	if !player.CheckPassword(password) {
		return nil, errors.New("invalid email or password")
	}

	token, err := a.GenerateToken(player)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &models.AuthResponse{
		Player: player.ToSafePlayer(),
		Token:  token,
	}, nil
}

// GenerateToken creates a new JWT token for the player
func (a *AuthService) GenerateToken(player *models.Player) (string, error) {
	claims := JWTClaims{
		PlayerID: player.ID,
		Email:    player.Email,
		Name:     player.Name,
		IsAdmin:  player.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "paddle-league-go",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func (a *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return a.jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GetPlayerFromToken validates a token and returns the player
func (a *AuthService) GetPlayerFromToken(ctx context.Context, tokenString string) (*models.Player, error) {
	claims, err := a.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	player, err := a.playerRepo.FindByID(ctx, claims.PlayerID)
	if err != nil || player == nil {
		return nil, errors.New("player not found")
	}

	return player, nil
}

// CanManageGames is the single capability check consulted by every mutation
// endpoint: admins may edit or delete any game
func CanManageGames(player *models.Player) bool {
	return player != nil && player.IsAdmin
}
