package middleware

import (
	"context"
	"net/http"
	"paddle-league-go/models"
	"paddle-league-go/services"
	"strings"
)

// PlayerContextKey is the key used to store the player in request context
type PlayerContextKey string

const PlayerKey PlayerContextKey = "player"

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	authService *services.AuthService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// RequireAuth middleware that requires authentication
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player, err := m.getPlayerFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), PlayerKey, player)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin middleware that requires an authenticated admin. Every
// mutation endpoint goes through this single capability check.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player, err := m.getPlayerFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if !services.CanManageGames(player) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), PlayerKey, player)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getPlayerFromRequest extracts and validates the player from the request
func (m *AuthMiddleware) getPlayerFromRequest(r *http.Request) (*models.Player, error) {
	// Try to get token from Authorization header
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return m.authService.GetPlayerFromToken(r.Context(), parts[1])
		}
	}

	// Try to get token from cookie
	cookie, err := r.Cookie("auth_token")
	if err == nil && cookie.Value != "" {
		return m.authService.GetPlayerFromToken(r.Context(), cookie.Value)
	}

	return nil, http.ErrNoCookie
}

// GetPlayerFromContext retrieves the authenticated player from request context
func GetPlayerFromContext(r *http.Request) *models.Player {
	if player, ok := r.Context().Value(PlayerKey).(*models.Player); ok {
		return player
	}
	return nil
}
