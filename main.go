package main

import (
	"net/http"
	"os"

	"paddle-league-go/config"
	"paddle-league-go/database"
	"paddle-league-go/handlers"
	"paddle-league-go/logging"
	"paddle-league-go/middleware"
	"paddle-league-go/services"

	"github.com/gorilla/mux"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		Output:      os.Stdout,
		Prefix:      cfg.Logging.Prefix,
		EnableColor: cfg.Logging.EnableColor,
	})
	cfg.LogConfiguration()

	// Initialize MongoDB connection
	db, err := database.NewMongoConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		Timeout:  cfg.Database.Timeout,
	})
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.TestConnection(); err != nil {
		logging.Fatalf("Database test failed: %v", err)
	}

	// Create repositories
	playerRepo := database.NewMongoPlayerRepository(db)
	seasonRepo := database.NewMongoSeasonRepository(db)
	gameRepo := database.NewMongoGameRepository(db)
	ratingRepo := database.NewMongoRatingRepository(db)

	// Create services
	replayService := services.NewReplayService(seasonRepo, gameRepo, ratingRepo, playerRepo, cfg.League)
	gameService := services.NewGameService(gameRepo, seasonRepo, ratingRepo, replayService, cfg.League)
	leaderboardService := services.NewLeaderboardService(seasonRepo, ratingRepo, playerRepo, cfg.League)
	seasonService := services.NewSeasonService(seasonRepo, gameRepo, ratingRepo, cfg.League)
	playerService := services.NewPlayerService(playerRepo, cfg.League)
	authService := services.NewAuthService(playerRepo, cfg.Auth.JWTSecret)

	// Create handlers
	authHandler := handlers.NewAuthHandler(authService)
	gameHandler := handlers.NewGameHandler(gameService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	seasonHandler := handlers.NewSeasonHandler(seasonService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Setup routes
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Auth routes
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// Read paths
	api.HandleFunc("/players", playerHandler.ListPlayers).Methods("GET")
	api.HandleFunc("/seasons", seasonHandler.ListSeasons).Methods("GET")
	api.HandleFunc("/seasons/active", seasonHandler.GetActiveSeason).Methods("GET")
	api.HandleFunc("/seasons/{id}/leaderboard", leaderboardHandler.GetLeaderboard).Methods("GET")
	api.HandleFunc("/seasons/{id}/games", gameHandler.GetSeasonGames).Methods("GET")

	// Game submission requires a logged-in player
	api.Handle("/games", authMiddleware.RequireAuth(http.HandlerFunc(gameHandler.CreateGame))).Methods("POST")

	// Structural mutations go through the admin capability check
	api.Handle("/games/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(gameHandler.UpdateGame))).Methods("PUT")
	api.Handle("/games/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(gameHandler.DeleteGame))).Methods("DELETE")
	api.Handle("/players", authMiddleware.RequireAdmin(http.HandlerFunc(playerHandler.RegisterPlayer))).Methods("POST")
	api.Handle("/seasons", authMiddleware.RequireAdmin(http.HandlerFunc(seasonHandler.CreateSeason))).Methods("POST")
	api.Handle("/seasons/{id}/activate", authMiddleware.RequireAdmin(http.HandlerFunc(seasonHandler.ActivateSeason))).Methods("POST")
	api.Handle("/seasons/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(seasonHandler.DeleteSeason))).Methods("DELETE")

	// Start server
	addr := cfg.GetServerAddress()
	logging.Infof("Server starting on %s", addr)
	logging.Fatal(http.ListenAndServe(addr, r))
}
