package database

import (
	"context"
	"fmt"
	"paddle-league-go/logging"
	"paddle-league-go/models"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoGameRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoGameRepository(db *MongoDB) *MongoGameRepository {
	collection := db.GetCollection("games")
	logger := logging.WithPrefix("mongo_game_repo")

	// Compound index supporting the replay query shape: season filter plus
	// chronological sort with stable tie-breaking
	ctx, cancel := db.Context()
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "seasonId", Value: 1}, {Key: "playedAt", Value: 1}, {Key: "createdAt", Value: 1}},
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		logger.Errorf("Failed to create index on games collection: %v", err)
	}

	return &MongoGameRepository{
		collection: collection,
		logger:     logger,
	}
}

// Insert stores a new game and fills in its generated id
func (r *MongoGameRepository) Insert(ctx context.Context, game *models.Game) error {
	result, err := r.collection.InsertOne(ctx, game)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		game.ID = oid.Hex()
	}

	return nil
}

// FindByID returns a game by id, or nil if it does not exist
func (r *MongoGameRepository) FindByID(ctx context.Context, id string) (*models.Game, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid game id %q: %w", id, err)
	}

	var game models.Game
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find game %s: %w", id, err)
	}

	return &game, nil
}

// FindBySeason returns all games for a season sorted ascending by game time,
// with creation time and id as stable secondary keys
func (r *MongoGameRepository) FindBySeason(ctx context.Context, seasonID string) ([]*models.Game, error) {
	filter := bson.M{"seasonId": seasonID}

	sortOptions := options.Find().SetSort(bson.D{
		{Key: "playedAt", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, sortOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find games for season %s: %w", seasonID, err)
	}
	defer cursor.Close(ctx)

	var games []*models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}

	return games, nil
}

// FindRecentBySeason returns games for a season created at or after the given
// time. Used by the duplicate-submission check.
func (r *MongoGameRepository) FindRecentBySeason(ctx context.Context, seasonID string, since time.Time) ([]*models.Game, error) {
	filter := bson.M{
		"seasonId":  seasonID,
		"createdAt": bson.M{"$gte": since},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find recent games for season %s: %w", seasonID, err)
	}
	defer cursor.Close(ctx)

	var games []*models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}

	return games, nil
}

// Update replaces the stored game record
func (r *MongoGameRepository) Update(ctx context.Context, game *models.Game) error {
	oid, err := primitive.ObjectIDFromHex(game.ID)
	if err != nil {
		return fmt.Errorf("invalid game id %q: %w", game.ID, err)
	}

	update := bson.M{
		"$set": bson.M{
			"seasonId":   game.SeasonID,
			"team1":      game.Team1,
			"team2":      game.Team2,
			"playedAt":   game.PlayedAt,
			"eloChange":  game.EloChange,
			"recordedBy": game.RecordedBy,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update game %s: %w", game.ID, err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpdateEloChange overwrites only the stamped rating delta on a game record
func (r *MongoGameRepository) UpdateEloChange(ctx context.Context, gameID string, delta int) error {
	oid, err := primitive.ObjectIDFromHex(gameID)
	if err != nil {
		return fmt.Errorf("invalid game id %q: %w", gameID, err)
	}

	update := bson.M{"$set": bson.M{"eloChange": delta}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update elo change for game %s: %w", gameID, err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteBySeason removes every game for a season. Used when the season
// itself is deleted.
func (r *MongoGameRepository) DeleteBySeason(ctx context.Context, seasonID string) error {
	result, err := r.collection.DeleteMany(ctx, bson.M{"seasonId": seasonID})
	if err != nil {
		return fmt.Errorf("failed to delete games for season %s: %w", seasonID, err)
	}

	r.logger.Infof("Deleted %d games for season %s", result.DeletedCount, seasonID)
	return nil
}

// Delete removes a game record
func (r *MongoGameRepository) Delete(ctx context.Context, gameID string) error {
	oid, err := primitive.ObjectIDFromHex(gameID)
	if err != nil {
		return fmt.Errorf("invalid game id %q: %w", gameID, err)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", gameID, err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}

	r.logger.Debugf("Deleted game %s", gameID)
	return nil
}
