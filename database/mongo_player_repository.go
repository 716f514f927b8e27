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

type MongoPlayerRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoPlayerRepository(db *MongoDB) *MongoPlayerRepository {
	collection := db.GetCollection("players")
	logger := logging.WithPrefix("mongo_player_repo")

	ctx, cancel := db.Context()
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		logger.Errorf("Failed to create index on players collection: %v", err)
	}

	return &MongoPlayerRepository{
		collection: collection,
		logger:     logger,
	}
}

// Insert stores a new player and fills in their generated id
func (r *MongoPlayerRepository) Insert(ctx context.Context, player *models.Player) error {
	result, err := r.collection.InsertOne(ctx, player)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		player.ID = oid.Hex()
	}

	return nil
}

// FindByID returns a player by id, or nil if they do not exist
func (r *MongoPlayerRepository) FindByID(ctx context.Context, id string) (*models.Player, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid player id %q: %w", id, err)
	}

	var player models.Player
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&player)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find player %s: %w", id, err)
	}

	return &player, nil
}

// FindByEmail returns a player by email, or nil if they do not exist
func (r *MongoPlayerRepository) FindByEmail(ctx context.Context, email string) (*models.Player, error) {
	var player models.Player
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&player)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find player by email: %w", err)
	}

	return &player, nil
}

// FindByIDs returns the players with the given ids, keyed by id
func (r *MongoPlayerRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Player, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("invalid player id %q: %w", id, err)
		}
		oids = append(oids, oid)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find players: %w", err)
	}
	defer cursor.Close(ctx)

	var players []*models.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("failed to decode players: %w", err)
	}

	byID := make(map[string]*models.Player, len(players))
	for _, player := range players {
		byID[player.ID] = player
	}

	return byID, nil
}

// FindAll returns all players sorted by name
func (r *MongoPlayerRepository) FindAll(ctx context.Context) ([]*models.Player, error) {
	sortOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, sortOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find players: %w", err)
	}
	defer cursor.Close(ctx)

	var players []*models.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("failed to decode players: %w", err)
	}

	return players, nil
}

// UpdateLifetimeStats overwrites a player's lifetime rating and win/loss record
func (r *MongoPlayerRepository) UpdateLifetimeStats(ctx context.Context, playerID string, rating, wins, losses int) error {
	oid, err := primitive.ObjectIDFromHex(playerID)
	if err != nil {
		return fmt.Errorf("invalid player id %q: %w", playerID, err)
	}

	update := bson.M{
		"$set": bson.M{
			"rating":    rating,
			"wins":      wins,
			"losses":    losses,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update stats for player %s: %w", playerID, err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}
