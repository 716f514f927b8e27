package database

import (
	"context"
	"fmt"
	"paddle-league-go/logging"
	"paddle-league-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRatingRepository persists PlayerSeasonRating snapshots. The replay
// engine is the only writer; everything else reads.
type MongoRatingRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoRatingRepository(db *MongoDB) *MongoRatingRepository {
	collection := db.GetCollection("season_ratings")
	logger := logging.WithPrefix("mongo_rating_repo")

	ctx, cancel := db.Context()
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "seasonId", Value: 1}, {Key: "playerId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		logger.Errorf("Failed to create index on season_ratings collection: %v", err)
	}

	return &MongoRatingRepository{
		collection: collection,
		logger:     logger,
	}
}

// FindBySeasonPlayer returns the snapshot for one (season, player) pair,
// or nil if the player has no snapshot yet
func (r *MongoRatingRepository) FindBySeasonPlayer(ctx context.Context, seasonID, playerID string) (*models.PlayerSeasonRating, error) {
	filter := bson.M{"seasonId": seasonID, "playerId": playerID}

	var rating models.PlayerSeasonRating
	err := r.collection.FindOne(ctx, filter).Decode(&rating)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find rating for season %s player %s: %w", seasonID, playerID, err)
	}

	return &rating, nil
}

// FindBySeason returns all snapshots for a season
func (r *MongoRatingRepository) FindBySeason(ctx context.Context, seasonID string) ([]*models.PlayerSeasonRating, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"seasonId": seasonID})
	if err != nil {
		return nil, fmt.Errorf("failed to find ratings for season %s: %w", seasonID, err)
	}
	defer cursor.Close(ctx)

	var ratings []*models.PlayerSeasonRating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}

	return ratings, nil
}

// Upsert fully overwrites the snapshot for a (season, player) pair
func (r *MongoRatingRepository) Upsert(ctx context.Context, rating *models.PlayerSeasonRating) error {
	filter := bson.M{"seasonId": rating.SeasonID, "playerId": rating.PlayerID}

	update := bson.M{
		"$set": bson.M{
			"rating":        rating.Rating,
			"wins":          rating.Wins,
			"losses":        rating.Losses,
			"highestRating": rating.HighestRating,
			"lowestRating":  rating.LowestRating,
			"updatedAt":     rating.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"seasonId": rating.SeasonID,
			"playerId": rating.PlayerID,
		},
	}

	opts := options.Update().SetUpsert(true)
	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert rating for season %s player %s: %w", rating.SeasonID, rating.PlayerID, err)
	}

	// If this was an insert, set the ID
	if result.UpsertedID != nil {
		if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
			rating.ID = oid.Hex()
		}
	}

	return nil
}

// DeleteBySeasonExcept removes snapshots for season players not in keep.
// The replay engine rebuilds the player set from the remaining games, so
// snapshots of players with no games left must go.
func (r *MongoRatingRepository) DeleteBySeasonExcept(ctx context.Context, seasonID string, keep []string) error {
	filter := bson.M{
		"seasonId": seasonID,
		"playerId": bson.M{"$nin": keep},
	}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to prune ratings for season %s: %w", seasonID, err)
	}

	if result.DeletedCount > 0 {
		r.logger.Infof("Pruned %d stale rating snapshots for season %s", result.DeletedCount, seasonID)
	}

	return nil
}

// DeleteBySeason removes every snapshot for a season. Used when the season
// itself is deleted.
func (r *MongoRatingRepository) DeleteBySeason(ctx context.Context, seasonID string) error {
	result, err := r.collection.DeleteMany(ctx, bson.M{"seasonId": seasonID})
	if err != nil {
		return fmt.Errorf("failed to delete ratings for season %s: %w", seasonID, err)
	}

	r.logger.Infof("Deleted %d rating snapshots for season %s", result.DeletedCount, seasonID)
	return nil
}
