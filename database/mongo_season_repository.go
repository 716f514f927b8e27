package database

import (
	"context"
	"fmt"
	"paddle-league-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoSeasonRepository struct {
	collection *mongo.Collection
}

func NewMongoSeasonRepository(db *MongoDB) *MongoSeasonRepository {
	return &MongoSeasonRepository{
		collection: db.GetCollection("seasons"),
	}
}

// Insert stores a new season and fills in its generated id
func (r *MongoSeasonRepository) Insert(ctx context.Context, season *models.Season) error {
	result, err := r.collection.InsertOne(ctx, season)
	if err != nil {
		return fmt.Errorf("failed to insert season: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		season.ID = oid.Hex()
	}

	return nil
}

// FindByID returns a season by id, or nil if it does not exist
func (r *MongoSeasonRepository) FindByID(ctx context.Context, id string) (*models.Season, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid season id %q: %w", id, err)
	}

	var season models.Season
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&season)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find season %s: %w", id, err)
	}

	return &season, nil
}

// FindActive returns the active season, or nil if no season is active
func (r *MongoSeasonRepository) FindActive(ctx context.Context) (*models.Season, error) {
	var season models.Season
	err := r.collection.FindOne(ctx, bson.M{"active": true}).Decode(&season)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find active season: %w", err)
	}

	return &season, nil
}

// FindAll returns all seasons, newest first
func (r *MongoSeasonRepository) FindAll(ctx context.Context) ([]*models.Season, error) {
	sortOptions := options.Find().SetSort(bson.D{{Key: "startsAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, sortOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find seasons: %w", err)
	}
	defer cursor.Close(ctx)

	var seasons []*models.Season
	if err := cursor.All(ctx, &seasons); err != nil {
		return nil, fmt.Errorf("failed to decode seasons: %w", err)
	}

	return seasons, nil
}

// Delete removes a season record
func (r *MongoSeasonRepository) Delete(ctx context.Context, seasonID string) error {
	oid, err := primitive.ObjectIDFromHex(seasonID)
	if err != nil {
		return fmt.Errorf("invalid season id %q: %w", seasonID, err)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete season %s: %w", seasonID, err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

// SetActive marks one season active and deactivates every other season
func (r *MongoSeasonRepository) SetActive(ctx context.Context, seasonID string) error {
	oid, err := primitive.ObjectIDFromHex(seasonID)
	if err != nil {
		return fmt.Errorf("invalid season id %q: %w", seasonID, err)
	}

	if _, err := r.collection.UpdateMany(ctx, bson.M{"active": true}, bson.M{"$set": bson.M{"active": false}}); err != nil {
		return fmt.Errorf("failed to deactivate seasons: %w", err)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"active": true}})
	if err != nil {
		return fmt.Errorf("failed to activate season %s: %w", seasonID, err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}
