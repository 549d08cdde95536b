package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const athleteCollectionName = "athletes"

// mongoAthleteRepository implements repository.AthleteRepository using MongoDB.
type mongoAthleteRepository struct {
	collection *mongo.Collection
}

// NewMongoAthleteRepository creates a new athlete repository.
func NewMongoAthleteRepository(db *mongo.Database) repository.AthleteRepository {
	return &mongoAthleteRepository{
		collection: db.Collection(athleteCollectionName),
	}
}

// Create inserts a new athlete, assigning an ID when none is set.
func (r *mongoAthleteRepository) Create(ctx context.Context, athlete *domain.Athlete) error {
	if athlete.Name == "" {
		return repository.ErrInvalidInput
	}
	if athlete.ID == "" {
		athlete.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	athlete.CreatedAt = now
	athlete.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, athlete); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves an athlete by ID.
func (r *mongoAthleteRepository) GetByID(ctx context.Context, id string) (*domain.Athlete, error) {
	var athlete domain.Athlete
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&athlete)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &athlete, nil
}

// List returns every athlete ordered by creation time.
func (r *mongoAthleteRepository) List(ctx context.Context) ([]domain.Athlete, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var athletes []domain.Athlete
	if err = cursor.All(ctx, &athletes); err != nil {
		return nil, err
	}
	if athletes == nil {
		athletes = []domain.Athlete{}
	}
	return athletes, nil
}

// Update replaces the athlete document.
func (r *mongoAthleteRepository) Update(ctx context.Context, athlete *domain.Athlete) error {
	athlete.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": athlete.ID}, athlete)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAthleteIndexes creates necessary indexes for the athletes collection.
func EnsureAthleteIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logrus.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
