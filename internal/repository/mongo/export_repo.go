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

const exportCollectionName = "schedule_exports"

// mongoExportRepository implements repository.ExportRepository
type mongoExportRepository struct {
	collection *mongo.Collection
}

// NewMongoExportRepository creates a new export metadata repository.
func NewMongoExportRepository(db *mongo.Database) repository.ExportRepository {
	return &mongoExportRepository{
		collection: db.Collection(exportCollectionName),
	}
}

// Create inserts export metadata. The object itself must already be in storage.
func (r *mongoExportRepository) Create(ctx context.Context, export *domain.ScheduleExport) error {
	if export.AthleteID == "" || export.ObjectKey == "" {
		return repository.ErrInvalidInput
	}
	if export.ID == "" {
		export.ID = uuid.NewString()
	}
	if export.ExportedAt.IsZero() {
		export.ExportedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, export)
	return err
}

// GetLatest returns the most recent export of a week.
func (r *mongoExportRepository) GetLatest(ctx context.Context, athleteID string, weekStart time.Time) (*domain.ScheduleExport, error) {
	var export domain.ScheduleExport
	filter := bson.M{"athleteId": athleteID, "weekStart": weekStart}
	findOneOptions := options.FindOne().SetSort(bson.D{{Key: "exportedAt", Value: -1}})

	err := r.collection.FindOne(ctx, filter, findOneOptions).Decode(&export)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &export, nil
}

// EnsureExportIndexes creates necessary indexes for the schedule_exports collection.
func EnsureExportIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "athleteId", Value: 1}, {Key: "weekStart", Value: 1}, {Key: "exportedAt", Value: -1}}},
		{Keys: bson.D{{Key: "objectKey", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logrus.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
