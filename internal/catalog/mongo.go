package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/culinaryai/culinaryai/pkg/models"
)

// minAllocatedID keeps ingested ids clear of the manually curated entries at
// the front of the catalog.
const minAllocatedID = 21

// MongoSource loads and ingests meal records from a MongoDB collection.
type MongoSource struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

func NewMongoSource(collection *mongo.Collection, logger *logrus.Logger) *MongoSource {
	return &MongoSource{
		collection: collection,
		logger:     logger,
	}
}

// Load fetches all records in insertion order.
func (m *MongoSource) Load(ctx context.Context) ([]models.MealRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := m.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.MealRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode dishes: %w", err)
	}

	m.logger.WithField("count", len(records)).Debug("Loaded meal records from MongoDB")
	return records, nil
}

// Ingest inserts records that are not yet present, keyed by name. Records
// without an id get the next numeric id above both the current maximum and
// the reserved range. Returns the number of inserted records.
func (m *MongoSource) Ingest(ctx context.Context, records []models.MealRecord) (int, error) {
	nextID, err := m.nextNumericID(ctx)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, record := range records {
		count, err := m.collection.CountDocuments(ctx, bson.D{{Key: "name", Value: record.Name}})
		if err != nil {
			return inserted, fmt.Errorf("failed to check for existing dish %q: %w", record.Name, err)
		}
		if count > 0 {
			continue
		}

		if record.ID == "" {
			record.ID = strconv.Itoa(nextID)
			nextID++
		}

		if _, err := m.collection.InsertOne(ctx, record); err != nil {
			return inserted, fmt.Errorf("failed to insert dish %q: %w", record.Name, err)
		}
		inserted++
	}

	m.logger.WithFields(logrus.Fields{
		"inserted": inserted,
		"total":    len(records),
	}).Info("Dataset ingested into MongoDB")

	return inserted, nil
}

// nextNumericID scans for the highest numeric id in the collection. Ids that
// do not parse are legacy entries and are skipped.
func (m *MongoSource) nextNumericID(ctx context.Context) (int, error) {
	cursor, err := m.collection.Find(ctx, bson.D{},
		options.Find().SetProjection(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return 0, fmt.Errorf("failed to scan existing ids: %w", err)
	}
	defer cursor.Close(ctx)

	next := minAllocatedID
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		if n, err := strconv.Atoi(doc.ID); err == nil && n+1 > next {
			next = n + 1
		}
	}
	return next, nil
}
