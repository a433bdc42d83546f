package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IshaanNene/facultyscrape/internal/types"
)

// MongoStorage upserts faculties into a MongoDB collection, keyed by faculty id.
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	count      int
	logger     *slog.Logger
}

// NewMongoStorage connects to MongoDB and verifies the connection.
func NewMongoStorage(ctx context.Context, uri, database, collection string, logger *slog.Logger) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoStorage{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_storage"),
	}, nil
}

func (s *MongoStorage) Name() string { return "mongodb" }

// Store replaces each faculty document in one unordered bulk write.
func (s *MongoStorage) Store(ctx context.Context, faculties []*types.Faculty) error {
	if len(faculties) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(faculties))
	for _, f := range faculties {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": f.ID}).
			SetReplacement(f).
			SetUpsert(true))
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := s.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("mongodb bulk write: %w", err)}
	}

	s.count += len(faculties)
	s.logger.Info("faculties stored in mongodb",
		"count", len(faculties),
		"upserted", res.UpsertedCount,
		"modified", res.ModifiedCount,
	)
	return nil
}

func (s *MongoStorage) Close() error {
	s.logger.Info("mongodb storage closing", "total_faculties", s.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
