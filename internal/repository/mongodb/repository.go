package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/autobase/webfront/internal/domain/models"
)

// SnapshotCollection holds one document per report snapshot.
const SnapshotCollection = "report_snapshots"

// SnapshotRepository stores report snapshots in MongoDB.
type SnapshotRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// Connect dials MongoDB, verifies the connection and returns a repository
// backed by it.
func Connect(ctx context.Context, uri string, dbName string) (*SnapshotRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return New(client, dbName), nil
}

// New wraps an already connected client.
func New(client *mongo.Client, dbName string) *SnapshotRepository {
	return &SnapshotRepository{
		client:   client,
		dbName:   dbName,
		collName: SnapshotCollection,
	}
}

// SaveSnapshot inserts a snapshot document.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	if _, err := collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert report snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *SnapshotRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
