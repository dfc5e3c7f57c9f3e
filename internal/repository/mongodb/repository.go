package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/odenstall/pos/internal/domain/models"
)

const (
	reportsCollection = "daily_reports"
	connectTimeout    = 10 * time.Second
)

// ReportArchive stores one DailyReport document per business day.
type ReportArchive interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

var _ ReportArchive = (*MongoDBRepository)(nil)

// MongoDBRepository implements ReportArchive on a MongoDB collection.
type MongoDBRepository struct {
	client  *mongo.Client
	reports *mongo.Collection
}

// NewMongoDBRepository connects, pings, and makes sure the date index exists.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	reports := client.Database(dbName).Collection(reportsCollection)
	_, err = reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("date_unique"),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create %s index: %w", reportsCollection, err)
	}

	return &MongoDBRepository{client: client, reports: reports}, nil
}

// SaveDailyReport upserts the report keyed by its date, so re-running the
// archive job for a day replaces the earlier figures.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	_, err := r.reports.ReplaceOne(ctx, bson.M{"date": report.Date}, report, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert daily report %s: %w", report.Date, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
