package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"StockReconciler/internal/domain"
	"StockReconciler/internal/ports"
)

// MongoRepository stores each snapshot as one document.
type MongoRepository struct {
	collection *mongo.Collection
}

var _ ports.SnapshotRepository = (*MongoRepository)(nil)

// NewMongoRepository stores snapshots in the given collection.
func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

type snapshotDocument struct {
	ID         string           `bson:"_id"`
	CapturedAt time.Time        `bson:"capturedAt"`
	Total      int              `bson:"total"`
	Products   []recordDocument `bson:"products"`
}

type recordDocument struct {
	Brand  string `bson:"brand"`
	Name   string `bson:"name"`
	URL    string `bson:"url"`
	Price  string `bson:"price"`
	Status string `bson:"status"`
}

// EnsureIndexes adds the capture-time index used by Latest.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "capturedAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create capturedAt index: %w", err)
	}
	return nil
}

// Save inserts the snapshot as a new document.
func (r *MongoRepository) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if _, err := r.collection.InsertOne(ctx, toDocument(snapshot)); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Latest returns the document with the newest capturedAt, or
// domain.ErrSnapshotNotFound when the collection is empty.
func (r *MongoRepository) Latest(ctx context.Context) (domain.Snapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "capturedAt", Value: -1}})

	var doc snapshotDocument
	if err := r.collection.FindOne(ctx, bson.D{}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Snapshot{}, domain.ErrSnapshotNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("find latest snapshot: %w", err)
	}
	return fromDocument(doc)
}

func toDocument(snapshot domain.Snapshot) snapshotDocument {
	products := make([]recordDocument, 0, len(snapshot.Products))
	for _, p := range snapshot.Products {
		products = append(products, recordDocument{
			Brand:  p.Brand,
			Name:   p.Name,
			URL:    p.URL,
			Price:  p.Price,
			Status: p.Status.String(),
		})
	}
	return snapshotDocument{
		ID:         snapshot.ID,
		CapturedAt: snapshot.CapturedAt.UTC(),
		Total:      snapshot.Total,
		Products:   products,
	}
}

func fromDocument(doc snapshotDocument) (domain.Snapshot, error) {
	products := make([]domain.StockRecord, 0, len(doc.Products))
	for _, p := range doc.Products {
		status, err := domain.ParseStockStatus(p.Status)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("snapshot %s: %w", doc.ID, err)
		}
		products = append(products, domain.StockRecord{
			ProductStub: domain.ProductStub{Brand: p.Brand, Name: p.Name, URL: p.URL, Price: p.Price},
			Status:      status,
		})
	}
	return domain.Snapshot{
		ID:         doc.ID,
		CapturedAt: doc.CapturedAt.UTC(),
		Total:      doc.Total,
		Products:   products,
	}, nil
}
