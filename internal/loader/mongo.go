package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mayfashion/segmentflow/internal/model"
)

// MongoSource loads purchase documents from the retail document store. The
// segmentation core never dials the network; only this loader does.
type MongoSource struct {
	URI        string
	Database   string
	Collection string
}

// NewMongoSource creates a document-store transaction source.
func NewMongoSource(uri, database, collection string) *MongoSource {
	return &MongoSource{URI: uri, Database: database, Collection: collection}
}

// Describe returns the source descriptor recorded in run metadata.
func (s *MongoSource) Describe() string {
	return fmt.Sprintf("mongodb:%s/%s", s.Database, s.Collection)
}

// purchaseDoc mirrors the purchases collection. Customer and product details
// are nested documents in newer records and flat fields in older imports.
type purchaseDoc struct {
	Customer *struct {
		ID string `bson:"id"`
	} `bson:"customer,omitempty"`
	Product *struct {
		Category string `bson:"category"`
	} `bson:"product,omitempty"`
	CustomerID string    `bson:"customer_id,omitempty"`
	OrderID    string    `bson:"order_id,omitempty"`
	Category   string    `bson:"product_category,omitempty"`
	Date       time.Time `bson:"date,omitempty"`
	Amount     float64   `bson:"total_amount_lkr,omitempty"`
}

// Load fetches every purchase document and normalizes it into the canonical
// table, dropping rows that fail required-field validation.
func (s *MongoSource) Load(ctx context.Context) (*model.TransactionSet, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer func() {
		if disconnectErr := client.Disconnect(ctx); disconnectErr != nil {
			slog.Warn("Failed to disconnect from mongodb", "error", disconnectErr)
		}
	}()

	collection := client.Database(s.Database).Collection(s.Collection)
	cursor, err := collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer func() {
		if closeErr := cursor.Close(ctx); closeErr != nil {
			slog.Warn("Failed to close mongodb cursor", "error", closeErr)
		}
	}()

	set := model.NewTransactionSet(s.Describe())
	for cursor.Next(ctx) {
		var doc purchaseDoc
		if decodeErr := cursor.Decode(&doc); decodeErr != nil {
			set.Dropped[model.DropBadAmount]++
			slog.Debug("Failed to decode purchase document", "error", decodeErr)
			continue
		}
		set.Append(docToTransaction(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error reading purchases: %w", err)
	}

	slog.Info("Loaded transactions from mongodb",
		"collection", s.Collection,
		"records", len(set.Transactions),
		"dropped", set.DroppedTotal())

	return set, nil
}

func docToTransaction(doc purchaseDoc) model.Transaction {
	customerID := doc.CustomerID
	if customerID == "" && doc.Customer != nil {
		customerID = doc.Customer.ID
	}
	category := doc.Category
	if category == "" && doc.Product != nil {
		category = doc.Product.Category
	}
	return model.Transaction{
		CustomerID:   customerID,
		PurchaseID:   doc.OrderID,
		PurchaseDate: doc.Date,
		Amount:       doc.Amount,
		Category:     NormalizeCategory(category),
	}
}
