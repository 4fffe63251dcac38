package orders

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection("orders"),
	}
}

func (m *MongoStore) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user.id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}

func (m *MongoStore) Create(ctx context.Context, order *domain.Order) error {
	_, err := m.collection.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (m *MongoStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// MarkPaid sets the paid flag only if it is still unset.
func (m *MongoStore) MarkPaid(ctx context.Context, id string, result domain.PaymentResult, at time.Time) (*domain.Order, error) {
	filter := bson.M{"_id": id, "is_paid": false}
	update := bson.M{"$set": bson.M{
		"is_paid":        true,
		"paid_at":        at,
		"payment_result": result,
		"updated_at":     at,
	}}

	order, err := m.conditionalUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Precondition failed: tell missing apart from already paid.
		if _, getErr := m.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrAlreadyPaid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}
	return order, nil
}

// MarkDelivered sets the delivered flag only on a paid, undelivered order.
func (m *MongoStore) MarkDelivered(ctx context.Context, id string, at time.Time) (*domain.Order, error) {
	filter := bson.M{"_id": id, "is_paid": true, "is_delivered": false}
	update := bson.M{"$set": bson.M{
		"is_delivered": true,
		"delivered_at": at,
		"updated_at":   at,
	}}

	order, err := m.conditionalUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		current, getErr := m.Get(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if !current.IsPaid {
			return nil, domain.ErrNotYetPaid
		}
		return nil, domain.ErrAlreadyDelivered
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark order delivered: %w", err)
	}
	return order, nil
}

func (m *MongoStore) conditionalUpdate(ctx context.Context, filter, update bson.M) (*domain.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order domain.Order
	if err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoStore) List(ctx context.Context, f Filter) ([]*domain.Order, error) {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user.id"] = f.UserID
	}
	if q := strings.TrimSpace(f.User); q != "" {
		filter["user.name"] = bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	}
	if q := strings.TrimSpace(f.OrderID); q != "" {
		filter["_id"] = bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	}
	from, to, ok, err := f.DateRange()
	if err != nil {
		return nil, err
	}
	if ok {
		filter["created_at"] = bson.M{"$gte": from, "$lt": to}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]*domain.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
