package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sessionTTL expires carts that were not touched for 90 days.
const sessionTTL = 90 * 24 * time.Hour

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("carts"),
	}
}

func (m *MongoRepository) GetSession(ctx context.Context, userID string) (*domain.CheckoutSession, error) {
	var s domain.CheckoutSession

	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &s, nil
}

func (m *MongoRepository) UpsertSession(ctx context.Context, s *domain.CheckoutSession) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	filter := bson.M{"user_id": s.UserID}
	update := bson.M{
		"$set": bson.M{
			"cart":             s.Cart,
			"shipping_address": s.ShippingAddress,
			"payment_method":   s.PaymentMethod,
			"step":             s.Step,
			"last_order_id":    s.LastOrderID,
			"pending_order_id": s.PendingOrderID,
			"updated_at":       s.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": s.CreatedAt},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(sessionTTL.Seconds())),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
