package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection(ordersCollection)}
}

// Insert writes a new order. The creation time is taken from the database
// clock with $currentDate, and the stored document is decoded back into order.
func (m *MongoOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	items, err := toItemDocuments(order.Items)
	if err != nil {
		return err
	}
	total, err := toDecimal128(order.Total)
	if err != nil {
		return err
	}

	fields := bson.M{
		"user_id":          order.UserID,
		"items":            items,
		"total":            total,
		"status":           string(order.Status),
		"loyalty_credited": false,
	}
	if order.SessionID != "" {
		fields["session_id"] = order.SessionID
	}

	id := primitive.NewObjectID()
	update := bson.M{
		"$setOnInsert": fields,
		"$currentDate": bson.M{"created_at": true},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc orderDocument
	err = m.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSession
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	stored, err := doc.toDomain()
	if err != nil {
		return err
	}
	*order = stored
	return nil
}

// SetLoyaltyCredited matches documents missing the field as uncredited.
func (m *MongoOrderRepository) SetLoyaltyCredited(ctx context.Context, id string, credited bool) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrNotFound
	}
	filter := bson.M{"_id": oid, "loyalty_credited": bson.M{"$ne": credited}}
	update := bson.M{"$set": bson.M{"loyalty_credited": credited}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to set loyalty flag: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

func (m *MongoOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return m.findOne(ctx, bson.M{"_id": oid})
}

func (m *MongoOrderRepository) FindBySession(ctx context.Context, sessionID string) (*domain.Order, error) {
	return m.findOne(ctx, bson.M{"session_id": sessionID})
}

func (m *MongoOrderRepository) findOne(ctx context.Context, filter bson.M) (*domain.Order, error) {
	var doc orderDocument
	if err := m.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	order, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (m *MongoOrderRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]domain.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := m.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		o, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (m *MongoOrderRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"session_id": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}
