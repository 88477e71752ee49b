package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(usersCollection)}
}

func (m *MongoUserRepository) Get(ctx context.Context, uid string) (*domain.User, error) {
	var doc userDocument
	if err := m.collection.FindOne(ctx, bson.M{"_id": uid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u := doc.toDomain()
	return &u, nil
}

// EnsureUser creates the account document on first sign-in. Existing
// documents are left untouched and returned as stored.
func (m *MongoUserRepository) EnsureUser(ctx context.Context, user domain.User) (*domain.User, error) {
	update := bson.M{
		"$setOnInsert": bson.M{
			"display_name":         user.DisplayName,
			"email":                user.Email,
			"photo_url":            user.PhotoURL,
			"addresses":            []addressDocument{},
			"favorite_restaurants": []string{},
			"favorite_meals":       []string{},
			"loyalty_points":       int64(0),
			"is_admin":             false,
			"created_at":           time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc userDocument
	if err := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": user.ID}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	u := doc.toDomain()
	return &u, nil
}

// IncrementLoyalty adds points atomically on the server.
func (m *MongoUserRepository) IncrementLoyalty(ctx context.Context, uid string, points int64) error {
	update := bson.M{"$inc": bson.M{"loyalty_points": points}}
	return m.updateOne(ctx, uid, update, "increment loyalty points")
}

func (m *MongoUserRepository) AddFavorite(ctx context.Context, uid string, kind domain.FavoriteKind, itemID string) error {
	field, err := favoriteField(kind)
	if err != nil {
		return err
	}
	update := bson.M{"$addToSet": bson.M{field: itemID}}
	return m.updateOne(ctx, uid, update, "add favorite")
}

func (m *MongoUserRepository) RemoveFavorite(ctx context.Context, uid string, kind domain.FavoriteKind, itemID string) error {
	field, err := favoriteField(kind)
	if err != nil {
		return err
	}
	update := bson.M{"$pull": bson.M{field: itemID}}
	return m.updateOne(ctx, uid, update, "remove favorite")
}

func (m *MongoUserRepository) UpdateProfile(ctx context.Context, uid, displayName string, addresses []domain.Address) error {
	update := bson.M{"$set": bson.M{
		"display_name": displayName,
		"addresses":    toAddressDocuments(addresses),
	}}
	return m.updateOne(ctx, uid, update, "update profile")
}

func (m *MongoUserRepository) UpdateAvatar(ctx context.Context, uid, photoURL string) error {
	update := bson.M{"$set": bson.M{"photo_url": photoURL}}
	return m.updateOne(ctx, uid, update, "update avatar")
}

func (m *MongoUserRepository) updateOne(ctx context.Context, uid string, update bson.M, op string) error {
	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": uid}, update)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func favoriteField(kind domain.FavoriteKind) (string, error) {
	switch kind {
	case domain.FavoriteRestaurant:
		return "favorite_restaurants", nil
	case domain.FavoriteMeal:
		return "favorite_meals", nil
	default:
		return "", fmt.Errorf("unknown favorite kind %q", kind)
	}
}
