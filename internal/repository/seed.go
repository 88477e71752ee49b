package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertAdmin creates or promotes an administrator account and sets its
// loyalty balance. Used by the seed command only.
func (m *MongoUserRepository) UpsertAdmin(ctx context.Context, user domain.User) error {
	update := bson.M{
		"$set": bson.M{
			"display_name":   user.DisplayName,
			"email":          user.Email,
			"is_admin":       true,
			"loyalty_points": user.LoyaltyPoints,
		},
		"$setOnInsert": bson.M{
			"addresses":            []addressDocument{},
			"favorite_restaurants": []string{},
			"favorite_meals":       []string{},
			"created_at":           time.Now().UTC(),
		},
	}
	_, err := m.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert admin: %w", err)
	}
	return nil
}

// ResetCatalog removes every restaurant and meal.
func (m *MongoRestaurantRepository) ResetCatalog(ctx context.Context) error {
	for _, c := range []*mongo.Collection{m.meals, m.restaurants} {
		if _, err := c.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("failed to clear %s: %w", c.Name(), err)
		}
	}
	return nil
}
