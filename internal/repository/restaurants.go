package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRestaurantRepository struct {
	restaurants *mongo.Collection
	meals       *mongo.Collection
}

func NewRestaurantRepository(db *mongo.Database) *MongoRestaurantRepository {
	return &MongoRestaurantRepository{
		restaurants: db.Collection(restaurantsCollection),
		meals:       db.Collection(mealsCollection),
	}
}

// caseInsensitive matches names regardless of letter case.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

func (m *MongoRestaurantRepository) List(ctx context.Context) ([]domain.Restaurant, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoRestaurantRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Restaurant, error) {
	return m.find(ctx, bson.M{"owner_id": ownerID})
}

func (m *MongoRestaurantRepository) find(ctx context.Context, filter bson.M) ([]domain.Restaurant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := m.restaurants.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []restaurantDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode restaurants: %w", err)
	}
	out := make([]domain.Restaurant, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (m *MongoRestaurantRepository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *MongoRestaurantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Restaurant, error) {
	return m.findOne(ctx, bson.M{"slug": slug})
}

func (m *MongoRestaurantRepository) GetByName(ctx context.Context, name string) (*domain.Restaurant, error) {
	return m.findOne(ctx, bson.M{"name": name}, options.FindOne().SetCollation(caseInsensitive))
}

func (m *MongoRestaurantRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.Restaurant, error) {
	var doc restaurantDocument
	if err := m.restaurants.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	r := doc.toDomain()
	return &r, nil
}

// Update replaces the editable restaurant fields. The owner is never changed
// through this path.
func (m *MongoRestaurantRepository) Update(ctx context.Context, r domain.Restaurant) error {
	update := bson.M{"$set": bson.M{
		"name":       r.Name,
		"slug":       r.Slug,
		"cuisine":    r.Cuisine,
		"image_url":  r.ImageURL,
		"image_hint": r.ImageHint,
	}}
	result, err := m.restaurants.UpdateOne(ctx, bson.M{"_id": r.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update restaurant: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRestaurantRepository) ListMeals(ctx context.Context, restaurantID string) ([]domain.Meal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := m.meals.Find(ctx, bson.M{"restaurant_id": restaurantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mealDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode meals: %w", err)
	}
	out := make([]domain.Meal, 0, len(docs))
	for _, d := range docs {
		meal, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, meal)
	}
	return out, nil
}

// AddMeal stores a new meal and assigns its id.
func (m *MongoRestaurantRepository) AddMeal(ctx context.Context, meal *domain.Meal) error {
	price, err := toDecimal128(meal.Price)
	if err != nil {
		return err
	}
	doc := mealDocument{
		ID:             uuid.NewString(),
		RestaurantID:   meal.RestaurantID,
		RestaurantName: meal.RestaurantName,
		Name:           meal.Name,
		Price:          price,
		ImageURL:       meal.ImageURL,
		ImageHint:      meal.ImageHint,
	}
	if _, err := m.meals.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to add meal: %w", err)
	}
	meal.ID = doc.ID
	return nil
}

func (m *MongoRestaurantRepository) UpdateMeal(ctx context.Context, meal domain.Meal) error {
	price, err := toDecimal128(meal.Price)
	if err != nil {
		return err
	}
	filter := bson.M{"_id": meal.ID, "restaurant_id": meal.RestaurantID}
	update := bson.M{"$set": bson.M{
		"name":       meal.Name,
		"price":      price,
		"image_url":  meal.ImageURL,
		"image_hint": meal.ImageHint,
	}}
	result, err := m.meals.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRestaurantRepository) DeleteMeal(ctx context.Context, restaurantID, mealID string) error {
	result, err := m.meals.DeleteOne(ctx, bson.M{"_id": mealID, "restaurant_id": restaurantID})
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRestaurantRepository) CreateIndexes(ctx context.Context) error {
	_, err := m.restaurants.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetCollation(caseInsensitive),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create restaurant indexes: %w", err)
	}

	_, err = m.meals.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "restaurant_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create meal indexes: %w", err)
	}
	return nil
}

// InsertRestaurant is used by seeding and tests; the admin surface only edits.
func (m *MongoRestaurantRepository) InsertRestaurant(ctx context.Context, r domain.Restaurant) error {
	doc := restaurantDocument{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		Cuisine:   r.Cuisine,
		Rating:    r.Rating,
		ImageURL:  r.ImageURL,
		ImageHint: r.ImageHint,
		OwnerID:   r.OwnerID,
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if _, err := m.restaurants.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert restaurant: %w", err)
	}
	return nil
}

var (
	_ OrderRepository      = (*MongoOrderRepository)(nil)
	_ UserRepository       = (*MongoUserRepository)(nil)
	_ RestaurantRepository = (*MongoRestaurantRepository)(nil)
)
