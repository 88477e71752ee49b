package repository

import (
	"context"
	"testing"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupTestDB(t *testing.T) (*mongo.Database, func()) {
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	require.NoError(t, EnsureIndexes(ctx, db))

	cleanup := func() {
		_ = db.Client().Disconnect(ctx)
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return db, cleanup
}

func sampleOrder(userID, sessionID string) *domain.Order {
	return &domain.Order{
		UserID:    userID,
		SessionID: sessionID,
		Items: []domain.CartItem{
			{ID: "a", Name: "Stardust Sushi", Price: decimal.RequireFromString("10.00"), Quantity: 2, ImageURL: "https://img/a.png"},
			{ID: "b", Name: "Galactic Gyoza", Price: decimal.RequireFromString("5.50"), Quantity: 1},
		},
		Total:  decimal.RequireFromString("25.50"),
		Status: domain.OrderStatusPaid,
	}
}

func TestOrderInsert_AssignsIDAndTimestamp(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := sampleOrder("user-1", "cs_1")
	require.NoError(t, repo.Insert(ctx, order))

	assert.NotEmpty(t, order.ID)
	assert.WithinDuration(t, time.Now(), order.CreatedAt, time.Minute)

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "cs_1", got.SessionID)
	assert.Equal(t, domain.OrderStatusPaid, got.Status)
	assert.True(t, decimal.RequireFromString("25.50").Equal(got.Total))
	require.Len(t, got.Items, 2)
	assert.True(t, decimal.RequireFromString("5.50").Equal(got.Items[1].Price))
	assert.Equal(t, "https://img/a.png", got.Items[0].ImageURL)
}

func TestOrderInsert_DuplicateSession(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewOrderRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, sampleOrder("user-1", "cs_dup")))
	err := repo.Insert(ctx, sampleOrder("user-1", "cs_dup"))
	assert.ErrorIs(t, err, ErrDuplicateSession)

	got, err := repo.FindBySession(ctx, "cs_dup")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
}

func TestOrderSetLoyaltyCredited_FlipsOnce(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := sampleOrder("user-1", "cs_flag")
	require.NoError(t, repo.Insert(ctx, order))
	assert.False(t, order.LoyaltyCredited)

	changed, err := repo.SetLoyaltyCredited(ctx, order.ID, true)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.SetLoyaltyCredited(ctx, order.ID, true)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.FindBySession(ctx, "cs_flag")
	require.NoError(t, err)
	assert.True(t, got.LoyaltyCredited)

	changed, err = repo.SetLoyaltyCredited(ctx, order.ID, false)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestOrderInsert_WithoutSessionNeverConflicts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewOrderRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		o := sampleOrder("user-1", "")
		o.Status = domain.OrderStatusPending
		require.NoError(t, repo.Insert(ctx, o))
	}

	orders, err := repo.ListByUser(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}

func TestOrderListByUser_NewestFirstWithLimit(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewOrderRepository(db)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 12; i++ {
		o := sampleOrder("user-1", "")
		require.NoError(t, repo.Insert(ctx, o))
		ids = append(ids, o.ID)
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, repo.Insert(ctx, sampleOrder("someone-else", "")))

	orders, err := repo.ListByUser(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, orders, 10)
	assert.Equal(t, ids[11], orders[0].ID)
	for i := 1; i < len(orders); i++ {
		assert.False(t, orders[i].CreatedAt.After(orders[i-1].CreatedAt))
	}
}

func TestOrderFind_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewOrderRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindBySession(ctx, "cs_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserLoyaltyAndFavorites(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewUserRepository(db)
	ctx := context.Background()

	u, err := repo.EnsureUser(ctx, domain.User{ID: "user-1", Email: "a@b.c", DisplayName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), u.LoyaltyPoints)

	require.NoError(t, repo.IncrementLoyalty(ctx, "user-1", 25))
	require.NoError(t, repo.IncrementLoyalty(ctx, "user-1", 9))

	require.NoError(t, repo.AddFavorite(ctx, "user-1", domain.FavoriteMeal, "m1"))
	require.NoError(t, repo.AddFavorite(ctx, "user-1", domain.FavoriteMeal, "m1"))
	require.NoError(t, repo.AddFavorite(ctx, "user-1", domain.FavoriteRestaurant, "r1"))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(34), got.LoyaltyPoints)
	assert.Equal(t, []string{"m1"}, got.FavoriteMeals)
	assert.Equal(t, []string{"r1"}, got.FavoriteRestaurants)

	require.NoError(t, repo.RemoveFavorite(ctx, "user-1", domain.FavoriteMeal, "m1"))
	got, err = repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, got.FavoriteMeals)

	// a second sign-in must not reset the balance
	again, err := repo.EnsureUser(ctx, domain.User{ID: "user-1", Email: "other@b.c"})
	require.NoError(t, err)
	assert.Equal(t, int64(34), again.LoyaltyPoints)
	assert.Equal(t, "a@b.c", again.Email)
}

func TestUserIncrementLoyalty_UnknownUser(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewUserRepository(db)

	err := repo.IncrementLoyalty(context.Background(), "ghost", 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserUpdateProfileAndAvatar(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.EnsureUser(ctx, domain.User{ID: "user-1"})
	require.NoError(t, err)

	addrs := []domain.Address{{ID: "addr-1", Name: "Home", Details: "1 Neon Way"}}
	require.NoError(t, repo.UpdateProfile(ctx, "user-1", "Ada L", addrs))
	require.NoError(t, repo.UpdateAvatar(ctx, "user-1", "https://img/me.png"))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L", got.DisplayName)
	assert.Equal(t, addrs, got.Addresses)
	assert.Equal(t, "https://img/me.png", got.PhotoURL)
}

func TestRestaurantsAndMeals(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRestaurantRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.InsertRestaurant(ctx, domain.Restaurant{
		ID: "r1", Name: "Cyber Sushi", Slug: "cyber-sushi", Cuisine: "Japanese", OwnerID: "owner-1",
	}))
	require.NoError(t, repo.InsertRestaurant(ctx, domain.Restaurant{
		ID: "r2", Name: "BioDome Cafe", Slug: "biodome-cafe", OwnerID: "owner-2",
	}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "BioDome Cafe", all[0].Name)

	owned, err := repo.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "r1", owned[0].ID)

	bySlug, err := repo.GetBySlug(ctx, "cyber-sushi")
	require.NoError(t, err)
	assert.Equal(t, "r1", bySlug.ID)

	byName, err := repo.GetByName(ctx, "cyber sushi")
	require.NoError(t, err)
	assert.Equal(t, "r1", byName.ID)

	meal := &domain.Meal{RestaurantID: "r1", RestaurantName: "Cyber Sushi", Name: "Galactic Gyoza", Price: decimal.RequireFromString("9.50")}
	require.NoError(t, repo.AddMeal(ctx, meal))
	assert.NotEmpty(t, meal.ID)

	meal.Price = decimal.RequireFromString("10.25")
	require.NoError(t, repo.UpdateMeal(ctx, *meal))

	meals, err := repo.ListMeals(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.True(t, decimal.RequireFromString("10.25").Equal(meals[0].Price))

	// a meal id under the wrong restaurant is not found
	assert.ErrorIs(t, repo.DeleteMeal(ctx, "r2", meal.ID), ErrNotFound)
	require.NoError(t, repo.DeleteMeal(ctx, "r1", meal.ID))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
