package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/config"
	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/GeoAziz/cyberfeast/internal/logging"
	"github.com/GeoAziz/cyberfeast/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const placeholderImage = "https://placehold.co/600x400.png"

type seedMeal struct {
	name  string
	price string
	hint  string
}

type seedRestaurant struct {
	restaurant domain.Restaurant
	meals      []seedMeal
}

var demoCatalog = []seedRestaurant{
	{
		restaurant: domain.Restaurant{Name: "Cyber Sushi", Slug: "cyber-sushi", Cuisine: "Japanese", Rating: 4.8, ImageHint: "sushi neon"},
		meals: []seedMeal{
			{"Stardust Sushi", "19.99", "sushi platter"},
			{"Galactic Gyoza", "9.50", "futuristic dumplings"},
			{"Saturn Sashimi", "24.00", "sashimi slices"},
		},
	},
	{
		restaurant: domain.Restaurant{Name: "Droid's Diner", Slug: "droids-diner", Cuisine: "American", Rating: 4.5, ImageHint: "robot diner"},
		meals: []seedMeal{
			{"Chrono Chicken", "15.99", "futuristic chicken"},
			{"Void-Veggie Wrap", "11.50", "glowing wrap"},
		},
	},
	{
		restaurant: domain.Restaurant{Name: "The Grid Pizzeria", Slug: "the-grid-pizzeria", Cuisine: "Italian", Rating: 4.7, ImageHint: "tron pizza"},
		meals: []seedMeal{
			{"Plasma Pizza", "16.00", "futuristic pizza"},
		},
	},
	{
		restaurant: domain.Restaurant{Name: "BioDome Cafe", Slug: "biodome-cafe", Cuisine: "Healthy", Rating: 4.9, ImageHint: "organic cafe"},
		meals: []seedMeal{
			{"Zero-G Cheesecake", "8.99", "levitating cheesecake"},
		},
	},
}

func main() {
	configPath := flag.String("config", os.Getenv("CYBERFEAST_CONFIG"), "path to a YAML config file")
	adminUID := flag.String("admin-uid", "admin", "user id of the administrator account")
	adminEmail := flag.String("admin-email", "admin@cyberfeast.com", "email of the administrator account")
	flag.Parse()

	logger := logging.New("info", "console")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := repository.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Client().Disconnect(context.Background())

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to create indexes")
	}

	users := repository.NewUserRepository(db)
	if err := users.UpsertAdmin(ctx, domain.User{
		ID:            *adminUID,
		DisplayName:   "Admin User",
		Email:         *adminEmail,
		LoyaltyPoints: 1000,
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to configure admin")
	}
	logger.Info().Str("uid", *adminUID).Str("email", *adminEmail).Msg("admin user configured")

	restaurants := repository.NewRestaurantRepository(db)
	if err := restaurants.ResetCatalog(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to clear catalog")
	}

	for _, sr := range demoCatalog {
		r := sr.restaurant
		r.ID = uuid.NewString()
		r.ImageURL = placeholderImage
		r.OwnerID = *adminUID
		if err := restaurants.InsertRestaurant(ctx, r); err != nil {
			logger.Fatal().Err(err).Str("restaurant", r.Name).Msg("failed to insert restaurant")
		}

		for _, sm := range sr.meals {
			meal := &domain.Meal{
				RestaurantID:   r.ID,
				RestaurantName: r.Name,
				Name:           sm.name,
				Price:          decimal.RequireFromString(sm.price),
				ImageURL:       placeholderImage,
				ImageHint:      sm.hint,
			}
			if err := restaurants.AddMeal(ctx, meal); err != nil {
				logger.Fatal().Err(err).Str("meal", sm.name).Msg("failed to insert meal")
			}
		}
		logger.Info().Str("restaurant", r.Name).Int("meals", len(sr.meals)).Msg("restaurant seeded")
	}

	logger.Info().Int("restaurants", len(demoCatalog)).Str("owner", *adminUID).Msg("database seeding completed")
}
