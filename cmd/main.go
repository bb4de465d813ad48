package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/foodgram/foodgram-backend/internal/clients/redis"
	"github.com/foodgram/foodgram-backend/internal/db"
	"github.com/foodgram/foodgram-backend/internal/handlers"
	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/foodgram/foodgram-backend/internal/observability"
	"github.com/foodgram/foodgram-backend/internal/repos"
	"github.com/foodgram/foodgram-backend/internal/server"
	"github.com/foodgram/foodgram-backend/internal/services"
	"github.com/foodgram/foodgram-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "foodgram-backend",
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if shutdownTracing != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(ctx)
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsDuration("ACCESS_TOKEN_TTL", time.Hour, log)
	refreshTokenTTL := utils.GetEnvAsDuration("REFRESH_TOKEN_TTL", 24*time.Hour, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Redis (optional)
	catalogCache, err := redis.NewCache(log)
	if err != nil {
		log.Warn("Redis cache unavailable, catalog reads go straight to postgres", "error", err)
		catalogCache = nil
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	tagRepo := repos.NewTagRepo(thePG, log)
	ingredientRepo := repos.NewIngredientRepo(thePG, log)
	recipeRepo := repos.NewRecipeRepo(thePG, log)
	recipeIngredientRepo := repos.NewRecipeIngredientRepo(thePG, log)
	recipeTagRepo := repos.NewRecipeTagRepo(thePG, log)
	favoriteRepo := repos.NewFavoriteRepo(thePG, log)
	shoppingCartRepo := repos.NewShoppingCartRepo(thePG, log)
	subscriptionRepo := repos.NewSubscriptionRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, accessTokenTTL, refreshTokenTTL)
	userService := services.NewUserService(thePG, log, userRepo, subscriptionRepo)
	catalogService := services.NewCatalogService(thePG, log, tagRepo, ingredientRepo, catalogCache)
	recipeService := services.NewRecipeService(thePG, log, userRepo, tagRepo, ingredientRepo, recipeRepo, recipeIngredientRepo, recipeTagRepo, favoriteRepo, shoppingCartRepo, subscriptionRepo)
	favoriteService := services.NewFavoriteService(thePG, log, recipeRepo, favoriteRepo)
	shoppingCartService := services.NewShoppingCartService(thePG, log, recipeRepo, shoppingCartRepo)
	subscriptionService := services.NewSubscriptionService(thePG, log, userRepo, recipeRepo, subscriptionRepo)
	shoppingListService := services.NewShoppingListService(thePG, log, recipeIngredientRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService)
	userHandler := handlers.NewUserHandler(log, userService, subscriptionService)
	catalogHandler := handlers.NewCatalogHandler(log, catalogService)
	recipeHandler := handlers.NewRecipeHandler(log, recipeService, favoriteService, shoppingCartService, shoppingListService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware: authMiddleware,
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		CatalogHandler: catalogHandler,
		RecipeHandler:  recipeHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
