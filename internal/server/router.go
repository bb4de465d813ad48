package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/foodgram/foodgram-backend/internal/handlers"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/foodgram/foodgram-backend/internal/utils"
)

type RouterConfig struct {
	AuthMiddleware *middleware.AuthMiddleware
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	CatalogHandler *handlers.CatalogHandler
	RecipeHandler  *handlers.RecipeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware("foodgram-backend"))

	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", nil), ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")

	// Public, with optional identity for membership flags.
	public := api.Group("/")
	public.Use(cfg.AuthMiddleware.OptionalAuth())
	{
		public.POST("/auth/register", cfg.AuthHandler.Register)
		public.POST("/auth/login", cfg.AuthHandler.Login)

		public.GET("/tags", cfg.CatalogHandler.ListTags)
		public.GET("/tags/:id", cfg.CatalogHandler.GetTag)
		public.GET("/ingredients", cfg.CatalogHandler.ListIngredients)
		public.GET("/ingredients/:id", cfg.CatalogHandler.GetIngredient)

		public.GET("/recipes", cfg.RecipeHandler.List)
		public.GET("/recipes/:id", cfg.RecipeHandler.GetByID)

		public.GET("/users", cfg.UserHandler.List)
		public.GET("/users/:id", cfg.UserHandler.GetByID)
	}

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/auth/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/auth/logout", cfg.AuthHandler.Logout)

		protected.GET("/users/me", cfg.UserHandler.GetMe)
		protected.GET("/users/subscriptions", cfg.UserHandler.ListSubscriptions)
		protected.POST("/users/:id/subscribe", cfg.UserHandler.Subscribe)
		protected.DELETE("/users/:id/subscribe", cfg.UserHandler.Unsubscribe)

		protected.POST("/recipes", cfg.RecipeHandler.Create)
		protected.PATCH("/recipes/:id", cfg.RecipeHandler.Update)
		protected.DELETE("/recipes/:id", cfg.RecipeHandler.Delete)

		protected.POST("/recipes/:id/favorite", cfg.RecipeHandler.AddFavorite)
		protected.DELETE("/recipes/:id/favorite", cfg.RecipeHandler.RemoveFavorite)
		protected.POST("/recipes/:id/shopping_cart", cfg.RecipeHandler.AddToCart)
		protected.DELETE("/recipes/:id/shopping_cart", cfg.RecipeHandler.RemoveFromCart)
		protected.GET("/recipes/download_shopping_cart", cfg.RecipeHandler.DownloadShoppingCart)
	}

	return router
}
