package routes

import (
	"github.com/energyrank/energyrank-backend/internal/api/handlers"
	"github.com/energyrank/energyrank-backend/internal/api/middleware"
	"github.com/energyrank/energyrank-backend/internal/config"
	"github.com/energyrank/energyrank-backend/internal/services"
	"github.com/energyrank/energyrank-backend/internal/store"
	"github.com/energyrank/energyrank-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RateLimitMiddleware(cfg))

	// Stores
	catalogStore := store.NewGormCatalogStore(db)
	reviewStore := store.NewGormReviewStore(db)
	userStore := store.NewGormUserStore(db)

	// Services
	ratingService := services.NewRatingService(catalogStore, reviewStore, userStore, nil)
	leaderboardService := services.NewLeaderboardService(catalogStore, reviewStore, nil)
	reviewService := services.NewReviewService(catalogStore, reviewStore, userStore)

	// Handlers
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	productHandler := handlers.NewProductHandler(ratingService, reviewService)
	brandHandler := handlers.NewBrandHandler(ratingService, leaderboardService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	userHandler := handlers.NewUserHandler(ratingService, reviewService)

	// Health check and metrics
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})
	router.GET("/metrics", middleware.MetricsHandler())

	// API routes
	api := router.Group("/api/v1")

	// Leaderboards (public)
	top := api.Group("/top")
	{
		top.GET("/products", leaderboardHandler.TopProducts)
		top.GET("/brands", leaderboardHandler.TopBrands)
	}

	// Products (public)
	products := api.Group("/products")
	{
		products.GET("/:product_id", productHandler.GetProduct)
		products.GET("/:product_id/reviews", productHandler.GetProductReviews)
	}

	// Brands (public)
	brands := api.Group("/brands")
	{
		brands.GET("/:brand_id", brandHandler.GetBrand)
		brands.GET("/:brand_id/products", brandHandler.GetBrandProducts)
	}

	// Users (public)
	users := api.Group("/users")
	{
		users.GET("/:user_id/profile", userHandler.GetProfile)
		users.GET("/:user_id/reviews", userHandler.GetUserReviews)
	}

	// Reviews (authenticated)
	reviews := api.Group("/reviews", middleware.AuthMiddleware(cfg))
	{
		reviews.POST("/", reviewHandler.SubmitReview)
		reviews.PUT("/:review_id", reviewHandler.UpdateReview)
		reviews.DELETE("/:review_id", reviewHandler.DeleteReview)
	}

	logger.Info("Routes initialized successfully")
}
