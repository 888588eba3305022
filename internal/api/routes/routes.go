package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/Ayfri/ETL-1/internal/api/handlers"
	"github.com/Ayfri/ETL-1/internal/api/middleware"
	"github.com/Ayfri/ETL-1/internal/config"
	"github.com/Ayfri/ETL-1/internal/repository"
	"github.com/Ayfri/ETL-1/internal/service"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))

	// Initialize validator
	validate := validator.New()

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	// Initialize services
	foodService := service.NewFoodService(productRepo, matchRepo)
	recipeService := service.NewRecipeService(recipeRepo, ingredientRepo, validate)
	ingredientService := service.NewIngredientService(ingredientRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	foodHandler := handlers.NewFoodHandler(foodService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := router.Group("/api")
	{
		// Food product routes
		foods := api.Group("/foods")
		{
			foods.GET("", foodHandler.ListFoods)
			foods.GET("/:code", foodHandler.GetFood)
			foods.GET("/:code/recipes", foodHandler.GetFoodRecipes)
		}

		// Recipe routes
		recipes := api.Group("/recipes")
		{
			recipes.GET("", recipeHandler.ListRecipes)
			recipes.POST("", recipeHandler.CreateRecipe)
			recipes.GET("/:id", recipeHandler.GetRecipe)
		}

		// Ingredient routes
		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("", ingredientHandler.ListIngredients)
			ingredients.GET("/:id", ingredientHandler.GetIngredient)
		}
	}

	// Catch-all route for undefined endpoints
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":      "Endpoint not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString(middleware.RequestIDKey),
		})
	})

	return router
}

// SetupHealthRoutes sets up only health check routes (useful for testing)
func SetupHealthRoutes(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	return router
}
