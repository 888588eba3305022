package repository

import (
	"github.com/Ayfri/ETL-1/internal/database/models"
)

// ProductRepositoryInterface defines the interface for product repository operations
type ProductRepositoryInterface interface {
	GetAll(filter ProductFilter, sort Sort, limit, offset int) ([]ProductRow, int64, error)
	GetByCode(code string) (*models.Product, error)
	GetRecipesForProduct(code string) ([]models.Recipe, error)
}

// RecipeRepositoryInterface defines the interface for recipe repository operations
type RecipeRepositoryInterface interface {
	Create(recipe *models.Recipe) error
	Update(recipe *models.Recipe) error
	GetByID(id uint) (*models.Recipe, error)
	GetByURL(url string) (*models.Recipe, error)
	GetAll(filter RecipeFilter, sort Sort, limit, offset int) ([]models.Recipe, int64, error)
	AddIngredient(link *models.RecipeIngredient) error
	ClearIngredients(recipeID uint) error
}

// IngredientRepositoryInterface defines the interface for ingredient repository operations
type IngredientRepositoryInterface interface {
	Create(ingredient *models.Ingredient) error
	GetByID(id uint) (*models.Ingredient, error)
	GetByName(name string) (*models.Ingredient, error)
	GetAll(filter IngredientFilter, limit, offset int) ([]IngredientWithCount, int64, error)
}

// MatchRepositoryInterface defines the interface for match lookup operations
type MatchRepositoryInterface interface {
	GetByProductCode(code string) ([]models.ProductIngredientMatch, error)
	GetUsableSummary(code string) (*models.ProductMarmitonUsable, error)
}
