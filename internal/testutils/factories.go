package testutils

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/Ayfri/ETL-1/internal/database/models"
)

// Factories build valid model instances with sensible defaults. Each
// With* method mutates the pending instance and returns the factory, so
// calls chain. Create() hands back the instance without saving it; the
// caller inserts it through its repository or raw DB handle.

// ProductFactory creates test products
type ProductFactory struct {
	counter int
	product *models.Product
}

func NewProductFactory() *ProductFactory {
	return &ProductFactory{}
}

func (f *ProductFactory) Create() *models.Product {
	f.counter++
	grade := "b"
	score := 4.0
	completeness := 0.9

	f.product = &models.Product{
		Code:            fmt.Sprintf("30000000%04d", f.counter),
		ProductName:     fmt.Sprintf("Test Product %d", f.counter),
		Brands:          "Test Brand",
		Categories:      "Snacks, Sweet snacks",
		CategoriesEn:    "Snacks,Sweet snacks",
		IngredientsTags: "en:sugar,en:cocoa-butter",
		NutriscoreGrade: &grade,
		NutriscoreScore: &score,
		Completeness:    &completeness,
		ImageURL:        fmt.Sprintf("https://img.example/product-%d.jpg", f.counter),
	}
	return f.product
}

func (f *ProductFactory) WithCode(code string) *ProductFactory {
	f.product.Code = code
	return f
}

func (f *ProductFactory) WithName(name string) *ProductFactory {
	f.product.ProductName = name
	return f
}

func (f *ProductFactory) WithGrade(grade string) *ProductFactory {
	f.product.NutriscoreGrade = &grade
	return f
}

func (f *ProductFactory) WithIngredientsTags(tags string) *ProductFactory {
	f.product.IngredientsTags = tags
	return f
}

func (f *ProductFactory) WithCompleteness(value float64) *ProductFactory {
	f.product.Completeness = &value
	return f
}

// RecipeFactory creates test recipes
type RecipeFactory struct {
	counter int
	recipe  *models.Recipe
}

func NewRecipeFactory() *RecipeFactory {
	return &RecipeFactory{}
}

func (f *RecipeFactory) Create() *models.Recipe {
	f.counter++
	url := fmt.Sprintf("https://recipes.example/recette-%d", f.counter)
	rate := 4.2

	f.recipe = &models.Recipe{
		URL:            &url,
		Name:           fmt.Sprintf("Test Recipe %d", f.counter),
		Rate:           &rate,
		Difficulty:     "facile",
		Budget:         "bon marché",
		PrepTime:       "15 min",
		IngredientsRaw: "200 g de farine | 2 oeufs",
		Ingredients:    datatypes.JSON([]byte(`[{"quantity":"200","unit":"g","name":"farine","raw":"200 g de farine"}]`)),
		Steps:          datatypes.JSON([]byte(`["1. Mélanger."]`)),
		Images:         datatypes.JSON([]byte(`[]`)),
		Source:         "marmiton",
	}
	return f.recipe
}

func (f *RecipeFactory) WithName(name string) *RecipeFactory {
	f.recipe.Name = name
	return f
}

func (f *RecipeFactory) WithURL(url string) *RecipeFactory {
	f.recipe.URL = &url
	return f
}

func (f *RecipeFactory) WithoutURL() *RecipeFactory {
	f.recipe.URL = nil
	return f
}

func (f *RecipeFactory) WithRate(rate float64) *RecipeFactory {
	f.recipe.Rate = &rate
	return f
}

func (f *RecipeFactory) WithDifficulty(difficulty string) *RecipeFactory {
	f.recipe.Difficulty = difficulty
	return f
}

// IngredientFactory creates test ingredients
type IngredientFactory struct {
	counter    int
	ingredient *models.Ingredient
}

func NewIngredientFactory() *IngredientFactory {
	return &IngredientFactory{}
}

func (f *IngredientFactory) Create() *models.Ingredient {
	f.counter++
	f.ingredient = &models.Ingredient{
		Name:   fmt.Sprintf("ingredient %d", f.counter),
		Source: "marmiton",
	}
	return f.ingredient
}

func (f *IngredientFactory) WithName(name string) *IngredientFactory {
	f.ingredient.Name = name
	return f
}

func (f *IngredientFactory) WithImageURL(url string) *IngredientFactory {
	f.ingredient.ImageURL = url
	return f
}

// FactorySet bundles all factories for tests that need several models
type FactorySet struct {
	Product    *ProductFactory
	Recipe     *RecipeFactory
	Ingredient *IngredientFactory
}

func NewFactorySet() *FactorySet {
	return &FactorySet{
		Product:    NewProductFactory(),
		Recipe:     NewRecipeFactory(),
		Ingredient: NewIngredientFactory(),
	}
}
