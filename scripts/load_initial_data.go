package main

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Ayfri/ETL-1/internal/config"
	"github.com/Ayfri/ETL-1/internal/database"
	"github.com/Ayfri/ETL-1/internal/database/models"
	"github.com/Ayfri/ETL-1/internal/etl/transform"
)

// Simple structures that directly match DB schema
type ProductData struct {
	Code            string   `yaml:"code"`
	Name            string   `yaml:"name"`
	Brands          string   `yaml:"brands,omitempty"`
	Categories      string   `yaml:"categories,omitempty"`
	IngredientsTags string   `yaml:"ingredients_tags,omitempty"`
	NutriscoreGrade string   `yaml:"nutriscore_grade,omitempty"`
	NutriscoreScore *float64 `yaml:"nutriscore_score,omitempty"`
	NovaGroup       *int     `yaml:"nova_group,omitempty"`
	Completeness    *float64 `yaml:"completeness,omitempty"`
	ImageURL        string   `yaml:"image_url,omitempty"`
	EnergyKcal      *float64 `yaml:"energy_kcal,omitempty"`
	Proteins        *float64 `yaml:"proteins,omitempty"`
	Fat             *float64 `yaml:"fat,omitempty"`
	Carbohydrates   *float64 `yaml:"carbohydrates,omitempty"`
}

type IngredientData struct {
	Name     string `yaml:"name"`
	ImageURL string `yaml:"image_url,omitempty"`
}

type RecipeData struct {
	URL         string   `yaml:"url"`
	Name        string   `yaml:"name"`
	Rate        *float64 `yaml:"rate,omitempty"`
	Difficulty  string   `yaml:"difficulty,omitempty"`
	Budget      string   `yaml:"budget,omitempty"`
	PrepTime    string   `yaml:"prep_time,omitempty"`
	CookTime    string   `yaml:"cook_time,omitempty"`
	Ingredients []string `yaml:"ingredients"`
	Steps       []string `yaml:"steps,omitempty"`
}

// File structures
type ProductsFile struct {
	Products []ProductData `yaml:"products"`
}

type IngredientsFile struct {
	Ingredients []IngredientData `yaml:"ingredients"`
}

type RecipesFile struct {
	Recipes []RecipeData `yaml:"recipes"`
}

func main() {
	log.Println("Loading demo data from YAML files...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Suppress verbose GORM logging during data loading
	db, err := database.Initialize(cfg.DatabasePath, &database.Options{
		LogLevel:    logger.Silent,
		AutoMigrate: true,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := loadDataFromYAMLFiles(db, "scripts/data"); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("Demo data loaded successfully!")
}

func loadDataFromYAMLFiles(db *gorm.DB, dataDir string) error {
	products, err := loadProducts(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	ingredients, err := loadIngredients(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}

	recipes, err := loadRecipes(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load recipes: %w", err)
	}

	productCreated := 0
	for _, productData := range products {
		created, err := createProduct(db, productData)
		if err != nil {
			return fmt.Errorf("failed to create product %s: %w", productData.Code, err)
		}
		if created {
			productCreated++
		}
	}
	log.Printf("Products: %d created, %d total", productCreated, len(products))

	ingredientMap := make(map[string]*models.Ingredient)
	ingredientCreated := 0
	for _, ingredientData := range ingredients {
		ingredient, created, err := createIngredient(db, ingredientData)
		if err != nil {
			return fmt.Errorf("failed to create ingredient %s: %w", ingredientData.Name, err)
		}
		ingredientMap[strings.ToLower(ingredientData.Name)] = ingredient
		if created {
			ingredientCreated++
		}
	}
	log.Printf("Ingredients: %d created, %d total", ingredientCreated, len(ingredients))

	recipeCreated := 0
	for _, recipeData := range recipes {
		created, err := createRecipe(db, recipeData)
		if err != nil {
			log.Printf("Warning: failed to create recipe %s: %v", recipeData.Name, err)
			continue
		}
		if created {
			recipeCreated++
		}
	}
	log.Printf("Recipes: %d created, %d total", recipeCreated, len(recipes))

	return nil
}

func loadProducts(dataDir string) ([]ProductData, error) {
	var allProducts []ProductData

	err := walkYAML(dataDir, "products", func(data []byte) error {
		var file ProductsFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return err
		}
		allProducts = append(allProducts, file.Products...)
		return nil
	})

	return allProducts, err
}

func loadIngredients(dataDir string) ([]IngredientData, error) {
	var allIngredients []IngredientData

	err := walkYAML(dataDir, "ingredients", func(data []byte) error {
		var file IngredientsFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return err
		}
		allIngredients = append(allIngredients, file.Ingredients...)
		return nil
	})

	return allIngredients, err
}

func loadRecipes(dataDir string) ([]RecipeData, error) {
	var allRecipes []RecipeData

	err := walkYAML(dataDir, "recipes", func(data []byte) error {
		var file RecipesFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return err
		}
		allRecipes = append(allRecipes, file.Recipes...)
		return nil
	})

	return allRecipes, err
}

func walkYAML(dataDir, nameFilter string, handle func(data []byte) error) error {
	return filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, nameFilter) {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			return handle(data)
		}
		return nil
	})
}

func createProduct(db *gorm.DB, productData ProductData) (bool, error) {
	var product models.Product
	if err := db.Where("code = ?", productData.Code).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			product = models.Product{
				Code:            productData.Code,
				ProductName:     productData.Name,
				Brands:          productData.Brands,
				Categories:      productData.Categories,
				CategoriesEn:    productData.Categories,
				IngredientsTags: productData.IngredientsTags,
				NutriscoreScore: productData.NutriscoreScore,
				NovaGroup:       productData.NovaGroup,
				Completeness:    productData.Completeness,
				ImageURL:        productData.ImageURL,
			}
			if productData.NutriscoreGrade != "" {
				grade := strings.ToLower(productData.NutriscoreGrade)
				product.NutriscoreGrade = &grade
			}

			if err := db.Create(&product).Error; err != nil {
				return false, fmt.Errorf("failed to create product: %w", err)
			}

			if productData.EnergyKcal != nil || productData.Proteins != nil ||
				productData.Fat != nil || productData.Carbohydrates != nil {
				facts := models.NutritionFacts{
					ProductCode:       productData.Code,
					EnergyKcal100g:    productData.EnergyKcal,
					Proteins100g:      productData.Proteins,
					Fat100g:           productData.Fat,
					Carbohydrates100g: productData.Carbohydrates,
				}
				if err := db.Create(&facts).Error; err != nil {
					return false, fmt.Errorf("failed to create nutrition facts: %w", err)
				}
			}
			return true, nil
		}
		return false, fmt.Errorf("failed to query product: %w", err)
	}

	return false, nil
}

func createIngredient(db *gorm.DB, ingredientData IngredientData) (*models.Ingredient, bool, error) {
	var ingredient models.Ingredient
	if err := db.Where("name = ? COLLATE NOCASE", ingredientData.Name).First(&ingredient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ingredient = models.Ingredient{
				Name:     ingredientData.Name,
				ImageURL: ingredientData.ImageURL,
				Source:   "seed",
			}
			if err := db.Create(&ingredient).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create ingredient: %w", err)
			}
			return &ingredient, true, nil
		}
		return nil, false, fmt.Errorf("failed to query ingredient: %w", err)
	}

	return &ingredient, false, nil
}

func createRecipe(db *gorm.DB, recipeData RecipeData) (bool, error) {
	var recipe models.Recipe
	if err := db.Where("url = ?", recipeData.URL).First(&recipe).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return false, fmt.Errorf("failed to query recipe: %w", err)
		}
	} else {
		return false, nil
	}

	parsed := make([]transform.ParsedIngredient, 0, len(recipeData.Ingredients))
	for _, line := range recipeData.Ingredients {
		parsed = append(parsed, transform.ParseIngredient(line))
	}

	ingredientsJSON, _ := json.Marshal(parsed)
	stepsJSON, _ := json.Marshal(recipeData.Steps)
	imagesJSON, _ := json.Marshal([]string{})

	url := recipeData.URL
	recipe = models.Recipe{
		URL:            &url,
		Name:           recipeData.Name,
		Rate:           recipeData.Rate,
		Difficulty:     recipeData.Difficulty,
		Budget:         recipeData.Budget,
		PrepTime:       recipeData.PrepTime,
		CookTime:       recipeData.CookTime,
		IngredientsRaw: strings.Join(recipeData.Ingredients, " | "),
		Ingredients:    datatypes.JSON(ingredientsJSON),
		Steps:          datatypes.JSON(stepsJSON),
		Images:         datatypes.JSON(imagesJSON),
		Source:         "seed",
	}
	if err := db.Create(&recipe).Error; err != nil {
		return false, fmt.Errorf("failed to create recipe: %w", err)
	}

	for _, ingredient := range parsed {
		record, _, err := getOrCreateIngredient(db, ingredient.Name)
		if err != nil {
			log.Printf("Warning: failed to create ingredient %s: %v", ingredient.Name, err)
			continue
		}
		link := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: record.ID,
			Quantity:     ingredient.Quantity,
			Unit:         ingredient.Unit,
			RawText:      ingredient.Raw,
		}
		if err := db.Where("recipe_id = ? AND ingredient_id = ?", recipe.ID, record.ID).
			FirstOrCreate(&link, link).Error; err != nil {
			log.Printf("Warning: failed to link ingredient %s: %v", ingredient.Name, err)
		}
	}

	return true, nil
}

func getOrCreateIngredient(db *gorm.DB, name string) (*models.Ingredient, bool, error) {
	return createIngredient(db, IngredientData{Name: name})
}
