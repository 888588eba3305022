package database

import (
	"fmt"
	"strings"

	"github.com/Ayfri/ETL-1/internal/database/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	LogLevel    logger.LogLevel
	AutoMigrate bool
	// WAL enables write-ahead logging. The loader is the only writer and
	// finishes before the API starts, so WAL is only there to keep
	// concurrent readers cheap.
	WAL bool
}

// nutritionViewColumns are the per-100g fields exposed through the
// products_with_nutrition view, aggregated with MAX() so a product with a
// nutrition row never duplicates on join.
var nutritionViewColumns = []string{
	"energy_kj_100g", "energy_kcal_100g", "energy_100g", "energy_from_fat_100g",
	"fat_100g", "saturated_fat_100g", "monounsaturated_fat_100g", "polyunsaturated_fat_100g",
	"trans_fat_100g", "omega_3_fat_100g", "omega_6_fat_100g", "cholesterol_100g",
	"carbohydrates_100g", "sugars_100g", "added_sugars_100g", "lactose_100g",
	"starch_100g", "polyols_100g", "fiber_100g", "proteins_100g",
	"salt_100g", "sodium_100g", "alcohol_100g",
	"vitamin_a_100g", "vitamin_c_100g", "vitamin_d_100g", "vitamin_e_100g",
	"vitamin_k_100g", "vitamin_b1_100g", "vitamin_b2_100g", "vitamin_b6_100g",
	"vitamin_b9_100g", "vitamin_b12_100g",
	"potassium_100g", "calcium_100g", "phosphorus_100g", "iron_100g",
	"magnesium_100g", "zinc_100g", "caffeine_100g",
	"fruits_vegetables_nuts_100g", "fruits_vegetables_nuts_estimate_100g",
}

// Initialize opens the SQLite database and creates the schema from GORM
// models plus the read-only views the query layer depends on.
func Initialize(path string, opts *Options) (*gorm.DB, error) {
	// Defaults
	if opts == nil {
		opts = &Options{AutoMigrate: true, WAL: true}
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Error
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if opts.WAL {
		if err := db.Exec(`PRAGMA journal_mode = WAL`).Error; err != nil {
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}

	if opts.AutoMigrate {
		all := []interface{}{
			&models.Product{},
			&models.NutritionFacts{},
			&models.Recipe{},
			&models.Ingredient{},
			&models.RecipeIngredient{},
			&models.ProductIngredientMatch{},
			&models.IngredientMapping{},
			&models.ProductMarmitonUsable{},
		}
		if err := db.AutoMigrate(all...); err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		if err := createViews(db); err != nil {
			return nil, fmt.Errorf("create views: %w", err)
		}
	}

	return db, nil
}

func createViews(db *gorm.DB) error {
	maxed := make([]string, len(nutritionViewColumns))
	for i, col := range nutritionViewColumns {
		maxed[i] = fmt.Sprintf("MAX(n.%s) AS %s", col, col)
	}

	productsWithNutrition := fmt.Sprintf(`
		CREATE VIEW IF NOT EXISTS products_with_nutrition AS
		SELECT p.*, %s
		FROM products p
		LEFT JOIN nutrition_facts n ON n.product_code = p.code
		GROUP BY p.code`, strings.Join(maxed, ", "))

	if err := db.Exec(productsWithNutrition).Error; err != nil {
		return err
	}

	highQuality := `
		CREATE VIEW IF NOT EXISTS high_quality_products AS
		SELECT *
		FROM products
		WHERE completeness >= 0.8
		  AND nutriscore_grade IS NOT NULL
		  AND (image_url != '' OR image_small_url != '')`

	return db.Exec(highQuality).Error
}
