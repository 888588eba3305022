package repository

import (
	"gorm.io/gorm"

	"github.com/Ayfri/ETL-1/internal/database/models"
)

// ProductFilter narrows a product listing. Zero values mean no filtering
// on that dimension. Categories entries are OR-combined.
type ProductFilter struct {
	Search          string
	NutriscoreGrade string
	NovaGroup       *int
	Categories      []string
	Brand           string
	UsableOnly      bool
}

// ProductRow is one row of the products_with_nutrition view: the product
// columns plus the aggregated per-100g values listings expose.
type ProductRow struct {
	models.Product
	EnergyKcal100g    *float64 `json:"energy_kcal_100g" gorm:"column:energy_kcal_100g"`
	Fat100g           *float64 `json:"fat_100g" gorm:"column:fat_100g"`
	SaturatedFat100g  *float64 `json:"saturated_fat_100g" gorm:"column:saturated_fat_100g"`
	Carbohydrates100g *float64 `json:"carbohydrates_100g" gorm:"column:carbohydrates_100g"`
	Sugars100g        *float64 `json:"sugars_100g" gorm:"column:sugars_100g"`
	Proteins100g      *float64 `json:"proteins_100g" gorm:"column:proteins_100g"`
	Salt100g          *float64 `json:"salt_100g" gorm:"column:salt_100g"`
	Fiber100g         *float64 `json:"fiber_100g" gorm:"column:fiber_100g"`
}

// ProductRepository handles database operations for products
type ProductRepository struct {
	db *gorm.DB
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) applyFilter(query *gorm.DB, filter ProductFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("product_name LIKE ? OR brands LIKE ? OR categories LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.NutriscoreGrade != "" {
		query = query.Where("nutriscore_grade = ?", filter.NutriscoreGrade)
	}
	if filter.NovaGroup != nil {
		query = query.Where("nova_group = ?", *filter.NovaGroup)
	}
	if len(filter.Categories) > 0 {
		or := r.db.Session(&gorm.Session{NewDB: true})
		for _, category := range filter.Categories {
			pattern := "%" + category + "%"
			or = or.Or("categories_en LIKE ? OR categories LIKE ?", pattern, pattern)
		}
		query = query.Where(or)
	}
	if filter.Brand != "" {
		query = query.Where("brands LIKE ?", "%"+filter.Brand+"%")
	}
	if filter.UsableOnly {
		query = query.Where("code IN (SELECT product_code FROM products_marmiton_usable)")
	}
	return query
}

// GetAll retrieves denormalized product rows from the
// products_with_nutrition view, filtered and paginated
func (r *ProductRepository) GetAll(filter ProductFilter, sort Sort, limit, offset int) ([]ProductRow, int64, error) {
	var rows []ProductRow
	var total int64

	base := r.applyFilter(r.db.Table("products_with_nutrition"), filter)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyFilter(r.db.Table("products_with_nutrition"), filter)
	if clause := sort.OrderClause(); clause != "" {
		query = query.Order(clause)
	}
	query = query.Order("code ASC")

	if err := query.Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GetByCode retrieves a product by barcode with its nutrition facts and
// usable summary
func (r *ProductRepository) GetByCode(code string) (*models.Product, error) {
	var product models.Product
	err := r.db.
		Preload("NutritionFacts").
		Preload("Usable").
		First(&product, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetRecipesForProduct retrieves recipes whose ingredients match the
// product, best matches first. An unknown code yields an empty slice.
func (r *ProductRepository) GetRecipesForProduct(code string) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.Model(&models.Recipe{}).
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
		Joins("JOIN product_ingredient_matches ON product_ingredient_matches.ingredient_id = recipe_ingredients.ingredient_id").
		Where("product_ingredient_matches.product_code = ?", code).
		Group("recipes.id").
		Select("recipes.*, MAX(product_ingredient_matches.match_score) AS best_score, COUNT(DISTINCT recipe_ingredients.ingredient_id) AS shared").
		Order("best_score DESC, shared DESC, recipes.id ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}
