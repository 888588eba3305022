package repository

import (
	"gorm.io/gorm"

	"github.com/Ayfri/ETL-1/internal/database/models"
)

// IngredientFilter narrows an ingredient listing. Prefix anchors the name
// match at the start, Search matches anywhere.
type IngredientFilter struct {
	Search string
	Prefix string
}

// IngredientWithCount is an ingredient row annotated with the number of
// recipes that use it.
type IngredientWithCount struct {
	models.Ingredient
	RecipeCount int64 `json:"recipe_count" gorm:"column:recipe_count"`
}

// IngredientRepository handles database operations for ingredients
type IngredientRepository struct {
	db *gorm.DB
}

// Ensure IngredientRepository implements IngredientRepositoryInterface
var _ IngredientRepositoryInterface = (*IngredientRepository)(nil)

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// Create creates a new ingredient
func (r *IngredientRepository) Create(ingredient *models.Ingredient) error {
	return r.db.Create(ingredient).Error
}

// GetByID retrieves an ingredient by ID
func (r *IngredientRepository) GetByID(id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.First(&ingredient, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// GetByName retrieves an ingredient by case-insensitive name
func (r *IngredientRepository) GetByName(name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.First(&ingredient, "name = ? COLLATE NOCASE", name).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *IngredientRepository) applyFilter(query *gorm.DB, filter IngredientFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Prefix != "" {
		query = query.Where("name LIKE ?", filter.Prefix+"%")
	}
	return query
}

// GetAll retrieves ingredients matching the filter with pagination, each
// annotated with its recipe usage count
func (r *IngredientRepository) GetAll(filter IngredientFilter, limit, offset int) ([]IngredientWithCount, int64, error) {
	var ingredients []IngredientWithCount
	var total int64

	if err := r.applyFilter(r.db.Model(&models.Ingredient{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyFilter(r.db.Model(&models.Ingredient{}), filter).
		Select("ingredients.*, (SELECT COUNT(*) FROM recipe_ingredients ri WHERE ri.ingredient_id = ingredients.id) AS recipe_count")
	if err := query.Order("name COLLATE NOCASE ASC").Limit(limit).Offset(offset).Find(&ingredients).Error; err != nil {
		return nil, 0, err
	}
	return ingredients, total, nil
}
