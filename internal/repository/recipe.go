package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ayfri/ETL-1/internal/database/models"
)

// RecipeFilter narrows a recipe listing. Zero values mean no filtering
// on that dimension. Difficulty and Budget entries are OR-combined.
type RecipeFilter struct {
	Search     string
	Difficulty []string
	Budget     []string
	MinRate    *float64
	Ingredient string
}

// RecipeRepository handles database operations for recipes
type RecipeRepository struct {
	db *gorm.DB
}

// Ensure RecipeRepository implements RecipeRepositoryInterface
var _ RecipeRepositoryInterface = (*RecipeRepository)(nil)

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create creates a new recipe
func (r *RecipeRepository) Create(recipe *models.Recipe) error {
	return r.db.Create(recipe).Error
}

// Update persists changes to an existing recipe
func (r *RecipeRepository) Update(recipe *models.Recipe) error {
	return r.db.Save(recipe).Error
}

// GetByID retrieves a recipe by ID with its ingredient links
func (r *RecipeRepository) GetByID(id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.
		Preload("RecipeIngredients").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetByURL retrieves a recipe by its source URL
func (r *RecipeRepository) GetByURL(url string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.First(&recipe, "url = ?", url).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// AddIngredient links an ingredient to a recipe. Duplicate links are
// ignored.
func (r *RecipeRepository) AddIngredient(link *models.RecipeIngredient) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error
}

// ClearIngredients removes every ingredient link of a recipe, used when a
// resubmitted recipe replaces an existing one.
func (r *RecipeRepository) ClearIngredients(recipeID uint) error {
	return r.db.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error
}

func (r *RecipeRepository) applyFilter(query *gorm.DB, filter RecipeFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if len(filter.Difficulty) > 0 {
		query = query.Where("difficulty IN ?", filter.Difficulty)
	}
	if len(filter.Budget) > 0 {
		query = query.Where("budget IN ?", filter.Budget)
	}
	if filter.MinRate != nil {
		query = query.Where("rate >= ?", *filter.MinRate)
	}
	if filter.Ingredient != "" {
		query = query.Where("ingredients_raw LIKE ?", "%"+filter.Ingredient+"%")
	}
	return query
}

// GetAll retrieves recipes matching the filter with pagination
func (r *RecipeRepository) GetAll(filter RecipeFilter, sort Sort, limit, offset int) ([]models.Recipe, int64, error) {
	var recipes []models.Recipe
	var total int64

	if err := r.applyFilter(r.db.Model(&models.Recipe{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyFilter(r.db.Model(&models.Recipe{}), filter)
	if clause := sort.OrderClause(); clause != "" {
		query = query.Order(clause)
	}
	query = query.Order("id ASC")

	if err := query.Limit(limit).Offset(offset).Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}
