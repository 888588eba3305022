package repository

import (
	"gorm.io/gorm"

	"github.com/Ayfri/ETL-1/internal/database/models"
)

// MatchRepository reads the derived product/ingredient association tables
type MatchRepository struct {
	db *gorm.DB
}

// Ensure MatchRepository implements MatchRepositoryInterface
var _ MatchRepositoryInterface = (*MatchRepository)(nil)

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// GetByProductCode retrieves all ingredient matches for a product, best
// score first, with the ingredient preloaded
func (r *MatchRepository) GetByProductCode(code string) ([]models.ProductIngredientMatch, error) {
	var matches []models.ProductIngredientMatch
	err := r.db.
		Preload("Ingredient").
		Where("product_code = ?", code).
		Order("match_score DESC, ingredient_id ASC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// GetUsableSummary retrieves the match summary for a product, or nil when
// the product has no summary row
func (r *MatchRepository) GetUsableSummary(code string) (*models.ProductMarmitonUsable, error) {
	var summary models.ProductMarmitonUsable
	err := r.db.First(&summary, "product_code = ?", code).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
