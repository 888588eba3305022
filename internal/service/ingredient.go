package service

import (
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/repository"
)

// IngredientService provides ingredient-related business logic
type IngredientService struct {
	ingredients repository.IngredientRepositoryInterface
}

// Ensure IngredientService implements IngredientServiceInterface
var _ IngredientServiceInterface = (*IngredientService)(nil)

// NewIngredientService creates a new IngredientService
func NewIngredientService(ingredients repository.IngredientRepositoryInterface) *IngredientService {
	return &IngredientService{ingredients: ingredients}
}

// IngredientListParams are the query parameters of the ingredient listing
type IngredientListParams struct {
	ListParams
	Search string
	Prefix string
}

// IngredientResponse represents an ingredient in API responses
type IngredientResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Source      string `json:"source"`
	RecipeCount int64  `json:"recipe_count"`
}

// IngredientListResponse represents a paginated list of ingredients
type IngredientListResponse struct {
	Data  []IngredientResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
	Pages int                  `json:"pages"`
}

// ListIngredients retrieves ingredients with optional prefix and substring
// filters, sorted by name, each with its recipe usage count
func (s *IngredientService) ListIngredients(params IngredientListParams) (*IngredientListResponse, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}

	filter := repository.IngredientFilter{
		Search: params.Search,
		Prefix: params.Prefix,
	}
	ingredients, total, err := s.ingredients.GetAll(filter, params.Limit, params.offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	responses := make([]IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		responses[i] = IngredientResponse{
			ID:          ing.ID,
			Name:        ing.Name,
			ImageURL:    ing.ImageURL,
			Source:      ing.Source,
			RecipeCount: ing.RecipeCount,
		}
	}
	return &IngredientListResponse{
		Data:  responses,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
		Pages: pageCount(total, params.Limit),
	}, nil
}

// GetIngredient retrieves one ingredient by ID
func (s *IngredientService) GetIngredient(id uint) (*IngredientResponse, error) {
	ingredient, err := s.ingredients.GetByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &IngredientResponse{
		ID:       ingredient.ID,
		Name:     ingredient.Name,
		ImageURL: ingredient.ImageURL,
		Source:   ingredient.Source,
	}, nil
}
