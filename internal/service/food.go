package service

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Ayfri/ETL-1/internal/database/models"
	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/repository"
)

// FoodService provides product-related business logic
type FoodService struct {
	products repository.ProductRepositoryInterface
	matches  repository.MatchRepositoryInterface
}

// Ensure FoodService implements FoodServiceInterface
var _ FoodServiceInterface = (*FoodService)(nil)

// NewFoodService creates a new FoodService
func NewFoodService(products repository.ProductRepositoryInterface, matches repository.MatchRepositoryInterface) *FoodService {
	return &FoodService{
		products: products,
		matches:  matches,
	}
}

// foodSortColumns maps API sort keys to columns of the
// products_with_nutrition view
var foodSortColumns = map[string]string{
	"name":       "product_name",
	"nutriscore": "nutriscore_score",
	"energy":     "energy_kcal_100g",
	"nova":       "nova_group",
}

// FoodListParams are the query parameters of the food listing
type FoodListParams struct {
	ListParams
	Search          string
	NutriscoreGrade string
	NovaGroup       *int
	Categories      []string
	Brand           string
	UsableOnly      bool
}

// FoodResponse represents a denormalized product row in API responses
type FoodResponse struct {
	Code              string   `json:"code"`
	ProductName       string   `json:"product_name"`
	Brands            string   `json:"brands"`
	Categories        string   `json:"categories"`
	NutriscoreGrade   *string  `json:"nutriscore_grade"`
	NutriscoreScore   *float64 `json:"nutriscore_score"`
	NovaGroup         *int     `json:"nova_group"`
	Completeness      *float64 `json:"completeness"`
	ImageURL          string   `json:"image_url"`
	EnergyKcal100g    *float64 `json:"energy_kcal_100g"`
	Fat100g           *float64 `json:"fat_100g"`
	SaturatedFat100g  *float64 `json:"saturated_fat_100g"`
	Carbohydrates100g *float64 `json:"carbohydrates_100g"`
	Sugars100g        *float64 `json:"sugars_100g"`
	Proteins100g      *float64 `json:"proteins_100g"`
	Salt100g          *float64 `json:"salt_100g"`
	Fiber100g         *float64 `json:"fiber_100g"`
}

// MatchedIngredientResponse is one matched ingredient of a product
type MatchedIngredientResponse struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	MatchScore   float64 `json:"match_score"`
	MatchMethod  string  `json:"match_method"`
}

// FoodDetailResponse represents a single product with its nutrition facts
// and match summary
type FoodDetailResponse struct {
	models.Product
	MatchedIngredients []MatchedIngredientResponse   `json:"matched_ingredients"`
	UsableSummary      *models.ProductMarmitonUsable `json:"usable_summary"`
}

// FoodListResponse represents a paginated list of products
type FoodListResponse struct {
	Data  []FoodResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Pages int            `json:"pages"`
}

// RecipeListResponse represents a paginated list of recipes
type RecipeListResponse struct {
	Data  []RecipeResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Pages int              `json:"pages"`
}

// FoodRecipesResponse links a product to the ingredients it matched and
// the recipes using those ingredients. An unknown code yields empty lists.
type FoodRecipesResponse struct {
	ProductCode string                      `json:"product_code"`
	Ingredients []MatchedIngredientResponse `json:"ingredients"`
	Recipes     []RecipeResponse            `json:"recipes"`
}

// ListFoods retrieves products with filtering, sorting and pagination
func (s *FoodService) ListFoods(params FoodListParams) (*FoodListResponse, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}
	sort, err := params.resolveSort(foodSortColumns)
	if err != nil {
		return nil, err
	}

	if params.NutriscoreGrade != "" && !models.NutriScoreGrade(params.NutriscoreGrade).IsValid() {
		return nil, apperrors.NewValidationError("nutriscore_grade", "must be one of a, b, c, d, e")
	}

	filter := repository.ProductFilter{
		Search:          params.Search,
		NutriscoreGrade: params.NutriscoreGrade,
		NovaGroup:       params.NovaGroup,
		Categories:      params.Categories,
		Brand:           params.Brand,
		UsableOnly:      params.UsableOnly,
	}
	rows, total, err := s.products.GetAll(filter, sort, params.Limit, params.offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}

	responses := make([]FoodResponse, len(rows))
	for i, row := range rows {
		responses[i] = s.toResponse(&row)
	}
	return &FoodListResponse{
		Data:  responses,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
		Pages: pageCount(total, params.Limit),
	}, nil
}

// GetFood retrieves one product by barcode with nutrition facts, matched
// ingredients and the usable summary
func (s *FoodService) GetFood(code string) (*FoodDetailResponse, error) {
	product, err := s.products.GetByCode(code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get food: %w", err)
	}

	matches, err := s.matches.GetByProductCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to get food matches: %w", err)
	}

	detail := &FoodDetailResponse{
		Product:            *product,
		MatchedIngredients: toMatchedIngredients(matches),
		UsableSummary:      product.Usable,
	}
	return detail, nil
}

// GetFoodRecipes retrieves the ingredients matched to a product and the
// recipes that use them. A code with no matches, including an unknown one,
// returns empty lists rather than an error.
func (s *FoodService) GetFoodRecipes(code string) (*FoodRecipesResponse, error) {
	matches, err := s.matches.GetByProductCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to get food matches: %w", err)
	}

	recipes, err := s.products.GetRecipesForProduct(code)
	if err != nil {
		return nil, fmt.Errorf("failed to get food recipes: %w", err)
	}

	responses := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		responses[i] = recipeToResponse(&r)
	}
	return &FoodRecipesResponse{
		ProductCode: code,
		Ingredients: toMatchedIngredients(matches),
		Recipes:     responses,
	}, nil
}

// toResponse converts a view row to its list representation
func (s *FoodService) toResponse(row *repository.ProductRow) FoodResponse {
	return FoodResponse{
		Code:              row.Code,
		ProductName:       row.ProductName,
		Brands:            row.Brands,
		Categories:        row.CategoriesEn,
		NutriscoreGrade:   row.NutriscoreGrade,
		NutriscoreScore:   row.NutriscoreScore,
		NovaGroup:         row.NovaGroup,
		Completeness:      row.Completeness,
		ImageURL:          row.ImageURL,
		EnergyKcal100g:    row.EnergyKcal100g,
		Fat100g:           row.Fat100g,
		SaturatedFat100g:  row.SaturatedFat100g,
		Carbohydrates100g: row.Carbohydrates100g,
		Sugars100g:        row.Sugars100g,
		Proteins100g:      row.Proteins100g,
		Salt100g:          row.Salt100g,
		Fiber100g:         row.Fiber100g,
	}
}

func toMatchedIngredients(matches []models.ProductIngredientMatch) []MatchedIngredientResponse {
	out := make([]MatchedIngredientResponse, len(matches))
	for i, m := range matches {
		out[i] = MatchedIngredientResponse{
			IngredientID: m.IngredientID,
			Name:         m.Ingredient.Name,
			MatchScore:   m.MatchScore,
			MatchMethod:  string(m.MatchMethod),
		}
	}
	return out
}
