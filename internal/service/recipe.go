package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/Ayfri/ETL-1/internal/database/models"
	"github.com/Ayfri/ETL-1/internal/etl/transform"
	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/repository"
)

// RecipeService provides recipe-related business logic
type RecipeService struct {
	recipes     repository.RecipeRepositoryInterface
	ingredients repository.IngredientRepositoryInterface
	validator   *validator.Validate
}

// Ensure RecipeService implements RecipeServiceInterface
var _ RecipeServiceInterface = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService
func NewRecipeService(recipes repository.RecipeRepositoryInterface, ingredients repository.IngredientRepositoryInterface, validator *validator.Validate) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		ingredients: ingredients,
		validator:   validator,
	}
}

// recipeSortColumns maps API sort keys to database columns
var recipeSortColumns = map[string]string{
	"name":        "name",
	"prep_time":   "prep_time",
	"cook_time":   "cook_time",
	"total_time":  "total_time",
	"rate":        "rate",
	"nb_comments": "nb_comments",
	"created_at":  "created_at",
}

// RecipeListParams are the query parameters of the recipe listing
type RecipeListParams struct {
	ListParams
	Search     string
	Difficulty []string
	Budget     []string
	MinRate    *float64
	Ingredient string
}

// CreateRecipeRequest is the payload for submitting a recipe through the
// API. Ingredient lines are raw text and get parsed the same way scraped
// lines are.
type CreateRecipeRequest struct {
	Name           string   `json:"name" validate:"required,min=1,max=300"`
	URL            string   `json:"url" validate:"omitempty,url,max=500"`
	Difficulty     string   `json:"difficulty" validate:"max=100"`
	Budget         string   `json:"budget" validate:"max=100"`
	PrepTime       string   `json:"prep_time" validate:"max=50"`
	CookTime       string   `json:"cook_time" validate:"max=50"`
	TotalTime      string   `json:"total_time" validate:"max=50"`
	RecipeQuantity string   `json:"recipe_quantity" validate:"max=100"`
	Ingredients    []string `json:"ingredients" validate:"omitempty,dive,min=1"`
	Steps          []string `json:"steps"`
	Images         []string `json:"images" validate:"omitempty,dive,url,max=500"`
	Description    string   `json:"description"`
	AuthorTip      string   `json:"author_tip"`
}

// RecipeIngredientResponse is one parsed ingredient line on a recipe
type RecipeIngredientResponse struct {
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Name     string `json:"name"`
	Raw      string `json:"raw"`
}

// RecipeResponse represents a recipe in API responses
type RecipeResponse struct {
	ID             uint                       `json:"id"`
	URL            *string                    `json:"url"`
	Name           string                     `json:"name"`
	Rate           *float64                   `json:"rate"`
	NbComments     *int                       `json:"nb_comments"`
	Difficulty     string                     `json:"difficulty"`
	Budget         string                     `json:"budget"`
	PrepTime       string                     `json:"prep_time"`
	CookTime       string                     `json:"cook_time"`
	TotalTime      string                     `json:"total_time"`
	RecipeQuantity string                     `json:"recipe_quantity"`
	Ingredients    []RecipeIngredientResponse `json:"ingredients"`
	Steps          []string                   `json:"steps"`
	Images         []string                   `json:"images"`
	Description    string                     `json:"description"`
	AuthorTip      string                     `json:"author_tip"`
	Source         string                     `json:"source"`
	CreatedAt      time.Time                  `json:"created_at"`
}

// ListRecipes retrieves recipes with filtering, sorting and pagination
func (s *RecipeService) ListRecipes(params RecipeListParams) (*RecipeListResponse, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}
	sort, err := params.resolveSort(recipeSortColumns)
	if err != nil {
		return nil, err
	}

	filter := repository.RecipeFilter{
		Search:     params.Search,
		Difficulty: params.Difficulty,
		Budget:     params.Budget,
		MinRate:    params.MinRate,
		Ingredient: params.Ingredient,
	}
	recipes, total, err := s.recipes.GetAll(filter, sort, params.Limit, params.offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	responses := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		responses[i] = recipeToResponse(&r)
	}
	return &RecipeListResponse{
		Data:  responses,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
		Pages: pageCount(total, params.Limit),
	}, nil
}

// GetRecipe retrieves one recipe by ID
func (s *RecipeService) GetRecipe(id uint) (*RecipeResponse, error) {
	recipe, err := s.recipes.GetByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	response := recipeToResponse(recipe)
	return &response, nil
}

// CreateRecipe validates and stores a submitted recipe, parsing its
// ingredient lines and linking the referenced ingredients. Resubmitting a
// URL that already exists replaces that recipe instead of failing.
func (s *RecipeService) CreateRecipe(req *CreateRecipeRequest) (*RecipeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("recipe", err.Error())
	}

	parsed := make([]transform.ParsedIngredient, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parsed = append(parsed, transform.ParseIngredient(line))
	}

	recipe := models.Recipe{
		Name:           strings.TrimSpace(req.Name),
		Difficulty:     req.Difficulty,
		Budget:         req.Budget,
		PrepTime:       req.PrepTime,
		CookTime:       req.CookTime,
		TotalTime:      req.TotalTime,
		RecipeQuantity: req.RecipeQuantity,
		IngredientsRaw: strings.Join(req.Ingredients, " | "),
		Description:    req.Description,
		AuthorTip:      req.AuthorTip,
		Source:         "api",
	}
	if url := strings.TrimSpace(req.URL); url != "" {
		recipe.URL = &url
	}

	var err error
	if recipe.Ingredients, err = json.Marshal(parsed); err != nil {
		return nil, fmt.Errorf("failed to encode ingredients: %w", err)
	}
	steps := req.Steps
	if steps == nil {
		steps = []string{}
	}
	if recipe.Steps, err = json.Marshal(steps); err != nil {
		return nil, fmt.Errorf("failed to encode steps: %w", err)
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}
	if recipe.Images, err = json.Marshal(images); err != nil {
		return nil, fmt.Errorf("failed to encode images: %w", err)
	}

	if recipe.URL != nil {
		existing, err := s.recipes.GetByURL(*recipe.URL)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("failed to check recipe url: %w", err)
		}
		if err == nil {
			recipe.ID = existing.ID
			recipe.CreatedAt = existing.CreatedAt
			if err := s.recipes.Update(&recipe); err != nil {
				return nil, fmt.Errorf("failed to update recipe: %w", err)
			}
			if err := s.recipes.ClearIngredients(recipe.ID); err != nil {
				return nil, fmt.Errorf("failed to reset recipe ingredients: %w", err)
			}
		}
	}
	if recipe.ID == 0 {
		if err := s.recipes.Create(&recipe); err != nil {
			return nil, fmt.Errorf("failed to create recipe: %w", err)
		}
	}

	for _, line := range parsed {
		name := transform.NormalizeName(line.Name)
		if name == "" {
			continue
		}
		ingredient, err := s.ingredients.GetByName(name)
		if err == gorm.ErrRecordNotFound {
			ingredient = &models.Ingredient{Name: name, Source: "api"}
			if err := s.ingredients.Create(ingredient); err != nil {
				return nil, fmt.Errorf("failed to create ingredient: %w", err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to look up ingredient: %w", err)
		}

		if err := s.recipes.AddIngredient(&models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredient.ID,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			RawText:      line.Raw,
		}); err != nil {
			return nil, fmt.Errorf("failed to link ingredient: %w", err)
		}
	}

	response := recipeToResponse(&recipe)
	return &response, nil
}

// recipeToResponse converts a Recipe model to its API representation,
// decoding the JSON columns
func recipeToResponse(r *models.Recipe) RecipeResponse {
	response := RecipeResponse{
		ID:             r.ID,
		URL:            r.URL,
		Name:           r.Name,
		Rate:           r.Rate,
		NbComments:     r.NbComments,
		Difficulty:     r.Difficulty,
		Budget:         r.Budget,
		PrepTime:       r.PrepTime,
		CookTime:       r.CookTime,
		TotalTime:      r.TotalTime,
		RecipeQuantity: r.RecipeQuantity,
		Ingredients:    []RecipeIngredientResponse{},
		Steps:          []string{},
		Images:         []string{},
		Description:    r.Description,
		AuthorTip:      r.AuthorTip,
		Source:         r.Source,
		CreatedAt:      r.CreatedAt,
	}
	if len(r.Ingredients) > 0 {
		_ = json.Unmarshal(r.Ingredients, &response.Ingredients)
	}
	if len(r.Steps) > 0 {
		_ = json.Unmarshal(r.Steps, &response.Steps)
	}
	if len(r.Images) > 0 {
		_ = json.Unmarshal(r.Images, &response.Images)
	}
	return response
}
