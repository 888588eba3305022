package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/service"
)

// RecipeHandler handles HTTP requests for recipe operations
type RecipeHandler struct {
	recipeService service.RecipeServiceInterface
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipeService service.RecipeServiceInterface) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
	}
}

// ListRecipes handles GET /recipes
// @Summary List recipes
// @Description Get recipes with filtering, sorting and pagination
// @Tags recipes
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 250)" default(100)
// @Param sort query string false "Sort key (name, prep_time, cook_time, total_time, rate, nb_comments, created_at)"
// @Param order query string false "Sort order (asc, desc)" default(asc)
// @Param search query string false "Search in recipe names"
// @Param difficulty query []string false "Filter by difficulty, repeatable (OR)"
// @Param budget query []string false "Filter by budget, repeatable (OR)"
// @Param min_rate query number false "Minimum rating (0-5)"
// @Param ingredient query string false "Filter by ingredient line substring"
// @Success 200 {object} service.RecipeListResponse "Successfully retrieved recipes"
// @Failure 400 {object} map[string]interface{} "Invalid query parameters"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /recipes [get]
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	params := service.RecipeListParams{
		ListParams: listParamsFromQuery(c),
		Search:     c.Query("search"),
		Difficulty: c.QueryArray("difficulty"),
		Budget:     c.QueryArray("budget"),
		Ingredient: c.Query("ingredient"),
	}
	if raw := c.Query("min_rate"); raw != "" {
		minRate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_rate parameter"})
			return
		}
		params.MinRate = &minRate
	}

	resp, err := h.recipeService.ListRecipes(params)
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRecipe handles GET /recipes/:id
// @Summary Get recipe by ID
// @Description Get a single recipe with its parsed ingredients and steps
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} service.RecipeResponse "Successfully retrieved recipe"
// @Failure 400 {object} map[string]interface{} "Invalid recipe ID"
// @Failure 404 {object} map[string]interface{} "Recipe not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe ID"})
		return
	}

	resp, err := h.recipeService.GetRecipe(uint(id))
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateRecipe handles POST /recipes
// @Summary Create a new recipe
// @Description Submit a recipe with raw ingredient lines, which are parsed into quantity, unit and name. Resubmitting an existing URL replaces that recipe.
// @Tags recipes
// @Accept json
// @Produce json
// @Param recipe body service.CreateRecipeRequest true "Recipe data"
// @Success 201 {object} service.RecipeResponse "Successfully created recipe"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /recipes [post]
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req service.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.recipeService.CreateRecipe(&req)
	if err != nil {
		if apperrors.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}
