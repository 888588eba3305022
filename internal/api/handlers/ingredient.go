package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/service"
)

// IngredientHandler handles HTTP requests for ingredient operations
type IngredientHandler struct {
	ingredientService service.IngredientServiceInterface
}

// NewIngredientHandler creates a new ingredient handler
func NewIngredientHandler(ingredientService service.IngredientServiceInterface) *IngredientHandler {
	return &IngredientHandler{
		ingredientService: ingredientService,
	}
}

// ListIngredients handles GET /ingredients
// @Summary List ingredients
// @Description Get ingredients with optional prefix and substring filters, each with its recipe usage count
// @Tags ingredients
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 250)" default(100)
// @Param search query string false "Search in ingredient names"
// @Param prefix query string false "Filter by name prefix"
// @Success 200 {object} service.IngredientListResponse "Successfully retrieved ingredients"
// @Failure 400 {object} map[string]interface{} "Invalid query parameters"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /ingredients [get]
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	params := service.IngredientListParams{
		ListParams: listParamsFromQuery(c),
		Search:     c.Query("search"),
		Prefix:     c.Query("prefix"),
	}
	resp, err := h.ingredientService.ListIngredients(params)
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetIngredient handles GET /ingredients/:id
// @Summary Get ingredient by ID
// @Description Get a single ingredient
// @Tags ingredients
// @Accept json
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} service.IngredientResponse "Successfully retrieved ingredient"
// @Failure 400 {object} map[string]interface{} "Invalid ingredient ID"
// @Failure 404 {object} map[string]interface{} "Ingredient not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /ingredients/{id} [get]
func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient ID"})
		return
	}

	resp, err := h.ingredientService.GetIngredient(uint(id))
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
