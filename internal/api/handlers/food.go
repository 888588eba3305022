package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/service"
)

// FoodHandler handles HTTP requests for food product operations
type FoodHandler struct {
	foodService service.FoodServiceInterface
}

// NewFoodHandler creates a new food handler
func NewFoodHandler(foodService service.FoodServiceInterface) *FoodHandler {
	return &FoodHandler{
		foodService: foodService,
	}
}

// ListFoods handles GET /foods
// @Summary List food products
// @Description Get food products with filtering, sorting and pagination
// @Tags foods
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 250)" default(100)
// @Param sort query string false "Sort key (name, nutriscore, energy, nova)"
// @Param order query string false "Sort order (asc, desc)" default(asc)
// @Param search query string false "Search in product name, brands and categories"
// @Param nutriscore_grade query string false "Filter by Nutri-Score grade (a-e)"
// @Param nova_group query int false "Filter by NOVA group (1-4)"
// @Param category query []string false "Filter by category substring, repeatable (OR)"
// @Param brand query string false "Filter by brand substring"
// @Param usable_only query bool false "Only products with matched ingredients"
// @Success 200 {object} service.FoodListResponse "Successfully retrieved products"
// @Failure 400 {object} map[string]interface{} "Invalid query parameters"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /foods [get]
func (h *FoodHandler) ListFoods(c *gin.Context) {
	params := service.FoodListParams{
		ListParams:      listParamsFromQuery(c),
		Search:          c.Query("search"),
		NutriscoreGrade: c.Query("nutriscore_grade"),
		Categories:      c.QueryArray("category"),
		Brand:           c.Query("brand"),
		UsableOnly:      c.Query("usable_only") == "true",
	}
	if raw := c.Query("nova_group"); raw != "" {
		novaGroup, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nova_group parameter"})
			return
		}
		params.NovaGroup = &novaGroup
	}

	resp, err := h.foodService.ListFoods(params)
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetFood handles GET /foods/:code
// @Summary Get food product by barcode
// @Description Get a single food product with its nutrition facts and matched ingredients
// @Tags foods
// @Accept json
// @Produce json
// @Param code path string true "Product barcode"
// @Success 200 {object} service.FoodDetailResponse "Successfully retrieved product"
// @Failure 404 {object} map[string]interface{} "Product not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /foods/{code} [get]
func (h *FoodHandler) GetFood(c *gin.Context) {
	code := c.Param("code")

	resp, err := h.foodService.GetFood(code)
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

// GetFoodRecipes handles GET /foods/:code/recipes
// @Summary List recipes matching a product
// @Description Get the ingredients matched to this product and the recipes using them. Unknown codes yield empty lists.
// @Tags foods
// @Accept json
// @Produce json
// @Param code path string true "Product barcode"
// @Success 200 {object} service.FoodRecipesResponse "Successfully retrieved matches"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /foods/{code}/recipes [get]
func (h *FoodHandler) GetFoodRecipes(c *gin.Context) {
	code := c.Param("code")

	resp, err := h.foodService.GetFoodRecipes(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondListError maps pagination, sorting and validation failures to
// 400 responses, everything else to 500
func respondListError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidPaginationParams),
		errors.Is(err, apperrors.ErrInvalidSortKey),
		errors.Is(err, apperrors.ErrInvalidSortOrder),
		apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
