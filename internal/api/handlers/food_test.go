package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Ayfri/ETL-1/internal/database/models"
	"github.com/Ayfri/ETL-1/internal/repository"
	"github.com/Ayfri/ETL-1/internal/service"
	"github.com/Ayfri/ETL-1/internal/testutils"
)

type FoodHandlerTestSuite struct {
	*testutils.BaseTestSuite
	http      *testutils.HTTPTestSuite
	factories *testutils.FactorySet
}

func TestFoodHandlerTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	s := &FoodHandlerTestSuite{BaseTestSuite: base}
	s.factories = testutils.NewFactorySet()

	foodService := service.NewFoodService(
		repository.NewProductRepository(base.DB),
		repository.NewMatchRepository(base.DB),
	)
	handler := NewFoodHandler(foodService)

	s.http = testutils.SetupHTTPTest()
	s.http.Router.GET("/api/foods", handler.ListFoods)
	s.http.Router.GET("/api/foods/:code", handler.GetFood)
	s.http.Router.GET("/api/foods/:code/recipes", handler.GetFoodRecipes)

	suite.Run(t, s)
}

func (s *FoodHandlerTestSuite) TestListFoods() {
	for i := 0; i < 2; i++ {
		s.Require().NoError(s.DB.Create(s.factories.Product.Create()).Error)
	}

	recorder := s.http.MakeRequest(http.MethodGet, "/api/foods", nil)

	var resp service.FoodListResponse
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal(int64(2), resp.Total)
	s.Equal(1, resp.Pages)
	s.Len(resp.Data, 2)
}

func (s *FoodHandlerTestSuite) TestListFoodsPagination() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.DB.Create(s.factories.Product.Create()).Error)
	}

	recorder := s.http.MakeRequest(http.MethodGet, "/api/foods?page=2&limit=2", nil)

	var resp service.FoodListResponse
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal(int64(3), resp.Total)
	s.Equal(2, resp.Pages)
	s.Len(resp.Data, 1)
}

func (s *FoodHandlerTestSuite) TestListFoodsRepeatableCategory() {
	products := make([]*models.Product, 0, 2)
	for i := 0; i < 2; i++ {
		p := s.factories.Product.Create()
		s.Require().NoError(s.DB.Create(p).Error)
		products = append(products, p)
	}
	s.Require().NoError(s.DB.Model(products[0]).Update("categories_en", "Beverages,Plant milks").Error)

	recorder := s.http.MakeRequest(http.MethodGet, "/api/foods?category=Beverages&category=Snacks", nil)

	var resp service.FoodListResponse
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal(int64(2), resp.Total)

	recorder = s.http.MakeRequest(http.MethodGet, "/api/foods?category=Beverages", nil)
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal(int64(1), resp.Total)
}

func (s *FoodHandlerTestSuite) TestListFoodsLimitTooHigh() {
	recorder := s.http.MakeRequest(http.MethodGet, "/api/foods?limit=999", nil)
	testutils.AssertErrorResponse(s.T(), recorder, http.StatusBadRequest, "pagination")
}

func (s *FoodHandlerTestSuite) TestListFoodsBadSortKey() {
	recorder := s.http.MakeRequest(http.MethodGet, "/api/foods?sort=price", nil)
	testutils.AssertErrorResponse(s.T(), recorder, http.StatusBadRequest, "sort key")
}

func (s *FoodHandlerTestSuite) TestListFoodsBadNovaGroup() {
	recorder := s.http.MakeRequest(http.MethodGet, "/api/foods?nova_group=abc", nil)
	testutils.AssertErrorResponse(s.T(), recorder, http.StatusBadRequest, "nova_group")
}

func (s *FoodHandlerTestSuite) TestGetFood() {
	product := s.factories.Product.Create()
	s.Require().NoError(s.DB.Create(product).Error)

	recorder := s.http.MakeRequest(http.MethodGet, "/api/foods/"+product.Code, nil)

	var resp service.FoodDetailResponse
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal(product.Code, resp.Code)
}

func (s *FoodHandlerTestSuite) TestGetFoodNotFound() {
	recorder := s.http.MakeRequest(http.MethodGet, "/api/foods/0000000000000", nil)
	testutils.AssertErrorResponse(s.T(), recorder, http.StatusNotFound, "not found")
}

func (s *FoodHandlerTestSuite) TestGetFoodRecipes() {
	product := s.factories.Product.Create()
	s.Require().NoError(s.DB.Create(product).Error)

	ingredient := s.factories.Ingredient.Create()
	s.Require().NoError(s.DB.Create(ingredient).Error)
	s.Require().NoError(s.DB.Create(&models.ProductIngredientMatch{
		ProductCode:  product.Code,
		IngredientID: ingredient.ID,
		MatchScore:   1.0,
		MatchMethod:  models.MatchMethodExact,
	}).Error)

	recipe := s.factories.Recipe.Create()
	s.Require().NoError(s.DB.Create(recipe).Error)
	s.Require().NoError(s.DB.Create(&models.RecipeIngredient{
		RecipeID:     recipe.ID,
		IngredientID: ingredient.ID,
	}).Error)

	recorder := s.http.MakeRequest(http.MethodGet, "/api/foods/"+product.Code+"/recipes", nil)

	var resp service.FoodRecipesResponse
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal(product.Code, resp.ProductCode)
	s.Require().Len(resp.Ingredients, 1)
	s.Equal(ingredient.Name, resp.Ingredients[0].Name)
	s.Require().Len(resp.Recipes, 1)
	s.Equal(recipe.Name, resp.Recipes[0].Name)
}

func (s *FoodHandlerTestSuite) TestGetFoodRecipesUnknownCode() {
	recorder := s.http.MakeRequest(http.MethodGet, "/api/foods/0000000000000/recipes", nil)

	var resp service.FoodRecipesResponse
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal("0000000000000", resp.ProductCode)
	s.Empty(resp.Ingredients)
	s.Empty(resp.Recipes)
}
