package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Ayfri/ETL-1/internal/repository"
	"github.com/Ayfri/ETL-1/internal/service"
	"github.com/Ayfri/ETL-1/internal/testutils"
)

type IngredientHandlerTestSuite struct {
	*testutils.BaseTestSuite
	http      *testutils.HTTPTestSuite
	factories *testutils.FactorySet
}

func TestIngredientHandlerTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	s := &IngredientHandlerTestSuite{BaseTestSuite: base}
	s.factories = testutils.NewFactorySet()

	ingredientService := service.NewIngredientService(repository.NewIngredientRepository(base.DB))
	handler := NewIngredientHandler(ingredientService)

	s.http = testutils.SetupHTTPTest()
	s.http.Router.GET("/api/ingredients", handler.ListIngredients)
	s.http.Router.GET("/api/ingredients/:id", handler.GetIngredient)

	suite.Run(t, s)
}

func (s *IngredientHandlerTestSuite) TestListIngredients() {
	for _, name := range []string{"beurre", "farine"} {
		ing := s.factories.Ingredient.Create()
		s.factories.Ingredient.WithName(name)
		s.Require().NoError(s.DB.Create(ing).Error)
	}

	recorder := s.http.MakeRequest(http.MethodGet, "/api/ingredients", nil)

	var resp service.IngredientListResponse
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal(int64(2), resp.Total)
	s.Len(resp.Data, 2)
}

func (s *IngredientHandlerTestSuite) TestListIngredientsSearch() {
	for _, name := range []string{"beurre doux", "farine"} {
		ing := s.factories.Ingredient.Create()
		s.factories.Ingredient.WithName(name)
		s.Require().NoError(s.DB.Create(ing).Error)
	}

	recorder := s.http.MakeRequest(http.MethodGet, "/api/ingredients?search=beurre", nil)

	var resp service.IngredientListResponse
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal(int64(1), resp.Total)
	s.Require().Len(resp.Data, 1)
	s.Equal("beurre doux", resp.Data[0].Name)
}

func (s *IngredientHandlerTestSuite) TestListIngredientsPrefix() {
	for _, name := range []string{"beurre doux", "demi-beurre"} {
		ing := s.factories.Ingredient.Create()
		s.factories.Ingredient.WithName(name)
		s.Require().NoError(s.DB.Create(ing).Error)
	}

	recorder := s.http.MakeRequest(http.MethodGet, "/api/ingredients?prefix=beurre", nil)

	var resp service.IngredientListResponse
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal(int64(1), resp.Total)
	s.Require().Len(resp.Data, 1)
	s.Equal("beurre doux", resp.Data[0].Name)
}

func (s *IngredientHandlerTestSuite) TestGetIngredient() {
	ing := s.factories.Ingredient.Create()
	s.Require().NoError(s.DB.Create(ing).Error)

	recorder := s.http.MakeRequest(http.MethodGet, fmt.Sprintf("/api/ingredients/%d", ing.ID), nil)

	var resp service.IngredientResponse
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal(ing.Name, resp.Name)
}

func (s *IngredientHandlerTestSuite) TestGetIngredientInvalidID() {
	recorder := s.http.MakeRequest(http.MethodGet, "/api/ingredients/abc", nil)
	testutils.AssertErrorResponse(s.T(), recorder, http.StatusBadRequest, "invalid ingredient ID")
}

func (s *IngredientHandlerTestSuite) TestGetIngredientNotFound() {
	recorder := s.http.MakeRequest(http.MethodGet, "/api/ingredients/99999", nil)
	testutils.AssertErrorResponse(s.T(), recorder, http.StatusNotFound, "not found")
}
