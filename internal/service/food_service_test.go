package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Ayfri/ETL-1/internal/database/models"
	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/repository"
	"github.com/Ayfri/ETL-1/internal/testutils"
)

type FoodServiceTestSuite struct {
	*testutils.BaseTestSuite
	service   *FoodService
	factories *testutils.FactorySet
}

func TestFoodServiceTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	s := &FoodServiceTestSuite{BaseTestSuite: base}
	s.service = NewFoodService(
		repository.NewProductRepository(base.DB),
		repository.NewMatchRepository(base.DB),
	)
	s.factories = testutils.NewFactorySet()
	suite.Run(t, s)
}

func (s *FoodServiceTestSuite) seedProducts(n int) []*models.Product {
	products := make([]*models.Product, 0, n)
	for i := 0; i < n; i++ {
		p := s.factories.Product.Create()
		s.Require().NoError(s.DB.Create(p).Error)
		products = append(products, p)
	}
	return products
}

func (s *FoodServiceTestSuite) TestListFoodsDefaults() {
	s.seedProducts(3)

	result, err := s.service.ListFoods(FoodListParams{})
	s.Require().NoError(err)
	s.Equal(int64(3), result.Total)
	s.Equal(1, result.Page)
	s.Equal(DefaultLimit, result.Limit)
	s.Equal(1, result.Pages)
	s.Len(result.Data, 3)
}

func (s *FoodServiceTestSuite) TestListFoodsEmpty() {
	result, err := s.service.ListFoods(FoodListParams{})
	s.Require().NoError(err)
	s.Equal(int64(0), result.Total)
	s.Equal(0, result.Pages)
	s.Empty(result.Data)
}

func (s *FoodServiceTestSuite) TestListFoodsPageCount() {
	s.seedProducts(5)

	result, err := s.service.ListFoods(FoodListParams{
		ListParams: ListParams{Page: 2, Limit: 2},
	})
	s.Require().NoError(err)
	s.Equal(int64(5), result.Total)
	s.Equal(3, result.Pages)
	s.Len(result.Data, 2)
}

func (s *FoodServiceTestSuite) TestListFoodsLimitTooHigh() {
	_, err := s.service.ListFoods(FoodListParams{
		ListParams: ListParams{Limit: MaxLimit + 1},
	})
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidPaginationParams)
}

func (s *FoodServiceTestSuite) TestListFoodsNegativePage() {
	_, err := s.service.ListFoods(FoodListParams{
		ListParams: ListParams{Page: -1},
	})
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidPaginationParams)
}

func (s *FoodServiceTestSuite) TestListFoodsInvalidSortKey() {
	_, err := s.service.ListFoods(FoodListParams{
		ListParams: ListParams{Sort: "price"},
	})
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidSortKey)
}

func (s *FoodServiceTestSuite) TestListFoodsInvalidSortOrder() {
	_, err := s.service.ListFoods(FoodListParams{
		ListParams: ListParams{Sort: "name", Order: "sideways"},
	})
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidSortOrder)
}

func (s *FoodServiceTestSuite) TestListFoodsInvalidGrade() {
	_, err := s.service.ListFoods(FoodListParams{NutriscoreGrade: "z"})
	s.Require().Error(err)
	s.True(apperrors.IsValidation(err))
}

func (s *FoodServiceTestSuite) TestListFoodsFilterByGrade() {
	products := s.seedProducts(2)
	s.Require().NoError(s.DB.Model(products[0]).Update("nutriscore_grade", "a").Error)

	result, err := s.service.ListFoods(FoodListParams{NutriscoreGrade: "a"})
	s.Require().NoError(err)
	s.Require().Len(result.Data, 1)
	s.Equal(products[0].Code, result.Data[0].Code)
}

func (s *FoodServiceTestSuite) TestListFoodsSortByEnergy() {
	products := s.seedProducts(3)
	for i, kcal := range []float64{250, 545, 42} {
		energy := kcal
		s.Require().NoError(s.DB.Create(&models.NutritionFacts{
			ProductCode:    products[i].Code,
			EnergyKcal100g: &energy,
		}).Error)
	}

	result, err := s.service.ListFoods(FoodListParams{
		ListParams: ListParams{Sort: "energy", Order: "desc", Limit: 2},
	})
	s.Require().NoError(err)
	s.Equal(int64(3), result.Total)
	s.Equal(2, result.Pages)
	s.Require().Len(result.Data, 2)
	s.Equal(products[1].Code, result.Data[0].Code)
	s.Equal(products[0].Code, result.Data[1].Code)
	s.Require().NotNil(result.Data[0].EnergyKcal100g)
	s.InDelta(545, *result.Data[0].EnergyKcal100g, 0.001)
}

func (s *FoodServiceTestSuite) TestGetFood() {
	product := s.factories.Product.Create()
	s.Require().NoError(s.DB.Create(product).Error)

	ingredient := s.factories.Ingredient.Create()
	s.Require().NoError(s.DB.Create(ingredient).Error)
	s.Require().NoError(s.DB.Create(&models.ProductIngredientMatch{
		ProductCode:  product.Code,
		IngredientID: ingredient.ID,
		MatchScore:   0.8,
		MatchMethod:  models.MatchMethodPartial,
	}).Error)

	result, err := s.service.GetFood(product.Code)
	s.Require().NoError(err)
	s.Equal(product.Code, result.Code)
	s.Require().Len(result.MatchedIngredients, 1)
	s.Equal(ingredient.Name, result.MatchedIngredients[0].Name)
	s.InDelta(0.8, result.MatchedIngredients[0].MatchScore, 0.001)
}

func (s *FoodServiceTestSuite) TestGetFoodNotFound() {
	_, err := s.service.GetFood("0000000000000")
	s.Require().Error(err)
	s.True(apperrors.IsNotFound(err))
}

func (s *FoodServiceTestSuite) TestGetFoodRecipes() {
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

	result, err := s.service.GetFoodRecipes(product.Code)
	s.Require().NoError(err)
	s.Equal(product.Code, result.ProductCode)
	s.Require().Len(result.Ingredients, 1)
	s.Equal(ingredient.Name, result.Ingredients[0].Name)
	s.Require().Len(result.Recipes, 1)
	s.Equal(recipe.Name, result.Recipes[0].Name)
}

func (s *FoodServiceTestSuite) TestGetFoodRecipesUnknownCode() {
	result, err := s.service.GetFoodRecipes("0000000000000")
	s.Require().NoError(err)
	s.Equal("0000000000000", result.ProductCode)
	s.Empty(result.Ingredients)
	s.Empty(result.Recipes)
}

func (s *FoodServiceTestSuite) TestGetFoodRecipesNoMatches() {
	product := s.factories.Product.Create()
	s.Require().NoError(s.DB.Create(product).Error)

	result, err := s.service.GetFoodRecipes(product.Code)
	s.Require().NoError(err)
	s.Empty(result.Ingredients)
	s.Empty(result.Recipes)
}
