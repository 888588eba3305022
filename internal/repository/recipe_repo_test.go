package repository

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Ayfri/ETL-1/internal/database/models"
	"github.com/Ayfri/ETL-1/internal/testutils"
)

type RecipeRepositoryTestSuite struct {
	*testutils.BaseTestSuite
	repo *RecipeRepository
}

func TestRecipeRepositoryTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	s := &RecipeRepositoryTestSuite{BaseTestSuite: base}
	s.repo = NewRecipeRepository(base.DB)
	suite.Run(t, s)
}

func (s *RecipeRepositoryTestSuite) seedRecipes() {
	urlA := "https://recipes.example/quiche"
	urlB := "https://recipes.example/fondant"
	rateA, rateB := 4.7, 3.9

	recipes := []models.Recipe{
		{URL: &urlA, Name: "Quiche lorraine", Rate: &rateA, Difficulty: "facile", Budget: "bon marché",
			IngredientsRaw: "200 g de lardons | 3 oeufs | 20 cl de crème fraîche"},
		{URL: &urlB, Name: "Fondant au chocolat", Rate: &rateB, Difficulty: "moyenne", Budget: "moyen",
			IngredientsRaw: "200 g de chocolat noir | 100 g de beurre | 3 oeufs"},
		{Name: "Recette sans note", Difficulty: "facile"},
	}
	s.Require().NoError(s.DB.Create(&recipes).Error)
}

func (s *RecipeRepositoryTestSuite) TestCreateAndGetByID() {
	recipe := &models.Recipe{Name: "Omelette"}
	s.Require().NoError(s.repo.Create(recipe))
	s.NotZero(recipe.ID)

	found, err := s.repo.GetByID(recipe.ID)
	s.Require().NoError(err)
	s.Equal("Omelette", found.Name)

	_, err = s.repo.GetByID(99999)
	s.Error(err)
}

func (s *RecipeRepositoryTestSuite) TestGetByURL() {
	s.seedRecipes()

	recipe, err := s.repo.GetByURL("https://recipes.example/quiche")
	s.Require().NoError(err)
	s.Equal("Quiche lorraine", recipe.Name)

	_, err = s.repo.GetByURL("https://recipes.example/missing")
	s.Error(err)
}

func (s *RecipeRepositoryTestSuite) TestGetAllFilters() {
	s.seedRecipes()

	_, total, err := s.repo.GetAll(RecipeFilter{Search: "chocolat"}, Sort{}, 10, 0)
	s.Require().NoError(err)
	s.EqualValues(1, total)

	_, total, err = s.repo.GetAll(RecipeFilter{Difficulty: []string{"facile"}}, Sort{}, 10, 0)
	s.Require().NoError(err)
	s.EqualValues(2, total)

	_, total, err = s.repo.GetAll(RecipeFilter{Difficulty: []string{"facile", "moyenne"}}, Sort{}, 10, 0)
	s.Require().NoError(err)
	s.EqualValues(3, total)

	_, total, err = s.repo.GetAll(RecipeFilter{Budget: []string{"moyen"}}, Sort{}, 10, 0)
	s.Require().NoError(err)
	s.EqualValues(1, total)

	minRate := 4.0
	recipes, total, err := s.repo.GetAll(RecipeFilter{MinRate: &minRate}, Sort{}, 10, 0)
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal("Quiche lorraine", recipes[0].Name)
}

func (s *RecipeRepositoryTestSuite) TestGetAllFilterByIngredient() {
	s.seedRecipes()

	recipes, total, err := s.repo.GetAll(RecipeFilter{Ingredient: "chocolat"}, Sort{}, 10, 0)
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal("Fondant au chocolat", recipes[0].Name)

	recipes, total, err = s.repo.GetAll(RecipeFilter{Ingredient: "oeufs"}, Sort{}, 10, 0)
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(recipes, 2)
}

func (s *RecipeRepositoryTestSuite) TestUpdateAndClearIngredients() {
	s.seedRecipes()

	var quiche models.Recipe
	s.Require().NoError(s.DB.First(&quiche, "name = ?", "Quiche lorraine").Error)

	ingredient := models.Ingredient{Name: "lardons", Source: "marmiton"}
	s.Require().NoError(s.DB.Create(&ingredient).Error)
	s.Require().NoError(s.repo.AddIngredient(&models.RecipeIngredient{
		RecipeID: quiche.ID, IngredientID: ingredient.ID, Quantity: "200", Unit: "g",
	}))

	quiche.Name = "Quiche lorraine traditionnelle"
	s.Require().NoError(s.repo.Update(&quiche))

	found, err := s.repo.GetByID(quiche.ID)
	s.Require().NoError(err)
	s.Equal("Quiche lorraine traditionnelle", found.Name)
	s.Len(found.RecipeIngredients, 1)

	s.Require().NoError(s.repo.ClearIngredients(quiche.ID))
	found, err = s.repo.GetByID(quiche.ID)
	s.Require().NoError(err)
	s.Empty(found.RecipeIngredients)
}

func (s *RecipeRepositoryTestSuite) TestGetAllSortRateNullsLast() {
	s.seedRecipes()

	recipes, _, err := s.repo.GetAll(RecipeFilter{}, Sort{Column: "rate", Direction: "DESC"}, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(recipes, 3)
	s.Equal("Quiche lorraine", recipes[0].Name)
	s.Equal("Fondant au chocolat", recipes[1].Name)
	s.Equal("Recette sans note", recipes[2].Name)
}
