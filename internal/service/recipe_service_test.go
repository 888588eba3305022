package service

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"

	"github.com/Ayfri/ETL-1/internal/database/models"
	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/repository"
	"github.com/Ayfri/ETL-1/internal/testutils"
)

type RecipeServiceTestSuite struct {
	*testutils.BaseTestSuite
	service   *RecipeService
	factories *testutils.FactorySet
}

func TestRecipeServiceTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	s := &RecipeServiceTestSuite{BaseTestSuite: base}
	s.service = NewRecipeService(
		repository.NewRecipeRepository(base.DB),
		repository.NewIngredientRepository(base.DB),
		validator.New(),
	)
	s.factories = testutils.NewFactorySet()
	suite.Run(t, s)
}

func (s *RecipeServiceTestSuite) TestListRecipes() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.DB.Create(s.factories.Recipe.Create()).Error)
	}

	result, err := s.service.ListRecipes(RecipeListParams{})
	s.Require().NoError(err)
	s.Equal(int64(3), result.Total)
	s.Equal(1, result.Pages)
	s.Len(result.Data, 3)
}

func (s *RecipeServiceTestSuite) TestListRecipesSortByRate() {
	low := s.factories.Recipe.Create()
	s.factories.Recipe.WithRate(2.1)
	s.Require().NoError(s.DB.Create(low).Error)
	high := s.factories.Recipe.Create()
	s.factories.Recipe.WithRate(4.9)
	s.Require().NoError(s.DB.Create(high).Error)

	result, err := s.service.ListRecipes(RecipeListParams{
		ListParams: ListParams{Sort: "rate", Order: "desc"},
	})
	s.Require().NoError(err)
	s.Require().Len(result.Data, 2)
	s.Equal(high.Name, result.Data[0].Name)
}

func (s *RecipeServiceTestSuite) TestListRecipesFilterByDifficulty() {
	easy := s.factories.Recipe.Create()
	s.Require().NoError(s.DB.Create(easy).Error)
	hard := s.factories.Recipe.Create()
	s.factories.Recipe.WithDifficulty("difficile")
	s.Require().NoError(s.DB.Create(hard).Error)

	result, err := s.service.ListRecipes(RecipeListParams{
		Difficulty: []string{"facile", "moyenne"},
	})
	s.Require().NoError(err)
	s.Require().Len(result.Data, 1)
	s.Equal(easy.Name, result.Data[0].Name)
}

func (s *RecipeServiceTestSuite) TestListRecipesInvalidSortKey() {
	_, err := s.service.ListRecipes(RecipeListParams{
		ListParams: ListParams{Sort: "calories"},
	})
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidSortKey)
}

func (s *RecipeServiceTestSuite) TestGetRecipe() {
	recipe := s.factories.Recipe.Create()
	s.Require().NoError(s.DB.Create(recipe).Error)

	result, err := s.service.GetRecipe(recipe.ID)
	s.Require().NoError(err)
	s.Equal(recipe.Name, result.Name)
	s.Require().Len(result.Ingredients, 1)
	s.Equal("farine", result.Ingredients[0].Name)
	s.Equal("g", result.Ingredients[0].Unit)
}

func (s *RecipeServiceTestSuite) TestGetRecipeNotFound() {
	_, err := s.service.GetRecipe(99999)
	s.Require().Error(err)
	s.True(apperrors.IsNotFound(err))
}

func (s *RecipeServiceTestSuite) TestCreateRecipe() {
	result, err := s.service.CreateRecipe(&CreateRecipeRequest{
		Name: "Omelette nature",
		Ingredients: []string{
			"3 oeufs",
			"20 g de beurre",
		},
		Steps: []string{"Battre les oeufs.", "Cuire au beurre."},
	})
	s.Require().NoError(err)
	s.NotZero(result.ID)
	s.Equal("api", result.Source)
	s.Require().Len(result.Ingredients, 2)
	s.Equal("oeufs", result.Ingredients[0].Name)
	s.Equal("3", result.Ingredients[0].Quantity)
	s.Equal("beurre", result.Ingredients[1].Name)
	s.Equal("g", result.Ingredients[1].Unit)

	var links []models.RecipeIngredient
	s.Require().NoError(s.DB.Where("recipe_id = ?", result.ID).Find(&links).Error)
	s.Len(links, 2)
}

func (s *RecipeServiceTestSuite) TestCreateRecipeNameOnly() {
	result, err := s.service.CreateRecipe(&CreateRecipeRequest{Name: "Soupe"})
	s.Require().NoError(err)
	s.NotZero(result.ID)
	s.Equal("Soupe", result.Name)
	s.Empty(result.Ingredients)
	s.Empty(result.Steps)

	listed, err := s.service.ListRecipes(RecipeListParams{Search: "Soupe"})
	s.Require().NoError(err)
	s.Equal(int64(1), listed.Total)
}

func (s *RecipeServiceTestSuite) TestCreateRecipeKeepsImages() {
	result, err := s.service.CreateRecipe(&CreateRecipeRequest{
		Name:   "Tarte photogénique",
		Images: []string{"https://img.example/tarte.jpg", "https://img.example/tarte-part.jpg"},
	})
	s.Require().NoError(err)
	s.Equal([]string{"https://img.example/tarte.jpg", "https://img.example/tarte-part.jpg"}, result.Images)

	fetched, err := s.service.GetRecipe(result.ID)
	s.Require().NoError(err)
	s.Require().Len(fetched.Images, 2)
	s.Equal("https://img.example/tarte.jpg", fetched.Images[0])
}

func (s *RecipeServiceTestSuite) TestCreateRecipeInvalidImageURL() {
	_, err := s.service.CreateRecipe(&CreateRecipeRequest{
		Name:   "Tarte floue",
		Images: []string{"not-a-url"},
	})
	s.Require().Error(err)
	s.True(apperrors.IsValidation(err))
}

func (s *RecipeServiceTestSuite) TestCreateRecipeReusesIngredients() {
	existing := s.factories.Ingredient.Create()
	s.factories.Ingredient.WithName("beurre")
	s.Require().NoError(s.DB.Create(existing).Error)

	_, err := s.service.CreateRecipe(&CreateRecipeRequest{
		Name:        "Beurre fondu",
		Ingredients: []string{"100 g de beurre"},
	})
	s.Require().NoError(err)

	var count int64
	s.Require().NoError(s.DB.Model(&models.Ingredient{}).Where("name = ? COLLATE NOCASE", "beurre").Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *RecipeServiceTestSuite) TestCreateRecipeMissingName() {
	_, err := s.service.CreateRecipe(&CreateRecipeRequest{
		Ingredients: []string{"2 oeufs"},
	})
	s.Require().Error(err)
	s.True(apperrors.IsValidation(err))
}

func (s *RecipeServiceTestSuite) TestCreateRecipeExistingURLReplaces() {
	url := "https://recipes.example/unique-recette"
	first := s.factories.Recipe.Create()
	s.factories.Recipe.WithURL(url)
	s.Require().NoError(s.DB.Create(first).Error)

	result, err := s.service.CreateRecipe(&CreateRecipeRequest{
		Name:        "Version corrigée",
		URL:         url,
		Ingredients: []string{"1 oignon"},
	})
	s.Require().NoError(err)
	s.Equal(first.ID, result.ID)
	s.Equal("Version corrigée", result.Name)
	s.Require().Len(result.Ingredients, 1)
	s.Equal("oignon", result.Ingredients[0].Name)

	var count int64
	s.Require().NoError(s.DB.Model(&models.Recipe{}).Where("url = ?", url).Count(&count).Error)
	s.Equal(int64(1), count)

	var links []models.RecipeIngredient
	s.Require().NoError(s.DB.Where("recipe_id = ?", first.ID).Find(&links).Error)
	s.Len(links, 1)
}
