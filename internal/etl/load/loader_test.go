package load

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Ayfri/ETL-1/internal/database/models"
	"github.com/Ayfri/ETL-1/internal/etl"
	"github.com/Ayfri/ETL-1/internal/etl/transform"
	"github.com/Ayfri/ETL-1/internal/testutils"
)

type LoaderTestSuite struct {
	*testutils.BaseTestSuite
	loader *Loader
	dir    string
}

func TestLoaderTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	s := &LoaderTestSuite{BaseTestSuite: base, dir: t.TempDir()}
	s.loader = NewLoader(base.DB)
	suite.Run(t, s)
}

func (s *LoaderTestSuite) writeFile(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *LoaderTestSuite) writeJSON(name string, v interface{}) string {
	data, err := json.Marshal(v)
	s.Require().NoError(err)
	return s.writeFile(name, string(data))
}

func (s *LoaderTestSuite) TestLoadProducts() {
	csvPath := s.writeFile("products.csv",
		"code,product_name,categories,nutriscore_grade,nutriscore_score,energy-kcal_100g,proteins_100g,image_url\n"+
			"100,Tuna,Fish,B,4,120,25,https://img.example/1.jpg\n"+
			"101,Rice,Grains,a,1,350,7,https://img.example/2.jpg\n"+
			",No Code,Grains,a,1,350,7,https://img.example/3.jpg\n")

	report, err := s.loader.LoadProducts(context.Background(), csvPath)
	s.Require().NoError(err)
	s.Equal(2, report.Products)
	s.Equal(2, report.Nutrition)
	s.Equal(1, report.Skipped)

	var product models.Product
	s.Require().NoError(s.DB.First(&product, "code = ?", "100").Error)
	s.Equal("Tuna", product.ProductName)
	s.Require().NotNil(product.NutriscoreGrade)
	s.Equal("b", *product.NutriscoreGrade)

	var facts models.NutritionFacts
	s.Require().NoError(s.DB.First(&facts, "product_code = ?", "100").Error)
	s.Require().NotNil(facts.EnergyKcal100g)
	s.InDelta(120, *facts.EnergyKcal100g, 0.001)
}

func (s *LoaderTestSuite) TestLoadProductsLastWriteWins() {
	first := s.writeFile("first.csv",
		"code,product_name,categories,nutriscore_grade,energy-kcal_100g,image_url\n"+
			"200,Old Name,Snacks,c,100,https://img.example/a.jpg\n")
	second := s.writeFile("second.csv",
		"code,product_name,categories,nutriscore_grade,energy-kcal_100g,image_url\n"+
			"200,New Name,Snacks,b,110,https://img.example/a.jpg\n")

	_, err := s.loader.LoadProducts(context.Background(), first)
	s.Require().NoError(err)
	_, err = s.loader.LoadProducts(context.Background(), second)
	s.Require().NoError(err)

	var count int64
	s.DB.Model(&models.Product{}).Count(&count)
	s.EqualValues(1, count)

	var product models.Product
	s.Require().NoError(s.DB.First(&product, "code = ?", "200").Error)
	s.Equal("New Name", product.ProductName)

	s.DB.Model(&models.NutritionFacts{}).Where("product_code = ?", "200").Count(&count)
	s.EqualValues(1, count)
}

func (s *LoaderTestSuite) TestLoadProductsMissingFile() {
	_, err := s.loader.LoadProducts(context.Background(), filepath.Join(s.dir, "nope.csv"))
	s.Error(err)
}

func (s *LoaderTestSuite) TestLoadIngredients() {
	path := s.writeJSON("ingredients.json", []etl.RawIngredient{
		{Name: "Beurre", ImageURL: "https://img.example/beurre.jpg"},
		{Name: "beurre"},
		{Name: "Farine"},
		{Name: "  "},
	})

	report, err := s.loader.LoadIngredients(context.Background(), path)
	s.Require().NoError(err)
	s.Equal(2, report.Ingredients)
	s.Equal(1, report.Skipped)

	var count int64
	s.DB.Model(&models.Ingredient{}).Count(&count)
	s.EqualValues(2, count)

	// first-seen casing wins
	var ingredient models.Ingredient
	s.Require().NoError(s.DB.First(&ingredient, "name = ? COLLATE NOCASE", "beurre").Error)
	s.Equal("Beurre", ingredient.Name)
	s.Equal("https://img.example/beurre.jpg", ingredient.ImageURL)
}

func (s *LoaderTestSuite) TestLoadRecipes() {
	path := s.writeJSON("recipes.json", []transform.FilteredRecipe{
		{
			RawRecipe: etl.RawRecipe{
				URL:         "https://recipes.example/quiche",
				Name:        "Quiche lorraine",
				Rate:        "4,7",
				NbComments:  "128",
				Ingredients: []string{"200 g de lardons", "3 oeufs"},
				Steps:       []string{"1. Mélanger."},
			},
			ParsedIngredients: []transform.ParsedIngredient{
				{Quantity: "200", Unit: "g", Name: "lardons", Raw: "200 g de lardons"},
				{Quantity: "3", Name: "oeufs", Raw: "3 oeufs"},
			},
		},
		{
			RawRecipe: etl.RawRecipe{
				URL:         "https://recipes.example/omelette",
				Name:        "Omelette",
				Ingredients: []string{"4 oeufs"},
			},
			ParsedIngredients: []transform.ParsedIngredient{
				{Quantity: "4", Name: "oeufs", Raw: "4 oeufs"},
			},
		},
	})

	report, err := s.loader.LoadRecipes(context.Background(), path)
	s.Require().NoError(err)
	s.Equal(2, report.Recipes)
	s.Equal(2, report.Ingredients)
	s.Equal(3, report.Links)

	// oeufs is shared between both recipes
	var ingredientCount int64
	s.DB.Model(&models.Ingredient{}).Count(&ingredientCount)
	s.EqualValues(2, ingredientCount)

	var recipe models.Recipe
	s.Require().NoError(s.DB.First(&recipe, "name = ?", "Quiche lorraine").Error)
	s.Require().NotNil(recipe.Rate)
	s.InDelta(4.7, *recipe.Rate, 0.001)
	s.Require().NotNil(recipe.NbComments)
	s.Equal(128, *recipe.NbComments)
	s.Equal("200 g de lardons | 3 oeufs", recipe.IngredientsRaw)
}

func (s *LoaderTestSuite) TestLoadRecipesIdempotent() {
	entry := transform.FilteredRecipe{
		RawRecipe: etl.RawRecipe{
			URL:         "https://recipes.example/tarte",
			Name:        "Tarte",
			Ingredients: []string{"1 pâte brisée"},
		},
		ParsedIngredients: []transform.ParsedIngredient{
			{Quantity: "1", Name: "pâte brisée", Raw: "1 pâte brisée"},
		},
	}
	path := s.writeJSON("tarte.json", []transform.FilteredRecipe{entry})

	_, err := s.loader.LoadRecipes(context.Background(), path)
	s.Require().NoError(err)

	entry.Name = "Tarte aux pommes"
	path = s.writeJSON("tarte2.json", []transform.FilteredRecipe{entry})
	_, err = s.loader.LoadRecipes(context.Background(), path)
	s.Require().NoError(err)

	var count int64
	s.DB.Model(&models.Recipe{}).Count(&count)
	s.EqualValues(1, count)

	var recipe models.Recipe
	s.Require().NoError(s.DB.First(&recipe, "url = ?", "https://recipes.example/tarte").Error)
	s.Equal("Tarte aux pommes", recipe.Name)

	s.DB.Model(&models.RecipeIngredient{}).Count(&count)
	s.EqualValues(1, count)
}
