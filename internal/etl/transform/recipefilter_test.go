package transform

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ayfri/ETL-1/internal/etl"
	apperrors "github.com/Ayfri/ETL-1/internal/errors"
)

func writeRawRecipes(t *testing.T, path string, recipes []etl.RawRecipe) {
	t.Helper()
	data, err := json.Marshal(recipes)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestFilterRecipes(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "raw.json")
	output := filepath.Join(dir, "filtered.json")

	writeRawRecipes(t, input, []etl.RawRecipe{
		{
			URL:         "https://recipes.example/quiche",
			Name:        "Quiche lorraine",
			Ingredients: []string{"200 g de lardons", "3 oeufs", ""},
		},
		{
			URL:         "https://recipes.example/unnamed",
			Name:        "  ",
			Ingredients: []string{"1 oignon"},
		},
		{
			URL:         "https://recipes.example/empty",
			Name:        "Recette vide",
			Ingredients: []string{"", "  "},
		},
		{
			URL:         "https://recipes.example/quiche",
			Name:        "Quiche lorraine bis",
			Ingredients: []string{"4 oeufs"},
		},
	})

	report, err := FilterRecipes(input, output)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Read)
	assert.Equal(t, 1, report.Kept)
	assert.Equal(t, 3, report.Dropped)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var kept []FilteredRecipe
	require.NoError(t, json.Unmarshal(data, &kept))
	require.Len(t, kept, 1)

	assert.Equal(t, "Quiche lorraine", kept[0].Name)
	require.Len(t, kept[0].ParsedIngredients, 2)
	assert.Equal(t, "lardons", kept[0].ParsedIngredients[0].Name)
	assert.Equal(t, "200", kept[0].ParsedIngredients[0].Quantity)
	assert.Equal(t, "g", kept[0].ParsedIngredients[0].Unit)
	assert.Equal(t, "oeufs", kept[0].ParsedIngredients[1].Name)
}

func TestFilterRecipesMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := FilterRecipes(filepath.Join(dir, "nope.json"), filepath.Join(dir, "out.json"))
	assert.ErrorIs(t, err, apperrors.ErrRawFileMissing)
}
