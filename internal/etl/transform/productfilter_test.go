package transform

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Ayfri/ETL-1/internal/errors"
)

func writeCSV(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
}

func productRow(header []string, values map[string]string) []string {
	row := make([]string, len(header))
	for i, col := range header {
		row[i] = values[col]
	}
	return row
}

func TestFilterProducts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "raw.csv")
	output := filepath.Join(dir, "filtered.csv")

	header := []string{
		"code", "product_name", "categories", "nutriscore_grade",
		"energy-kcal_100g", "image_url", "ignored_column",
	}
	good := map[string]string{
		"code": "123", "product_name": "Tuna", "categories": "Fish",
		"nutriscore_grade": "b", "energy-kcal_100g": "120",
		"image_url": "https://img.example/1.jpg", "ignored_column": "x",
	}
	noGrade := map[string]string{
		"code": "124", "product_name": "Mystery", "categories": "Snacks",
		"nutriscore_grade": "unknown", "energy-kcal_100g": "300",
		"image_url": "https://img.example/2.jpg",
	}
	noNutrition := map[string]string{
		"code": "125", "product_name": "Ghost", "categories": "Snacks",
		"nutriscore_grade": "a", "image_url": "https://img.example/3.jpg",
	}
	noImage := map[string]string{
		"code": "126", "product_name": "Plain", "categories": "Snacks",
		"nutriscore_grade": "a", "energy-kcal_100g": "50",
	}
	noName := map[string]string{
		"code": "127", "categories": "Snacks",
		"nutriscore_grade": "a", "energy-kcal_100g": "50",
		"image_url": "https://img.example/4.jpg",
	}

	writeCSV(t, input, [][]string{
		header,
		productRow(header, good),
		productRow(header, noGrade),
		productRow(header, noNutrition),
		productRow(header, noImage),
		productRow(header, noName),
	})

	report, err := FilterProducts(input, output)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Read)
	assert.Equal(t, 1, report.Kept)
	assert.Equal(t, 4, report.Dropped)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Tuna")
	assert.NotContains(t, content, "Mystery")
	assert.NotContains(t, content, "ignored_column")
}

func TestFilterProductsHeaderVariant(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "raw.csv")
	output := filepath.Join(dir, "filtered.csv")

	// older dumps spell nutrition columns without the trailing g
	header := []string{
		"code", "product_name", "categories", "nutriscore_grade",
		"energy-kcal_100", "image_url",
	}
	writeCSV(t, input, [][]string{
		header,
		{"200", "Rice", "Grains", "a", "350", "https://img.example/r.jpg"},
	})

	report, err := FilterProducts(input, output)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Kept)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	kcalIdx := -1
	for i, col := range records[0] {
		if col == "energy-kcal_100g" {
			kcalIdx = i
		}
	}
	require.NotEqual(t, -1, kcalIdx)
	assert.Equal(t, "350", records[1][kcalIdx])
}

func TestFilterProductsMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := FilterProducts(filepath.Join(dir, "nope.csv"), filepath.Join(dir, "out.csv"))
	assert.ErrorIs(t, err, apperrors.ErrRawFileMissing)
}

func TestFilterProductsEmptyInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(input, nil, 0o644))

	_, err := FilterProducts(input, filepath.Join(dir, "out.csv"))
	assert.ErrorIs(t, err, apperrors.ErrEmptyCSV)
}
