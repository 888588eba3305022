package transform

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/logger"
)

// ProductColumns is the recognized product field set, in output order.
// Columns present in the raw CSV but not listed here are ignored.
var ProductColumns = []string{
	"code", "product_name", "generic_name", "brands", "brands_tags",
	"quantity", "packaging",
	"categories", "categories_tags", "categories_en", "main_category", "main_category_en",
	"origins", "countries", "countries_en", "labels", "labels_en", "stores",
	"ingredients_text", "ingredients_tags", "ingredients_analysis_tags",
	"allergens", "traces",
	"serving_size", "serving_quantity", "additives_n", "additives_tags",
	"nutriscore_score", "nutriscore_grade", "nova_group",
	"environmental_score_score", "environmental_score_grade", "nutrient_levels_tags",
	"pnns_groups_1", "pnns_groups_2", "food_groups_en", "states_tags",
	"completeness", "unique_scans_n",
	"image_url", "image_small_url", "image_ingredients_url", "image_nutrition_url",
	"url", "creator", "created_datetime", "last_modified_datetime",
}

// NutritionColumns is the recognized nutrition field set, in output order,
// using the raw CSV header spelling (hyphenated).
var NutritionColumns = []string{
	"energy-kj_100g", "energy-kcal_100g", "energy_100g", "energy-from-fat_100g",
	"fat_100g", "saturated-fat_100g", "monounsaturated-fat_100g", "polyunsaturated-fat_100g",
	"trans-fat_100g", "omega-3-fat_100g", "omega-6-fat_100g", "cholesterol_100g",
	"carbohydrates_100g", "sugars_100g", "added-sugars_100g", "lactose_100g",
	"starch_100g", "polyols_100g", "fiber_100g", "proteins_100g",
	"salt_100g", "sodium_100g", "alcohol_100g",
	"vitamin-a_100g", "vitamin-c_100g", "vitamin-d_100g", "vitamin-e_100g",
	"vitamin-k_100g", "vitamin-b1_100g", "vitamin-b2_100g", "vitamin-b6_100g",
	"vitamin-b9_100g", "vitamin-b12_100g",
	"potassium_100g", "calcium_100g", "phosphorus_100g", "iron_100g",
	"magnesium_100g", "zinc_100g", "caffeine_100g",
	"fruits-vegetables-nuts_100g", "fruits-vegetables-nuts-estimate_100g",
}

// coreNutritionColumns drive the "at least one nutrition value present"
// acceptance predicate.
var coreNutritionColumns = []string{
	"energy-kcal_100g", "energy-kj_100g", "energy_100g",
	"proteins_100g", "carbohydrates_100g", "fat_100g",
	"fiber_100g", "sugars_100g", "salt_100g", "sodium_100g",
}

var imageColumns = []string{
	"image_url", "image_small_url", "image_ingredients_url", "image_nutrition_url",
}

var validGrades = map[string]bool{"a": true, "b": true, "c": true, "d": true, "e": true}

// FilterReport tallies a filtering pass. Dropped rows are counted, never
// repaired.
type FilterReport struct {
	Read      int `json:"read"`
	Kept      int `json:"kept"`
	Dropped   int `json:"dropped"`
	Malformed int `json:"malformed"`
}

// FilterProducts reads the raw OpenFoodFacts CSV and writes rows passing
// the acceptance predicate to the output CSV, keeping only recognized
// columns. A row is kept iff its Nutri-Score grade is a..e, its name and
// categories are non-empty, at least one core nutrition value is present
// and at least one image URL is present. Everything else is dropped
// silently and tallied.
func FilterProducts(inputPath, outputPath string) (*FilterReport, error) {
	log := logger.ForComponent("transform")

	in, err := os.Open(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrRawFileMissing
		}
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.ErrEmptyCSV
	}

	outputColumns := append(append([]string{}, ProductColumns...), NutritionColumns...)
	indexes := resolveColumns(header, outputColumns)

	writer := csv.NewWriter(out)
	defer writer.Flush()

	if err := writer.Write(outputColumns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	report := &FilterReport{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Malformed++
			continue
		}
		report.Read++

		row := projectRow(record, indexes, outputColumns)
		if !acceptProduct(row) {
			report.Dropped++
			continue
		}

		outRecord := make([]string, len(outputColumns))
		for i, col := range outputColumns {
			outRecord[i] = row[col]
		}
		if err := writer.Write(outRecord); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
		report.Kept++
	}

	log.WithFields(map[string]interface{}{
		"read": report.Read, "kept": report.Kept, "dropped": report.Dropped,
	}).Info("product filtering finished")

	return report, nil
}

// resolveColumns maps each wanted column to its index in the header,
// tolerating the known _100 spelling variant for _100g columns. Missing
// columns map to -1 and read as empty.
func resolveColumns(header, wanted []string) map[string]int {
	position := make(map[string]int, len(header))
	for i, name := range header {
		position[strings.TrimSpace(name)] = i
	}

	indexes := make(map[string]int, len(wanted))
	for _, col := range wanted {
		if idx, ok := position[col]; ok {
			indexes[col] = idx
			continue
		}
		if alt := strings.Replace(col, "_100g", "_100", 1); alt != col {
			if idx, ok := position[alt]; ok {
				indexes[col] = idx
				continue
			}
		}
		indexes[col] = -1
	}
	return indexes
}

func projectRow(record []string, indexes map[string]int, columns []string) map[string]string {
	row := make(map[string]string, len(columns))
	for _, col := range columns {
		idx := indexes[col]
		if idx < 0 || idx >= len(record) {
			row[col] = ""
			continue
		}
		row[col] = strings.TrimSpace(record[idx])
	}
	return row
}

func acceptProduct(row map[string]string) bool {
	if row["code"] == "" || row["product_name"] == "" || row["categories"] == "" {
		return false
	}

	if !validGrades[strings.ToLower(row["nutriscore_grade"])] {
		return false
	}

	hasNutrition := false
	for _, col := range coreNutritionColumns {
		if row[col] != "" {
			hasNutrition = true
			break
		}
	}
	if !hasNutrition {
		return false
	}

	for _, col := range imageColumns {
		if row[col] != "" {
			return true
		}
	}
	return false
}
