// Package load writes the filtered datasets into the SQLite database.
// Loads are idempotent: products upsert by barcode with last write
// winning, recipes upsert by URL, ingredients are created once per
// case-insensitive name.
package load

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ayfri/ETL-1/internal/database/models"
	"github.com/Ayfri/ETL-1/internal/etl"
	"github.com/Ayfri/ETL-1/internal/etl/transform"
	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/logger"
)

const batchSize = 500

// Report tallies one load run. Skipped counts rows dropped for missing
// mandatory fields; they are never partially inserted.
type Report struct {
	Products    int `json:"products"`
	Nutrition   int `json:"nutrition"`
	Recipes     int `json:"recipes"`
	Ingredients int `json:"ingredients"`
	Links       int `json:"links"`
	Skipped     int `json:"skipped"`
}

type Loader struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLoader(db *gorm.DB) *Loader {
	return &Loader{db: db, log: logger.ForComponent("load")}
}

// LoadProducts reads the filtered product CSV and upserts products and
// their nutrition rows. A product appearing twice keeps the values of
// the last row. Nutrition rows with no values at all are skipped.
func (l *Loader) LoadProducts(ctx context.Context, csvPath string) (*Report, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrRawFileMissing
		}
		return nil, fmt.Errorf("open filtered products: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.ErrEmptyCSV
	}
	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[col] = i
	}

	report := &Report{}
	var products []models.Product
	var nutrition []models.NutritionFacts
	codes := make(map[string]bool)

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			continue
		}

		row := rowReader{columns: columns, record: record}
		product := productFromRow(row)
		if product.Code == "" || product.ProductName == "" {
			report.Skipped++
			continue
		}

		products = append(products, product)
		codes[product.Code] = true

		facts := nutritionFromRow(row, product.Code)
		if !facts.IsEmpty() {
			nutrition = append(nutrition, facts)
		}
	}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(products) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				UpdateAll: true,
			}).CreateInBatches(products, batchSize).Error; err != nil {
				return fmt.Errorf("upsert products: %w", err)
			}
		}

		codeList := make([]string, 0, len(codes))
		for code := range codes {
			codeList = append(codeList, code)
		}
		if len(codeList) > 0 {
			if err := tx.Where("product_code IN ?", codeList).
				Delete(&models.NutritionFacts{}).Error; err != nil {
				return fmt.Errorf("clear nutrition rows: %w", err)
			}
		}
		if len(nutrition) > 0 {
			if err := tx.CreateInBatches(nutrition, batchSize).Error; err != nil {
				return fmt.Errorf("insert nutrition rows: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	report.Products = len(products)
	report.Nutrition = len(nutrition)
	l.log.WithFields(logrus.Fields{
		"products": report.Products, "nutrition": report.Nutrition, "skipped": report.Skipped,
	}).Info("products loaded")
	return report, nil
}

// LoadIngredients inserts the scraped ingredient index, creating each
// case-insensitive name once and keeping the first-seen casing.
func (l *Loader) LoadIngredients(ctx context.Context, jsonPath string) (*Report, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrRawFileMissing
		}
		return nil, fmt.Errorf("read ingredient index: %w", err)
	}

	var raw []etl.RawIngredient
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode ingredient index: %w", err)
	}

	report := &Report{}
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range raw {
			name := strings.TrimSpace(entry.Name)
			if name == "" {
				report.Skipped++
				continue
			}
			ingredient, created, err := getOrCreateIngredient(tx, name, entry.ImageURL, "marmiton")
			if err != nil {
				return err
			}
			if created {
				report.Ingredients++
			} else if entry.ImageURL != "" && ingredient.ImageURL == "" {
				if err := tx.Model(ingredient).Update("image_url", entry.ImageURL).Error; err != nil {
					return fmt.Errorf("backfill ingredient image: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	l.log.WithFields(logrus.Fields{
		"created": report.Ingredients, "skipped": report.Skipped,
	}).Info("ingredient index loaded")
	return report, nil
}

// LoadRecipes upserts the filtered recipes by URL, creates any missing
// ingredients referenced by their parsed lines, and links each recipe to
// its ingredients with the parsed quantity and unit.
func (l *Loader) LoadRecipes(ctx context.Context, jsonPath string) (*Report, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrRawFileMissing
		}
		return nil, fmt.Errorf("read filtered recipes: %w", err)
	}

	var filtered []transform.FilteredRecipe
	if err := json.Unmarshal(data, &filtered); err != nil {
		return nil, fmt.Errorf("decode filtered recipes: %w", err)
	}

	report := &Report{}
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range filtered {
			if strings.TrimSpace(entry.Name) == "" || len(entry.ParsedIngredients) == 0 {
				report.Skipped++
				continue
			}
			if err := l.loadRecipe(tx, entry, report); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	l.log.WithFields(logrus.Fields{
		"recipes": report.Recipes, "ingredients": report.Ingredients,
		"links": report.Links, "skipped": report.Skipped,
	}).Info("recipes loaded")
	return report, nil
}

func (l *Loader) loadRecipe(tx *gorm.DB, entry transform.FilteredRecipe, report *Report) error {
	recipe, err := buildRecipe(entry)
	if err != nil {
		return err
	}

	if recipe.URL != nil {
		var existing models.Recipe
		err := tx.Where("url = ?", *recipe.URL).First(&existing).Error
		switch {
		case err == nil:
			recipe.ID = existing.ID
			recipe.CreatedAt = existing.CreatedAt
			if err := tx.Save(&recipe).Error; err != nil {
				return fmt.Errorf("update recipe: %w", err)
			}
		case err == gorm.ErrRecordNotFound:
			if err := tx.Create(&recipe).Error; err != nil {
				return fmt.Errorf("create recipe: %w", err)
			}
		default:
			return fmt.Errorf("lookup recipe by url: %w", err)
		}
	} else {
		if err := tx.Create(&recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
	}
	report.Recipes++

	for _, parsed := range entry.ParsedIngredients {
		name := transform.NormalizeName(parsed.Name)
		if name == "" {
			continue
		}
		ingredient, created, err := getOrCreateIngredient(tx, name, "", "marmiton")
		if err != nil {
			return err
		}
		if created {
			report.Ingredients++
		}

		link := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredient.ID,
			Quantity:     parsed.Quantity,
			Unit:         parsed.Unit,
			RawText:      parsed.Raw,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link)
		if result.Error != nil {
			return fmt.Errorf("link recipe ingredient: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			report.Links++
		}
	}
	return nil
}

func buildRecipe(entry transform.FilteredRecipe) (models.Recipe, error) {
	recipe := models.Recipe{
		Name:           strings.TrimSpace(entry.Name),
		Difficulty:     entry.Difficulty,
		Budget:         entry.Budget,
		PrepTime:       entry.PrepTime,
		CookTime:       entry.CookTime,
		TotalTime:      entry.TotalTime,
		RecipeQuantity: entry.RecipeQuantity,
		IngredientsRaw: strings.Join(entry.Ingredients, " | "),
		AuthorTip:      entry.AuthorTip,
		Description:    entry.Description,
		Source:         "marmiton",
	}

	if url := strings.TrimSpace(entry.URL); url != "" {
		recipe.URL = &url
	}
	recipe.Rate = parseFloat(entry.Rate)
	recipe.NbComments = parseInt(entry.NbComments)

	var err error
	if recipe.Ingredients, err = json.Marshal(entry.ParsedIngredients); err != nil {
		return recipe, fmt.Errorf("encode ingredients: %w", err)
	}
	if recipe.Steps, err = json.Marshal(emptySlice(entry.Steps)); err != nil {
		return recipe, fmt.Errorf("encode steps: %w", err)
	}
	if recipe.Images, err = json.Marshal(emptySlice(entry.Images)); err != nil {
		return recipe, fmt.Errorf("encode images: %w", err)
	}
	return recipe, nil
}

// getOrCreateIngredient finds an ingredient by case-insensitive name or
// creates it. The boolean reports whether a row was created.
func getOrCreateIngredient(tx *gorm.DB, name, imageURL, source string) (*models.Ingredient, bool, error) {
	var ingredient models.Ingredient
	err := tx.Where("name = ? COLLATE NOCASE", name).First(&ingredient).Error
	if err == nil {
		return &ingredient, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, fmt.Errorf("lookup ingredient: %w", err)
	}

	ingredient = models.Ingredient{Name: name, ImageURL: imageURL, Source: source}
	if err := tx.Create(&ingredient).Error; err != nil {
		return nil, false, fmt.Errorf("create ingredient: %w", err)
	}
	return &ingredient, true, nil
}

func emptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type rowReader struct {
	columns map[string]int
	record  []string
}

func (r rowReader) str(col string) string {
	idx, ok := r.columns[col]
	if !ok || idx >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[idx])
}

func (r rowReader) float(col string) *float64 {
	return parseFloat(r.str(col))
}

func (r rowReader) int(col string) *int {
	return parseInt(r.str(col))
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// integers sometimes arrive as "4.0"
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		v := int(f)
		return &v
	}
	return nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func productFromRow(row rowReader) models.Product {
	return models.Product{
		Code:        row.str("code"),
		ProductName: row.str("product_name"),
		GenericName: row.str("generic_name"),
		Brands:      row.str("brands"),
		BrandsTags:  row.str("brands_tags"),
		Quantity:    row.str("quantity"),
		Packaging:   row.str("packaging"),

		Categories:     row.str("categories"),
		CategoriesTags: row.str("categories_tags"),
		CategoriesEn:   row.str("categories_en"),
		MainCategory:   row.str("main_category"),
		MainCategoryEn: row.str("main_category_en"),

		Origins:     row.str("origins"),
		Countries:   row.str("countries"),
		CountriesEn: row.str("countries_en"),
		Labels:      row.str("labels"),
		LabelsEn:    row.str("labels_en"),
		Stores:      row.str("stores"),

		IngredientsText:         row.str("ingredients_text"),
		IngredientsTags:         row.str("ingredients_tags"),
		IngredientsAnalysisTags: row.str("ingredients_analysis_tags"),
		Allergens:               row.str("allergens"),
		Traces:                  row.str("traces"),

		ServingSize:     row.str("serving_size"),
		ServingQuantity: row.float("serving_quantity"),
		AdditivesN:      row.int("additives_n"),
		AdditivesTags:   row.str("additives_tags"),

		NutriscoreScore:         row.float("nutriscore_score"),
		NutriscoreGrade:         strPtr(strings.ToLower(row.str("nutriscore_grade"))),
		NovaGroup:               row.int("nova_group"),
		EnvironmentalScoreScore: row.float("environmental_score_score"),
		EnvironmentalScoreGrade: strPtr(row.str("environmental_score_grade")),
		NutrientLevelsTags:      row.str("nutrient_levels_tags"),

		PnnsGroups1:  row.str("pnns_groups_1"),
		PnnsGroups2:  row.str("pnns_groups_2"),
		FoodGroupsEn: row.str("food_groups_en"),
		StatesTags:   row.str("states_tags"),

		Completeness: row.float("completeness"),
		UniqueScansN: row.int("unique_scans_n"),

		ImageURL:            row.str("image_url"),
		ImageSmallURL:       row.str("image_small_url"),
		ImageIngredientsURL: row.str("image_ingredients_url"),
		ImageNutritionURL:   row.str("image_nutrition_url"),

		URL:     row.str("url"),
		Creator: row.str("creator"),

		CreatedDatetime:      row.str("created_datetime"),
		LastModifiedDatetime: row.str("last_modified_datetime"),
	}
}

func nutritionFromRow(row rowReader, code string) models.NutritionFacts {
	return models.NutritionFacts{
		ProductCode: code,

		EnergyKj100g:      row.float("energy-kj_100g"),
		EnergyKcal100g:    row.float("energy-kcal_100g"),
		Energy100g:        row.float("energy_100g"),
		EnergyFromFat100g: row.float("energy-from-fat_100g"),

		Fat100g:                row.float("fat_100g"),
		SaturatedFat100g:       row.float("saturated-fat_100g"),
		MonounsaturatedFat100g: row.float("monounsaturated-fat_100g"),
		PolyunsaturatedFat100g: row.float("polyunsaturated-fat_100g"),
		TransFat100g:           row.float("trans-fat_100g"),
		Omega3Fat100g:          row.float("omega-3-fat_100g"),
		Omega6Fat100g:          row.float("omega-6-fat_100g"),
		Cholesterol100g:        row.float("cholesterol_100g"),

		Carbohydrates100g: row.float("carbohydrates_100g"),
		Sugars100g:        row.float("sugars_100g"),
		AddedSugars100g:   row.float("added-sugars_100g"),
		Lactose100g:       row.float("lactose_100g"),
		Starch100g:        row.float("starch_100g"),
		Polyols100g:       row.float("polyols_100g"),

		Fiber100g:    row.float("fiber_100g"),
		Proteins100g: row.float("proteins_100g"),
		Salt100g:     row.float("salt_100g"),
		Sodium100g:   row.float("sodium_100g"),
		Alcohol100g:  row.float("alcohol_100g"),

		VitaminA100g:   row.float("vitamin-a_100g"),
		VitaminC100g:   row.float("vitamin-c_100g"),
		VitaminD100g:   row.float("vitamin-d_100g"),
		VitaminE100g:   row.float("vitamin-e_100g"),
		VitaminK100g:   row.float("vitamin-k_100g"),
		VitaminB1100g:  row.float("vitamin-b1_100g"),
		VitaminB2100g:  row.float("vitamin-b2_100g"),
		VitaminB6100g:  row.float("vitamin-b6_100g"),
		VitaminB9100g:  row.float("vitamin-b9_100g"),
		VitaminB12100g: row.float("vitamin-b12_100g"),

		Potassium100g:  row.float("potassium_100g"),
		Calcium100g:    row.float("calcium_100g"),
		Phosphorus100g: row.float("phosphorus_100g"),
		Iron100g:       row.float("iron_100g"),
		Magnesium100g:  row.float("magnesium_100g"),
		Zinc100g:       row.float("zinc_100g"),
		Caffeine100g:   row.float("caffeine_100g"),

		FruitsVegetablesNuts100g:         row.float("fruits-vegetables-nuts_100g"),
		FruitsVegetablesNutsEstimate100g: row.float("fruits-vegetables-nuts-estimate_100g"),
	}
}
