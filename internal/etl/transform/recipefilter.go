package transform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ayfri/ETL-1/internal/etl"
	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/logger"
)

// FilteredRecipe is a raw recipe that passed filtering, with its
// ingredient lines parsed into structured entries.
type FilteredRecipe struct {
	etl.RawRecipe
	ParsedIngredients []ParsedIngredient `json:"parsed_ingredients"`
}

// FilterRecipes reads the raw scraped recipe dump, keeps recipes with a
// non-empty name and at least one parseable ingredient line, and writes
// the kept recipes with their parsed ingredients to the output JSON
// file. Duplicate URLs keep the first occurrence.
func FilterRecipes(inputPath, outputPath string) (*FilterReport, error) {
	log := logger.ForComponent("transform")

	data, err := os.ReadFile(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrRawFileMissing
		}
		return nil, fmt.Errorf("read raw recipes: %w", err)
	}

	var raw []etl.RawRecipe
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode raw recipes: %w", err)
	}

	report := &FilterReport{}
	seen := make(map[string]bool, len(raw))
	kept := make([]FilteredRecipe, 0, len(raw))

	for _, recipe := range raw {
		report.Read++

		url := strings.TrimSpace(recipe.URL)
		if url != "" && seen[url] {
			report.Dropped++
			continue
		}

		filtered, ok := filterRecipe(recipe)
		if !ok {
			report.Dropped++
			continue
		}
		if url != "" {
			seen[url] = true
		}
		kept = append(kept, filtered)
		report.Kept++
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	encoded, err := json.MarshalIndent(kept, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode filtered recipes: %w", err)
	}
	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		return nil, fmt.Errorf("write filtered recipes: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"read": report.Read, "kept": report.Kept, "dropped": report.Dropped,
	}).Info("recipe filtering finished")

	return report, nil
}

func filterRecipe(recipe etl.RawRecipe) (FilteredRecipe, bool) {
	recipe.Name = strings.TrimSpace(recipe.Name)
	if recipe.Name == "" {
		return FilteredRecipe{}, false
	}

	parsed := make([]ParsedIngredient, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parsed = append(parsed, ParseIngredient(line))
	}
	if len(parsed) == 0 {
		return FilteredRecipe{}, false
	}

	return FilteredRecipe{RawRecipe: recipe, ParsedIngredients: parsed}, true
}
