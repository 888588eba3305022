// Package verify runs data-quality checks over the loaded database.
// Checks never mutate data: structural breakage is reported as an error,
// suspicious values as warnings.
package verify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Ayfri/ETL-1/internal/logger"
)

// Result collects the outcome of a verification run.
type Result struct {
	Passed   []string `json:"passed"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// OK reports whether no structural errors were found. Warnings do not
// fail a run.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

type Verifier struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVerifier(db *gorm.DB) *Verifier {
	return &Verifier{db: db, log: logger.ForComponent("verify")}
}

type countCheck struct {
	name    string
	query   string
	failure string
	// fatal checks append to Errors, others to Warnings
	fatal bool
}

var checks = []countCheck{
	{
		name:    "duplicate product codes",
		query:   "SELECT COUNT(*) FROM (SELECT code FROM products GROUP BY code HAVING COUNT(*) > 1)",
		failure: "%d duplicate product codes",
		fatal:   true,
	},
	{
		name:    "duplicate recipe urls",
		query:   "SELECT COUNT(*) FROM (SELECT url FROM recipes WHERE url IS NOT NULL AND url != '' GROUP BY url HAVING COUNT(*) > 1)",
		failure: "%d duplicate recipe URLs",
		fatal:   true,
	},
	{
		name:    "duplicate ingredient names",
		query:   "SELECT COUNT(*) FROM (SELECT name FROM ingredients GROUP BY name COLLATE NOCASE HAVING COUNT(*) > 1)",
		failure: "%d duplicate ingredient names",
		fatal:   true,
	},
	{
		name:    "nutrition referential integrity",
		query:   "SELECT COUNT(*) FROM nutrition_facts n LEFT JOIN products p ON n.product_code = p.code WHERE p.code IS NULL",
		failure: "%d nutrition rows reference missing products",
		fatal:   true,
	},
	{
		name:    "recipe ingredient referential integrity",
		query:   "SELECT COUNT(*) FROM recipe_ingredients ri LEFT JOIN recipes r ON ri.recipe_id = r.id LEFT JOIN ingredients i ON ri.ingredient_id = i.id WHERE r.id IS NULL OR i.id IS NULL",
		failure: "%d recipe links reference missing recipes or ingredients",
		fatal:   true,
	},
	{
		name:    "missing product names",
		query:   "SELECT COUNT(*) FROM products WHERE product_name IS NULL OR product_name = ''",
		failure: "%d products without a name",
	},
	{
		name:    "missing recipe names",
		query:   "SELECT COUNT(*) FROM recipes WHERE name IS NULL OR name = ''",
		failure: "%d recipes without a name",
	},
	{
		name:    "missing recipe urls",
		query:   "SELECT COUNT(*) FROM recipes WHERE source = 'marmiton' AND (url IS NULL OR url = '')",
		failure: "%d scraped recipes without a source URL",
	},
	{
		name:    "missing ingredient names",
		query:   "SELECT COUNT(*) FROM ingredients WHERE name IS NULL OR name = ''",
		failure: "%d ingredients without a name",
	},
	{
		name:    "nutriscore range",
		query:   "SELECT COUNT(*) FROM products WHERE nutriscore_score < -15 OR nutriscore_score > 40",
		failure: "%d Nutri-Score values outside -15..40",
	},
	{
		name:    "nova range",
		query:   "SELECT COUNT(*) FROM products WHERE nova_group IS NOT NULL AND nova_group NOT IN (1, 2, 3, 4)",
		failure: "%d NOVA groups outside 1..4",
	},
	{
		name:    "energy range",
		query:   "SELECT COUNT(*) FROM nutrition_facts WHERE energy_kcal_100g < 0 OR energy_kcal_100g > 900",
		failure: "%d energy values outside 0..900 kcal/100g",
	},
	{
		name:    "protein range",
		query:   "SELECT COUNT(*) FROM nutrition_facts WHERE proteins_100g < 0 OR proteins_100g > 100",
		failure: "%d protein values outside 0..100 g/100g",
	},
	{
		name:    "fat range",
		query:   "SELECT COUNT(*) FROM nutrition_facts WHERE fat_100g < 0 OR fat_100g > 100",
		failure: "%d fat values outside 0..100 g/100g",
	},
	{
		name:    "carbohydrate range",
		query:   "SELECT COUNT(*) FROM nutrition_facts WHERE carbohydrates_100g < 0 OR carbohydrates_100g > 100",
		failure: "%d carbohydrate values outside 0..100 g/100g",
	},
	{
		name:    "saturated fat consistency",
		query:   "SELECT COUNT(*) FROM nutrition_facts WHERE saturated_fat_100g > fat_100g",
		failure: "%d rows with saturated fat above total fat",
	},
	{
		name:    "sugar consistency",
		query:   "SELECT COUNT(*) FROM nutrition_facts WHERE sugars_100g > carbohydrates_100g",
		failure: "%d rows with sugars above total carbohydrates",
	},
	{
		name:    "recipe rating range",
		query:   "SELECT COUNT(*) FROM recipes WHERE rate < 0 OR rate > 5",
		failure: "%d recipe ratings outside 0..5",
	},
	{
		name:    "match score range",
		query:   "SELECT COUNT(*) FROM product_ingredient_matches WHERE match_score < 0 OR match_score > 1",
		failure: "%d match scores outside 0..1",
		fatal:   true,
	},
	{
		name:    "match percentage range",
		query:   "SELECT COUNT(*) FROM products_marmiton_usable WHERE match_percentage < 0 OR match_percentage > 1",
		failure: "%d match percentages outside 0..1",
		fatal:   true,
	},
}

// Run executes every check and returns the aggregated result. The run
// only errors when a query itself fails.
func (v *Verifier) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var count int64
		if err := v.db.WithContext(ctx).Raw(check.query).Scan(&count).Error; err != nil {
			return result, fmt.Errorf("check %s: %w", check.name, err)
		}

		if count == 0 {
			result.Passed = append(result.Passed, check.name)
			continue
		}
		message := fmt.Sprintf(check.failure, count)
		if check.fatal {
			result.Errors = append(result.Errors, message)
		} else {
			result.Warnings = append(result.Warnings, message)
		}
	}

	v.log.WithFields(logrus.Fields{
		"passed": len(result.Passed), "warnings": len(result.Warnings), "errors": len(result.Errors),
	}).Info("verification finished")
	return result, nil
}
