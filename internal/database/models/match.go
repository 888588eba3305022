package models

import "time"

// MatchMethod tags how a product/ingredient association was established
type MatchMethod string

const (
	MatchMethodExact   MatchMethod = "exact"
	MatchMethodPartial MatchMethod = "partial"
	MatchMethodFuzzy   MatchMethod = "fuzzy"
	MatchMethodManual  MatchMethod = "manual"
)

// ProductIngredientMatch records a fuzzy association between a product and
// a canonical ingredient. The table is a cache: it can be dropped and fully
// rebuilt from products + ingredients.
type ProductIngredientMatch struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	ProductCode  string      `json:"product_code" gorm:"not null;size:50;uniqueIndex:idx_product_ingredient"`
	IngredientID uint        `json:"ingredient_id" gorm:"not null;uniqueIndex:idx_product_ingredient"`
	MatchScore   float64     `json:"match_score"`
	MatchMethod  MatchMethod `json:"match_method" gorm:"size:20"`

	// Relationships
	Ingredient Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for ProductIngredientMatch
func (ProductIngredientMatch) TableName() string {
	return "product_ingredient_matches"
}

// IngredientMapping links an OpenFoodFacts ingredient tag to a canonical
// ingredient row. Derived data, rebuilt by the matching pass.
type IngredientMapping struct {
	ID               uint        `json:"id" gorm:"primaryKey"`
	OffIngredientTag string      `json:"off_ingredient_tag" gorm:"uniqueIndex;not null;size:200"`
	IngredientID     uint        `json:"ingredient_id" gorm:"not null"`
	MatchType        MatchMethod `json:"match_type" gorm:"size:20"`
	Confidence       float64     `json:"confidence"`
	IsActive         bool        `json:"is_active" gorm:"default:true"`

	// Relationships
	Ingredient Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for IngredientMapping
func (IngredientMapping) TableName() string {
	return "ingredient_mappings"
}

// ProductMarmitonUsable is the per-product match summary, precomputed so
// request-time queries never re-run the fuzzy join.
type ProductMarmitonUsable struct {
	ProductCode              string    `json:"product_code" gorm:"primaryKey;size:50"`
	MatchingIngredientsCount int       `json:"matching_ingredients_count"`
	TotalIngredientsCount    int       `json:"total_ingredients_count"`
	MatchPercentage          float64   `json:"match_percentage"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// TableName returns the table name for ProductMarmitonUsable
func (ProductMarmitonUsable) TableName() string {
	return "products_marmiton_usable"
}
