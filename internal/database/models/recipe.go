package models

import (
	"time"

	"gorm.io/datatypes"
)

// Recipe represents a Marmiton recipe. Rows come either from the scraper
// through the loader or from a direct API submission. Only the name is
// mandatory for API submissions; scraped rows always carry a unique URL.
type Recipe struct {
	ID  uint    `json:"id" gorm:"primaryKey"`
	URL *string `json:"url" gorm:"uniqueIndex;size:500"`

	Name string `json:"name" gorm:"not null;index" validate:"required,min=1,max=300"`

	Rate       *float64 `json:"rate"`
	NbComments *int     `json:"nb_comments"`

	// Free-text labels from the source site, not normalized to numeric units
	Difficulty     string `json:"difficulty" gorm:"index;size:100"`
	Budget         string `json:"budget" gorm:"index;size:100"`
	PrepTime       string `json:"prep_time" gorm:"size:50"`
	CookTime       string `json:"cook_time" gorm:"size:50"`
	TotalTime      string `json:"total_time" gorm:"size:50"`
	RecipeQuantity string `json:"recipe_quantity" gorm:"size:100"`

	// IngredientsRaw keeps the pipe-separated scraped lines for display;
	// Ingredients holds the parsed (quantity, unit, name) tuples as JSON.
	IngredientsRaw string         `json:"ingredients_raw"`
	Ingredients    datatypes.JSON `json:"ingredients"`
	Steps          datatypes.JSON `json:"steps"`
	Images         datatypes.JSON `json:"images"`

	AuthorTip   string `json:"author_tip"`
	Description string `json:"description"`
	Source      string `json:"source" gorm:"size:50"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	RecipeIngredients []RecipeIngredient `json:"recipe_ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Recipe
func (Recipe) TableName() string {
	return "recipes"
}

// Ingredient is a canonical ingredient name, unique case-insensitively.
// Rows are created lazily while parsing recipe ingredient lines; the
// first-seen casing is kept for display.
type Ingredient struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"type:TEXT COLLATE NOCASE;uniqueIndex;not null" validate:"required"`
	ImageURL string `json:"image_url" gorm:"size:500"`
	Source   string `json:"source" gorm:"size:50"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	RecipeIngredients []RecipeIngredient `json:"recipe_ingredients,omitempty" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Ingredient
func (Ingredient) TableName() string {
	return "ingredients"
}

// RecipeIngredient joins a recipe to an ingredient with the parsed quantity
// and unit for that usage. A recipe references an ingredient at most once.
type RecipeIngredient struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	RecipeID     uint   `json:"recipe_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint   `json:"ingredient_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Quantity     string `json:"quantity" gorm:"size:50"`
	Unit         string `json:"unit" gorm:"size:100"`
	RawText      string `json:"raw_text"`
}

// TableName returns the table name for RecipeIngredient
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
