package models

// NutriScoreGrade represents the A-E letter grade summarizing nutritional quality
type NutriScoreGrade string

const (
	NutriScoreA NutriScoreGrade = "a"
	NutriScoreB NutriScoreGrade = "b"
	NutriScoreC NutriScoreGrade = "c"
	NutriScoreD NutriScoreGrade = "d"
	NutriScoreE NutriScoreGrade = "e"
)

// IsValid reports whether the grade is one of the five known letters
func (g NutriScoreGrade) IsValid() bool {
	switch g {
	case NutriScoreA, NutriScoreB, NutriScoreC, NutriScoreD, NutriScoreE:
		return true
	}
	return false
}

// Product represents an OpenFoodFacts product, keyed by its barcode.
// Rows are written once by the loader and read-only afterwards.
type Product struct {
	Code string `json:"code" gorm:"primaryKey;size:50"`

	ProductName string `json:"product_name" gorm:"index"`
	GenericName string `json:"generic_name"`
	Brands      string `json:"brands" gorm:"index"`
	BrandsTags  string `json:"brands_tags"`
	Quantity    string `json:"quantity"`
	Packaging   string `json:"packaging"`

	Categories     string `json:"categories"`
	CategoriesTags string `json:"categories_tags"`
	CategoriesEn   string `json:"categories_en" gorm:"index"`
	MainCategory   string `json:"main_category"`
	MainCategoryEn string `json:"main_category_en"`

	Origins     string `json:"origins"`
	Countries   string `json:"countries"`
	CountriesEn string `json:"countries_en"`
	Labels      string `json:"labels"`
	LabelsEn    string `json:"labels_en"`
	Stores      string `json:"stores"`

	IngredientsText         string `json:"ingredients_text"`
	IngredientsTags         string `json:"ingredients_tags"`
	IngredientsAnalysisTags string `json:"ingredients_analysis_tags"`
	Allergens               string `json:"allergens"`
	Traces                  string `json:"traces"`

	ServingSize     string   `json:"serving_size"`
	ServingQuantity *float64 `json:"serving_quantity"`
	AdditivesN      *int     `json:"additives_n"`
	AdditivesTags   string   `json:"additives_tags"`

	NutriscoreScore         *float64 `json:"nutriscore_score"`
	NutriscoreGrade         *string  `json:"nutriscore_grade" gorm:"index;size:1"`
	NovaGroup               *int     `json:"nova_group" gorm:"index"`
	EnvironmentalScoreScore *float64 `json:"environmental_score_score"`
	EnvironmentalScoreGrade *string  `json:"environmental_score_grade" gorm:"size:10"`
	NutrientLevelsTags      string   `json:"nutrient_levels_tags"`

	PnnsGroups1  string `json:"pnns_groups_1"`
	PnnsGroups2  string `json:"pnns_groups_2"`
	FoodGroupsEn string `json:"food_groups_en"`
	StatesTags   string `json:"states_tags"`

	Completeness *float64 `json:"completeness" gorm:"index"`
	UniqueScansN *int     `json:"unique_scans_n"`

	ImageURL            string `json:"image_url"`
	ImageSmallURL       string `json:"image_small_url"`
	ImageIngredientsURL string `json:"image_ingredients_url"`
	ImageNutritionURL   string `json:"image_nutrition_url"`

	URL     string `json:"url"`
	Creator string `json:"creator"`

	CreatedDatetime      string `json:"created_datetime"`
	LastModifiedDatetime string `json:"last_modified_datetime"`

	// Relationships
	NutritionFacts []NutritionFacts         `json:"nutrition_facts,omitempty" gorm:"foreignKey:ProductCode;references:Code;constraint:OnDelete:CASCADE"`
	Matches        []ProductIngredientMatch `json:"matches,omitempty" gorm:"foreignKey:ProductCode;references:Code;constraint:OnDelete:CASCADE"`
	Usable         *ProductMarmitonUsable   `json:"usable,omitempty" gorm:"foreignKey:ProductCode;references:Code;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Product
func (Product) TableName() string {
	return "products"
}

// HasImage reports whether at least one image URL field is populated
func (p *Product) HasImage() bool {
	return p.ImageURL != "" || p.ImageSmallURL != "" || p.ImageIngredientsURL != "" || p.ImageNutritionURL != ""
}
