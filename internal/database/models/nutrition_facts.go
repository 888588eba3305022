package models

// NutritionFacts holds the per-100g nutrition measurements for a product.
// Every field is optional: absent values stay NULL and are never coerced
// to zero. The dataset carries at most one row per product; the query layer
// aggregates with MAX() on join to keep one row per product either way.
type NutritionFacts struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ProductCode string `json:"product_code" gorm:"index;not null;size:50"`

	EnergyKj100g      *float64 `json:"energy_kj_100g" gorm:"column:energy_kj_100g"`
	EnergyKcal100g    *float64 `json:"energy_kcal_100g" gorm:"column:energy_kcal_100g"`
	Energy100g        *float64 `json:"energy_100g" gorm:"column:energy_100g"`
	EnergyFromFat100g *float64 `json:"energy_from_fat_100g" gorm:"column:energy_from_fat_100g"`

	Fat100g                *float64 `json:"fat_100g" gorm:"column:fat_100g"`
	SaturatedFat100g       *float64 `json:"saturated_fat_100g" gorm:"column:saturated_fat_100g"`
	MonounsaturatedFat100g *float64 `json:"monounsaturated_fat_100g" gorm:"column:monounsaturated_fat_100g"`
	PolyunsaturatedFat100g *float64 `json:"polyunsaturated_fat_100g" gorm:"column:polyunsaturated_fat_100g"`
	TransFat100g           *float64 `json:"trans_fat_100g" gorm:"column:trans_fat_100g"`
	Omega3Fat100g          *float64 `json:"omega_3_fat_100g" gorm:"column:omega_3_fat_100g"`
	Omega6Fat100g          *float64 `json:"omega_6_fat_100g" gorm:"column:omega_6_fat_100g"`
	Cholesterol100g        *float64 `json:"cholesterol_100g" gorm:"column:cholesterol_100g"`

	Carbohydrates100g *float64 `json:"carbohydrates_100g" gorm:"column:carbohydrates_100g"`
	Sugars100g        *float64 `json:"sugars_100g" gorm:"column:sugars_100g"`
	AddedSugars100g   *float64 `json:"added_sugars_100g" gorm:"column:added_sugars_100g"`
	Lactose100g       *float64 `json:"lactose_100g" gorm:"column:lactose_100g"`
	Starch100g        *float64 `json:"starch_100g" gorm:"column:starch_100g"`
	Polyols100g       *float64 `json:"polyols_100g" gorm:"column:polyols_100g"`

	Fiber100g    *float64 `json:"fiber_100g" gorm:"column:fiber_100g"`
	Proteins100g *float64 `json:"proteins_100g" gorm:"column:proteins_100g"`
	Salt100g     *float64 `json:"salt_100g" gorm:"column:salt_100g"`
	Sodium100g   *float64 `json:"sodium_100g" gorm:"column:sodium_100g"`
	Alcohol100g  *float64 `json:"alcohol_100g" gorm:"column:alcohol_100g"`

	VitaminA100g  *float64 `json:"vitamin_a_100g" gorm:"column:vitamin_a_100g"`
	VitaminC100g  *float64 `json:"vitamin_c_100g" gorm:"column:vitamin_c_100g"`
	VitaminD100g  *float64 `json:"vitamin_d_100g" gorm:"column:vitamin_d_100g"`
	VitaminE100g  *float64 `json:"vitamin_e_100g" gorm:"column:vitamin_e_100g"`
	VitaminK100g  *float64 `json:"vitamin_k_100g" gorm:"column:vitamin_k_100g"`
	VitaminB1100g *float64 `json:"vitamin_b1_100g" gorm:"column:vitamin_b1_100g"`
	VitaminB2100g *float64 `json:"vitamin_b2_100g" gorm:"column:vitamin_b2_100g"`
	VitaminB6100g *float64 `json:"vitamin_b6_100g" gorm:"column:vitamin_b6_100g"`
	VitaminB9100g *float64 `json:"vitamin_b9_100g" gorm:"column:vitamin_b9_100g"`
	VitaminB12100g *float64 `json:"vitamin_b12_100g" gorm:"column:vitamin_b12_100g"`

	Potassium100g  *float64 `json:"potassium_100g" gorm:"column:potassium_100g"`
	Calcium100g    *float64 `json:"calcium_100g" gorm:"column:calcium_100g"`
	Phosphorus100g *float64 `json:"phosphorus_100g" gorm:"column:phosphorus_100g"`
	Iron100g       *float64 `json:"iron_100g" gorm:"column:iron_100g"`
	Magnesium100g  *float64 `json:"magnesium_100g" gorm:"column:magnesium_100g"`
	Zinc100g       *float64 `json:"zinc_100g" gorm:"column:zinc_100g"`

	Caffeine100g *float64 `json:"caffeine_100g" gorm:"column:caffeine_100g"`

	FruitsVegetablesNuts100g         *float64 `json:"fruits_vegetables_nuts_100g" gorm:"column:fruits_vegetables_nuts_100g"`
	FruitsVegetablesNutsEstimate100g *float64 `json:"fruits_vegetables_nuts_estimate_100g" gorm:"column:fruits_vegetables_nuts_estimate_100g"`
}

// TableName returns the table name for NutritionFacts
func (NutritionFacts) TableName() string {
	return "nutrition_facts"
}

// IsEmpty reports whether every nutrition value is absent. Empty rows are
// not worth storing and the loader skips them.
func (n *NutritionFacts) IsEmpty() bool {
	fields := []*float64{
		n.EnergyKj100g, n.EnergyKcal100g, n.Energy100g, n.EnergyFromFat100g,
		n.Fat100g, n.SaturatedFat100g, n.MonounsaturatedFat100g, n.PolyunsaturatedFat100g,
		n.TransFat100g, n.Omega3Fat100g, n.Omega6Fat100g, n.Cholesterol100g,
		n.Carbohydrates100g, n.Sugars100g, n.AddedSugars100g, n.Lactose100g,
		n.Starch100g, n.Polyols100g, n.Fiber100g, n.Proteins100g,
		n.Salt100g, n.Sodium100g, n.Alcohol100g,
		n.VitaminA100g, n.VitaminC100g, n.VitaminD100g, n.VitaminE100g,
		n.VitaminK100g, n.VitaminB1100g, n.VitaminB2100g, n.VitaminB6100g,
		n.VitaminB9100g, n.VitaminB12100g,
		n.Potassium100g, n.Calcium100g, n.Phosphorus100g, n.Iron100g,
		n.Magnesium100g, n.Zinc100g, n.Caffeine100g,
		n.FruitsVegetablesNuts100g, n.FruitsVegetablesNutsEstimate100g,
	}
	for _, f := range fields {
		if f != nil {
			return false
		}
	}
	return true
}
