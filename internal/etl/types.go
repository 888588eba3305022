// Package etl holds the shared wire types passed between the pipeline
// stages through the raw and processed data directories.
package etl

// RawRecipe is a scraped Marmiton recipe before filtering, as stored in
// the raw JSON dump.
type RawRecipe struct {
	URL            string   `json:"url"`
	Name           string   `json:"name"`
	Rate           string   `json:"rate"`
	NbComments     string   `json:"nb_comments"`
	Difficulty     string   `json:"difficulty"`
	Budget         string   `json:"budget"`
	PrepTime       string   `json:"prep_time"`
	CookTime       string   `json:"cook_time"`
	TotalTime      string   `json:"total_time"`
	RecipeQuantity string   `json:"recipe_quantity"`
	Ingredients    []string `json:"ingredients"`
	Steps          []string `json:"steps"`
	Images         []string `json:"images"`
	AuthorTip      string   `json:"author_tip"`
	Description    string   `json:"description"`
}

// RawIngredient is an entry scraped from the Marmiton ingredient index.
type RawIngredient struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}
