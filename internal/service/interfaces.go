package service

// FoodServiceInterface defines the interface for food service operations
type FoodServiceInterface interface {
	ListFoods(params FoodListParams) (*FoodListResponse, error)
	GetFood(code string) (*FoodDetailResponse, error)
	GetFoodRecipes(code string) (*FoodRecipesResponse, error)
}

// RecipeServiceInterface defines the interface for recipe service operations
type RecipeServiceInterface interface {
	ListRecipes(params RecipeListParams) (*RecipeListResponse, error)
	GetRecipe(id uint) (*RecipeResponse, error)
	CreateRecipe(req *CreateRecipeRequest) (*RecipeResponse, error)
}

// IngredientServiceInterface defines the interface for ingredient service operations
type IngredientServiceInterface interface {
	ListIngredients(params IngredientListParams) (*IngredientListResponse, error)
	GetIngredient(id uint) (*IngredientResponse, error)
}
