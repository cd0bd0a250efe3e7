package types

type UserRole string

const (
	UserRoleUser         UserRole = "user"
	UserRoleNutritionist UserRole = "nutritionist"
	UserRoleAdmin        UserRole = "admin"
)

type RecipeCategory string

const (
	RecipeCategoryBreakfast RecipeCategory = "breakfast"
	RecipeCategoryLunch     RecipeCategory = "lunch"
	RecipeCategoryDinner    RecipeCategory = "dinner"
	RecipeCategorySnack     RecipeCategory = "snack"
	RecipeCategoryDessert   RecipeCategory = "dessert"
)
