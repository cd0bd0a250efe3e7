package models

import (
	"time"

	"github.com/platewise/platewise/pkg/types"
	"gorm.io/datatypes"
)

// NutritionFacts is the per-serving nutrition payload stored as jsonb.
type NutritionFacts struct {
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type Recipe struct {
	ID            string                             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title         string                             `gorm:"column:title;type:varchar(255);not null;index" json:"title"`
	Description   string                             `gorm:"column:description;type:text" json:"description"`
	Category      types.RecipeCategory               `gorm:"column:category;type:varchar(32);not null;index" json:"category"`
	PrepMinutes   int                                `gorm:"column:prep_minutes;not null" json:"prep_minutes"`
	CookMinutes   int                                `gorm:"column:cook_minutes;not null" json:"cook_minutes"`
	Servings      int                                `gorm:"column:servings;not null;default:1" json:"servings"`
	ImageURL      string                             `gorm:"column:image_url;type:varchar(512)" json:"image_url"`
	Nutrition     datatypes.JSONType[NutritionFacts] `gorm:"column:nutrition;type:jsonb" json:"nutrition"`
	Ingredients   datatypes.JSONType[[]Ingredient]   `gorm:"column:ingredients;type:jsonb" json:"ingredients"`
	Steps         datatypes.JSONType[[]string]       `gorm:"column:steps;type:jsonb" json:"steps"`
	CreatedBy     string                             `gorm:"column:created_by;type:uuid;not null;index" json:"created_by"`
	AverageRating float64                            `gorm:"column:average_rating;not null;default:0" json:"average_rating"`
	ReviewCount   int64                              `gorm:"column:review_count;not null;default:0" json:"review_count"`
	CreatedAt     time.Time                          `json:"created_at"`
	UpdatedAt     time.Time                          `json:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}
