package models

import "time"

// RecipeReview holds one user's rating of a recipe. A user reviews a recipe
// at most once; re-submitting replaces the previous row.
type RecipeReview struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RecipeID  string    `gorm:"column:recipe_id;type:uuid;not null;uniqueIndex:idx_recipe_reviewer,priority:1" json:"recipe_id"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_recipe_reviewer,priority:2" json:"user_id"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Comment   string    `gorm:"column:comment;type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RecipeReview) TableName() string {
	return "recipe_reviews"
}
