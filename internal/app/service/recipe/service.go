package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	models "github.com/platewise/platewise/internal/models"
	"github.com/platewise/platewise/pkg/logctx"
	"github.com/platewise/platewise/pkg/tool"
	types "github.com/platewise/platewise/pkg/types"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrNotOwner       = errors.New("recipe belongs to another author")
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// ListFilter narrows the recipe listing. Zero values mean "no constraint".
type ListFilter struct {
	Category    types.RecipeCategory `json:"category" form:"category"`
	MaxCalories int                  `json:"max_calories" form:"max_calories"`
	MaxMinutes  int                  `json:"max_minutes" form:"max_minutes"`
	Search      string               `json:"search" form:"search"`
	CreatedBy   string               `json:"created_by" form:"created_by"`
	From        int                  `json:"from" form:"from"`
	Size        int                  `json:"size" form:"size"`
}

type ListResult struct {
	Items []*models.Recipe `json:"items"`
	Total int64            `json:"total"`
}

func (s *Service) List(ctx context.Context, f *ListFilter) (*ListResult, error) {
	if f == nil {
		f = &ListFilter{}
	}
	if f.Size <= 0 || f.Size > 100 {
		f.Size = 20
	}
	if f.From < 0 {
		f.From = 0
	}

	q := s.db.WithContext(ctx).Model(&models.Recipe{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MaxCalories > 0 {
		q = q.Where("(nutrition->>'calories')::int <= ?", f.MaxCalories)
	}
	if f.MaxMinutes > 0 {
		q = q.Where("prep_minutes + cook_minutes <= ?", f.MaxMinutes)
	}
	if f.Search != "" {
		q = q.Where("title ILIKE ?", "%"+strings.TrimSpace(f.Search)+"%")
	}
	if f.CreatedBy != "" {
		q = q.Where("created_by = ?", f.CreatedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	var items []*models.Recipe
	if err := q.Order("created_at desc").Offset(f.From).Limit(f.Size).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return &ListResult{Items: items, Total: total}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Recipe, error) {
	var r models.Recipe
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %s: %w", id, err)
	}
	return &r, nil
}

// Create persists a new recipe authored by createdBy. The store generates the
// surrogate id; callers never fabricate identifiers.
func (s *Service) Create(ctx context.Context, r *models.Recipe, createdBy string) (*models.Recipe, error) {
	if r == nil || strings.TrimSpace(r.Title) == "" {
		return nil, fmt.Errorf("recipe title is required")
	}
	r.ID = tool.GenerateUUIDV7()
	r.CreatedBy = createdBy
	r.AverageRating = 0
	r.ReviewCount = 0
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("recipe_created", "recipe_id", r.ID, "created_by", createdBy)
	return r, nil
}

// Update modifies a recipe in place. Only the original author (or an admin,
// enforced at the handler) may update.
func (s *Service) Update(ctx context.Context, id string, updated *models.Recipe, userID string, isAdmin bool) (*models.Recipe, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && existing.CreatedBy != userID {
		return nil, ErrNotOwner
	}

	existing.Title = updated.Title
	existing.Description = updated.Description
	existing.Category = updated.Category
	existing.PrepMinutes = updated.PrepMinutes
	existing.CookMinutes = updated.CookMinutes
	existing.Servings = updated.Servings
	existing.ImageURL = updated.ImageURL
	existing.Nutrition = updated.Nutrition
	existing.Ingredients = updated.Ingredients
	existing.Steps = updated.Steps

	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return existing, nil
}

// AddReview saves or replaces the user's review and refreshes the recipe's
// rolling average inside one transaction.
func (s *Service) AddReview(ctx context.Context, recipeID, userID string, rating int, comment string) (*models.RecipeReview, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var review *models.RecipeReview
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipeRow models.Recipe
		if err := tx.Where("id = ?", recipeID).First(&recipeRow).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return fmt.Errorf("failed to load recipe: %w", err)
		}

		var existing models.RecipeReview
		err := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load existing review: %w", err)
		}
		if err == nil {
			existing.Rating = rating
			existing.Comment = comment
			review = &existing
		} else {
			review = &models.RecipeReview{
				ID:       tool.GenerateUUIDV7(),
				RecipeID: recipeID,
				UserID:   userID,
				Rating:   rating,
				Comment:  comment,
			}
		}
		if err := tx.Save(review).Error; err != nil {
			return fmt.Errorf("failed to save review: %w", err)
		}

		// Recompute from the source rows rather than incrementally, so a
		// replaced review cannot skew the average.
		type agg struct {
			Avg   float64
			Count int64
		}
		var a agg
		if err := tx.Model(&models.RecipeReview{}).
			Select("coalesce(avg(rating), 0) as avg, count(*) as count").
			Where("recipe_id = ?", recipeID).
			Scan(&a).Error; err != nil {
			return fmt.Errorf("failed to aggregate ratings: %w", err)
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).
			Updates(map[string]any{"average_rating": a.Avg, "review_count": a.Count}).Error; err != nil {
			return fmt.Errorf("failed to refresh rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Service) ListReviews(ctx context.Context, recipeID string) ([]*models.RecipeReview, error) {
	var reviews []*models.RecipeReview
	if err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
