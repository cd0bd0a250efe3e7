package recipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	models "github.com/platewise/platewise/internal/models"
)

func newValidationService() *Service {
	return NewService(nil, zap.NewNop().Sugar())
}

func TestCreate_RequiresTitle(t *testing.T) {
	svc := newValidationService()

	tests := []struct {
		name   string
		recipe *models.Recipe
	}{
		{name: "nil recipe", recipe: nil},
		{name: "empty title", recipe: &models.Recipe{}},
		{name: "whitespace title", recipe: &models.Recipe{Title: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.recipe, "u1")
			require.Error(t, err)
		})
	}
}

func TestAddReview_RejectsOutOfRangeRating(t *testing.T) {
	svc := newValidationService()

	for _, rating := range []int{-1, 0, 6, 100} {
		_, err := svc.AddReview(context.Background(), "r1", "u1", rating, "")
		require.Error(t, err, "rating %d", rating)
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
}
