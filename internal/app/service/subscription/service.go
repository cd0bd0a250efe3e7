package subscription

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	models "github.com/platewise/platewise/internal/models"
	"github.com/platewise/platewise/internal/app/service/plan"
	"github.com/platewise/platewise/pkg/tool"
)

// Store is the row-level access the reconciler needs. Production uses the
// gorm-backed implementation below; tests substitute an in-memory one.
type Store interface {
	// LatestByUser returns the most recently created subscription row for the
	// user, or nil when the user has none.
	LatestByUser(ctx context.Context, userID string) (*models.UserSubscription, error)
	// FindByUserAndStripeID returns the row matching both keys, or nil.
	FindByUserAndStripeID(ctx context.Context, userID, stripeSubscriptionID string) (*models.UserSubscription, error)
	// Save inserts or updates a row.
	Save(ctx context.Context, sub *models.UserSubscription) error
}

// planResolver is the slice of the plan catalog the service depends on.
type planResolver interface {
	GetByID(ctx context.Context, id string) (*models.SubscriptionPlan, error)
	GetByStripePriceID(ctx context.Context, priceID string) (*models.SubscriptionPlan, error)
}

type Service struct {
	db    *gorm.DB
	store Store
	plans planResolver
	log   *zap.SugaredLogger
}

func NewService(db *gorm.DB, plans *plan.Service, log *zap.SugaredLogger) *Service {
	return &Service{db: db, store: &gormStore{db: db}, plans: plans, log: log}
}

type gormStore struct {
	db *gorm.DB
}

func (g *gormStore) LatestByUser(ctx context.Context, userID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest subscription: %w", err)
	}
	return &sub, nil
}

func (g *gormStore) FindByUserAndStripeID(ctx context.Context, userID, stripeSubscriptionID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND stripe_subscription_id = ?", userID, stripeSubscriptionID).
		Order("created_at desc").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription by stripe id: %w", err)
	}
	return &sub, nil
}

func (g *gormStore) Save(ctx context.Context, sub *models.UserSubscription) error {
	if sub.ID == "" {
		sub.ID = tool.GenerateUUIDV7()
	}
	if err := g.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}
