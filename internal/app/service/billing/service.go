package billing

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/platewise/platewise/internal/app/service/plan"
	models "github.com/platewise/platewise/internal/models"
	"github.com/platewise/platewise/internal/platform/payment"
	cfgpkg "github.com/platewise/platewise/pkg/config"
	"github.com/platewise/platewise/pkg/logctx"
)

var (
	// ErrMissingParameters means neither a price id nor a plan id was supplied.
	ErrMissingParameters = errors.New("either price_id or plan_id is required")
	// ErrPlanNotPurchasable means the plan id resolved to no purchasable price.
	ErrPlanNotPurchasable = errors.New("plan is not purchasable")
	// ErrUserNotFound means the authenticated subject has no user row.
	ErrUserNotFound = errors.New("user not found")
)

// planResolver is the slice of the plan catalog checkout needs.
type planResolver interface {
	GetByID(ctx context.Context, id string) (*models.SubscriptionPlan, error)
}

type Service struct {
	db      *gorm.DB
	plans   planResolver
	gateway payment.Gateway
	cfg     *cfgpkg.Config
	log     *zap.SugaredLogger
}

func NewService(db *gorm.DB, plans *plan.Service, gateway payment.Gateway, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Service {
	return &Service{db: db, plans: plans, gateway: gateway, cfg: cfg, log: log}
}

// EnsureCustomer returns the user's Stripe customer id, creating the
// processor-side customer and persisting the mapping on first sight.
//
// The check-then-create is not atomic: two concurrent first checkouts can
// create two Stripe customers, with the second persisted id winning. Accepted
// as a low-probability gap.
func (s *Service) EnsureCustomer(ctx context.Context, userID string) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	customerID, err := s.gateway.CreateCustomer(ctx, user.Email, user.ID)
	if err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("stripe_customer_id", customerID).Error; err != nil {
		return "", fmt.Errorf("failed to persist customer id: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("customer_mapping_created",
		"user_id", userID, "stripe_customer_id", customerID)
	return customerID, nil
}

// LookupUserByCustomer reverse-maps a Stripe customer id to a user id. Used
// when an event payload carries only the customer. Returns "" when no user
// carries the mapping.
func (s *Service) LookupUserByCustomer(ctx context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", nil
	}
	var user models.User
	err := s.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up user by customer: %w", err)
	}
	return user.ID, nil
}

type CheckoutRequest struct {
	PriceID    string `json:"price_id"`
	PlanID     string `json:"plan_id"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// CreateCheckoutSession resolves the request to a Stripe price, ensures the
// customer mapping exists, and creates the hosted checkout session. No local
// subscription row is written here; that happens only when the webhook
// confirms payment.
func (s *Service) CreateCheckoutSession(ctx context.Context, userID string, req *CheckoutRequest) (string, error) {
	if req == nil || (req.PriceID == "" && req.PlanID == "") {
		return "", ErrMissingParameters
	}

	priceID := req.PriceID
	if priceID == "" {
		p, err := s.plans.GetByID(ctx, req.PlanID)
		if err != nil {
			return "", err
		}
		if p == nil || !p.Purchasable() {
			return "", ErrPlanNotPurchasable
		}
		priceID = p.StripePriceID
	}

	customerID, err := s.EnsureCustomer(ctx, userID)
	if err != nil {
		return "", err
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = s.cfg.CheckoutSuccessURL()
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = s.cfg.CheckoutCancelURL()
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutParams{
		CustomerID: customerID,
		PriceID:    priceID,
		UserID:     userID,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return url, nil
}
