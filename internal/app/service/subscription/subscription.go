package subscription

import (
	"context"
	"fmt"
	"time"

	models "github.com/platewise/platewise/internal/models"
	"github.com/platewise/platewise/pkg/logctx"
	types "github.com/platewise/platewise/pkg/types"
)

// UpsertActiveSubscription reconciles a billing event into the local mirror.
//
// Policy: the reconciler always targets the user's most recently created row,
// updating it in place, and inserts a new row only when the user has none.
// Applying the same event twice leaves the store unchanged, which is what lets
// the webhook layer answer 500 and have the processor redeliver safely.
func (s *Service) UpsertActiveSubscription(ctx context.Context, userID, stripeSubscriptionID, stripePriceID string) error {
	if userID == "" {
		// Cannot attribute the event to a user. Retrying will not fix a
		// structurally incomplete event, so this is a logged no-op.
		logctx.FromCtx(ctx, s.log).Warnw("subscription_event_without_user",
			"stripe_subscription_id", stripeSubscriptionID)
		return nil
	}

	var planID *string
	if stripePriceID != "" {
		p, err := s.plans.GetByStripePriceID(ctx, stripePriceID)
		if err != nil {
			return fmt.Errorf("failed to resolve plan: %w", err)
		}
		if p != nil {
			planID = &p.ID
		} else {
			logctx.FromCtx(ctx, s.log).Warnw("subscription_event_unknown_price",
				"stripe_price_id", stripePriceID, "user_id", userID)
		}
	}

	current, err := s.store.LatestByUser(ctx, userID)
	if err != nil {
		return err
	}

	if current == nil {
		now := time.Now()
		sub := &models.UserSubscription{
			UserID:               userID,
			PlanID:               planID,
			Status:               types.SubscriptionStatusActive,
			StartedAt:            now,
			AutoRenew:            true,
			StripeSubscriptionID: stripeSubscriptionID,
		}
		if err := s.store.Save(ctx, sub); err != nil {
			return err
		}
		logctx.FromCtx(ctx, s.log).Infow("subscription_created",
			"user_id", userID, "stripe_subscription_id", stripeSubscriptionID)
		return nil
	}

	current.Status = types.SubscriptionStatusActive
	current.StripeSubscriptionID = stripeSubscriptionID
	if planID != nil {
		current.PlanID = planID
	}
	if err := s.store.Save(ctx, current); err != nil {
		return err
	}
	logctx.FromCtx(ctx, s.log).Infow("subscription_activated",
		"user_id", userID, "stripe_subscription_id", stripeSubscriptionID)
	return nil
}

// Cancel marks the subscription cancelled. It touches only the row matching
// both the user and the processor's subscription id, so a stale delete event
// for an old subscription cannot cancel a newer, unrelated one.
func (s *Service) Cancel(ctx context.Context, userID, stripeSubscriptionID string) error {
	if userID == "" || stripeSubscriptionID == "" {
		logctx.FromCtx(ctx, s.log).Warnw("subscription_cancel_unattributed",
			"user_id", userID, "stripe_subscription_id", stripeSubscriptionID)
		return nil
	}

	sub, err := s.store.FindByUserAndStripeID(ctx, userID, stripeSubscriptionID)
	if err != nil {
		return err
	}
	if sub == nil {
		logctx.FromCtx(ctx, s.log).Warnw("subscription_cancel_no_match",
			"user_id", userID, "stripe_subscription_id", stripeSubscriptionID)
		return nil
	}

	sub.Status = types.SubscriptionStatusCancelled
	sub.AutoRenew = false
	if err := s.store.Save(ctx, sub); err != nil {
		return err
	}
	logctx.FromCtx(ctx, s.log).Infow("subscription_cancelled",
		"user_id", userID, "stripe_subscription_id", stripeSubscriptionID)
	return nil
}

// Current returns the user's current subscription row (newest by created_at),
// or nil when the user never subscribed.
func (s *Service) Current(ctx context.Context, userID string) (*models.UserSubscription, error) {
	return s.store.LatestByUser(ctx, userID)
}

// CurrentInfo is the API view of Current, with the plan name joined in.
func (s *Service) CurrentInfo(ctx context.Context, userID string) (*types.UserSubscriptionInfo, error) {
	sub, err := s.store.LatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, nil
	}
	info := &types.UserSubscriptionInfo{
		Status:               sub.Status,
		PlanID:               sub.PlanID,
		StartedAt:            sub.StartedAt,
		ExpiresAt:            sub.ExpiresAt,
		AutoRenew:            sub.AutoRenew,
		StripeSubscriptionID: sub.StripeSubscriptionID,
	}
	if sub.PlanID != nil {
		p, err := s.plans.GetByID(ctx, *sub.PlanID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			info.PlanName = p.Name
		}
	}
	return info, nil
}

// HasFeature reports whether the user's current subscription is valid and its
// plan carries the named feature flag. This is the paid-feature gate.
func (s *Service) HasFeature(ctx context.Context, userID, feature string) (bool, error) {
	sub, err := s.store.LatestByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if !sub.Valid() || sub.PlanID == nil {
		return false, nil
	}
	p, err := s.plans.GetByID(ctx, *sub.PlanID)
	if err != nil {
		return false, err
	}
	return p.HasFeature(feature), nil
}
