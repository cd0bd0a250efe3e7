package models

import (
	"time"

	"github.com/platewise/platewise/pkg/types"
)

// UserSubscription is the local mirror of a user's billing state. The row for
// a user with the newest CreatedAt is the current one; older rows are kept for
// history and never physically deleted by the reconciler.
type UserSubscription struct {
	ID                   string                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID               string                   `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	PlanID               *string                  `gorm:"column:plan_id;type:uuid" json:"plan_id"`
	Status               types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	StartedAt            time.Time                `gorm:"column:started_at;not null" json:"started_at"`
	ExpiresAt            *time.Time               `gorm:"column:expires_at" json:"expires_at"`
	AutoRenew            bool                     `gorm:"column:auto_renew;not null;default:true" json:"auto_renew"`
	StripeSubscriptionID string                   `gorm:"column:stripe_subscription_id;type:varchar(64);index" json:"-"`
	CreatedAt            time.Time                `json:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

// Valid reports whether the subscription currently grants access: it must be
// active and either open-ended or not yet past its expiry.
func (s *UserSubscription) Valid() bool {
	if s == nil || s.Status != types.SubscriptionStatusActive {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(time.Now())
}
