package types

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusPending   SubscriptionStatus = "pending"
)

type BillingPeriod string

const (
	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"
)

// UserSubscriptionInfo is the API view of a user's current subscription.
type UserSubscriptionInfo struct {
	Status               SubscriptionStatus `json:"status"`
	PlanID               *string            `json:"plan_id"`
	PlanName             string             `json:"plan_name,omitempty"`
	StartedAt            time.Time          `json:"started_at"`
	ExpiresAt            *time.Time         `json:"expires_at"`
	AutoRenew            bool               `json:"auto_renew"`
	StripeSubscriptionID string             `json:"stripe_subscription_id,omitempty"`
}
