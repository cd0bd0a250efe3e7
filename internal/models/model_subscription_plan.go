package models

import (
	"time"

	"github.com/platewise/platewise/pkg/types"
	"gorm.io/datatypes"
)

// SubscriptionPlan is a read-only catalog row. The billing glue never writes
// plans; they are seeded out of band and matched by StripePriceID.
type SubscriptionPlan struct {
	ID            string                         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name          string                         `gorm:"column:name;type:varchar(128);not null" json:"name"`
	PriceCents    int64                          `gorm:"column:price_cents;type:bigint;not null" json:"price_cents"`
	Currency      string                         `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	BillingPeriod types.BillingPeriod            `gorm:"column:billing_period;type:varchar(16);not null" json:"billing_period"`
	Features      datatypes.JSONType[[]string]   `gorm:"column:features;type:jsonb" json:"features"`
	StripePriceID string                         `gorm:"column:stripe_price_id;type:varchar(64);index" json:"-"`
	IsActive      bool                           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt     time.Time                      `json:"created_at"`
	UpdatedAt     time.Time                      `json:"updated_at"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// HasFeature reports whether the plan carries the named feature flag.
func (p *SubscriptionPlan) HasFeature(feature string) bool {
	if p == nil {
		return false
	}
	for _, f := range p.Features.Data() {
		if f == feature {
			return true
		}
	}
	return false
}

// Purchasable reports whether the plan can be checked out right now.
func (p *SubscriptionPlan) Purchasable() bool {
	return p != nil && p.IsActive && p.StripePriceID != ""
}
