package models

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/platewise/platewise/pkg/types"
)

func TestUserSubscription_Valid(t *testing.T) {
	tests := []struct {
		name string
		sub  *UserSubscription
		want bool
	}{
		{name: "nil", sub: nil, want: false},
		{
			name: "active open-ended",
			sub:  &UserSubscription{Status: types.SubscriptionStatusActive},
			want: true,
		},
		{
			name: "active with future expiry",
			sub: &UserSubscription{
				Status:    types.SubscriptionStatusActive,
				ExpiresAt: lo.ToPtr(time.Now().Add(24 * time.Hour)),
			},
			want: true,
		},
		{
			name: "active but past expiry",
			sub: &UserSubscription{
				Status:    types.SubscriptionStatusActive,
				ExpiresAt: lo.ToPtr(time.Now().Add(-time.Minute)),
			},
			want: false,
		},
		{
			name: "cancelled",
			sub:  &UserSubscription{Status: types.SubscriptionStatusCancelled},
			want: false,
		},
		{
			name: "pending",
			sub:  &UserSubscription{Status: types.SubscriptionStatusPending},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.Valid())
		})
	}
}

func TestSubscriptionPlan_HasFeature(t *testing.T) {
	plan := &SubscriptionPlan{
		Features: datatypes.NewJSONType([]string{"ai-mentor", "meal-plans"}),
	}

	assert.True(t, plan.HasFeature("ai-mentor"))
	assert.True(t, plan.HasFeature("meal-plans"))
	assert.False(t, plan.HasFeature("AI-Mentor"))
	assert.False(t, plan.HasFeature(""))

	var nilPlan *SubscriptionPlan
	assert.False(t, nilPlan.HasFeature("ai-mentor"))
	assert.False(t, (&SubscriptionPlan{}).HasFeature("ai-mentor"))
}

func TestSubscriptionPlan_Purchasable(t *testing.T) {
	tests := []struct {
		name string
		plan *SubscriptionPlan
		want bool
	}{
		{name: "nil", plan: nil, want: false},
		{name: "active with price", plan: &SubscriptionPlan{IsActive: true, StripePriceID: "price_A"}, want: true},
		{name: "retired", plan: &SubscriptionPlan{IsActive: false, StripePriceID: "price_A"}, want: false},
		{name: "no price mapping", plan: &SubscriptionPlan{IsActive: true}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.plan.Purchasable())
		})
	}
}
