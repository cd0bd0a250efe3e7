package models

import (
	"time"

	"github.com/platewise/platewise/pkg/types"
)

// User mirrors the auth provider's subject plus the billing attributes this
// service owns. The Stripe customer id is written lazily on first checkout.
type User struct {
	ID               string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email            string         `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	DisplayName      string         `gorm:"column:display_name;type:varchar(128)" json:"display_name"`
	Role             types.UserRole `gorm:"column:role;type:varchar(32);not null;default:'user'" json:"role"`
	StripeCustomerID *string        `gorm:"column:stripe_customer_id;type:varchar(64);index" json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
