package billing

import "time"

// Subscription is the local mirror of a Stripe subscription. One row per user.
type Subscription struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;uniqueIndex:idx_subscriptions_user_id" json:"user_id"`

	StripeCustomerID     string `gorm:"column:stripe_customer_id;index:idx_subscriptions_stripe_customer_id" json:"stripe_customer_id"`
	StripeSubscriptionID string `gorm:"column:stripe_subscription_id" json:"stripe_subscription_id"`
	StripePriceID        string `gorm:"column:stripe_price_id" json:"stripe_price_id"`

	Status             Status     `gorm:"type:varchar(16);not null;default:'INACTIVE'" json:"status"`
	CurrentPeriodStart *time.Time `gorm:"column:current_period_start" json:"current_period_start"`
	CurrentPeriodEnd   *time.Time `gorm:"column:current_period_end" json:"current_period_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
