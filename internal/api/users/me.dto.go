package users

import "time"

type MeResponse struct {
	User    UserDTO    `json:"user"`
	Billing BillingDTO `json:"billing"`
	Access  AccessDTO  `json:"access"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"auth_provider"`
	HasPassword  bool      `json:"has_password"`
	CreatedAt    time.Time `json:"created_at"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	Subscription *SubscriptionDTO `json:"subscription"`
	DevMode      bool             `json:"dev_mode"`
}

type SubscriptionDTO struct {
	Status               string     `json:"status"`
	CurrentPeriodStart   *time.Time `json:"current_period_start"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id"`
	HasCustomer          bool       `json:"has_customer"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	State  string `json:"state"`
	Videos bool   `json:"videos"`
}
