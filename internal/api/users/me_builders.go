package users

import (
	"vidshelf/internal/domain/access"
	"vidshelf/internal/domain/billing"
	"vidshelf/internal/domain/users"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role.String(),
		AuthProvider: u.AuthProvider,
		HasPassword:  u.Password != nil && *u.Password != "",
		CreatedAt:    u.CreatedAt,
	}
}

func BuildSubscriptionDTO(sub *billing.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}
	return &SubscriptionDTO{
		Status:               string(sub.Status),
		CurrentPeriodStart:   sub.CurrentPeriodStart,
		CurrentPeriodEnd:     sub.CurrentPeriodEnd,
		StripeSubscriptionID: stringPtrIfNotEmpty(sub.StripeSubscriptionID),
		HasCustomer:          sub.StripeCustomerID != "",
	}
}

func BuildAccessDTO(sub *billing.Subscription) AccessDTO {
	return AccessDTO{
		State:  string(access.StateFor(sub)),
		Videos: access.HasActiveSubscription(sub),
	}
}

func stringPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
