package access

import "vidshelf/internal/domain/billing"

// HasActiveSubscription is the only predicate premium handlers trust.
// CurrentPeriodEnd is not consulted.
func HasActiveSubscription(sub *billing.Subscription) bool {
	return sub != nil && sub.Status == billing.StatusActive
}

func StateFor(sub *billing.Subscription) AccessState {
	if HasActiveSubscription(sub) {
		return AccessFull
	}
	return AccessLocked
}
