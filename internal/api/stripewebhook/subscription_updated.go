package stripewebhooks

import (
	"context"

	"vidshelf/internal/apperr"
	"vidshelf/internal/domain/billing"
	"vidshelf/internal/infra/stripegw"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleSubscriptionUpdated mirrors status, period and ids onto the existing
// record for the customer. It never creates a record.
func handleSubscriptionUpdated(ctx context.Context, db *gorm.DB, sub *stripe.Subscription) error {
	customerID := stripegw.CustomerID(sub.Customer)
	if customerID == "" {
		return apperr.With(apperr.ErrBadRequest, "Subscription has no customer")
	}

	updates := map[string]interface{}{
		"status":                 billing.StatusFromProvider(string(sub.Status)),
		"stripe_subscription_id": sub.ID,
	}
	if price := stripegw.PriceID(sub); price != "" {
		updates["stripe_price_id"] = price
	}
	start, end := stripegw.Period(sub)
	if start != nil {
		updates["current_period_start"] = *start
	}
	if end != nil {
		updates["current_period_end"] = *end
	}

	n, err := billing.UpdateByCustomer(ctx, db, customerID, updates)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	if n == 0 {
		return apperr.With(apperr.ErrNotFound, "No subscription for customer")
	}
	return nil
}
