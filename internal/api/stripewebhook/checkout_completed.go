package stripewebhooks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vidshelf/internal/apperr"
	"vidshelf/internal/domain/billing"
	"vidshelf/internal/domain/users"
	"vidshelf/internal/infra/stripegw"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleCheckoutSessionCompleted activates the account named in the session.
// The account is resolved before anything is written.
func handleCheckoutSessionCompleted(ctx context.Context, db *gorm.DB, session *stripe.CheckoutSession) error {
	userID, err := userIDFromSession(session)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrBadRequest, "Checkout session has no valid user_id")
	}

	var user users.User
	if err := db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Wrap(err, apperr.ErrBadRequest, "Unknown account in checkout session")
		}
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}

	if session.Subscription == nil || session.Subscription.ID == "" {
		return apperr.With(apperr.ErrBadRequest, "Checkout session missing subscription")
	}

	gw, err := stripegw.Current()
	if err != nil {
		return apperr.Wrap(err, apperr.ErrProvider, "")
	}
	subData, err := gw.GetSubscription(ctx, session.Subscription.ID)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrProvider, "Failed to fetch subscription")
	}

	customerID := stripegw.CustomerID(session.Customer)
	if customerID == "" {
		customerID = stripegw.CustomerID(subData.Customer)
	}
	start, end := stripegw.Period(subData)

	rec := &billing.Subscription{
		UserID:               user.ID,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: subData.ID,
		StripePriceID:        stripegw.PriceID(subData),
		Status:               billing.StatusActive,
		CurrentPeriodStart:   start,
		CurrentPeriodEnd:     end,
	}
	if err := billing.Upsert(ctx, db, rec,
		"stripe_customer_id",
		"stripe_subscription_id",
		"stripe_price_id",
		"status",
		"current_period_start",
		"current_period_end",
	); err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return nil
}

// userIDFromSession prefers metadata.user_id and falls back to the client
// reference id.
func userIDFromSession(session *stripe.CheckoutSession) (uint, error) {
	userIDStr := ""
	if session.Metadata != nil {
		userIDStr = strings.TrimSpace(session.Metadata["user_id"])
	}
	if userIDStr == "" {
		userIDStr = strings.TrimSpace(session.ClientReferenceID)
	}
	if userIDStr == "" {
		return 0, errors.New("missing user_id (metadata.user_id or client_reference_id)")
	}

	uid64, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil || uid64 == 0 {
		return 0, fmt.Errorf("invalid user_id %q", userIDStr)
	}
	return uint(uid64), nil
}
