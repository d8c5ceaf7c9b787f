package billing

import (
	"fmt"
	"net/http"
	"time"

	"vidshelf/config"
	"vidshelf/database"
	"vidshelf/internal/apperr"
	"vidshelf/internal/domain/access"
	billingdomain "vidshelf/internal/domain/billing"
	"vidshelf/internal/domain/users"
	"vidshelf/internal/infra/logging"
	"vidshelf/internal/infra/stripegw"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const simulatedPeriod = 30 * 24 * time.Hour

// CreateCheckoutSession starts a subscription purchase for the caller. With
// BILLING_SIMULATION the subscription is activated locally instead.
func CreateCheckoutSession(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := currentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	existing, err := billingdomain.FindByUser(ctx, database.DB, user.ID)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}
	if access.HasActiveSubscription(existing) {
		apperr.Respond(c, apperr.With(apperr.ErrConflict, "Subscription already active"))
		return
	}

	if config.BILLING_SIMULATION {
		simulateCheckout(c, user)
		return
	}

	gw, err := stripegw.Current()
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrProvider, ""))
		return
	}

	customerID, err := gw.FindOrCreateCustomer(ctx, user.Email, user.ID)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrProvider, "Failed to create Stripe customer"))
		return
	}

	session, err := gw.NewCheckoutSession(ctx, stripegw.CheckoutRequest{
		CustomerID: customerID,
		PriceID:    config.STRIPE_PRICE_ID,
		UserID:     user.ID,
		SuccessURL: config.APP_URL + "/account",
		CancelURL:  config.APP_URL + "/account?canceled=1",
	})
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrProvider, "Failed to create checkout session"))
		return
	}

	rec := &billingdomain.Subscription{
		UserID:           user.ID,
		StripeCustomerID: customerID,
		Status:           billingdomain.StatusInactive,
	}
	if err := billingdomain.Upsert(ctx, database.DB, rec, "stripe_customer_id", "status"); err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}

	logging.Log.WithFields(logrus.Fields{
		"user_id":     user.ID,
		"customer_id": customerID,
		"session_id":  session.ID,
	}).Info("checkout session created")

	c.JSON(http.StatusOK, gin.H{"url": session.URL, "dev_mode": false})
}

func simulateCheckout(c *gin.Context, user *users.User) {
	start := time.Now().UTC().Truncate(time.Second)
	end := start.Add(simulatedPeriod)

	rec := &billingdomain.Subscription{
		UserID:               user.ID,
		StripeCustomerID:     fmt.Sprintf("sim_cus_%d", user.ID),
		StripeSubscriptionID: fmt.Sprintf("sim_sub_%d", user.ID),
		StripePriceID:        "sim_price",
		Status:               billingdomain.StatusActive,
		CurrentPeriodStart:   &start,
		CurrentPeriodEnd:     &end,
	}
	if err := billingdomain.Upsert(c.Request.Context(), database.DB, rec,
		"stripe_customer_id",
		"stripe_subscription_id",
		"stripe_price_id",
		"status",
		"current_period_start",
		"current_period_end",
	); err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}

	logging.Log.WithField("user_id", user.ID).Warn("simulated checkout activated subscription")
	c.JSON(http.StatusOK, gin.H{"url": config.APP_URL + "/account?simulated=1", "dev_mode": true})
}

func currentUser(c *gin.Context) (*users.User, error) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		return nil, apperr.With(apperr.ErrUnauthorized, "User not identified")
	}
	var user users.User
	if err := database.DB.WithContext(c.Request.Context()).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.ErrUnauthorized, "User not found")
	}
	return &user, nil
}
