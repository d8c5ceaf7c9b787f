package billing

import (
	"net/http"

	"vidshelf/config"
	"vidshelf/database"
	"vidshelf/internal/apperr"
	billingdomain "vidshelf/internal/domain/billing"
	"vidshelf/internal/infra/stripegw"

	"github.com/gin-gonic/gin"
)

func CreateBillingPortal(c *gin.Context) {
	if config.BILLING_SIMULATION {
		apperr.Respond(c, apperr.With(apperr.ErrBadRequest, "Billing portal unavailable in simulation mode"))
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		apperr.Respond(c, apperr.With(apperr.ErrUnauthorized, "User not identified"))
		return
	}

	ctx := c.Request.Context()
	sub, err := billingdomain.FindByUser(ctx, database.DB, userID)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}
	if sub == nil || sub.StripeCustomerID == "" {
		apperr.Respond(c, apperr.With(apperr.ErrConflict, "No Stripe customer yet (subscribe first)"))
		return
	}

	gw, err := stripegw.Current()
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrProvider, ""))
		return
	}
	url, err := gw.NewPortalSession(ctx, sub.StripeCustomerID, config.APP_URL+"/account")
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrProvider, "Could not create billing portal session"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
