package middleware

import (
	"vidshelf/database"
	"vidshelf/internal/apperr"
	"vidshelf/internal/domain/access"
	"vidshelf/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

// SubscriptionKey holds the *billing.Subscription loaded by RequireActiveSubscription.
const SubscriptionKey = "subscription"

// RequireActiveSubscription loads the caller's record once per request and
// lets the request through only when access.HasActiveSubscription holds.
func RequireActiveSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			apperr.Respond(c, apperr.ErrUnauthorized)
			return
		}

		sub, err := billing.FindByUser(c.Request.Context(), database.DB, userID)
		if err != nil {
			apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
			return
		}
		if !access.HasActiveSubscription(sub) {
			apperr.Respond(c, apperr.With(apperr.ErrForbidden, "Active subscription required"))
			return
		}

		c.Set(SubscriptionKey, sub)
		c.Next()
	}
}
