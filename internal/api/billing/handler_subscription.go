package billing

import (
	"net/http"

	"vidshelf/database"
	"vidshelf/internal/apperr"
	"vidshelf/internal/domain/access"
	billingdomain "vidshelf/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

// GetSubscription returns the caller's record, or null, with the access
// decision the guard would make.
func GetSubscription(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		apperr.Respond(c, apperr.With(apperr.ErrUnauthorized, "User not identified"))
		return
	}

	sub, err := billingdomain.FindByUser(c.Request.Context(), database.DB, userID)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"access":       access.StateFor(sub),
		"active":       access.HasActiveSubscription(sub),
	})
}
