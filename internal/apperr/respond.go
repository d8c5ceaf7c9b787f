package apperr

import (
	"vidshelf/config"
	"vidshelf/internal/infra/logging"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Respond aborts the request with {"error": ...}. Server-side failures are
// logged in full; their detail is echoed only outside production.
func Respond(c *gin.Context, err error) {
	status := Status(err)
	body := gin.H{"error": PublicMessage(err)}

	if status >= 500 {
		logging.Log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": status,
		}).WithError(err).Error("request failed")
		if !config.IsProduction() {
			body["details"] = err.Error()
		}
	} else {
		logging.Log.WithFields(logrus.Fields{
			"path":   c.FullPath(),
			"status": status,
		}).WithError(err).Debug("request rejected")
	}

	c.AbortWithStatusJSON(status, body)
}
