package auth

import (
	"net/http"
	"time"

	"vidshelf/config"
	"vidshelf/internal/app/http/middleware"
	"vidshelf/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionTTL = 24 * time.Hour

func issueAppJWT(user users.User) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(sessionTTL).Unix(),
	})
	return t.SignedString([]byte(config.JWT_SECRET))
}

// setSessionCookie lets server-rendered pages authenticate without a header.
func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(sessionTTL.Seconds()), "/", "", config.IsProduction(), true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", config.IsProduction(), true)
}
