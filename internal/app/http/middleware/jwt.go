package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"vidshelf/config"
	"vidshelf/internal/apperr"
	"vidshelf/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const TokenCookie = "token"

var (
	errNoToken        = errors.New("no token")
	errMalformedToken = errors.New("bearer token malformed")
)

// AuthMiddleware requires a valid session token from the Authorization
// header or the token cookie.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authenticate(c); err != nil {
			switch {
			case errors.Is(err, errNoToken):
				apperr.Respond(c, apperr.With(apperr.ErrUnauthorized, "Authorization header missing"))
			case errors.Is(err, errMalformedToken):
				apperr.Respond(c, apperr.With(apperr.ErrUnauthorized, "Bearer token malformed"))
			default:
				apperr.Respond(c, apperr.Wrap(err, apperr.ErrUnauthorized, "Invalid or expired token"))
			}
			return
		}
		c.Next()
	}
}

// OptionalAuth sets the identity when a valid token is present and never aborts.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = authenticate(c)
		c.Next()
	}
}

func RequireRole(role users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			apperr.Respond(c, apperr.With(apperr.ErrUnauthorized, "Role not found in token"))
			return
		}
		if value != role {
			apperr.Respond(c, apperr.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireRoleOrRedirect is RequireRole for server-rendered pages.
func RequireRoleOrRedirect(role users.Role, location string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if value, ok := c.Get("role"); !ok || value != role {
			c.Redirect(http.StatusFound, location)
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context) error {
	jwtKey := []byte(config.JWT_SECRET)
	if len(jwtKey) == 0 {
		return errors.New("JWT secret not configured")
	}

	tokenString, err := tokenFromRequest(c)
	if err != nil {
		return err
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey, nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return errors.New("token missing user_id")
	}

	c.Set("user_id", uint(userIDFloat))
	if email, ok := claims["email"].(string); ok {
		c.Set("email", email)
	}
	if role, ok := claims["role"].(string); ok {
		if r, ok := users.ParseRole(role); ok {
			c.Set("role", r)
		}
	}
	return nil
}

func tokenFromRequest(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			return "", errMalformedToken
		}
		return strings.TrimSpace(tokenString), nil
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errNoToken
}
