package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"vidshelf/config"
	"vidshelf/database"
	"vidshelf/internal/apperr"
	"vidshelf/internal/domain/users"
	"vidshelf/internal/infra/logging"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const (
	googleIssuer     = "https://accounts.google.com"
	oauthStateCookie = "oauth_state"
)

var (
	verifierMu sync.Mutex
	verifier   *oidc.IDTokenVerifier
)

func googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.GOOGLE_CLIENT_ID,
		ClientSecret: config.GOOGLE_CLIENT_SECRET,
		RedirectURL:  config.GOOGLE_REDIRECT_URL,
		Scopes: []string{
			oidc.ScopeOpenID,
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}
}

// googleVerifier discovers the provider once and reuses its key set.
func googleVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	verifierMu.Lock()
	defer verifierMu.Unlock()
	if verifier != nil {
		return verifier, nil
	}
	provider, err := oidc.NewProvider(context.WithoutCancel(ctx), googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("init google oidc provider: %w", err)
	}
	verifier = provider.Verifier(&oidc.Config{ClientID: config.GOOGLE_CLIENT_ID})
	return verifier, nil
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func GoogleStart(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrInternal, "failed to generate state"))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 300, "/", "", config.IsProduction(), true)

	c.Redirect(http.StatusFound, googleOAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GET /auth/google/callback
func GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		apperr.Respond(c, apperr.With(apperr.ErrBadRequest, "missing code/state"))
		return
	}

	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || cookieState != state {
		apperr.Respond(c, apperr.With(apperr.ErrBadRequest, "invalid oauth state"))
		return
	}

	ctx := c.Request.Context()
	tok, err := googleOAuthConfig().Exchange(ctx, code)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrUnauthorized, "failed to exchange code"))
		return
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		apperr.Respond(c, apperr.With(apperr.ErrUnauthorized, "missing id_token"))
		return
	}

	claims, err := verifyGoogleIDToken(ctx, rawIDToken)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrUnauthorized, "invalid id_token"))
		return
	}

	user, err := findOrCreateGoogleUser(ctx, database.DB, claims)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, "failed to create user"))
		return
	}

	tokenString, err := issueAppJWT(user)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrInternal, "could not create token"))
		return
	}
	setSessionCookie(c, tokenString)
	logging.Log.WithField("user_id", user.ID).Info("google sign-in")

	redirect := config.GOOGLE_FRONTEND_REDIRECT
	if redirect == "" {
		c.JSON(http.StatusOK, gin.H{"token": tokenString})
		return
	}
	c.Redirect(http.StatusFound, redirect+"?token="+url.QueryEscape(tokenString))
}

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
}

func verifyGoogleIDToken(ctx context.Context, rawIDToken string) (*googleIDClaims, error) {
	v, err := googleVerifier(ctx)
	if err != nil {
		return nil, err
	}

	idToken, err := v.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode token claims: %w", err)
	}
	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("token missing required claims")
	}
	if !claims.EmailVerified {
		return nil, errors.New("google email not verified")
	}
	return &claims, nil
}

// findOrCreateGoogleUser matches by google sub, then links an existing
// account with the same email, then creates a password-less account.
func findOrCreateGoogleUser(ctx context.Context, db *gorm.DB, gc *googleIDClaims) (users.User, error) {
	db = db.WithContext(ctx)
	var user users.User

	err := db.Where("google_sub = ?", gc.Sub).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return users.User{}, err
	}

	email := normalizeEmail(gc.Email)
	err = db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.GoogleSub == nil {
			sub := gc.Sub
			if err := db.Model(&user).Update("google_sub", sub).Error; err != nil {
				return users.User{}, err
			}
			user.GoogleSub = &sub
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return users.User{}, err
	}

	sub := gc.Sub
	user = users.User{
		Name:         firstNonEmpty(gc.GivenName, gc.Name),
		Email:        email,
		AuthProvider: users.ProviderGoogle,
		GoogleSub:    &sub,
		Role:         users.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		return users.User{}, err
	}
	return user, nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
