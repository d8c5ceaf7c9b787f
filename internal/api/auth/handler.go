package auth

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"vidshelf/database"
	"vidshelf/internal/apperr"
	"vidshelf/internal/domain/users"
	"vidshelf/internal/infra/logging"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func isEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrValidation, "email and password are required"))
		return
	}

	email := normalizeEmail(input.Email)
	if !isEmailValid(email) {
		apperr.Respond(c, apperr.With(apperr.ErrValidation, "Invalid email format"))
		return
	}
	if !isPasswordStrong(input.Password) {
		apperr.Respond(c, apperr.With(apperr.ErrValidation, "Password must be at least 8 characters long and contain both letters and numbers"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrInternal, "Failed to hash password"))
		return
	}
	hashed := string(hashedPassword)

	user := users.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Password:     &hashed,
		AuthProvider: users.ProviderLocal,
		Role:         users.RoleUser,
	}
	if err := database.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			apperr.Respond(c, apperr.Wrap(err, apperr.ErrConflict, "Email already registered"))
			return
		}
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}

	logging.Log.WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "id": user.ID})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrValidation, "email and password are required"))
		return
	}

	var user users.User
	err := database.DB.WithContext(c.Request.Context()).
		Where("email = ?", normalizeEmail(input.Email)).
		First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
			return
		}
		apperr.Respond(c, apperr.With(apperr.ErrUnauthorized, "Invalid credentials"))
		return
	}

	if user.Password == nil || *user.Password == "" {
		apperr.Respond(c, apperr.With(apperr.ErrUnauthorized, "This account uses Google sign-in"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		apperr.Respond(c, apperr.With(apperr.ErrUnauthorized, "Invalid credentials"))
		return
	}

	tokenString, err := issueAppJWT(user)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrInternal, "Could not create token"))
		return
	}
	setSessionCookie(c, tokenString)

	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

// Logout clears the session cookie. Bearer tokens stay valid until they expire.
func Logout(c *gin.Context) {
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func ChangePassword(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		apperr.Respond(c, apperr.ErrUnauthorized)
		return
	}

	var body struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrValidation, "Invalid input"))
		return
	}

	if !isPasswordStrong(body.NewPassword) {
		apperr.Respond(c, apperr.With(apperr.ErrValidation, "New password must be at least 8 characters with letters and numbers"))
		return
	}

	ctx := c.Request.Context()
	var user users.User
	if err := database.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrUnauthorized, "User not found"))
		return
	}

	if user.Password == nil || *user.Password == "" {
		apperr.Respond(c, apperr.With(apperr.ErrBadRequest,
			"This account does not have a password. Sign in with Google instead."))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(body.OldPassword)); err != nil {
		apperr.Respond(c, apperr.With(apperr.ErrUnauthorized, "Old password is incorrect"))
		return
	}

	hashedNew, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrInternal, "Failed to hash password"))
		return
	}
	if err := database.DB.WithContext(ctx).Model(&user).Update("password", string(hashedNew)).Error; err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
