package users

import (
	"errors"
	"net/http"
	"strings"

	"vidshelf/config"
	"vidshelf/database"
	"vidshelf/internal/apperr"
	"vidshelf/internal/domain/billing"
	"vidshelf/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxNameLength = 100

func GetCurrentUser(c *gin.Context) {
	user, err := loadCurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	sub, err := billing.FindByUser(c.Request.Context(), database.DB, user.ID)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User: BuildUserDTO(*user),
		Billing: BillingDTO{
			Subscription: BuildSubscriptionDTO(sub),
			DevMode:      config.BILLING_SIMULATION,
		},
		Access: BuildAccessDTO(sub),
	})
}

func UpdateCurrentUser(c *gin.Context) {
	var body struct {
		Name *string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrValidation, "Invalid input"))
		return
	}
	if body.Name == nil {
		apperr.Respond(c, apperr.With(apperr.ErrValidation, "Nothing to update"))
		return
	}
	name := strings.TrimSpace(*body.Name)
	if name == "" || len(name) > maxNameLength {
		apperr.Respond(c, apperr.With(apperr.ErrValidation, "Name must be between 1 and 100 characters"))
		return
	}

	user, err := loadCurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := database.DB.WithContext(c.Request.Context()).Model(user).Update("name", name).Error; err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}
	user.Name = name

	c.JSON(http.StatusOK, gin.H{"user": BuildUserDTO(*user)})
}

func loadCurrentUser(c *gin.Context) (*users.User, error) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		return nil, apperr.ErrUnauthorized
	}
	var user users.User
	err := database.DB.WithContext(c.Request.Context()).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.With(apperr.ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return &user, nil
}
