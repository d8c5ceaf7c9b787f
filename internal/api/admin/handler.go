package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"vidshelf/database"
	"vidshelf/internal/apperr"
	"vidshelf/internal/domain/billing"
	"vidshelf/internal/domain/users"
	"vidshelf/internal/domain/videos"
	"vidshelf/internal/infra/logging"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	AuthProvider       string     `json:"auth_provider"`
	SubscriptionStatus *string    `json:"subscription_status,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers       int64            `json:"total_users"`
	TotalVideos      int64            `json:"total_videos"`
	UsersPerStatus   map[string]int64 `json:"users_per_status"`
	WebhookOutcomes  map[string]int64 `json:"webhook_outcomes"`
	LastWebhookEvent *time.Time       `json:"last_webhook_event,omitempty"`
}

// loadAdminUsers joins each account with its subscription row, if any.
func loadAdminUsers(db *gorm.DB) ([]AdminUser, error) {
	rows := []AdminUser{}
	err := db.Table("users").
		Select("users.id, users.name, users.email, users.role, users.auth_provider, users.created_at, " +
			"subscriptions.status AS subscription_status, subscriptions.current_period_end").
		Joins("LEFT JOIN subscriptions ON subscriptions.user_id = users.id").
		Order("users.id").
		Scan(&rows).Error
	return rows, err
}

func ListAllUsers(c *gin.Context) {
	rows, err := loadAdminUsers(database.DB.WithContext(c.Request.Context()))
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, "Failed to load users"))
		return
	}
	c.JSON(http.StatusOK, rows)
}

func GetAdminStats(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	stats := AdminStats{
		UsersPerStatus:  map[string]int64{},
		WebhookOutcomes: map[string]int64{},
	}

	if err := db.Model(&users.User{}).Count(&stats.TotalUsers).Error; err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}
	if err := db.Model(&videos.Video{}).Count(&stats.TotalVideos).Error; err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}

	type groupCount struct {
		Name  string
		Count int64
	}
	var byStatus []groupCount
	if err := db.Model(&billing.Subscription{}).
		Select("status AS name, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}
	var subscribed int64
	for _, g := range byStatus {
		stats.UsersPerStatus[g.Name] = g.Count
		subscribed += g.Count
	}
	stats.UsersPerStatus["NONE"] = stats.TotalUsers - subscribed

	var byOutcome []groupCount
	if err := db.Model(&billing.WebhookEvent{}).
		Select("outcome AS name, COUNT(*) AS count").
		Group("outcome").
		Scan(&byOutcome).Error; err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}
	for _, g := range byOutcome {
		stats.WebhookOutcomes[g.Name] = g.Count
	}

	var last billing.WebhookEvent
	err := db.Order("updated_at DESC").First(&last).Error
	switch {
	case err == nil:
		stats.LastWebhookEvent = &last.UpdatedAt
	case !errors.Is(err, gorm.ErrRecordNotFound):
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}

	c.JSON(http.StatusOK, stats)
}

func GetUserDetails(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Respond(c, apperr.With(apperr.ErrValidation, "Invalid user id"))
		return
	}

	ctx := c.Request.Context()
	var user users.User
	if err := database.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrNotFound, "User not found"))
		return
	}

	sub, err := billing.FindByUser(ctx, database.DB, user.ID)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}

	var videoCount int64
	if err := database.DB.WithContext(ctx).Model(&videos.Video{}).Where("user_id = ?", user.ID).Count(&videoCount).Error; err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"subscription": sub,
		"videos":       videoCount,
	})
}

// UpdateUserRole sets another account's role. Admins cannot change their own.
func UpdateUserRole(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Respond(c, apperr.With(apperr.ErrValidation, "Invalid user id"))
		return
	}

	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrValidation, "role is required"))
		return
	}
	role, ok := users.ParseRole(body.Role)
	if !ok {
		apperr.Respond(c, apperr.With(apperr.ErrValidation, "Unknown role"))
		return
	}
	if uint(userID) == c.GetUint("user_id") {
		apperr.Respond(c, apperr.With(apperr.ErrBadRequest, "Cannot change your own role"))
		return
	}

	res := database.DB.WithContext(c.Request.Context()).
		Model(&users.User{}).
		Where("id = ?", userID).
		Update("role", role)
	if res.Error != nil {
		apperr.Respond(c, apperr.Wrap(res.Error, apperr.ErrDatabase, ""))
		return
	}
	if res.RowsAffected == 0 {
		apperr.Respond(c, apperr.With(apperr.ErrNotFound, "User not found"))
		return
	}

	logging.Log.WithFields(logrus.Fields{
		"admin_id": c.GetUint("user_id"),
		"user_id":  userID,
		"role":     role,
	}).Info("user role changed")

	c.JSON(http.StatusOK, gin.H{"id": userID, "role": role})
}
