package videos

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"vidshelf/database"
	"vidshelf/internal/apperr"
	videodomain "vidshelf/internal/domain/videos"
	"vidshelf/internal/infra/logging"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxTitleLength = 255

type createVideoRequest struct {
	URL   string `json:"url" binding:"required"`
	Title string `json:"title"`
}

// ListVideos returns the caller's library, newest first.
func ListVideos(c *gin.Context) {
	userID := c.GetUint("user_id")

	items := []videodomain.Video{}
	if err := database.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}

	c.JSON(http.StatusOK, items)
}

// CreateVideo adds a reference. URL and external id are unique across all
// libraries, not per user.
func CreateVideo(c *gin.Context) {
	var body createVideoRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrValidation, "url is required"))
		return
	}

	url := strings.TrimSpace(body.URL)
	externalID, err := videodomain.ExtractExternalID(url)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrValidation, "Unrecognized video URL"))
		return
	}

	title := strings.TrimSpace(strings.ReplaceAll(body.Title, "\x00", ""))
	if title == "" {
		title = externalID
	}
	if len(title) > maxTitleLength {
		apperr.Respond(c, apperr.With(apperr.ErrValidation, "Title too long (max 255 characters)"))
		return
	}

	ctx := c.Request.Context()
	var count int64
	if err := database.DB.WithContext(ctx).Model(&videodomain.Video{}).
		Where("url = ? OR external_id = ?", url, externalID).
		Count(&count).Error; err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}
	if count > 0 {
		apperr.Respond(c, apperr.With(apperr.ErrConflict, "Video already exists"))
		return
	}

	v := videodomain.Video{
		UserID:     c.GetUint("user_id"),
		URL:        url,
		ExternalID: externalID,
		Title:      title,
	}
	if err := database.DB.WithContext(ctx).Create(&v).Error; err != nil {
		// a concurrent insert can pass the check above; the unique indexes decide.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			apperr.Respond(c, apperr.Wrap(err, apperr.ErrConflict, "Video already exists"))
			return
		}
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, ""))
		return
	}

	logging.Log.WithFields(logrus.Fields{
		"user_id":     v.UserID,
		"video_id":    v.ID,
		"external_id": v.ExternalID,
	}).Info("video added")

	c.JSON(http.StatusCreated, v)
}

// DeleteVideo removes ?id=N when it belongs to the caller.
func DeleteVideo(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil || id == 0 {
		apperr.Respond(c, apperr.With(apperr.ErrValidation, "Invalid video id"))
		return
	}

	res := database.DB.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", id, c.GetUint("user_id")).
		Delete(&videodomain.Video{})
	if res.Error != nil {
		apperr.Respond(c, apperr.Wrap(res.Error, apperr.ErrDatabase, ""))
		return
	}
	if res.RowsAffected == 0 {
		apperr.Respond(c, apperr.With(apperr.ErrNotFound, "Video not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
}
