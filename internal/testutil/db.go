// Package testutil holds fixtures shared by handler tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"vidshelf/config"
	"vidshelf/database"
	"vidshelf/internal/domain/billing"
	"vidshelf/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "test-secret"

// NewDB opens a migrated SQLite database in t.TempDir and installs it as
// database.DB for the duration of the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	prev := database.DB
	database.DB = db
	config.JWT_SECRET = JWTSecret
	t.Cleanup(func() {
		database.DB = prev
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, email string, role users.Role) users.User {
	t.Helper()
	u := users.User{Email: email, Name: "Test", Role: role, AuthProvider: users.ProviderLocal}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func CreateSubscription(t *testing.T, db *gorm.DB, userID uint, customerID string, status billing.Status) billing.Subscription {
	t.Helper()
	start := time.Now().Add(-24 * time.Hour).UTC().Truncate(time.Second)
	end := start.AddDate(0, 1, 0)
	s := billing.Subscription{
		UserID:             userID,
		StripeCustomerID:   customerID,
		Status:             status,
		CurrentPeriodStart: &start,
		CurrentPeriodEnd:   &end,
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	return s
}

// Token signs a session token the way login does.
func Token(t *testing.T, u users.User) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    string(u.Role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
