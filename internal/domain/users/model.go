package users

import "time"

// User is an account. Accounts are never hard-deleted.
type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password     *string `gorm:"" json:"-"`
	Name         string  `json:"name"`
	Role         Role    `gorm:"type:varchar(16);not null;default:'USER'" json:"role"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"auth_provider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)
