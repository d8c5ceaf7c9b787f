package billing

import "time"

// WebhookEvent is an audit row per Stripe delivery. Redelivered events
// overwrite the same row; processing never consults it.
type WebhookEvent struct {
	ID              string     `gorm:"primaryKey;type:varchar(255)" json:"id"`
	Type            string     `gorm:"type:varchar(100);not null;index" json:"type"`
	Outcome         string     `gorm:"type:varchar(20);not null" json:"outcome"`
	ProcessingError string     `gorm:"type:text" json:"processing_error,omitempty"`
	Deliveries      int        `gorm:"not null;default:1" json:"deliveries"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

const (
	OutcomeProcessed = "processed"
	OutcomeIgnored   = "ignored"
	OutcomeFailed    = "failed"
)
