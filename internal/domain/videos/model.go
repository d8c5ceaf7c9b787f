package videos

import "time"

// Video references an externally hosted video. URL and ExternalID are unique
// across the whole table, not per owner.
type Video struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	URL        string    `gorm:"not null;uniqueIndex:idx_videos_url" json:"url"`
	ExternalID string    `gorm:"not null;uniqueIndex:idx_videos_external_id" json:"external_id"`
	Title      string    `gorm:"not null" json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}
