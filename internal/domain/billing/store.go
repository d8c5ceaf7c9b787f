package billing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindByUser returns nil, nil when the user has no subscription row.
func FindByUser(ctx context.Context, db *gorm.DB, userID uint) (*Subscription, error) {
	var sub Subscription
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert inserts sub or, when a row for sub.UserID exists, overwrites only
// the named columns. A single statement, so concurrent callers converge.
func Upsert(ctx context.Context, db *gorm.DB, sub *Subscription, columns ...string) error {
	columns = append(columns, "updated_at")
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(sub).Error
}

// UpdateByCustomer applies updates to every row for the customer and reports
// how many matched. Zero is not an error.
func UpdateByCustomer(ctx context.Context, db *gorm.DB, customerID string, updates map[string]interface{}) (int64, error) {
	updates["updated_at"] = time.Now()
	res := db.WithContext(ctx).Model(&Subscription{}).
		Where("stripe_customer_id = ?", customerID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// RecordWebhookEvent upserts the audit row for a delivery.
func RecordWebhookEvent(ctx context.Context, db *gorm.DB, ev *WebhookEvent) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"outcome":          ev.Outcome,
			"processing_error": ev.ProcessingError,
			"processed_at":     ev.ProcessedAt,
			"deliveries":       gorm.Expr("webhook_events.deliveries + 1"),
			"updated_at":       time.Now(),
		}),
	}).Create(ev).Error
}
