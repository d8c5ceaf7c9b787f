package stripewebhooks

import (
	"context"

	"vidshelf/internal/apperr"
	"vidshelf/internal/domain/billing"
	"vidshelf/internal/infra/logging"
	"vidshelf/internal/infra/stripegw"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func handleSubscriptionDeleted(ctx context.Context, db *gorm.DB, sub *stripe.Subscription) error {
	return markCustomer(ctx, db, stripegw.CustomerID(sub.Customer), billing.StatusCanceled)
}

func handleInvoicePaymentFailed(ctx context.Context, db *gorm.DB, inv *stripe.Invoice) error {
	return markCustomer(ctx, db, stripegw.CustomerID(inv.Customer), billing.StatusPastDue)
}

// markCustomer sets status on every record of the customer. No match is fine:
// the customer may never have completed checkout here.
func markCustomer(ctx context.Context, db *gorm.DB, customerID string, status billing.Status) error {
	if customerID == "" {
		return apperr.With(apperr.ErrBadRequest, "Event has no customer")
	}
	n, err := billing.UpdateByCustomer(ctx, db, customerID, map[string]interface{}{"status": status})
	if err != nil {
		return apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	if n == 0 {
		logging.Log.WithFields(logrus.Fields{
			"customer_id": customerID,
			"status":      status,
		}).Info("no subscription matched customer")
	}
	return nil
}
