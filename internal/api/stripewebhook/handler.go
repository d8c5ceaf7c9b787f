package stripewebhooks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"vidshelf/config"
	"vidshelf/database"
	"vidshelf/internal/apperr"
	"vidshelf/internal/domain/billing"
	"vidshelf/internal/infra/logging"
	"vidshelf/internal/infra/metrics"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"gorm.io/gorm"
)

const maxBodyBytes = 65536

const (
	eventCheckoutCompleted   = "checkout.session.completed"
	eventSubscriptionUpdated = "customer.subscription.updated"
	eventSubscriptionDeleted = "customer.subscription.deleted"
	eventInvoicePaymentFail  = "invoice.payment_failed"
)

var errIgnored = errors.New("event type not handled")

func StripeWebhook(c *gin.Context) {
	endpointSecret := config.STRIPE_WEBHOOK_SECRET
	if endpointSecret == "" {
		apperr.Respond(c, apperr.With(apperr.ErrInternal, "STRIPE_WEBHOOK_SECRET not configured"))
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if sigHeader == "" {
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		apperr.Respond(c, apperr.With(apperr.ErrSignature, "Missing Stripe-Signature header"))
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrBadRequest, "Error reading request body"))
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		sigHeader,
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrSignature, ""))
		return
	}

	ctx := c.Request.Context()
	eventType := string(event.Type)
	log := logging.Log.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": eventType,
	})

	err = dispatch(ctx, database.DB, &event)

	outcome := billing.OutcomeProcessed
	switch {
	case errors.Is(err, errIgnored):
		outcome = billing.OutcomeIgnored
	case err != nil:
		outcome = billing.OutcomeFailed
	}
	metrics.WebhookEvents.WithLabelValues(eventType, outcome).Inc()
	recordDelivery(ctx, database.DB, &event, outcome, err)

	switch outcome {
	case billing.OutcomeIgnored:
		log.Debug("stripe event ignored")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	case billing.OutcomeFailed:
		log.WithError(err).Warn("stripe event not applied")
		apperr.Respond(c, err)
	default:
		log.Info("stripe event applied")
		c.JSON(http.StatusOK, gin.H{"status": "received"})
	}
}

func dispatch(ctx context.Context, db *gorm.DB, event *stripe.Event) error {
	switch event.Type {
	case eventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return apperr.Wrap(err, apperr.ErrBadRequest, "Failed to parse session")
		}
		return handleCheckoutSessionCompleted(ctx, db, &session)

	case eventSubscriptionUpdated:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return apperr.Wrap(err, apperr.ErrBadRequest, "Failed to parse subscription")
		}
		return handleSubscriptionUpdated(ctx, db, &sub)

	case eventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return apperr.Wrap(err, apperr.ErrBadRequest, "Failed to parse subscription")
		}
		return handleSubscriptionDeleted(ctx, db, &sub)

	case eventInvoicePaymentFail:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return apperr.Wrap(err, apperr.ErrBadRequest, "Failed to parse invoice")
		}
		return handleInvoicePaymentFailed(ctx, db, &inv)

	default:
		return errIgnored
	}
}

// recordDelivery writes the audit row. Failures are logged only; the
// delivery outcome has already been decided.
func recordDelivery(ctx context.Context, db *gorm.DB, event *stripe.Event, outcome string, procErr error) {
	if event.ID == "" {
		return
	}
	now := time.Now()
	ev := &billing.WebhookEvent{
		ID:          event.ID,
		Type:        string(event.Type),
		Outcome:     outcome,
		Deliveries:  1,
		ProcessedAt: &now,
	}
	if outcome == billing.OutcomeFailed && procErr != nil {
		ev.ProcessingError = procErr.Error()
	}
	if err := billing.RecordWebhookEvent(ctx, db, ev); err != nil {
		logging.Log.WithError(err).WithField("event_id", event.ID).Warn("failed to record webhook event")
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
