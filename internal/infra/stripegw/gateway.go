// Package stripegw wraps the Stripe calls the service makes so handlers can
// be exercised without the network.
package stripegw

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

var ErrNotConfigured = errors.New("stripe gateway not configured")

type Gateway interface {
	GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error)
	FindOrCreateCustomer(ctx context.Context, email string, userID uint) (string, error)
	NewCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	NewPortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	GetPrice(ctx context.Context, id string) (*stripe.Price, error)
}

type CheckoutRequest struct {
	CustomerID string
	PriceID    string
	UserID     uint
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string
	URL string
}

var (
	mu      sync.RWMutex
	current Gateway
)

// Use installs the gateway handlers call through. Passing nil unsets it.
func Use(g Gateway) {
	mu.Lock()
	current = g
	mu.Unlock()
}

func Current() (Gateway, error) {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return nil, ErrNotConfigured
	}
	return current, nil
}

// Client is the live Gateway backed by stripe-go.
type Client struct {
	api *client.API
}

func NewClient(secretKey string) *Client {
	return &Client{api: client.New(secretKey, nil)}
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := c.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", id, err)
	}
	return sub, nil
}

func (c *Client) FindOrCreateCustomer(ctx context.Context, email string, userID uint) (string, error) {
	list := &stripe.CustomerListParams{Email: stripe.String(email)}
	list.Context = ctx
	list.Limit = stripe.Int64(1)

	it := c.api.Customers.List(list)
	for it.Next() {
		if cus := it.Customer(); cus != nil && cus.ID != "" {
			return cus.ID, nil
		}
	}
	if err := it.Err(); err != nil {
		return "", fmt.Errorf("list customers: %w", err)
	}

	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.Context = ctx
	params.AddMetadata("user_id", strconv.FormatUint(uint64(userID), 10))
	cus, err := c.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return cus.ID, nil
}

func (c *Client) NewCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	uid := strconv.FormatUint(uint64(req.UserID), 10)

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(req.CustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.PriceID), Quantity: stripe.Int64(1)},
		},
		ClientReferenceID: stripe.String(uid),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"user_id": uid},
		},
	}
	params.Context = ctx
	params.AddMetadata("user_id", uid)

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (c *Client) NewPortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx
	s, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create billing portal session: %w", err)
	}
	return s.URL, nil
}

// GetPrice fetches a price with its product expanded.
func (c *Client) GetPrice(ctx context.Context, id string) (*stripe.Price, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx
	params.AddExpand("product")
	p, err := c.api.Prices.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get price %s: %w", id, err)
	}
	return p, nil
}

// Period converts the subscription's unix period bounds. Zero bounds are nil.
func Period(sub *stripe.Subscription) (start, end *time.Time) {
	if sub == nil {
		return nil, nil
	}
	if sub.CurrentPeriodStart > 0 {
		t := time.Unix(sub.CurrentPeriodStart, 0).UTC()
		start = &t
	}
	if sub.CurrentPeriodEnd > 0 {
		t := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		end = &t
	}
	return start, end
}

// PriceID returns the price of the first subscription item, if any.
func PriceID(sub *stripe.Subscription) string {
	if sub == nil || sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return ""
	}
	return sub.Items.Data[0].Price.ID
}

func CustomerID(cus *stripe.Customer) string {
	if cus == nil {
		return ""
	}
	return cus.ID
}
