// Package stripetest provides an in-memory stripegw.Gateway for tests.
package stripetest

import (
	"context"
	"fmt"
	"sync"

	"vidshelf/internal/infra/stripegw"

	"github.com/stripe/stripe-go/v75"
)

type Fake struct {
	mu sync.Mutex

	Subscriptions map[string]*stripe.Subscription
	Customers     map[string]string // email -> customer id
	Prices        map[string]*stripe.Price
	Sessions      []stripegw.CheckoutRequest

	// Err, when set, fails every call.
	Err error

	GetSubscriptionCalls int
}

func New() *Fake {
	return &Fake{
		Subscriptions: map[string]*stripe.Subscription{},
		Customers:     map[string]string{},
		Prices:        map[string]*stripe.Price{},
	}
}

// Install makes f the current gateway until the test ends.
func Install(t interface{ Cleanup(func()) }, f *Fake) *Fake {
	stripegw.Use(f)
	t.Cleanup(func() { stripegw.Use(nil) })
	return f
}

func (f *Fake) GetSubscription(_ context.Context, id string) (*stripe.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetSubscriptionCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	sub, ok := f.Subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("no such subscription: %s", id)
	}
	return sub, nil
}

func (f *Fake) FindOrCreateCustomer(_ context.Context, email string, _ uint) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	if id, ok := f.Customers[email]; ok {
		return id, nil
	}
	id := fmt.Sprintf("cus_fake_%d", len(f.Customers)+1)
	f.Customers[email] = id
	return id, nil
}

func (f *Fake) NewCheckoutSession(_ context.Context, req stripegw.CheckoutRequest) (*stripegw.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.Sessions = append(f.Sessions, req)
	id := fmt.Sprintf("cs_fake_%d", len(f.Sessions))
	return &stripegw.CheckoutSession{ID: id, URL: "https://checkout.stripe.test/" + id}, nil
}

func (f *Fake) NewPortalSession(_ context.Context, customerID, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	return "https://billing.stripe.test/" + customerID, nil
}

func (f *Fake) GetPrice(_ context.Context, id string) (*stripe.Price, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	p, ok := f.Prices[id]
	if !ok {
		return nil, fmt.Errorf("no such price: %s", id)
	}
	return p, nil
}
