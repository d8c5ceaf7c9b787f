package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vidshelf/config"
	"vidshelf/internal/app/http/middleware"
	billingdomain "vidshelf/internal/domain/billing"
	"vidshelf/internal/domain/users"
	"vidshelf/internal/infra/stripegw/stripetest"
	"vidshelf/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRouter(t *testing.T, simulation bool) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.NewDB(t)

	prevSim, prevURL, prevPrice := config.BILLING_SIMULATION, config.APP_URL, config.STRIPE_PRICE_ID
	config.BILLING_SIMULATION = simulation
	config.APP_URL = "http://app.test"
	config.STRIPE_PRICE_ID = "price_1"
	t.Cleanup(func() {
		config.BILLING_SIMULATION, config.APP_URL, config.STRIPE_PRICE_ID = prevSim, prevURL, prevPrice
	})

	r := gin.New()
	auth := r.Group("/", middleware.AuthMiddleware())
	auth.POST("/checkout", CreateCheckoutSession)
	auth.GET("/subscription", GetSubscription)
	auth.POST("/billing-portal", CreateBillingPortal)
	return db, r
}

func call(t *testing.T, r http.Handler, method, path string, u users.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+testutil.Token(t, u))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCheckoutProviderMode(t *testing.T) {
	db, r := newRouter(t, false)
	fake := stripetest.Install(t, stripetest.New())
	u := testutil.CreateUser(t, db, "a@example.com", users.RoleUser)

	w := call(t, r, http.MethodPost, "/checkout", u)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "https://checkout.stripe.test/cs_fake_1", body["url"])
	assert.Equal(t, false, body["dev_mode"])

	require.Len(t, fake.Sessions, 1)
	assert.Equal(t, "price_1", fake.Sessions[0].PriceID)
	assert.Equal(t, u.ID, fake.Sessions[0].UserID)
	assert.Equal(t, "http://app.test/account", fake.Sessions[0].SuccessURL)

	sub, err := billingdomain.FindByUser(context.Background(), db, u.ID)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, billingdomain.StatusInactive, sub.Status)
	assert.Equal(t, "cus_fake_1", sub.StripeCustomerID)

	// A second attempt reuses the customer and leaves one record.
	w = call(t, r, http.MethodPost, "/checkout", u)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cus_fake_1", fake.Sessions[1].CustomerID)
	var n int64
	require.NoError(t, db.Model(&billingdomain.Subscription{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCheckoutRejectsActive(t *testing.T) {
	db, r := newRouter(t, false)
	fake := stripetest.Install(t, stripetest.New())
	u := testutil.CreateUser(t, db, "a@example.com", users.RoleUser)
	testutil.CreateSubscription(t, db, u.ID, "cus_1", billingdomain.StatusActive)

	w := call(t, r, http.MethodPost, "/checkout", u)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, fake.Sessions)
}

func TestCheckoutProviderFailure(t *testing.T) {
	db, r := newRouter(t, false)
	fake := stripetest.Install(t, stripetest.New())
	fake.Err = errors.New("boom")
	u := testutil.CreateUser(t, db, "a@example.com", users.RoleUser)

	w := call(t, r, http.MethodPost, "/checkout", u)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	sub, err := billingdomain.FindByUser(context.Background(), db, u.ID)
	require.NoError(t, err)
	assert.Nil(t, sub)
}

func TestCheckoutSimulationMode(t *testing.T) {
	db, r := newRouter(t, true)
	u := testutil.CreateUser(t, db, "a@example.com", users.RoleUser)

	w := call(t, r, http.MethodPost, "/checkout", u)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "http://app.test/account?simulated=1", body["url"])
	assert.Equal(t, true, body["dev_mode"])

	sub, err := billingdomain.FindByUser(context.Background(), db, u.ID)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, billingdomain.StatusActive, sub.Status)
	assert.Equal(t, fmt.Sprintf("sim_cus_%d", u.ID), sub.StripeCustomerID)
	assert.Equal(t, fmt.Sprintf("sim_sub_%d", u.ID), sub.StripeSubscriptionID)
	assert.Equal(t, "sim_price", sub.StripePriceID)
	require.NotNil(t, sub.CurrentPeriodStart)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.Equal(t, 30*24*time.Hour, sub.CurrentPeriodEnd.Sub(*sub.CurrentPeriodStart))

	assert.Equal(t, http.StatusConflict, call(t, r, http.MethodPost, "/checkout", u).Code)
}

func TestGetSubscription(t *testing.T) {
	db, r := newRouter(t, false)
	u := testutil.CreateUser(t, db, "a@example.com", users.RoleUser)

	body := decode(t, call(t, r, http.MethodGet, "/subscription", u))
	assert.Nil(t, body["subscription"])
	assert.Equal(t, false, body["active"])
	assert.Equal(t, "locked", body["access"])

	testutil.CreateSubscription(t, db, u.ID, "cus_1", billingdomain.StatusActive)
	body = decode(t, call(t, r, http.MethodGet, "/subscription", u))
	assert.Equal(t, true, body["active"])
	sub := body["subscription"].(map[string]interface{})
	assert.Equal(t, "ACTIVE", sub["status"])
}

func TestBillingPortal(t *testing.T) {
	db, r := newRouter(t, false)
	stripetest.Install(t, stripetest.New())
	u := testutil.CreateUser(t, db, "a@example.com", users.RoleUser)

	assert.Equal(t, http.StatusConflict, call(t, r, http.MethodPost, "/billing-portal", u).Code)

	testutil.CreateSubscription(t, db, u.ID, "cus_1", billingdomain.StatusActive)
	w := call(t, r, http.MethodPost, "/billing-portal", u)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://billing.stripe.test/cus_1", decode(t, w)["url"])

	config.BILLING_SIMULATION = true
	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodPost, "/billing-portal", u).Code)
}
