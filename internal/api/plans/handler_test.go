package plans

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vidshelf/config"
	"vidshelf/internal/infra/stripegw/stripetest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
)

func getPlan(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/plan", GetPlan)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plan", nil))
	return w
}

func withConfig(t *testing.T, simulation bool, priceID string) {
	t.Helper()
	prevSim, prevPrice := config.BILLING_SIMULATION, config.STRIPE_PRICE_ID
	config.BILLING_SIMULATION, config.STRIPE_PRICE_ID = simulation, priceID
	t.Cleanup(func() { config.BILLING_SIMULATION, config.STRIPE_PRICE_ID = prevSim, prevPrice })
}

func TestGetPlanFromStripe(t *testing.T) {
	withConfig(t, false, "price_1")
	fake := stripetest.Install(t, stripetest.New())
	fake.Prices["price_1"] = &stripe.Price{
		ID:         "price_1",
		Currency:   stripe.CurrencyEUR,
		UnitAmount: 499,
		Product:    &stripe.Product{ID: "prod_1", Name: "Video shelf"},
		Recurring:  &stripe.PriceRecurring{Interval: stripe.PriceRecurringIntervalMonth},
	}

	w := getPlan(t)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dto PlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, PlanDTO{
		PriceID:     "price_1",
		ProductName: "Video shelf",
		Currency:    "eur",
		UnitAmount:  4.99,
		Interval:    "month",
	}, dto)
}

func TestGetPlanUnknownPrice(t *testing.T) {
	withConfig(t, false, "price_missing")
	stripetest.Install(t, stripetest.New())
	assert.Equal(t, http.StatusInternalServerError, getPlan(t).Code)
}

func TestGetPlanSimulation(t *testing.T) {
	withConfig(t, true, "")
	w := getPlan(t)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"dev_mode":true`)
}
