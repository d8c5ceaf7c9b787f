package plans

import (
	"net/http"

	"vidshelf/config"
	"vidshelf/internal/apperr"
	"vidshelf/internal/infra/stripegw"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

type PlanDTO struct {
	PriceID     string  `json:"price_id"`
	ProductName string  `json:"product_name"`
	Currency    string  `json:"currency"`
	UnitAmount  float64 `json:"unit_amount"` // major units
	Interval    string  `json:"interval"`
	DevMode     bool    `json:"dev_mode"`
}

// GetPlan describes the one subscription price checkout sells.
func GetPlan(c *gin.Context) {
	if config.BILLING_SIMULATION {
		c.JSON(http.StatusOK, PlanDTO{
			PriceID:     "sim_price",
			ProductName: "Simulated subscription",
			Currency:    "eur",
			Interval:    "month",
			DevMode:     true,
		})
		return
	}

	gw, err := stripegw.Current()
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrProvider, ""))
		return
	}
	p, err := gw.GetPrice(c.Request.Context(), config.STRIPE_PRICE_ID)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrProvider, "Failed to fetch Stripe price"))
		return
	}

	c.JSON(http.StatusOK, BuildPlanDTO(p))
}

func BuildPlanDTO(p *stripe.Price) PlanDTO {
	dto := PlanDTO{
		PriceID:    p.ID,
		Currency:   string(p.Currency),
		UnitAmount: float64(p.UnitAmount) / 100.0,
	}
	if p.Product != nil {
		dto.ProductName = p.Product.Name
	}
	if p.Recurring != nil {
		dto.Interval = string(p.Recurring.Interval)
	}
	return dto
}
