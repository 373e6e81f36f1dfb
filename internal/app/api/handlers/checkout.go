package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DishIs/temp-mail-sub000/internal/app/service/checkout"
	"github.com/DishIs/temp-mail-sub000/pkg/response"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

type checkoutRequest struct {
	Cycle string `json:"cycle" binding:"required"`
}

// @Summary      Start PayPal checkout
// @Description  Creates a PayPal subscription and returns the hosted approval URL.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body handlers.checkoutRequest true "Billing cycle selection"
// @Success      200  {object}  map[string]any
// @Router       /api/v1/checkout/paypal [post]
func ApiPayPalCheckout(svc checkout.Initiator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeBadRequest, "not authenticated"))
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		res, err := svc.CreatePayPalSubscription(c.Request.Context(), userID, types.BillingCycle(req.Cycle))
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Resolve Paddle price
// @Description  Returns the Paddle price id for the client-side checkout overlay.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body handlers.checkoutRequest true "Billing cycle selection"
// @Success      200  {object}  map[string]any
// @Router       /api/v1/checkout/paddle [post]
func ApiPaddleCheckout(svc checkout.Initiator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		res, err := svc.ResolvePaddlePrice(c.Request.Context(), userID, types.BillingCycle(req.Cycle))
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func writeCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrInvalidCycle):
		c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
	case errors.Is(err, checkout.ErrProviderRejected):
		c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
	case errors.Is(err, checkout.ErrMisconfigured):
		// Detail stays in the logs.
		c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "internal error"))
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "internal error"))
	}
}

func RegisterCheckoutRoutes(r gin.IRouter, svc checkout.Initiator) {
	r.POST("/checkout/paypal", ApiPayPalCheckout(svc))
	r.POST("/checkout/paddle", ApiPaddleCheckout(svc))
}
