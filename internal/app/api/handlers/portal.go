package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DishIs/temp-mail-sub000/internal/app/service/checkout"
	"github.com/DishIs/temp-mail-sub000/pkg/response"
)

// @Summary      Billing portal
// @Description  Opens a Paddle customer-portal session for the authenticated user.
// @Tags         Checkout
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/v1/billing/portal [get]
func ApiBillingPortal(svc checkout.Initiator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeBadRequest, "not authenticated"))
			return
		}

		url, err := svc.CreatePortalSession(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "internal error"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]string{"portal_url": url}))
	}
}

func RegisterPortalRoutes(r gin.IRouter, svc checkout.Initiator) {
	r.GET("/billing/portal", ApiBillingPortal(svc))
}
