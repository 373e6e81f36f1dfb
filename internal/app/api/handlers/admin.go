package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DishIs/temp-mail-sub000/internal/app/service/eventlog"
	"github.com/DishIs/temp-mail-sub000/pkg/response"
)

// @Summary      List webhook events
// @Description  Paginated listing of recorded webhook deliveries for debugging and replay.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body eventlog.ScanRequest true "Filter and pagination"
// @Success      200  {object}  map[string]any
// @Router       /api/v1/admin/webhook-events [post]
func ApiListWebhookEvents(svc *eventlog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req eventlog.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Scan(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, svc *eventlog.Service) {
	r.POST("/webhook-events", ApiListWebhookEvents(svc))
}
