package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	wh "github.com/DishIs/temp-mail-sub000/internal/app/service/webhook"
	"github.com/DishIs/temp-mail-sub000/pkg/logctx"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

// webhookHandler adapts one provider's deliveries to the shared response
// contract: after verification the provider always sees 200, even when
// internal processing failed (reported via "warning"). Only bad JSON (400)
// and failed verification (401) are terminal.
func webhookHandler(h *wh.Handler, provider types.PaymentProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, h.Logger)
		log.Infow("webhook_received", "provider", provider)

		res, err := h.Handle(c, provider)
		if err != nil {
			switch {
			case errors.Is(err, wh.ErrVerificationFailed):
				log.Warnw("webhook_rejected", "provider", provider, "error", err.Error())
				c.JSON(http.StatusUnauthorized, gin.H{"error": "signature verification failed"})
			case errors.Is(err, wh.ErrBadPayload):
				log.Warnw("webhook_bad_payload", "provider", provider, "error", err.Error())
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
			default:
				// Past verification nothing is allowed to turn into a retry
				// storm; answer 200 and rely on logging/dead-letter.
				log.Errorw("webhook_handle_error", "provider", provider, "error", err.Error())
				c.JSON(http.StatusOK, gin.H{"received": true, "warning": "processing failed"})
			}
			return
		}

		if res.Warning != "" {
			c.JSON(http.StatusOK, gin.H{"received": true, "warning": res.Warning})
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

// @Summary      PayPal Webhook
// @Description  Handles PayPal subscription webhook events. Signature is verified remotely via verify-webhook-signature.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/paypal/webhook [post]
func ApiPayPalWebhook(h *wh.Handler) gin.HandlerFunc {
	return webhookHandler(h, types.PaymentProviderPayPal)
}

// @Summary      Paddle Webhook
// @Description  Handles Paddle Billing webhook events. Signature is verified locally (HMAC-SHA256, ts/h1 header).
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/paddle/webhook [post]
func ApiPaddleWebhook(h *wh.Handler) gin.HandlerFunc {
	return webhookHandler(h, types.PaymentProviderPaddle)
}

func RegisterWebhookRoutes(r gin.IRouter, h *wh.Handler) {
	r.POST("/paypal/webhook", ApiPayPalWebhook(h))
	r.POST("/paddle/webhook", ApiPaddleWebhook(h))
}
