package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	eh "github.com/platewise/platewise/internal/app/service/event_handler"
	"github.com/platewise/platewise/pkg/logctx"
)

// @Summary      Stripe Webhook
// @Description  Handles Stripe billing lifecycle events. The raw body is verified against the Stripe-Signature header.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body string true "Stripe event payload"
// @Success      200  {object}  map[string]bool
// @Failure      400  {string}  string "signature verification failed"
// @Router       /api/v1/billing/webhook [post]
// ApiStripeWebhook handles Stripe webhook deliveries.
func ApiStripeWebhook(h *eh.EventHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The verifier needs the exact bytes received; never bind/re-marshal.
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logctx.FromGin(c, h.Logger).Errorw("webhook_body_read_error", "error", err.Error())
			c.String(http.StatusBadRequest, "failed to read request body")
			return
		}

		err = h.HandleEvent(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			if errors.Is(err, eh.ErrInvalidSignature) {
				// Definitive client error: the processor must not retry an
				// unfixable signature mismatch.
				c.String(http.StatusBadRequest, err.Error())
				return
			}
			// 500 signals the processor to redeliver later; handlers are
			// idempotent so the retry is safe.
			logctx.FromGin(c, h.Logger).Errorw("webhook_handle_error", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
