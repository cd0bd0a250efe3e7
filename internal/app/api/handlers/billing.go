package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/platewise/internal/app/service/billing"
	subsvc "github.com/platewise/platewise/internal/app/service/subscription"
	"github.com/platewise/platewise/pkg/response"
)

// @Summary      Create Checkout Session
// @Description  Starts a hosted checkout for a plan or price and returns the redirect URL. The local subscription row is written only when the webhook confirms payment.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body billing.CheckoutRequest true "Checkout request"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/billing/checkout [post]
func ApiCreateCheckoutSession(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req billing.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		url, err := svc.CreateCheckoutSession(c.Request.Context(), c.GetString("user_id"), &req)
		if err != nil {
			switch {
			case errors.Is(err, billing.ErrMissingParameters), errors.Is(err, billing.ErrPlanNotPurchasable):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, billing.ErrUserNotFound):
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			default:
				// Surface the underlying message for diagnosability.
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

// @Summary      Current Subscription
// @Description  Returns the caller's current subscription state; this is the poll-after-checkout path.
// @Tags         Billing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/billing/subscription [get]
func ApiGetSubscription(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := sub.CurrentInfo(c.Request.Context(), c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(info))
	}
}

// @Summary      Feature Entitlement
// @Description  Reports whether the caller's plan unlocks the named feature.
// @Tags         Billing
// @Produce      json
// @Security     BearerAuth
// @Param        feature path string true "Feature flag name"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/billing/features/{feature} [get]
func ApiCheckFeature(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := sub.HasFeature(c.Request.Context(), c.GetString("user_id"), c.Param("feature"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(gin.H{"enabled": ok}))
	}
}

func RegisterBillingRoutes(r gin.IRouter, svc *billing.Service, sub *subsvc.Service) {
	r.POST("/checkout", ApiCreateCheckoutSession(svc))
	r.GET("/subscription", ApiGetSubscription(sub))
	r.GET("/features/:feature", ApiCheckFeature(sub))
}
