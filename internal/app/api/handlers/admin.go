package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subsvc "github.com/platewise/platewise/internal/app/service/subscription"
	"github.com/platewise/platewise/pkg/response"
)

// @Summary      List Subscriptions (admin)
// @Description  Paginated subscription listing with filters for back-office pages.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.ListSubscriptionsRequest true "Listing request"
// @Success      200  {object}  handlers.RespListSubscriptions
// @Router       /api/v1/admin/subscriptions/list [post]
func ApiAdminListSubscriptions(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subsvc.ListSubscriptionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := sub.ListSubscriptions(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Subscription Statistics (admin)
// @Description  Subscription counts by status and active counts by plan.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespSubscriptionStatistics
// @Router       /api/v1/admin/statistics/subscriptions [get]
func ApiAdminSubscriptionStatistics(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := sub.Statistics(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, sub *subsvc.Service) {
	r.POST("/subscriptions/list", ApiAdminListSubscriptions(sub))
	r.GET("/statistics/subscriptions", ApiAdminSubscriptionStatistics(sub))
}
