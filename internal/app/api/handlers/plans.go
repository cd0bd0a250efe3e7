package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	plansvc "github.com/platewise/platewise/internal/app/service/plan"
	"github.com/platewise/platewise/pkg/response"
)

// @Summary      List Plans
// @Description  Lists active subscription plans for the pricing page.
// @Tags         Plans
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/plans [get]
func ApiListPlans(svc *plansvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		plans, err := svc.ListActive(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(plans))
	}
}

func RegisterPlanRoutes(r gin.IRouter, svc *plansvc.Service) {
	r.GET("/plans", ApiListPlans(svc))
}
