package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	recipesvc "github.com/platewise/platewise/internal/app/service/recipe"
	models "github.com/platewise/platewise/internal/models"
	"github.com/platewise/platewise/pkg/response"
	types "github.com/platewise/platewise/pkg/types"
)

// @Summary      List Recipes
// @Description  Lists recipes with optional category, calorie, time and text filters.
// @Tags         Recipes
// @Produce      json
// @Param        category      query  string  false  "Recipe category"
// @Param        max_calories  query  int     false  "Maximum calories per serving"
// @Param        max_minutes   query  int     false  "Maximum prep+cook minutes"
// @Param        search        query  string  false  "Title search"
// @Param        from          query  int     false  "Offset"
// @Param        size          query  int     false  "Page size"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/recipes [get]
func ApiListRecipes(svc *recipesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter recipesvc.ListFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.List(c.Request.Context(), &filter)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Recipe
// @Tags         Recipes
// @Produce      json
// @Param        id path string true "Recipe id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/recipes/{id} [get]
func ApiGetRecipe(svc *recipesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, recipesvc.ErrRecipeNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(r))
	}
}

// @Summary      Create Recipe
// @Description  Creates a recipe. Restricted to nutritionists and admins.
// @Tags         Recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.Recipe true "Recipe"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/recipes [post]
func ApiCreateRecipe(svc *recipesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r models.Recipe
		if err := c.ShouldBindJSON(&r); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		created, err := svc.Create(c.Request.Context(), &r, c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(created))
	}
}

// @Summary      Update Recipe
// @Tags         Recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string        true "Recipe id"
// @Param        request body models.Recipe true "Recipe"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/recipes/{id} [put]
func ApiUpdateRecipe(svc *recipesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r models.Recipe
		if err := c.ShouldBindJSON(&r); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		isAdmin := types.UserRole(c.GetString("role")) == types.UserRoleAdmin
		updated, err := svc.Update(c.Request.Context(), c.Param("id"), &r, c.GetString("user_id"), isAdmin)
		if err != nil {
			code := response.APIResponseCodeError
			if errors.Is(err, recipesvc.ErrRecipeNotFound) || errors.Is(err, recipesvc.ErrNotOwner) {
				code = response.APIResponseCodeBadRequest
			}
			c.JSON(http.StatusOK, response.ErrorT[any](code, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(updated))
	}
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// @Summary      Review Recipe
// @Description  Creates or replaces the caller's review and refreshes the recipe's average rating.
// @Tags         Recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string              true "Recipe id"
// @Param        request body createReviewRequest true "Review"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/recipes/{id}/reviews [post]
func ApiCreateReview(svc *recipesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		review, err := svc.AddReview(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.Rating, req.Comment)
		if err != nil {
			code := response.APIResponseCodeError
			if errors.Is(err, recipesvc.ErrInvalidRating) || errors.Is(err, recipesvc.ErrRecipeNotFound) {
				code = response.APIResponseCodeBadRequest
			}
			c.JSON(http.StatusOK, response.ErrorT[any](code, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(review))
	}
}

// @Summary      List Reviews
// @Tags         Recipes
// @Produce      json
// @Param        id path string true "Recipe id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/recipes/{id}/reviews [get]
func ApiListReviews(svc *recipesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := svc.ListReviews(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(reviews))
	}
}

// RegisterRecipeRoutes mounts the public recipe surface.
func RegisterRecipeRoutes(r gin.IRouter, svc *recipesvc.Service) {
	r.GET("/recipes", ApiListRecipes(svc))
	r.GET("/recipes/:id", ApiGetRecipe(svc))
	r.GET("/recipes/:id/reviews", ApiListReviews(svc))
}

// RegisterRecipeAuthorRoutes mounts the authoring surface; mount behind the
// nutritionist/admin role gate.
func RegisterRecipeAuthorRoutes(r gin.IRouter, svc *recipesvc.Service) {
	r.POST("/recipes", ApiCreateRecipe(svc))
	r.PUT("/recipes/:id", ApiUpdateRecipe(svc))
}

// RegisterRecipeReviewerRoutes mounts the review surface open to any
// authenticated user.
func RegisterRecipeReviewerRoutes(r gin.IRouter, svc *recipesvc.Service) {
	r.POST("/recipes/:id/reviews", ApiCreateReview(svc))
}
