package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/platewise/platewise/internal/app/service/billing"
	eh "github.com/platewise/platewise/internal/app/service/event_handler"
)

func TestRegisterBillingRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1/billing")
	RegisterBillingRoutes(g, nil, nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/v1/billing/checkout"))
	require.True(t, contains("GET /api/v1/billing/subscription"))
	require.True(t, contains("GET /api/v1/billing/features/:feature"))
}

func TestRegisterRecipeRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterRecipeRoutes(g, nil)
	RegisterRecipeAuthorRoutes(g, nil)
	RegisterRecipeReviewerRoutes(g, nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("GET /api/v1/recipes"))
	require.True(t, contains("GET /api/v1/recipes/:id"))
	require.True(t, contains("GET /api/v1/recipes/:id/reviews"))
	require.True(t, contains("POST /api/v1/recipes"))
	require.True(t, contains("PUT /api/v1/recipes/:id"))
	require.True(t, contains("POST /api/v1/recipes/:id/reviews"))
}

type rejectingVerifier struct{}

func (rejectingVerifier) ConstructEvent([]byte, string) (stripe.Event, error) {
	return stripe.Event{}, errors.New("signature mismatch")
}

func TestApiStripeWebhook_BadSignatureIs400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := eh.NewEventHandler(rejectingVerifier{}, nil, nil, nil, zap.NewNop().Sugar())

	r := gin.New()
	r.POST("/api/v1/billing/webhook", ApiStripeWebhook(h))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook",
		bytes.NewReader([]byte(`{"id":"evt_1"}`)))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid webhook signature")
}

func TestApiCreateCheckoutSession_MissingParamsIs400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := billing.NewService(nil, nil, nil, nil, zap.NewNop().Sugar())

	r := gin.New()
	r.POST("/api/v1/billing/checkout",
		func(c *gin.Context) { c.Set("user_id", "u1") },
		ApiCreateCheckoutSession(svc),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/checkout",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
