package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/platewise/platewise/pkg/config"
)

// CheckoutParams describes one hosted checkout session.
type CheckoutParams struct {
	CustomerID string
	PriceID    string
	UserID     string
	SuccessURL string
	CancelURL  string
}

// Gateway is the processor-side surface the billing service depends on.
// Kept minimal so tests can substitute a fake.
type Gateway interface {
	// CreateCustomer creates a processor-side customer and returns its id.
	CreateCustomer(ctx context.Context, email, userID string) (string, error)
	// CreateCheckoutSession creates a hosted checkout session and returns its redirect URL.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)
}

// Verifier authenticates a raw webhook payload against its signature header.
type Verifier interface {
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

// StripeGateway implements Gateway against the Stripe REST API.
type StripeGateway struct {
	api *client.API
	log *zap.SugaredLogger
}

func NewStripeGateway(cfg *cfgpkg.Config, log *zap.SugaredLogger) Gateway {
	api := &client.API{}
	api.Init(cfg.Stripe.SecretKey, nil)
	return &StripeGateway{api: api, log: log}
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, email, userID string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Metadata: map[string]string{
			"user_id": userID,
		},
	}
	params.Context = ctx
	c, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create stripe customer: %w", err)
	}
	g.log.Infow("stripe_customer_created", "customer_id", c.ID, "user_id", userID)
	return c.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(p.CustomerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(p.SuccessURL),
		CancelURL:         stripe.String(p.CancelURL),
		ClientReferenceID: stripe.String(p.UserID),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"user_id": p.UserID},
		},
	}
	// Mirrored into the completed-session event so the webhook can attribute
	// the purchase without extra API calls.
	params.AddMetadata("user_id", p.UserID)
	params.AddMetadata("price_id", p.PriceID)
	params.Context = ctx
	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	g.log.Infow("checkout_session_created", "session_id", s.ID, "user_id", p.UserID)
	return s.URL, nil
}

// StripeVerifier verifies webhook signatures with the shared signing secret.
// Verification must run on the exact bytes received; re-serializing the body
// before calling ConstructEvent breaks the signature.
type StripeVerifier struct {
	secret string
}

func NewStripeVerifier(cfg *cfgpkg.Config) Verifier {
	return &StripeVerifier{secret: cfg.Stripe.WebhookSecret}
}

func (v *StripeVerifier) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, sigHeader, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

var Module = fx.Options(
	fx.Provide(NewStripeGateway),
	fx.Provide(NewStripeVerifier),
)
