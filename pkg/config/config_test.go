package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullConfig() *Config {
	return &Config{
		Database:      DBConfig{DSN: "postgres://localhost/app"},
		Stripe:        StripeConfig{SecretKey: "sk_test_x", WebhookSecret: "whsec_x"},
		Auth:          AuthConfig{JWTSecret: "secret"},
		PublicBaseURL: "https://app.example.com",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, fullConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{name: "missing dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantKey: "database.dsn"},
		{name: "missing stripe secret", mutate: func(c *Config) { c.Stripe.SecretKey = "" }, wantKey: "stripe.secret_key"},
		{name: "missing webhook secret", mutate: func(c *Config) { c.Stripe.WebhookSecret = "" }, wantKey: "stripe.webhook_secret"},
		{name: "missing jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantKey: "auth.jwt_secret"},
		{name: "missing base url", mutate: func(c *Config) { c.PublicBaseURL = "" }, wantKey: "public_base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fullConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestCheckoutURLs(t *testing.T) {
	cfg := &Config{PublicBaseURL: "https://app.example.com/"}
	assert.Equal(t, "https://app.example.com/billing/success", cfg.CheckoutSuccessURL())
	assert.Equal(t, "https://app.example.com/billing/cancel", cfg.CheckoutCancelURL())
}
