package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/platewise/platewise/pkg/config"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way the processor does:
// HMAC-SHA256 over "<timestamp>.<payload>" with the endpoint signing secret.
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newTestVerifier() Verifier {
	cfg := &cfgpkg.Config{}
	cfg.Stripe.WebhookSecret = testWebhookSecret
	return NewStripeVerifier(cfg)
}

func TestStripeVerifier_AcceptsSignedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.updated","data":{"object":{"id":"sub_1"}}}`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	event, err := newTestVerifier().ConstructEvent(payload, header)

	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "customer.subscription.updated", string(event.Type))
}

func TestStripeVerifier_RejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.updated","data":{"object":{"id":"sub_1"}}}`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	tampered := make([]byte, len(payload))
	copy(tampered, payload)
	tampered[len(tampered)/2] ^= 0x01

	_, err := newTestVerifier().ConstructEvent(tampered, header)

	assert.Error(t, err)
}

func TestStripeVerifier_RejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{}}}`)
	header := signPayload(payload, "whsec_other_secret", time.Now())

	_, err := newTestVerifier().ConstructEvent(payload, header)

	assert.Error(t, err)
}

func TestStripeVerifier_RejectsStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{}}}`)
	header := signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour))

	_, err := newTestVerifier().ConstructEvent(payload, header)

	assert.Error(t, err)
}

func TestStripeVerifier_RejectsMalformedHeader(t *testing.T) {
	payload := []byte(`{}`)

	for _, header := range []string{"", "garbage", "t=notanumber,v1=00"} {
		_, err := newTestVerifier().ConstructEvent(payload, header)
		assert.Error(t, err, "header %q", header)
	}
}
