package event_handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/platewise/platewise/internal/app/service/billing"
	eventlog "github.com/platewise/platewise/internal/app/service/event_log"
	"github.com/platewise/platewise/internal/app/service/subscription"
	models "github.com/platewise/platewise/internal/models"
	"github.com/platewise/platewise/internal/platform/payment"
	"github.com/platewise/platewise/pkg/logctx"
)

// ErrInvalidSignature marks a payload that failed webhook signature
// verification. The HTTP layer maps it to a definitive 400 so the processor
// does not endlessly retry an unfixable mismatch.
var ErrInvalidSignature = errors.New("invalid webhook signature")

const providerStripe = "stripe"

// reconciler is the slice of the subscription service the router drives.
type reconciler interface {
	UpsertActiveSubscription(ctx context.Context, userID, stripeSubscriptionID, stripePriceID string) error
	Cancel(ctx context.Context, userID, stripeSubscriptionID string) error
}

// customerResolver reverse-maps processor customer ids to users.
type customerResolver interface {
	LookupUserByCustomer(ctx context.Context, customerID string) (string, error)
}

// eventLogger persists delivery outcomes for diagnosability.
type eventLogger interface {
	Save(ctx context.Context, entry *models.BillingEventLog)
}

type EventHandler struct {
	verifier payment.Verifier
	subSvc   reconciler
	billing  customerResolver
	logSvc   eventLogger
	Logger   *zap.SugaredLogger
}

func NewEventHandler(verifier payment.Verifier, sub *subscription.Service, bill *billing.Service, logSvc *eventlog.Service, log *zap.SugaredLogger) *EventHandler {
	return &EventHandler{verifier: verifier, subSvc: sub, billing: bill, logSvc: logSvc, Logger: log}
}

// HandleEvent verifies and dispatches one webhook delivery.
//
// The payload must be the exact bytes received on the wire; any
// re-serialization invalidates the signature. A nil return means the delivery
// is acknowledged (including recognized-but-unattributable and unrecognized
// events); a non-nil, non-ErrInvalidSignature return tells the HTTP layer to
// answer 500 so the processor redelivers.
func (h *EventHandler) HandleEvent(ctx context.Context, payload []byte, sigHeader string) (resErr error) {
	event, err := h.verifier.ConstructEvent(payload, sigHeader)
	if err != nil {
		logctx.FromCtx(ctx, h.Logger).Warnw("webhook_signature_rejected", "error", err.Error())
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	logctx.FromCtx(ctx, h.Logger).Infow("webhook_event_received",
		"event_id", event.ID, "event_type", event.Type)

	var userID string
	handled := true
	defer func() {
		status := models.BillingEventLogStatusHandled
		if !handled {
			status = models.BillingEventLogStatusIgnored
		}
		var errStr *string
		if resErr != nil {
			status = models.BillingEventLogStatusHandleFailed
			errStr = lo.ToPtr(resErr.Error())
		}
		h.logSvc.Save(ctx, &models.BillingEventLog{
			Provider:  providerStripe,
			EventID:   event.ID,
			EventType: string(event.Type),
			UserID: func() *string {
				if userID == "" {
					return nil
				}
				return lo.ToPtr(userID)
			}(),
			TraceID: traceIDFrom(ctx),
			Payload: datatypes.JSON(event.Data.Raw),
			Error:   errStr,
			Status:  status,
		})
	}()

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to parse checkout session: %w", err)
		}
		userID, err = h.attributeCheckout(ctx, &sess)
		if err != nil {
			return err
		}
		subID := ""
		if sess.Subscription != nil {
			subID = sess.Subscription.ID
		}
		return h.subSvc.UpsertActiveSubscription(ctx, userID, subID, sess.Metadata["price_id"])

	case "customer.subscription.created", "customer.subscription.updated":
		sub, uid, err := h.attributeSubscription(ctx, event.Data.Raw)
		if err != nil {
			return err
		}
		userID = uid
		return h.subSvc.UpsertActiveSubscription(ctx, userID, sub.ID, subscriptionPriceID(sub))

	case "customer.subscription.deleted":
		sub, uid, err := h.attributeSubscription(ctx, event.Data.Raw)
		if err != nil {
			return err
		}
		userID = uid
		return h.subSvc.Cancel(ctx, userID, sub.ID)

	default:
		// Tolerate processor evolution: unknown types are acknowledged, not errors.
		handled = false
		logctx.FromCtx(ctx, h.Logger).Infow("webhook_event_ignored", "event_type", event.Type)
		return nil
	}
}

// attributeCheckout resolves the user behind a completed checkout session:
// client reference id first, then session metadata, then the customer mapping.
func (h *EventHandler) attributeCheckout(ctx context.Context, sess *stripe.CheckoutSession) (string, error) {
	if sess.ClientReferenceID != "" {
		return sess.ClientReferenceID, nil
	}
	if uid := sess.Metadata["user_id"]; uid != "" {
		return uid, nil
	}
	if sess.Customer != nil {
		return h.billing.LookupUserByCustomer(ctx, sess.Customer.ID)
	}
	return "", nil
}

// attributeSubscription parses a subscription payload and resolves its user
// through the customer mapping; subscription events carry no user directly.
func (h *EventHandler) attributeSubscription(ctx context.Context, raw json.RawMessage) (*stripe.Subscription, string, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, "", fmt.Errorf("failed to parse subscription: %w", err)
	}
	if uid := sub.Metadata["user_id"]; uid != "" {
		return &sub, uid, nil
	}
	if sub.Customer == nil {
		return &sub, "", nil
	}
	uid, err := h.billing.LookupUserByCustomer(ctx, sub.Customer.ID)
	if err != nil {
		return nil, "", err
	}
	return &sub, uid, nil
}

func subscriptionPriceID(sub *stripe.Subscription) string {
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return ""
	}
	return sub.Items.Data[0].Price.ID
}

func traceIDFrom(ctx context.Context) string {
	if tid, ok := ctx.Value("traceID").(string); ok {
		return tid
	}
	return ""
}
