package subscription

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	models "github.com/platewise/platewise/internal/models"
	"github.com/platewise/platewise/pkg/tool"
	types "github.com/platewise/platewise/pkg/types"
)

// memStore is an in-memory Store used to observe reconciler writes.
type memStore struct {
	rows []*models.UserSubscription
}

func (m *memStore) LatestByUser(_ context.Context, userID string) (*models.UserSubscription, error) {
	var matches []*models.UserSubscription
	for _, r := range m.rows {
		if r.UserID == userID {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	cp := *matches[0]
	return &cp, nil
}

func (m *memStore) FindByUserAndStripeID(_ context.Context, userID, stripeID string) (*models.UserSubscription, error) {
	for _, r := range m.rows {
		if r.UserID == userID && r.StripeSubscriptionID == stripeID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) Save(_ context.Context, sub *models.UserSubscription) error {
	if sub.ID == "" {
		sub.ID = tool.GenerateUUIDV7()
		sub.CreatedAt = time.Now()
	}
	sub.UpdatedAt = time.Now()
	for i, r := range m.rows {
		if r.ID == sub.ID {
			cp := *sub
			m.rows[i] = &cp
			return nil
		}
	}
	cp := *sub
	m.rows = append(m.rows, &cp)
	return nil
}

// stubPlans is a fixed price→plan catalog.
type stubPlans struct {
	plans map[string]*models.SubscriptionPlan
}

func (s *stubPlans) GetByID(_ context.Context, id string) (*models.SubscriptionPlan, error) {
	for _, p := range s.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *stubPlans) GetByStripePriceID(_ context.Context, priceID string) (*models.SubscriptionPlan, error) {
	return s.plans[priceID], nil
}

func newTestService(store Store, plans planResolver) *Service {
	return &Service{store: store, plans: plans, log: zap.NewNop().Sugar()}
}

func TestUpsertActiveSubscription_CreatesThenIdempotent(t *testing.T) {
	store := &memStore{}
	planID := tool.GenerateUUIDV7()
	svc := newTestService(store, &stubPlans{plans: map[string]*models.SubscriptionPlan{
		"price_A": {ID: planID, Name: "Pro", StripePriceID: "price_A", IsActive: true},
	}})
	ctx := context.Background()

	require.NoError(t, svc.UpsertActiveSubscription(ctx, "u1", "sub_1", "price_A"))
	require.Len(t, store.rows, 1)
	first := *store.rows[0]
	assert.Equal(t, types.SubscriptionStatusActive, first.Status)
	require.NotNil(t, first.PlanID)
	assert.Equal(t, planID, *first.PlanID)
	assert.Equal(t, "sub_1", first.StripeSubscriptionID)

	// Redelivery of the same event must not change the resulting state.
	require.NoError(t, svc.UpsertActiveSubscription(ctx, "u1", "sub_1", "price_A"))
	require.Len(t, store.rows, 1)
	second := *store.rows[0]
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.PlanID, second.PlanID)
	assert.Equal(t, first.StripeSubscriptionID, second.StripeSubscriptionID)
}

func TestUpsertActiveSubscription_MissingUserIsNoop(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, &stubPlans{})

	err := svc.UpsertActiveSubscription(context.Background(), "", "sub_1", "price_A")

	require.NoError(t, err)
	assert.Empty(t, store.rows)
}

func TestUpsertActiveSubscription_UnknownPriceToleratesCatalogDrift(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, &stubPlans{})

	require.NoError(t, svc.UpsertActiveSubscription(context.Background(), "u1", "sub_1", "price_gone"))

	require.Len(t, store.rows, 1)
	assert.Nil(t, store.rows[0].PlanID)
	assert.Equal(t, types.SubscriptionStatusActive, store.rows[0].Status)
}

func TestUpsertActiveSubscription_UpdatesMostRecentRow(t *testing.T) {
	old := &models.UserSubscription{
		ID: "old", UserID: "u1", Status: types.SubscriptionStatusExpired,
		StripeSubscriptionID: "sub_old", CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	newest := &models.UserSubscription{
		ID: "new", UserID: "u1", Status: types.SubscriptionStatusPending,
		StripeSubscriptionID: "sub_new", CreatedAt: time.Now().Add(-1 * time.Hour),
	}
	store := &memStore{rows: []*models.UserSubscription{old, newest}}
	svc := newTestService(store, &stubPlans{})

	require.NoError(t, svc.UpsertActiveSubscription(context.Background(), "u1", "sub_new", ""))

	require.Len(t, store.rows, 2)
	for _, r := range store.rows {
		switch r.ID {
		case "old":
			assert.Equal(t, types.SubscriptionStatusExpired, r.Status)
		case "new":
			assert.Equal(t, types.SubscriptionStatusActive, r.Status)
		}
	}
}

func TestCancel_TouchesOnlyMatchingRow(t *testing.T) {
	a := &models.UserSubscription{
		ID: "a", UserID: "u1", Status: types.SubscriptionStatusActive,
		StripeSubscriptionID: "sub_a", CreatedAt: time.Now().Add(-24 * time.Hour),
	}
	b := &models.UserSubscription{
		ID: "b", UserID: "u1", Status: types.SubscriptionStatusActive,
		StripeSubscriptionID: "sub_b", CreatedAt: time.Now(),
	}
	store := &memStore{rows: []*models.UserSubscription{a, b}}
	svc := newTestService(store, &stubPlans{})

	require.NoError(t, svc.Cancel(context.Background(), "u1", "sub_a"))

	require.Len(t, store.rows, 2)
	for _, r := range store.rows {
		switch r.ID {
		case "a":
			assert.Equal(t, types.SubscriptionStatusCancelled, r.Status)
			assert.False(t, r.AutoRenew)
		case "b":
			assert.Equal(t, types.SubscriptionStatusActive, r.Status)
		}
	}
}

func TestCancel_NoMatchIsNoop(t *testing.T) {
	a := &models.UserSubscription{
		ID: "a", UserID: "u1", Status: types.SubscriptionStatusActive,
		StripeSubscriptionID: "sub_a", CreatedAt: time.Now(),
	}
	store := &memStore{rows: []*models.UserSubscription{a}}
	svc := newTestService(store, &stubPlans{})

	require.NoError(t, svc.Cancel(context.Background(), "u1", "sub_other"))
	require.NoError(t, svc.Cancel(context.Background(), "", "sub_a"))

	assert.Equal(t, types.SubscriptionStatusActive, store.rows[0].Status)
}

func TestCheckoutThenDeleteScenario(t *testing.T) {
	store := &memStore{}
	planID := tool.GenerateUUIDV7()
	svc := newTestService(store, &stubPlans{plans: map[string]*models.SubscriptionPlan{
		"price_A": {ID: planID, Name: "Pro", StripePriceID: "price_A", IsActive: true},
	}})
	ctx := context.Background()

	// checkout.session.completed for a user with no prior rows
	require.NoError(t, svc.UpsertActiveSubscription(ctx, "U1", "sub_1", "price_A"))
	require.Len(t, store.rows, 1)
	row := store.rows[0]
	assert.Equal(t, types.SubscriptionStatusActive, row.Status)
	require.NotNil(t, row.PlanID)
	assert.Equal(t, planID, *row.PlanID)
	assert.Equal(t, "sub_1", row.StripeSubscriptionID)

	// customer.subscription.deleted for the same subscription
	require.NoError(t, svc.Cancel(ctx, "U1", "sub_1"))
	require.Len(t, store.rows, 1)
	assert.Equal(t, types.SubscriptionStatusCancelled, store.rows[0].Status)
}

func TestHasFeature(t *testing.T) {
	planID := tool.GenerateUUIDV7()
	plans := &stubPlans{plans: map[string]*models.SubscriptionPlan{
		"price_A": newPlanWithFeatures(planID, "ai-mentor"),
	}}

	tests := []struct {
		name    string
		rows    []*models.UserSubscription
		feature string
		want    bool
	}{
		{name: "no subscription", feature: "ai-mentor", want: false},
		{
			name: "active plan with feature",
			rows: []*models.UserSubscription{{
				ID: "a", UserID: "u1", PlanID: &planID,
				Status: types.SubscriptionStatusActive, CreatedAt: time.Now(),
			}},
			feature: "ai-mentor",
			want:    true,
		},
		{
			name: "active plan without feature",
			rows: []*models.UserSubscription{{
				ID: "a", UserID: "u1", PlanID: &planID,
				Status: types.SubscriptionStatusActive, CreatedAt: time.Now(),
			}},
			feature: "meal-export",
			want:    false,
		},
		{
			name: "cancelled subscription",
			rows: []*models.UserSubscription{{
				ID: "a", UserID: "u1", PlanID: &planID,
				Status: types.SubscriptionStatusCancelled, CreatedAt: time.Now(),
			}},
			feature: "ai-mentor",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&memStore{rows: tt.rows}, plans)
			got, err := svc.HasFeature(context.Background(), "u1", tt.feature)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newPlanWithFeatures(id string, features ...string) *models.SubscriptionPlan {
	return &models.SubscriptionPlan{
		ID: id, Name: "Pro", StripePriceID: "price_A", IsActive: true,
		Features: datatypes.NewJSONType(features),
	}
}
