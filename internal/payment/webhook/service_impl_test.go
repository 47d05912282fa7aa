package webhook

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/config"
	"github.com/shopyard/shopyard/internal/migration"
	orderdomain "github.com/shopyard/shopyard/internal/order/domain"
	"github.com/shopyard/shopyard/internal/payment/domain"
	providerwebhook "github.com/shopyard/shopyard/internal/providers/webhook"
	referraldomain "github.com/shopyard/shopyard/internal/referral/domain"
	"github.com/shopyard/shopyard/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "whsec_test"

type orderStub struct {
	mu        sync.Mutex
	markCalls int
	order     *orderdomain.Order
	changed   bool
	err       error
}

func (s *orderStub) PlaceOrder(ctx context.Context, req orderdomain.PlaceOrderRequest) (*orderdomain.Order, error) {
	return nil, nil
}

func (s *orderStub) MarkPaid(ctx context.Context, tenantID int64, number string) (*orderdomain.Order, bool, error) {
	s.mu.Lock()
	s.markCalls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, false, s.err
	}
	return s.order, s.changed, nil
}

func (s *orderStub) GetByNumber(ctx context.Context, number string) (*orderdomain.Order, error) {
	return s.order, nil
}

func (s *orderStub) List(ctx context.Context, req orderdomain.ListRequest) ([]*orderdomain.Order, *pagination.PageInfo, error) {
	return nil, nil, nil
}

func (s *orderStub) MarkPaidCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markCalls
}

type referralStub struct {
	mu          sync.Mutex
	accrueCalls int
	lastBase    int64
}

func (s *referralStub) CreateAccount(ctx context.Context, req referraldomain.CreateAccountRequest) (*referraldomain.Account, error) {
	return nil, nil
}

func (s *referralStub) GetAccount(ctx context.Context, code string) (*referraldomain.Account, error) {
	return nil, nil
}

func (s *referralStub) ListAccounts(ctx context.Context) ([]referraldomain.Account, error) {
	return nil, nil
}

func (s *referralStub) Accrue(ctx context.Context, tenantID int64, orderNumber string, baseCents int64) (*referraldomain.Earning, error) {
	s.mu.Lock()
	s.accrueCalls++
	s.lastBase = baseCents
	s.mu.Unlock()
	return nil, nil
}

func (s *referralStub) ListEarnings(ctx context.Context, code string, status referraldomain.EarningStatus) ([]referraldomain.Earning, error) {
	return nil, nil
}

func (s *referralStub) MarkPaid(ctx context.Context, code string, earningIDs []string) (int64, error) {
	return 0, nil
}

func (s *referralStub) AccrueCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accrueCalls
}

func setupWebhookService(t *testing.T, secret string, orders *orderStub, referral *referralStub) domain.WebhookService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Cfg:      config.Config{Payment: config.PaymentConfig{WebhookSecret: secret}},
		Orders:   orders,
		Referral: referral,
		Metrics:  nil,
	})
}

func signedBody(t *testing.T, payload domain.WebhookPayload) ([]byte, string) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body, providerwebhook.Sign(body, testSecret)
}

func paidOrder(total int64) *orderdomain.Order {
	return &orderdomain.Order{
		ID:            snowflake.ID(1),
		Number:        "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		TotalCents:    total,
		PaymentStatus: orderdomain.PaymentPaid,
	}
}

func TestHandleEventDisabled(t *testing.T) {
	svc := setupWebhookService(t, "", &orderStub{}, &referralStub{})
	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")
	require.ErrorIs(t, err, domain.ErrDisabled)
}

func TestHandleEventBadSignature(t *testing.T) {
	orders := &orderStub{}
	svc := setupWebhookService(t, testSecret, orders, &referralStub{})

	body, _ := signedBody(t, domain.WebhookPayload{
		ID: "evt_1", Type: domain.EventTypeCompleted, TenantID: "1", OrderNumber: "X", AmountCents: 100,
	})
	err := svc.HandleEvent(context.Background(), body, "deadbeef")
	require.ErrorIs(t, err, domain.ErrInvalidSignature)
	require.Equal(t, 0, orders.MarkPaidCalls())
}

func TestHandleEventCompletedAccrues(t *testing.T) {
	orders := &orderStub{order: paidOrder(2558), changed: true}
	referral := &referralStub{}
	svc := setupWebhookService(t, testSecret, orders, referral)

	body, sig := signedBody(t, domain.WebhookPayload{
		ID:          "evt_1",
		Type:        domain.EventTypeCompleted,
		TenantID:    "1",
		OrderNumber: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		AmountCents: 2558,
	})
	require.NoError(t, svc.HandleEvent(context.Background(), body, sig))
	require.Equal(t, 1, orders.MarkPaidCalls())
	require.Equal(t, 1, referral.AccrueCalls())
	require.Equal(t, int64(2558), referral.lastBase)
}

func TestHandleEventDuplicateDelivery(t *testing.T) {
	orders := &orderStub{order: paidOrder(1000), changed: true}
	referral := &referralStub{}
	svc := setupWebhookService(t, testSecret, orders, referral)

	body, sig := signedBody(t, domain.WebhookPayload{
		ID:          "evt_dup",
		Type:        domain.EventTypeCompleted,
		TenantID:    "1",
		OrderNumber: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		AmountCents: 1000,
	})
	require.NoError(t, svc.HandleEvent(context.Background(), body, sig))
	require.NoError(t, svc.HandleEvent(context.Background(), body, sig))

	// MarkPaid reruns on the redelivery (it is idempotent) but the
	// commission is accrued exactly once.
	require.Equal(t, 2, orders.MarkPaidCalls())
	require.Equal(t, 1, referral.AccrueCalls())
}

func TestHandleEventRetriedAfterFailure(t *testing.T) {
	orders := &orderStub{err: gorm.ErrInvalidTransaction}
	referral := &referralStub{}
	svc := setupWebhookService(t, testSecret, orders, referral)

	body, sig := signedBody(t, domain.WebhookPayload{
		ID:          "evt_retry",
		Type:        domain.EventTypeCompleted,
		TenantID:    "1",
		OrderNumber: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		AmountCents: 1000,
	})
	require.Error(t, svc.HandleEvent(context.Background(), body, sig))
	require.Equal(t, 0, referral.AccrueCalls())

	// The failed delivery must not count as processed: once the store
	// recovers, the provider's retry of the same event goes through.
	orders.err = nil
	orders.order = paidOrder(1000)
	orders.changed = true
	require.NoError(t, svc.HandleEvent(context.Background(), body, sig))
	require.Equal(t, 1, referral.AccrueCalls())
}

func TestHandleEventAccruesCapturedAmount(t *testing.T) {
	orders := &orderStub{order: paidOrder(2558), changed: true}
	referral := &referralStub{}
	svc := setupWebhookService(t, testSecret, orders, referral)

	// The provider captured less than the order total; commission follows
	// the captured amount.
	body, sig := signedBody(t, domain.WebhookPayload{
		ID:          "evt_partial",
		Type:        domain.EventTypeCompleted,
		TenantID:    "1",
		OrderNumber: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		AmountCents: 2500,
	})
	require.NoError(t, svc.HandleEvent(context.Background(), body, sig))
	require.Equal(t, 1, referral.AccrueCalls())
	require.Equal(t, int64(2500), referral.lastBase)
}

func TestHandleEventAccrualFallsBackToOrderTotal(t *testing.T) {
	orders := &orderStub{order: paidOrder(2558), changed: true}
	referral := &referralStub{}
	svc := setupWebhookService(t, testSecret, orders, referral)

	body, sig := signedBody(t, domain.WebhookPayload{
		ID:          "evt_noamount",
		Type:        domain.EventTypeCompleted,
		TenantID:    "1",
		OrderNumber: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
	})
	require.NoError(t, svc.HandleEvent(context.Background(), body, sig))
	require.Equal(t, int64(2558), referral.lastBase)
}

func TestHandleEventUnknownTypeIgnored(t *testing.T) {
	orders := &orderStub{}
	svc := setupWebhookService(t, testSecret, orders, &referralStub{})

	body, sig := signedBody(t, domain.WebhookPayload{
		ID: "evt_2", Type: "payment.refunded", TenantID: "1", OrderNumber: "X",
	})
	require.NoError(t, svc.HandleEvent(context.Background(), body, sig))
	require.Equal(t, 0, orders.MarkPaidCalls())
}

func TestHandleEventAlreadyPaidSkipsAccrual(t *testing.T) {
	orders := &orderStub{order: paidOrder(1000), changed: false}
	referral := &referralStub{}
	svc := setupWebhookService(t, testSecret, orders, referral)

	body, sig := signedBody(t, domain.WebhookPayload{
		ID:          "evt_3",
		Type:        domain.EventTypeCompleted,
		TenantID:    "1",
		OrderNumber: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		AmountCents: 1000,
	})
	require.NoError(t, svc.HandleEvent(context.Background(), body, sig))
	require.Equal(t, 0, referral.AccrueCalls())
}

func TestHandleEventOrderNotFound(t *testing.T) {
	orders := &orderStub{err: orderdomain.ErrNotFound}
	svc := setupWebhookService(t, testSecret, orders, &referralStub{})

	body, sig := signedBody(t, domain.WebhookPayload{
		ID: "evt_4", Type: domain.EventTypeCompleted, TenantID: "1", OrderNumber: "MISSING",
	})
	err := svc.HandleEvent(context.Background(), body, sig)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestHandleEventInvalidPayload(t *testing.T) {
	svc := setupWebhookService(t, testSecret, &orderStub{}, &referralStub{})

	body := []byte(`{"type":"payment.completed"}`)
	err := svc.HandleEvent(context.Background(), body, providerwebhook.Sign(body, testSecret))
	require.ErrorIs(t, err, domain.ErrInvalidPayload)
}
