package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/config"
	"github.com/shopyard/shopyard/internal/observability/metrics"
	orderdomain "github.com/shopyard/shopyard/internal/order/domain"
	"github.com/shopyard/shopyard/internal/payment/domain"
	"github.com/shopyard/shopyard/internal/providers/webhook"
	referraldomain "github.com/shopyard/shopyard/internal/referral/domain"
	"github.com/shopyard/shopyard/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	Orders   orderdomain.Service
	Referral referraldomain.Service
	Metrics  *metrics.Metrics
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	cfg      config.Config
	orders   orderdomain.Service
	referral referraldomain.Service
	metrics  *metrics.Metrics
}

func New(p Params) domain.WebhookService {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.webhook"),
		genID:    p.GenID,
		clock:    p.Clock,
		cfg:      p.Cfg,
		orders:   p.Orders,
		referral: p.Referral,
		metrics:  p.Metrics,
	}
}

func (s *Service) HandleEvent(ctx context.Context, body []byte, signature string) error {
	if !s.cfg.PaymentWebhookEnabled() {
		return domain.ErrDisabled
	}
	if !webhook.VerifySignature(body, s.cfg.Payment.WebhookSecret, strings.TrimSpace(signature)) {
		return domain.ErrInvalidSignature
	}

	var payload domain.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.ErrInvalidPayload
	}
	if payload.ID == "" || payload.OrderNumber == "" || payload.TenantID == "" {
		return domain.ErrInvalidPayload
	}

	s.metrics.RecordPaymentEvent(ctx, payload.Type)
	if payload.Type != domain.EventTypeCompleted {
		s.log.Debug("ignoring payment event", zap.String("type", payload.Type))
		return nil
	}

	tenantID, err := snowflake.ParseString(payload.TenantID)
	if err != nil {
		return domain.ErrInvalidPayload
	}

	order, changed, err := s.orders.MarkPaid(ctx, tenantID.Int64(), payload.OrderNumber)
	if errors.Is(err, orderdomain.ErrNotFound) {
		return domain.ErrOrderNotFound
	}
	if err != nil {
		// No event row has been written yet, so the provider's retry will
		// be processed instead of acknowledged as a duplicate.
		return err
	}

	paidCents := payload.AmountCents
	if paidCents == 0 {
		paidCents = order.TotalCents
	}
	if payload.AmountCents != 0 && payload.AmountCents != order.TotalCents {
		s.log.Warn("payment amount mismatch",
			zap.String("order_number", order.Number),
			zap.Int64("expected_cents", order.TotalCents),
			zap.Int64("received_cents", payload.AmountCents),
		)
	}

	// The unique event id is the dedupe point: a redelivered event fails
	// this insert and is acknowledged without accruing a second time.
	// MarkPaid itself is idempotent, so rerunning it on a redelivery is
	// harmless.
	event := &domain.Event{
		ID:          s.genID.Generate(),
		EventID:     payload.ID,
		Type:        payload.Type,
		TenantID:    tenantID,
		OrderNumber: payload.OrderNumber,
		AmountCents: payload.AmountCents,
		ProcessedAt: s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			s.log.Info("duplicate payment event", zap.String("event_id", payload.ID))
			return nil
		}
		return err
	}

	if !changed {
		return nil
	}

	// Commission is accrued on the amount the provider actually captured,
	// falling back to the order total when the event carries none.
	if _, err := s.referral.Accrue(ctx, tenantID.Int64(), order.Number, paidCents); err != nil {
		// The payment is already recorded; a failed accrual is logged
		// and left for reconciliation rather than bounced back to the
		// provider.
		s.log.Error("commission accrual failed",
			zap.String("order_number", order.Number),
			zap.Error(err),
		)
	}

	s.log.Info("payment completed",
		zap.String("event_id", payload.ID),
		zap.String("order_number", order.Number),
	)
	return nil
}
