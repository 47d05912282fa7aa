package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	analyticsdomain "github.com/shopyard/shopyard/internal/analytics/domain"
	"github.com/shopyard/shopyard/internal/attestation"
	catalogdomain "github.com/shopyard/shopyard/internal/catalog/domain"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/events"
	"github.com/shopyard/shopyard/internal/observability/metrics"
	orderdomain "github.com/shopyard/shopyard/internal/order/domain"
	"github.com/shopyard/shopyard/internal/pricing"
	"github.com/shopyard/shopyard/internal/providers/email"
	"github.com/shopyard/shopyard/internal/providers/webhook"
	settingsdomain "github.com/shopyard/shopyard/internal/settings/domain"
	stockdomain "github.com/shopyard/shopyard/internal/stockledger/domain"
	tenantdomain "github.com/shopyard/shopyard/internal/tenant/domain"
	"github.com/shopyard/shopyard/internal/tenantctx"
	"github.com/shopyard/shopyard/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        orderdomain.Repository
	Catalog     catalogdomain.Service
	CatalogRepo catalogdomain.Repository
	Settings    settingsdomain.Service
	Stock       stockdomain.Repository
	Analytics   analyticsdomain.Service
	Tenants     tenantdomain.Repository
	Dispatcher  *events.Dispatcher
	Attestation *attestation.Client
	Email       email.Sender
	Webhooks    *webhook.Sender
	Metrics     *metrics.Metrics
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        orderdomain.Repository
	catalog     catalogdomain.Service
	catalogRepo catalogdomain.Repository
	settings    settingsdomain.Service
	stock       stockdomain.Repository
	analytics   analyticsdomain.Service
	tenants     tenantdomain.Repository
	dispatcher  *events.Dispatcher
	attestation *attestation.Client
	email       email.Sender
	webhooks    *webhook.Sender
	metrics     *metrics.Metrics

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

func New(p Params) orderdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("order.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		catalog:     p.Catalog,
		catalogRepo: p.CatalogRepo,
		settings:    p.Settings,
		stock:       p.Stock,
		analytics:   p.Analytics,
		tenants:     p.Tenants,
		dispatcher:  p.Dispatcher,
		attestation: p.Attestation,
		email:       p.Email,
		webhooks:    p.Webhooks,
		metrics:     p.Metrics,
		entropy:     ulid.Monotonic(rand.Reader, 0),
	}
}

func (s *Service) PlaceOrder(ctx context.Context, req orderdomain.PlaceOrderRequest) (*orderdomain.Order, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, orderdomain.ErrInvalidTenant
	}
	tenant, err := s.tenants.FindByID(ctx, s.db, tenantID.Int64())
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, orderdomain.ErrInvalidTenant
	}

	customerName := strings.TrimSpace(req.CustomerName)
	customerEmail := strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	address := strings.TrimSpace(req.Address)
	if customerName == "" || address == "" || !strings.Contains(customerEmail, "@") {
		return nil, orderdomain.ErrInvalidCustomer
	}

	// Unknown products and variants are dropped, not rejected: the
	// storefront cart may be stale and the rest of the order still goes
	// through. An all-stale cart fails as empty.
	var lines []catalogdomain.ResolvedLine
	for _, item := range req.Items {
		line, err := s.catalog.ResolveLine(ctx, tenantID, item.ProductID, item.VariantID, item.Qty)
		if errors.Is(err, catalogdomain.ErrLineNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	if len(lines) == 0 {
		return nil, pricing.ErrEmptyCart
	}

	shipping, err := s.settings.GetShippingMethod(ctx, req.ShippingCode)
	if errors.Is(err, settingsdomain.ErrNotFound) {
		return nil, pricing.ErrInvalidShippingMethod
	}
	if err != nil {
		return nil, err
	}
	payment, err := s.settings.GetPaymentMethod(ctx, req.PaymentCode)
	if errors.Is(err, settingsdomain.ErrNotFound) {
		return nil, pricing.ErrInvalidPaymentMethod
	}
	if err != nil {
		return nil, err
	}

	totals, err := pricing.ComputeTotals(lines, shipping, payment)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	order := &orderdomain.Order{
		ID:              s.genID.Generate(),
		TenantID:        tenantID,
		Number:          s.newNumber(now),
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		Address:         address,
		ShippingCode:    shipping.Code,
		PaymentCode:     payment.Code,
		SubtotalCents:   totals.SubtotalCents,
		ShippingCents:   totals.ShippingCents,
		CODFeeCents:     totals.CODFeeCents,
		GatewayFeeCents: totals.GatewayFeeCents,
		TotalCents:      totals.TotalCents,
		PaymentStatus:   orderdomain.PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if phone := strings.TrimSpace(req.CustomerPhone); phone != "" {
		order.CustomerPhone = &phone
	}
	order.ProofHash = attestation.HashOrder(
		order.Number, order.TotalCents, now.Format(time.RFC3339), customerEmail, tenantID.String())

	var itemCount int64
	for _, line := range lines {
		order.Items = append(order.Items, orderdomain.OrderItem{
			ID:             s.genID.Generate(),
			OrderID:        order.ID,
			TenantID:       tenantID,
			ProductID:      line.ProductID,
			VariantID:      line.VariantID,
			Label:          line.Label,
			UnitPriceCents: line.UnitPriceCents,
			Qty:            line.Qty,
			TotalCents:     line.UnitPriceCents * line.Qty,
		})
		itemCount += line.Qty
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, order); err != nil {
			return err
		}

		for _, line := range lines {
			if !line.TrackStock {
				continue
			}
			var variantInt *int64
			if line.VariantID != nil {
				v := line.VariantID.Int64()
				variantInt = &v
			}
			if _, err := s.catalogRepo.ApplyStockDelta(ctx, tx, tenantID.Int64(), line.ProductID.Int64(), variantInt, -line.Qty); err != nil {
				return err
			}
			entry := &stockdomain.Entry{
				ID:        s.genID.Generate(),
				TenantID:  tenantID,
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Delta:     -line.Qty,
				Reason:    stockdomain.ReasonOrder,
				OrderID:   &order.ID,
				CreatedAt: now,
			}
			if err := s.stock.Append(ctx, tx, entry); err != nil {
				return err
			}
		}

		return s.analytics.RecordOrder(ctx, tx, tenantID.Int64(), now, order.TotalCents, itemCount)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOrderPlaced(ctx, tenantID.String())
	s.log.Info("order placed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.Number),
		zap.Int64("total_cents", order.TotalCents),
		zap.Int("lines", len(order.Items)),
	)

	s.runSideEffects(tenant, order)
	return order, nil
}

// runSideEffects fires the post-commit tasks. Each runs detached with
// its own deadline; a failure is logged by the dispatcher and dropped.
func (s *Service) runSideEffects(tenant *tenantdomain.Tenant, order *orderdomain.Order) {
	if s.attestation.Enabled() {
		proof := attestation.Proof{
			OrderNumber: order.Number,
			TenantID:    order.TenantID.String(),
			TotalCents:  order.TotalCents,
			CreatedAt:   order.CreatedAt.Format(time.RFC3339),
			Hash:        order.ProofHash,
		}
		s.dispatcher.Go("attestation."+order.Number, func(ctx context.Context) error {
			err := s.attestation.Submit(ctx, proof)
			if err != nil {
				s.metrics.RecordAttestation(ctx, "error")
			} else {
				s.metrics.RecordAttestation(ctx, "ok")
			}
			return err
		})
	}

	if tenant.WebhookURL != nil {
		url := *tenant.WebhookURL
		secret := ""
		if tenant.WebhookSecret != nil {
			secret = *tenant.WebhookSecret
		}
		payload := map[string]any{
			"type":         "order.placed",
			"tenant_id":    order.TenantID.String(),
			"order_number": order.Number,
			"total_cents":  order.TotalCents,
			"created_at":   order.CreatedAt.Format(time.RFC3339),
		}
		s.dispatcher.Go("webhook."+order.Number, func(ctx context.Context) error {
			return s.webhooks.Send(ctx, url, secret, payload)
		})
	}

	msg := email.Message{
		To:      order.CustomerEmail,
		Subject: fmt.Sprintf("%s: order %s confirmed", tenant.Name, order.Number),
		Body:    confirmationBody(tenant, order),
	}
	s.dispatcher.Go("email."+order.Number, func(ctx context.Context) error {
		return s.email.Send(ctx, msg)
	})
}

func confirmationBody(tenant *tenantdomain.Tenant, order *orderdomain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order at %s.\n\n", order.CustomerName, tenant.Name)
	fmt.Fprintf(&b, "Order %s\n\n", order.Number)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %d x %s  %s\n", item.Qty, item.Label, formatCents(item.TotalCents, tenant.Currency))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", formatCents(order.SubtotalCents, tenant.Currency))
	fmt.Fprintf(&b, "Shipping: %s\n", formatCents(order.ShippingCents, tenant.Currency))
	if order.CODFeeCents > 0 {
		fmt.Fprintf(&b, "COD fee: %s\n", formatCents(order.CODFeeCents, tenant.Currency))
	}
	if order.GatewayFeeCents > 0 {
		fmt.Fprintf(&b, "Gateway fee: %s\n", formatCents(order.GatewayFeeCents, tenant.Currency))
	}
	fmt.Fprintf(&b, "Total: %s\n", formatCents(order.TotalCents, tenant.Currency))
	return b.String()
}

func formatCents(cents int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", currency, cents/100, cents%100)
}

func (s *Service) newNumber(now time.Time) string {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}

func (s *Service) MarkPaid(ctx context.Context, tenantID int64, number string) (*orderdomain.Order, bool, error) {
	order, err := s.repo.FindByNumber(ctx, s.db, tenantID, strings.TrimSpace(number))
	if err != nil {
		return nil, false, err
	}
	if order == nil {
		return nil, false, orderdomain.ErrNotFound
	}
	if order.PaymentStatus == orderdomain.PaymentPaid {
		return order, false, nil
	}

	order.PaymentStatus = orderdomain.PaymentPaid
	order.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, s.db, order); err != nil {
		return nil, false, err
	}

	s.log.Info("order marked paid",
		zap.String("order_number", order.Number),
		zap.Int64("total_cents", order.TotalCents),
	)
	return order, true, nil
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*orderdomain.Order, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, orderdomain.ErrInvalidTenant
	}
	order, err := s.repo.FindByNumber(ctx, s.db, tenantID.Int64(), strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, orderdomain.ErrNotFound
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, req orderdomain.ListRequest) ([]*orderdomain.Order, *pagination.PageInfo, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, nil, orderdomain.ErrInvalidTenant
	}

	limit := req.PageSize
	if limit <= 0 || limit > 250 {
		limit = 10
	}

	filter := orderdomain.ListFilter{
		PaymentStatus: req.PaymentStatus,
		Limit:         limit + 1,
	}
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, nil, err
		}
		parsed, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, nil, err
		}
		filter.AfterID = parsed.Int64()
	}

	orders, err := s.repo.List(ctx, s.db, tenantID.Int64(), filter)
	if err != nil {
		return nil, nil, err
	}

	orders, pageInfo := pagination.BuildCursorPageInfo(orders, limit, func(o *orderdomain.Order) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: o.ID.String()})
		return token
	})
	return orders, pageInfo, nil
}
