package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopyard/shopyard/internal/auth/password"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/config"
	"github.com/shopyard/shopyard/internal/tenant/domain"
	"github.com/shopyard/shopyard/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Cfg   config.Config
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	cfg   config.Config
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tenant.service"),
		genID: p.GenID,
		clock: p.Clock,
		cfg:   p.Cfg,
		repo:  p.Repo,
	}
}

// ResolveByHost walks the fallback chain over the registry. Any
// unrecognized host maps to a real tenant as long as the registry is not
// empty; only an empty registry fails.
func (s *Service) ResolveByHost(ctx context.Context, host string) (*domain.Tenant, error) {
	if t, err := s.repo.FindByDomain(ctx, s.db, normalizeHost(host)); err != nil {
		return nil, err
	} else if t != nil {
		return t, nil
	}

	if s.cfg.DefaultTenantID != 0 {
		if t, err := s.repo.FindByID(ctx, s.db, s.cfg.DefaultTenantID); err != nil {
			return nil, err
		} else if t != nil {
			return t, nil
		}
	}

	if t, err := s.repo.FindFirstActive(ctx, s.db); err != nil {
		return nil, err
	} else if t != nil {
		return t, nil
	}

	if t, err := s.repo.FindFirst(ctx, s.db); err != nil {
		return nil, err
	} else if t != nil {
		return t, nil
	}

	return nil, domain.ErrNoTenants
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	host := normalizeHost(req.Domain)
	if host == "" {
		return nil, domain.ErrInvalidDomain
	}

	tier := domain.SupportTier(strings.TrimSpace(req.SupportTier))
	if tier == "" {
		tier = domain.TierBasic
	}
	if !tier.Valid() {
		return nil, domain.ErrInvalidTier
	}

	if strings.TrimSpace(req.AdminPassword) == "" {
		return nil, domain.ErrInvalidPassword
	}
	hash, err := password.Hash(req.AdminPassword)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	now := s.clock.Now()
	t := &domain.Tenant{
		ID:                s.genID.Generate(),
		Slug:              slug.Make(name),
		Name:              name,
		Domain:            host,
		SupportTier:       tier,
		AdminPasswordHash: hash,
		Active:            true,
		Currency:          currency,
		ReferralCode:      normalizeCode(req.ReferralCode),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, s.db, t); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDomainTaken
		}
		return nil, err
	}

	s.log.Info("tenant created",
		zap.String("tenant_id", t.ID.String()),
		zap.String("domain", t.Domain),
		zap.String("support_tier", string(t.SupportTier)),
	)
	return t, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Tenant, error) {
	t, err := s.findByStringID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		t.Name = name
	}
	if req.Domain != nil {
		host := normalizeHost(*req.Domain)
		if host == "" {
			return nil, domain.ErrInvalidDomain
		}
		t.Domain = host
	}
	if req.SupportTier != nil {
		tier := domain.SupportTier(strings.TrimSpace(*req.SupportTier))
		if !tier.Valid() {
			return nil, domain.ErrInvalidTier
		}
		t.SupportTier = tier
	}
	if req.Active != nil {
		t.Active = *req.Active
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency != "" {
			t.Currency = currency
		}
	}
	if req.ReferralCode != nil {
		t.ReferralCode = normalizeCode(req.ReferralCode)
	}
	if req.WebhookURL != nil {
		url := strings.TrimSpace(*req.WebhookURL)
		if url == "" {
			t.WebhookURL = nil
		} else {
			t.WebhookURL = &url
		}
	}
	if req.WebhookSecret != nil {
		secret := strings.TrimSpace(*req.WebhookSecret)
		if secret == "" {
			t.WebhookSecret = nil
		} else {
			t.WebhookSecret = &secret
		}
	}

	t.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, t); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDomainTaken
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) ResetPassword(ctx context.Context, id string, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return domain.ErrInvalidPassword
	}

	t, err := s.findByStringID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	t.AdminPasswordHash = hash
	t.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, t); err != nil {
		return err
	}

	s.log.Info("tenant admin password reset", zap.String("tenant_id", t.ID.String()))
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Tenant, error) {
	return s.findByStringID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Tenant, error) {
	return s.repo.FindAll(ctx, s.db)
}

func (s *Service) VerifyAdminPassword(ctx context.Context, tenantID string, pass string) (*domain.Tenant, error) {
	t, err := s.findByStringID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !password.Verify(pass, t.AdminPasswordHash) {
		return nil, domain.ErrWrongPassword
	}
	return t, nil
}

func (s *Service) findByStringID(ctx context.Context, id string) (*domain.Tenant, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	t, err := s.repo.FindByID(ctx, s.db, parsed.Int64())
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// normalizeHost lowercases and strips any port from a Host header value.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return strings.TrimSuffix(host, ".")
}

func normalizeCode(code *string) *string {
	if code == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*code))
	if normalized == "" {
		return nil
	}
	return &normalized
}
