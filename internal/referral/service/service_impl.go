package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/referral/domain"
	tenantdomain "github.com/shopyard/shopyard/internal/tenant/domain"
	"github.com/shopyard/shopyard/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Tenants tenantdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	tenants tenantdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("referral.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		tenants: p.Tenants,
	}
}

func (s *Service) CreateAccount(ctx context.Context, req domain.CreateAccountRequest) (*domain.Account, error) {
	code := strings.ToLower(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, domain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Percent <= 0 || req.Percent > 100 {
		return nil, domain.ErrInvalidPercent
	}

	now := s.clock.Now()
	account := &domain.Account{
		ID:        s.genID.Generate(),
		Code:      code,
		Name:      name,
		Percent:   req.Percent,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateAccount(ctx, s.db, account); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCodeTaken
		}
		return nil, err
	}

	s.log.Info("referral account created",
		zap.String("code", code),
		zap.Float64("percent", req.Percent),
	)
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.repo.FindAccountByCode(ctx, s.db, strings.ToLower(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.repo.ListAccounts(ctx, s.db)
}

// Accrue computes round(base * percent / 100) and writes the earning row
// and the account total in one transaction.
func (s *Service) Accrue(ctx context.Context, tenantID int64, orderNumber string, baseCents int64) (*domain.Earning, error) {
	tenant, err := s.tenants.FindByID(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil || tenant.ReferralCode == nil {
		return nil, nil
	}

	account, err := s.repo.FindAccountByCode(ctx, s.db, *tenant.ReferralCode)
	if err != nil {
		return nil, err
	}
	if account == nil || !account.Active {
		return nil, nil
	}

	amount := int64(math.Round(float64(baseCents) * account.Percent / 100))
	earning := &domain.Earning{
		ID:          s.genID.Generate(),
		AccountID:   account.ID,
		TenantID:    tenant.ID,
		OrderNumber: orderNumber,
		BaseCents:   baseCents,
		AmountCents: amount,
		Status:      domain.EarningPending,
		CreatedAt:   s.clock.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CreateEarning(ctx, tx, earning); err != nil {
			return err
		}
		account.EarnedCents += amount
		account.UpdatedAt = s.clock.Now()
		return s.repo.SaveAccount(ctx, tx, account)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("commission accrued",
		zap.String("code", account.Code),
		zap.String("order_number", orderNumber),
		zap.Int64("amount_cents", amount),
	)
	return earning, nil
}

func (s *Service) ListEarnings(ctx context.Context, code string, status domain.EarningStatus) ([]domain.Earning, error) {
	account, err := s.GetAccount(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.repo.ListEarnings(ctx, s.db, account.ID.Int64(), status)
}

func (s *Service) MarkPaid(ctx context.Context, code string, earningIDs []string) (int64, error) {
	account, err := s.GetAccount(ctx, code)
	if err != nil {
		return 0, err
	}

	ids := make([]int64, 0, len(earningIDs))
	for _, raw := range earningIDs {
		parsed, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			return 0, domain.ErrInvalidCode
		}
		ids = append(ids, parsed.Int64())
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var settled int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		earnings, err := s.repo.FindEarningsByIDs(ctx, tx, account.ID.Int64(), ids)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		var total int64
		for i := range earnings {
			if earnings[i].Status == domain.EarningPaid {
				continue
			}
			earnings[i].Status = domain.EarningPaid
			earnings[i].PaidAt = &now
			if err := s.repo.SaveEarning(ctx, tx, &earnings[i]); err != nil {
				return err
			}
			total += earnings[i].AmountCents
			settled++
		}
		if settled == 0 {
			return nil
		}

		account.PaidCents += total
		account.UpdatedAt = now
		return s.repo.SaveAccount(ctx, tx, account)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("earnings settled",
		zap.String("code", account.Code),
		zap.Int64("count", settled),
	)
	return settled, nil
}
