package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/migration"
	"github.com/shopyard/shopyard/internal/referral/domain"
	"github.com/shopyard/shopyard/internal/referral/repository"
	tenantdomain "github.com/shopyard/shopyard/internal/tenant/domain"
	tenantrepository "github.com/shopyard/shopyard/internal/tenant/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type referralFixture struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node
	fake *clock.FakeClock
}

func setupReferralService(t *testing.T) *referralFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fake,
		Repo:    repository.Provide(),
		Tenants: tenantrepository.Provide(),
	})
	return &referralFixture{svc: svc, db: db, node: node, fake: fake}
}

func (f *referralFixture) seedTenant(t *testing.T, referralCode *string) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	require.NoError(t, f.db.Create(&tenantdomain.Tenant{
		ID:                id,
		Slug:              "store-" + id.String(),
		Name:              "Store",
		Domain:            id.String() + ".example.com",
		SupportTier:       tenantdomain.TierBasic,
		AdminPasswordHash: "x",
		Active:            true,
		Currency:          "USD",
		ReferralCode:      referralCode,
		CreatedAt:         f.fake.Now(),
		UpdatedAt:         f.fake.Now(),
	}).Error)
	return id
}

func strPtr(s string) *string { return &s }

func TestAccrueRoundsHalfUp(t *testing.T) {
	f := setupReferralService(t)
	tenantID := f.seedTenant(t, strPtr("partner"))

	_, err := f.svc.CreateAccount(context.Background(), domain.CreateAccountRequest{
		Code:    "Partner",
		Name:    "Partner Co",
		Percent: 2.5,
	})
	require.NoError(t, err)

	// 2.5% of 2558 is 63.95, rounded to 64.
	earning, err := f.svc.Accrue(context.Background(), tenantID.Int64(), "ORD-1", 2558)
	require.NoError(t, err)
	require.NotNil(t, earning)
	require.Equal(t, int64(64), earning.AmountCents)
	require.Equal(t, domain.EarningPending, earning.Status)

	account, err := f.svc.GetAccount(context.Background(), "partner")
	require.NoError(t, err)
	require.Equal(t, int64(64), account.EarnedCents)
	require.Equal(t, int64(0), account.PaidCents)
}

func TestAccrueWithoutReferrerIsNoop(t *testing.T) {
	f := setupReferralService(t)

	noCode := f.seedTenant(t, nil)
	earning, err := f.svc.Accrue(context.Background(), noCode.Int64(), "ORD-1", 1000)
	require.NoError(t, err)
	require.Nil(t, earning)

	// A code pointing at nothing accrues nothing either.
	dangling := f.seedTenant(t, strPtr("ghost"))
	earning, err = f.svc.Accrue(context.Background(), dangling.Int64(), "ORD-2", 1000)
	require.NoError(t, err)
	require.Nil(t, earning)
}

func TestAccrueInactiveAccountIsNoop(t *testing.T) {
	f := setupReferralService(t)
	tenantID := f.seedTenant(t, strPtr("partner"))

	account, err := f.svc.CreateAccount(context.Background(), domain.CreateAccountRequest{
		Code:    "partner",
		Name:    "Partner Co",
		Percent: 10,
	})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&domain.Account{}).
		Where("id = ?", account.ID.Int64()).
		Update("active", false).Error)

	earning, err := f.svc.Accrue(context.Background(), tenantID.Int64(), "ORD-1", 1000)
	require.NoError(t, err)
	require.Nil(t, earning)
}

func TestMarkPaidSettlesOnce(t *testing.T) {
	f := setupReferralService(t)
	tenantID := f.seedTenant(t, strPtr("partner"))

	_, err := f.svc.CreateAccount(context.Background(), domain.CreateAccountRequest{
		Code:    "partner",
		Name:    "Partner Co",
		Percent: 10,
	})
	require.NoError(t, err)

	first, err := f.svc.Accrue(context.Background(), tenantID.Int64(), "ORD-1", 1000)
	require.NoError(t, err)
	second, err := f.svc.Accrue(context.Background(), tenantID.Int64(), "ORD-2", 2000)
	require.NoError(t, err)

	ids := []string{first.ID.String(), second.ID.String()}
	settled, err := f.svc.MarkPaid(context.Background(), "partner", ids)
	require.NoError(t, err)
	require.Equal(t, int64(2), settled)

	account, err := f.svc.GetAccount(context.Background(), "partner")
	require.NoError(t, err)
	require.Equal(t, int64(300), account.EarnedCents)
	require.Equal(t, int64(300), account.PaidCents)

	// A repeated payout run finds nothing pending and moves no money.
	settled, err = f.svc.MarkPaid(context.Background(), "partner", ids)
	require.NoError(t, err)
	require.Equal(t, int64(0), settled)

	account, err = f.svc.GetAccount(context.Background(), "partner")
	require.NoError(t, err)
	require.Equal(t, int64(300), account.PaidCents)
}

func TestCreateAccountDuplicateCode(t *testing.T) {
	f := setupReferralService(t)

	_, err := f.svc.CreateAccount(context.Background(), domain.CreateAccountRequest{
		Code:    "partner",
		Name:    "Partner Co",
		Percent: 5,
	})
	require.NoError(t, err)

	_, err = f.svc.CreateAccount(context.Background(), domain.CreateAccountRequest{
		Code:    "PARTNER",
		Name:    "Other Co",
		Percent: 5,
	})
	require.ErrorIs(t, err, domain.ErrCodeTaken)
}
