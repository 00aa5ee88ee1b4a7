package syncing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	oemocks "github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oeclient/mocks"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oedomain"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/repository"
	repomocks "github.com/vfg2006/qianchuan-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

type stubStores struct {
	store *repository.Store
}

func (s *stubStores) Store() *repository.Store { return s.store }

func (s *stubStores) InTransaction(_ context.Context, fn func(*repository.Store) error) error {
	return fn(s.store)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Timezone = "UTC"
	cfg.AccountSync.FinanceLookbackDays = 7
	return cfg
}

func float64Ptr(v float64) *float64 { return &v }

func TestSyncAccountsDiscoversInventory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := oemocks.NewMockClient(ctrl)
	advertisers := repomocks.NewMockAdvertiserRepository(ctrl)
	balances := repomocks.NewMockBalanceSnapshotRepository(ctrl)
	finance := repomocks.NewMockFinanceDailyRepository(ctrl)

	client.EXPECT().AuthorizedAccounts(gomock.Any()).Return([]oedomain.AuthorizedAccount{
		{AccountID: 100, AccountName: "shop", AccountRole: oedomain.RoleShopAccount},
		{AccountID: 200, AccountName: "agent", AccountRole: "PLATFORM_ROLE_AGENT"},
		{AccountID: 300, AccountName: "direct"},
	}, nil)
	client.EXPECT().ShopAdvertisers(gomock.Any(), int64(100)).Return([]int64{11, 12}, nil, nil)
	client.EXPECT().AgentAdvertisers(gomock.Any(), int64(200)).Return([]int64{12, 13}, nil)

	client.EXPECT().AdvertiserPublicInfo(gomock.Any(), []int64{11, 12, 13, 300}).Return(map[int64]oedomain.AdvertiserInfo{
		11: {ID: 11, Name: "adv eleven", Company: "co"},
		12: {ID: 12, Name: "adv twelve"},
	}, nil)

	for _, id := range []int64{11, 12, 13, 300} {
		client.EXPECT().AccountBalance(gomock.Any(), id).Return(&oedomain.Balance{
			AccountValid: float64Ptr(float64(id) * 1000),
		}, nil)
		client.EXPECT().FinanceDetail(gomock.Any(), id, gomock.Any(), gomock.Any()).Return([]oedomain.FinanceDetailRow{
			{Date: "2026-08-31", Cost: float64Ptr(500)},
		}, nil)
	}

	var savedAdvertisers []*domain.Advertiser
	advertisers.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(rows []*domain.Advertiser, _ time.Time) error {
			savedAdvertisers = rows
			return nil
		})
	balances.EXPECT().SaveSnapshot(gomock.Any()).Return(nil).Times(4)

	var savedFinance []*domain.FinanceDaily
	finance.EXPECT().SaveOrUpdate(gomock.Any()).DoAndReturn(
		func(rows []*domain.FinanceDaily) error {
			savedFinance = rows
			return nil
		})

	service := NewService(testConfig(), client, &stubStores{store: &repository.Store{
		Advertisers: advertisers,
		Balances:    balances,
		Finance:     finance,
	}})

	summary, err := service.SyncAccounts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.AuthorizedAccounts)
	assert.Equal(t, 1, summary.Shops)
	assert.Equal(t, 1, summary.Agents)
	assert.Equal(t, 4, summary.Advertisers)
	assert.Equal(t, 4, summary.BalanceSnapshots)
	assert.Equal(t, 4, summary.FinanceRows)
	assert.Zero(t, summary.SkippedNoPermission)

	require.Len(t, savedAdvertisers, 4)
	assert.Equal(t, int64(11), savedAdvertisers[0].AdvertiserID)
	assert.Equal(t, "adv eleven", savedAdvertisers[0].AdvertiserName)
	require.NotNil(t, savedAdvertisers[0].Company)
	assert.Equal(t, "co", *savedAdvertisers[0].Company)
	// Advertiser without public info keeps its numeric id as the name.
	assert.Equal(t, "13", savedAdvertisers[2].AdvertiserName)

	require.Len(t, savedFinance, 4)
	assert.Equal(t, "2026-08-31", savedFinance[0].Date)
}

func TestSyncAccountsSkipsAdvertiserWithoutPermission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := oemocks.NewMockClient(ctrl)
	advertisers := repomocks.NewMockAdvertiserRepository(ctrl)
	balances := repomocks.NewMockBalanceSnapshotRepository(ctrl)
	finance := repomocks.NewMockFinanceDailyRepository(ctrl)

	client.EXPECT().AuthorizedAccounts(gomock.Any()).Return([]oedomain.AuthorizedAccount{
		{AccountID: 100, AccountRole: oedomain.RoleShopAccount},
	}, nil)
	client.EXPECT().ShopAdvertisers(gomock.Any(), int64(100)).Return([]int64{21, 22}, nil, nil)
	client.EXPECT().AdvertiserPublicInfo(gomock.Any(), []int64{21, 22}).Return(nil, nil)

	denied := &oedomain.APIError{API: "balance", Code: oedomain.CodePermissionDenied, Message: "no permission"}
	client.EXPECT().AccountBalance(gomock.Any(), int64(21)).Return(nil, denied)
	// No finance call for the denied advertiser.
	client.EXPECT().AccountBalance(gomock.Any(), int64(22)).Return(&oedomain.Balance{AccountValid: float64Ptr(1)}, nil)
	client.EXPECT().FinanceDetail(gomock.Any(), int64(22), gomock.Any(), gomock.Any()).Return(nil, nil)

	advertisers.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).Return(nil)
	balances.EXPECT().SaveSnapshot(gomock.Any()).Return(nil).Times(1)
	finance.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil)

	service := NewService(testConfig(), client, &stubStores{store: &repository.Store{
		Advertisers: advertisers,
		Balances:    balances,
		Finance:     finance,
	}})

	summary, err := service.SyncAccounts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SkippedNoPermission)
	assert.Equal(t, 1, summary.BalanceSnapshots)
}

func TestSyncAccountsContinuesWhenShopListingFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := oemocks.NewMockClient(ctrl)
	advertisers := repomocks.NewMockAdvertiserRepository(ctrl)
	balances := repomocks.NewMockBalanceSnapshotRepository(ctrl)
	finance := repomocks.NewMockFinanceDailyRepository(ctrl)

	client.EXPECT().AuthorizedAccounts(gomock.Any()).Return([]oedomain.AuthorizedAccount{
		{AccountID: 100, AccountRole: oedomain.RoleShopAccount},
		{AccountID: 300, AccountName: "direct"},
	}, nil)
	client.EXPECT().ShopAdvertisers(gomock.Any(), int64(100)).
		Return(nil, nil, &oedomain.APIError{API: "shop", Code: 40000, Message: "boom"})
	client.EXPECT().AdvertiserPublicInfo(gomock.Any(), []int64{300}).Return(nil, nil)
	client.EXPECT().AccountBalance(gomock.Any(), int64(300)).Return(&oedomain.Balance{}, nil)
	client.EXPECT().FinanceDetail(gomock.Any(), int64(300), gomock.Any(), gomock.Any()).Return(nil, nil)

	advertisers.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).Return(nil)
	balances.EXPECT().SaveSnapshot(gomock.Any()).Return(nil)
	finance.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil)

	service := NewService(testConfig(), client, &stubStores{store: &repository.Store{
		Advertisers: advertisers,
		Balances:    balances,
		Finance:     finance,
	}})

	summary, err := service.SyncAccounts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Advertisers)
	assert.Equal(t, 1, summary.FetchErrors)
}
