package syncing

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oeclient"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oedomain"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/repository"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

// StoreProvider hands out repository bundles, optionally scoped to one
// transaction.
type StoreProvider interface {
	Store() *repository.Store
	InTransaction(ctx context.Context, fn func(*repository.Store) error) error
}

// Service discovers the advertiser inventory through shop and agent grants
// and persists balances and finance ledgers for every advertiser found.
type Service struct {
	cfg    *config.Config
	client oeclient.Client
	stores StoreProvider
	now    func() time.Time
}

func NewService(cfg *config.Config, client oeclient.Client, stores StoreProvider) *Service {
	return &Service{
		cfg:    cfg,
		client: client,
		stores: stores,
		now:    time.Now,
	}
}

// SyncAccounts fetches everything from the platform first and then writes the
// whole pass in one transaction, so a failed run leaves the previous state
// intact and the next run redoes the pass from scratch.
func (s *Service) SyncAccounts(ctx context.Context) (*Summary, error) {
	loc := s.cfg.Location()
	now := s.now().In(loc)

	summary := &Summary{StartedAt: now}

	lookback := s.cfg.AccountSync.FinanceLookbackDays
	if lookback <= 0 {
		lookback = 7
	}
	endDate := now.AddDate(0, 0, -1).Format("2006-01-02")
	startDate := now.AddDate(0, 0, -lookback).Format("2006-01-02")

	accounts, err := s.client.AuthorizedAccounts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing authorized accounts")
	}
	summary.AuthorizedAccounts = len(accounts)

	shops, agents, direct := partitionAccounts(accounts, s.cfg)
	summary.Shops = len(shops)
	summary.Agents = len(agents)

	logrus.WithFields(logrus.Fields{
		"authorized": len(accounts),
		"shops":      len(shops),
		"agents":     len(agents),
		"direct":     len(direct),
	}).Info("Advertiser inventory discovery started")

	idSet := make(map[int64]struct{})
	for _, id := range direct {
		idSet[id] = struct{}{}
	}

	for _, shopID := range shops {
		ids, _, err := s.client.ShopAdvertisers(ctx, shopID)
		if err != nil {
			summary.FetchErrors++
			logrus.WithField("shop_id", shopID).WithError(err).Warn("Shop advertiser list failed, skipping shop")
			continue
		}
		for _, id := range ids {
			idSet[id] = struct{}{}
		}
	}

	for _, agentID := range agents {
		ids, err := s.client.AgentAdvertisers(ctx, agentID)
		if err != nil {
			summary.FetchErrors++
			logrus.WithField("agent_advertiser_id", agentID).WithError(err).Warn("Agent advertiser list failed, skipping agent")
			continue
		}
		for _, id := range ids {
			idSet[id] = struct{}{}
		}
	}

	advertiserIDs := make([]int64, 0, len(idSet))
	for id := range idSet {
		advertiserIDs = append(advertiserIDs, id)
	}
	sort.Slice(advertiserIDs, func(i, j int) bool { return advertiserIDs[i] < advertiserIDs[j] })
	summary.Advertisers = len(advertiserIDs)

	infoMap, err := s.client.AdvertiserPublicInfo(ctx, advertiserIDs)
	if err != nil {
		summary.FetchErrors++
		logrus.WithError(err).Warn("Advertiser public info fetch failed, names fall back to ids")
		infoMap = map[int64]oedomain.AdvertiserInfo{}
	}

	advertisers := make([]*domain.Advertiser, 0, len(advertiserIDs))
	for _, id := range advertiserIDs {
		advertisers = append(advertisers, buildAdvertiser(id, infoMap[id], now))
	}

	snapshots := make([]*domain.BalanceSnapshot, 0, len(advertiserIDs))
	financeRows := make([]*domain.FinanceDaily, 0)

	for idx, id := range advertiserIDs {
		balance, err := s.client.AccountBalance(ctx, id)
		switch {
		case oedomain.IsPermissionDenied(err):
			summary.SkippedNoPermission++
			logrus.WithField("advertiser_id", id).Warn("No permission for advertiser, skipping balance and finance")
			continue
		case err != nil:
			summary.FetchErrors++
			logrus.WithField("advertiser_id", id).WithError(err).Warn("Balance fetch failed")
		default:
			snapshots = append(snapshots, buildSnapshot(id, now, balance))
		}

		detail, err := s.client.FinanceDetail(ctx, id, startDate, endDate)
		if err != nil {
			summary.FetchErrors++
			logrus.WithField("advertiser_id", id).WithError(err).Warn("Finance detail fetch failed")
			continue
		}
		for _, row := range detail {
			financeRows = append(financeRows, buildFinanceDaily(id, row))
		}

		if (idx+1)%20 == 0 || idx+1 == len(advertiserIDs) {
			logrus.WithFields(logrus.Fields{
				"progress":  idx + 1,
				"total":     len(advertiserIDs),
				"snapshots": len(snapshots),
			}).Info("Account sync progress")
		}
	}

	summary.BalanceSnapshots = len(snapshots)
	summary.FinanceRows = len(financeRows)

	err = s.stores.InTransaction(ctx, func(store *repository.Store) error {
		if err := store.Advertisers.SaveOrUpdate(advertisers, now); err != nil {
			return errors.Wrap(err, "saving advertisers")
		}
		for _, snap := range snapshots {
			if err := store.Balances.SaveSnapshot(snap); err != nil {
				return errors.Wrapf(err, "saving balance snapshot advertiser_id=%d", snap.AdvertiserID)
			}
		}
		if err := store.Finance.SaveOrUpdate(financeRows); err != nil {
			return errors.Wrap(err, "saving finance rows")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.Duration = s.now().Sub(summary.StartedAt)

	logrus.WithFields(logrus.Fields{
		"advertisers":      summary.Advertisers,
		"snapshots":        summary.BalanceSnapshots,
		"finance_rows":     summary.FinanceRows,
		"skipped":          summary.SkippedNoPermission,
		"fetch_errors":     summary.FetchErrors,
		"duration_seconds": summary.Duration.Seconds(),
	}).Info("Account sync pass finished")

	return summary, nil
}

// partitionAccounts splits the authorized accounts into shop ids, agent ids
// and plain advertiser ids, merging in the configured seed ids.
func partitionAccounts(accounts []oedomain.AuthorizedAccount, cfg *config.Config) (shops, agents, direct []int64) {
	shopSet := make(map[int64]struct{})
	agentSet := make(map[int64]struct{})

	if cfg.OceanEngine.ShopID != 0 {
		shopSet[cfg.OceanEngine.ShopID] = struct{}{}
	}
	if cfg.OceanEngine.AgentID != 0 {
		agentSet[cfg.OceanEngine.AgentID] = struct{}{}
	}

	for _, a := range accounts {
		id := a.EffectiveID()
		if id == 0 {
			continue
		}
		switch {
		case a.IsShop():
			shopSet[id] = struct{}{}
		case a.IsAgent():
			agentSet[id] = struct{}{}
		default:
			direct = append(direct, id)
		}
	}

	for id := range shopSet {
		shops = append(shops, id)
	}
	for id := range agentSet {
		agents = append(agents, id)
	}
	sort.Slice(shops, func(i, j int) bool { return shops[i] < shops[j] })
	sort.Slice(agents, func(i, j int) bool { return agents[i] < agents[j] })
	return shops, agents, direct
}

func buildAdvertiser(id int64, info oedomain.AdvertiserInfo, seenAt time.Time) *domain.Advertiser {
	name := info.EffectiveName()
	if name == "" {
		name = strconv.FormatInt(id, 10)
	}
	return &domain.Advertiser{
		AdvertiserID:       id,
		AdvertiserName:     name,
		Company:            optString(info.Company),
		FirstIndustryName:  optString(info.FirstIndustryName),
		SecondIndustryName: optString(info.SecondIndustryName),
		Status:             optString(info.Status),
		FirstSeenAt:        seenAt,
		LastSeenAt:         seenAt,
	}
}

func buildSnapshot(id int64, ts time.Time, bal *oedomain.Balance) *domain.BalanceSnapshot {
	return &domain.BalanceSnapshot{
		AdvertiserID: id,
		SnapshotTS:   ts,

		AccountTotal:  bal.AccountTotal,
		AccountValid:  bal.AccountValid,
		AccountFrozen: bal.AccountFrozen,

		AccountGeneralTotal:  bal.AccountGeneralTotal,
		AccountGeneralValid:  bal.AccountGeneralValid,
		AccountGeneralFrozen: bal.AccountGeneralFrozen,

		AccountBiddingTotal:  bal.AccountBiddingTotal,
		AccountBiddingValid:  bal.AccountBiddingValid,
		AccountBiddingFrozen: bal.AccountBiddingFrozen,

		Raw: bal.Raw,
	}
}

func buildFinanceDaily(id int64, row oedomain.FinanceDetailRow) *domain.FinanceDaily {
	return &domain.FinanceDaily{
		AdvertiserID: id,
		Date:         row.EffectiveDate(),

		DeductionCost: row.DeductionCost,
		Cost:          row.Cost,
		CashCost:      row.CashCost,
		GrantCost:     row.GrantCost,
		Income:        row.Income,
		TransferIn:    row.TransferIn,
		TransferOut:   row.TransferOut,

		CashBalance:  row.CashBalance,
		GrantBalance: row.GrantBalance,
		TotalBalance: row.TotalBalance,

		ShareCost:        row.ShareCost,
		ShareWalletCost:  row.ShareWalletCost,
		AwemeCost:        row.AwemeCost,
		AwemeCashCost:    row.AwemeCashCost,
		AwemeGrantCost:   row.AwemeGrantCost,
		CouponCost:       row.CouponCost,
		ViewDeliveryType: row.ViewDeliveryType,

		Raw: row.Raw,
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
