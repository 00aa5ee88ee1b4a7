package oeclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oedomain"
)

const (
	accountBalancePath = "/open_api/v1.0/qianchuan/account/balance/get/"
	financeDetailPath  = "/open_api/v1.0/qianchuan/finance/detail/get/"
)

// AccountBalance fetches the current wallet breakdown of one advertiser.
func (c *OEClient) AccountBalance(ctx context.Context, advertiserID int64) (*oedomain.Balance, error) {
	query := url.Values{}
	query.Set("advertiser_id", strconv.FormatInt(advertiserID, 10))

	envelope, err := c.do(ctx, http.MethodGet, c.cfg.OceanEngine.APIBaseURL, accountBalancePath, query, nil, "qc_account_balance_get")
	if err != nil {
		return nil, err
	}

	data := oedomain.DigData(envelope.Data)
	balance := &oedomain.Balance{}
	if err := json.Unmarshal(data, balance); err != nil {
		return nil, errors.Wrap(err, "decoding account balance")
	}
	balance.Raw = data
	return balance, nil
}

type financeDetailPayload struct {
	List     []json.RawMessage  `json:"list"`
	Details  []json.RawMessage  `json:"detail_list"`
	PageInfo *oedomain.PageInfo `json:"page_info"`
}

func (p financeDetailPayload) rows() []json.RawMessage {
	if len(p.List) > 0 {
		return p.List
	}
	return p.Details
}

// FinanceDetail fetches the daily ledger for one advertiser over a closed
// date range (yyyy-MM-dd, inclusive).
func (c *OEClient) FinanceDetail(ctx context.Context, advertiserID int64, startDate, endDate string) ([]oedomain.FinanceDetailRow, error) {
	var out []oedomain.FinanceDetailRow

	err := c.forEachPage("qc_finance_detail_get", c.pageSize(), func(page int) (int, int, error) {
		query := url.Values{}
		query.Set("advertiser_id", strconv.FormatInt(advertiserID, 10))
		query.Set("start_date", startDate)
		query.Set("end_date", endDate)
		query.Set("page", strconv.Itoa(page))
		query.Set("page_size", strconv.Itoa(c.pageSize()))

		envelope, err := c.do(ctx, http.MethodGet, c.cfg.OceanEngine.AdBaseURL, financeDetailPath, query, nil, "qc_finance_detail_get")
		if err != nil {
			return 0, 0, err
		}

		payload := financeDetailPayload{}
		if err := json.Unmarshal(oedomain.DigData(envelope.Data), &payload); err != nil {
			return 0, 0, errors.Wrap(err, "decoding finance detail")
		}

		rows := payload.rows()
		for _, raw := range rows {
			row := oedomain.FinanceDetailRow{}
			if err := json.Unmarshal(raw, &row); err != nil {
				continue
			}
			row.Raw = raw
			out = append(out, row)
		}

		totalPage := 0
		if payload.PageInfo != nil {
			totalPage = payload.PageInfo.TotalPage
		}
		return len(rows), totalPage, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
