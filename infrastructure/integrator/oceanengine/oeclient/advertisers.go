package oeclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oedomain"
)

const (
	advertiserGetPath        = "/open_api/oauth2/advertiser/get/"
	shopAdvertiserListPath   = "/open_api/v1.0/qianchuan/shop/advertiser/list/"
	agentAdvertiserPath      = "/open_api/2/agent/advertiser/select/"
	advertiserPublicInfoPath = "/open_api/2/advertiser/public_info/"
)

const publicInfoBatchSize = 100

// listPayload covers the key variants different list endpoints use for the
// item array.
type listPayload struct {
	List           []json.RawMessage   `json:"list"`
	Items          []json.RawMessage   `json:"items"`
	AdvertiserList []json.RawMessage   `json:"advertiser_list"`
	DataList       []json.RawMessage   `json:"data_list"`
	PageInfo       *oedomain.PageInfo  `json:"page_info"`
}

func (p listPayload) rows() []json.RawMessage {
	for _, candidate := range [][]json.RawMessage{p.List, p.Items, p.AdvertiserList, p.DataList} {
		if len(candidate) > 0 {
			return candidate
		}
	}
	return nil
}

func (p listPayload) totalPage() int {
	if p.PageInfo != nil {
		return p.PageInfo.TotalPage
	}
	return 0
}

// AuthorizedAccounts lists every account the OAuth grant covers.
func (c *OEClient) AuthorizedAccounts(ctx context.Context) ([]oedomain.AuthorizedAccount, error) {
	var out []oedomain.AuthorizedAccount

	err := c.forEachPage("oauth2_advertiser_get", c.pageSize(), func(page int) (int, int, error) {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("page_size", strconv.Itoa(c.pageSize()))

		envelope, err := c.do(ctx, http.MethodGet, c.cfg.OceanEngine.APIBaseURL, advertiserGetPath, query, nil, "oauth2_advertiser_get")
		if err != nil {
			return 0, 0, err
		}

		payload := listPayload{}
		if err := json.Unmarshal(oedomain.DigData(envelope.Data), &payload); err != nil {
			return 0, 0, errors.Wrap(err, "decoding authorized account list")
		}

		rows := payload.rows()
		for _, raw := range rows {
			account := oedomain.AuthorizedAccount{}
			if err := json.Unmarshal(raw, &account); err != nil {
				continue
			}
			out = append(out, account)
		}
		return len(rows), payload.totalPage(), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ShopAdvertisers lists the advertiser ids bound to a shop account, plus the
// per-advertiser grant rows when the endpoint returns them.
func (c *OEClient) ShopAdvertisers(ctx context.Context, shopID int64) ([]int64, []oedomain.ShopAdvertiser, error) {
	idSet := map[int64]bool{}
	var grants []oedomain.ShopAdvertiser

	err := c.forEachPage("qc_shop_advertiser_list", c.pageSize(), func(page int) (int, int, error) {
		query := url.Values{}
		query.Set("shop_id", strconv.FormatInt(shopID, 10))
		query.Set("page", strconv.Itoa(page))
		query.Set("page_size", strconv.Itoa(c.pageSize()))

		envelope, err := c.do(ctx, http.MethodGet, c.cfg.OceanEngine.APIBaseURL, shopAdvertiserListPath, query, nil, "qc_shop_advertiser_list")
		if err != nil {
			return 0, 0, err
		}

		payload := listPayload{}
		if err := json.Unmarshal(oedomain.DigData(envelope.Data), &payload); err != nil {
			return 0, 0, errors.Wrap(err, "decoding shop advertiser list")
		}

		rows := payload.rows()
		for _, raw := range rows {
			// Rows are either bare ids or grant objects.
			var id int64
			if err := json.Unmarshal(raw, &id); err == nil && id != 0 {
				idSet[id] = true
				continue
			}
			grant := oedomain.ShopAdvertiser{}
			if err := json.Unmarshal(raw, &grant); err != nil {
				continue
			}
			if gid := grant.EffectiveID(); gid != 0 {
				idSet[gid] = true
				grants = append(grants, grant)
			}
		}
		return len(rows), payload.totalPage(), nil
	})
	if err != nil {
		return nil, nil, err
	}

	return sortedIDs(idSet), grants, nil
}

// AgentAdvertisers lists the advertiser ids managed by an agent account.
func (c *OEClient) AgentAdvertisers(ctx context.Context, agentAdvertiserID int64) ([]int64, error) {
	idSet := map[int64]bool{}

	err := c.forEachPage("agent_advertiser_select", c.pageSize(), func(page int) (int, int, error) {
		query := url.Values{}
		query.Set("advertiser_id", strconv.FormatInt(agentAdvertiserID, 10))
		query.Set("page", strconv.Itoa(page))
		query.Set("page_size", strconv.Itoa(c.pageSize()))

		envelope, err := c.do(ctx, http.MethodGet, c.cfg.OceanEngine.AdBaseURL, agentAdvertiserPath, query, nil, "agent_advertiser_select")
		if err != nil {
			return 0, 0, err
		}

		payload := listPayload{}
		if err := json.Unmarshal(oedomain.DigData(envelope.Data), &payload); err != nil {
			return 0, 0, errors.Wrap(err, "decoding agent advertiser list")
		}

		rows := payload.rows()
		for _, raw := range rows {
			var id int64
			if err := json.Unmarshal(raw, &id); err == nil && id != 0 {
				idSet[id] = true
			}
		}
		return len(rows), payload.totalPage(), nil
	})
	if err != nil {
		return nil, err
	}

	return sortedIDs(idSet), nil
}

// AdvertiserPublicInfo fetches public profiles in batches, keyed by
// advertiser id. Ids the platform does not answer for are simply absent.
func (c *OEClient) AdvertiserPublicInfo(ctx context.Context, advertiserIDs []int64) (map[int64]oedomain.AdvertiserInfo, error) {
	out := make(map[int64]oedomain.AdvertiserInfo, len(advertiserIDs))

	for start := 0; start < len(advertiserIDs); start += publicInfoBatchSize {
		end := start + publicInfoBatchSize
		if end > len(advertiserIDs) {
			end = len(advertiserIDs)
		}
		batch := advertiserIDs[start:end]

		payload := map[string]interface{}{"advertiser_ids": batch}
		envelope, err := c.do(ctx, http.MethodGet, c.cfg.OceanEngine.AdBaseURL, advertiserPublicInfoPath, nil, payload, "qc_advertiser_public_info")
		if err != nil {
			return nil, err
		}

		var rows []json.RawMessage
		data := oedomain.DigData(envelope.Data)
		if err := json.Unmarshal(data, &rows); err != nil {
			listed := listPayload{}
			if err := json.Unmarshal(data, &listed); err != nil {
				return nil, errors.Wrap(err, "decoding advertiser public info")
			}
			rows = listed.rows()
		}

		for _, raw := range rows {
			info := oedomain.AdvertiserInfo{}
			if err := json.Unmarshal(raw, &info); err != nil {
				continue
			}
			if id := info.EffectiveID(); id != 0 {
				out[id] = info
			}
		}
	}
	return out, nil
}

func sortedIDs(set map[int64]bool) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
