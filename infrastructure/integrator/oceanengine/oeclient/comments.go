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
	commentGetPath  = "/open_api/v3.0/tools/comment/get/"
	commentHidePath = "/open_api/v3.0/tools/comment/hide/"
)

// HideBatchLimit is the platform ceiling on comment_ids per hide call.
const HideBatchLimit = 20

// Comments fetches the comments of one advertiser for a closed date range
// (yyyy-MM-dd, inclusive), newest first. hideFilter is one of the
// CommentHideFilter constants.
func (c *OEClient) Comments(ctx context.Context, advertiserID int64, startDate, endDate, hideFilter string) ([]oedomain.Comment, error) {
	var out []oedomain.Comment

	err := c.forEachPage("qc_comment_get", c.pageSize(), func(page int) (int, int, error) {
		query := url.Values{}
		query.Set("advertiser_id", strconv.FormatInt(advertiserID, 10))
		query.Set("start_time", startDate)
		query.Set("end_time", endDate)
		query.Set("order_field", oedomain.CommentOrderFieldCreateTime)
		query.Set("order_type", oedomain.CommentOrderDesc)
		query.Set("hide_status", hideFilter)
		query.Set("page", strconv.Itoa(page))
		query.Set("page_size", strconv.Itoa(c.pageSize()))

		envelope, err := c.do(ctx, http.MethodGet, c.cfg.OceanEngine.APIBaseURL, commentGetPath, query, nil, "qc_comment_get")
		if err != nil {
			return 0, 0, err
		}

		payload := oedomain.CommentPage{}
		if err := json.Unmarshal(oedomain.DigData(envelope.Data), &payload); err != nil {
			return 0, 0, errors.Wrap(err, "decoding comment list")
		}

		for _, raw := range payload.CommentList {
			comment := oedomain.Comment{}
			if err := json.Unmarshal(raw, &comment); err != nil {
				continue
			}
			comment.Raw = raw
			out = append(out, comment)
		}

		totalPage := 0
		if payload.PageInfo != nil {
			totalPage = payload.PageInfo.TotalPage
		}
		return len(payload.CommentList), totalPage, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HideComments asks the platform to hide the given comments. The caller is
// responsible for batching to HideBatchLimit; oversized batches fail fast
// here instead of tripping an opaque platform error.
func (c *OEClient) HideComments(ctx context.Context, advertiserID int64, commentIDs []int64) (*oedomain.HideResult, error) {
	if len(commentIDs) == 0 {
		return &oedomain.HideResult{}, nil
	}
	if len(commentIDs) > HideBatchLimit {
		return nil, errors.Errorf("hide batch of %d exceeds platform limit %d", len(commentIDs), HideBatchLimit)
	}

	payload := map[string]interface{}{
		"advertiser_id": advertiserID,
		"comment_ids":   commentIDs,
	}

	envelope, err := c.do(ctx, http.MethodPost, c.cfg.OceanEngine.APIBaseURL, commentHidePath, nil, payload, "qc_comment_hide")
	if err != nil {
		return nil, err
	}

	data := oedomain.DigData(envelope.Data)
	result := &oedomain.HideResult{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return nil, errors.Wrap(err, "decoding hide result")
		}
	}
	result.RequestID = envelope.RequestID
	result.Raw = data
	return result, nil
}
