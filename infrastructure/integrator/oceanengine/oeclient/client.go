package oeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oedomain"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/pkg/utils"
)

type Client interface {
	AuthorizedAccounts(ctx context.Context) ([]oedomain.AuthorizedAccount, error)
	ShopAdvertisers(ctx context.Context, shopID int64) ([]int64, []oedomain.ShopAdvertiser, error)
	AgentAdvertisers(ctx context.Context, agentAdvertiserID int64) ([]int64, error)
	AdvertiserPublicInfo(ctx context.Context, advertiserIDs []int64) (map[int64]oedomain.AdvertiserInfo, error)
	AccountBalance(ctx context.Context, advertiserID int64) (*oedomain.Balance, error)
	FinanceDetail(ctx context.Context, advertiserID int64, startDate, endDate string) ([]oedomain.FinanceDetailRow, error)
	Comments(ctx context.Context, advertiserID int64, startDate, endDate, hideFilter string) ([]oedomain.Comment, error)
	HideComments(ctx context.Context, advertiserID int64, commentIDs []int64) (*oedomain.HideResult, error)
}

// OEClient is the throttled OceanEngine/Qianchuan client. Every request goes
// through the same pacing gate and retry loop, so callers never see a raw
// 40100 unless the retry budget is exhausted.
type OEClient struct {
	cfg        *config.Config
	tokens     *TokenManager
	httpClient *http.Client
	retry      RetryPolicy

	paceMu      sync.Mutex
	lastRequest time.Time

	sleep func(context.Context, time.Duration) error
}

func NewClient(cfg *config.Config, tokens *TokenManager) *OEClient {
	retry := RetryPolicy{
		MaxAttempts: cfg.OceanEngine.RetryMaxAttempts,
		BaseDelay:   cfg.OceanEngine.RetryBaseDelay,
		MaxDelay:    cfg.OceanEngine.RetryMaxDelay,
	}
	if retry.MaxAttempts <= 0 {
		retry = defaultRetryPolicy()
	}
	return &OEClient{
		cfg:        cfg,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: cfg.OceanEngine.HTTPTimeout},
		retry:      retry,
		sleep:      sleep,
	}
}

// pace enforces the minimum spacing between consecutive requests, plus a
// small jitter so parallel deployments do not hit the platform in lockstep.
func (c *OEClient) pace(ctx context.Context) error {
	spacing := c.cfg.OceanEngine.RequestSpacing
	if spacing <= 0 {
		return nil
	}

	c.paceMu.Lock()
	defer c.paceMu.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < spacing {
		jitterCap := time.Duration(float64(spacing) * float64(c.cfg.OceanEngine.RequestJitterPct) / 100.0)
		if jitterCap > 50*time.Millisecond {
			jitterCap = 50 * time.Millisecond
		}
		wait := spacing - elapsed
		if jitterCap > 0 {
			wait += time.Duration(rand.Int63n(int64(jitterCap)))
		}
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}
	c.lastRequest = time.Now()
	return nil
}

// do runs one platform call with pacing and retry. System throttle (40100)
// and transport failures are retried with backoff; any other non-zero code
// is returned immediately as an *oedomain.APIError.
func (c *OEClient) do(ctx context.Context, method, baseURL, path string, query url.Values, payload interface{}, api string) (*oedomain.Envelope, error) {
	var lastErr error

	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			wait := c.retry.Backoff(attempt - 1)
			logrus.WithFields(logrus.Fields{
				"api":     api,
				"attempt": attempt + 1,
				"wait":    wait.String(),
			}).Warn("Retrying platform request")
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		envelope, err := c.request(ctx, method, baseURL, path, query, payload)
		if err != nil {
			lastErr = errors.Wrapf(err, "[%s] request failed", api)
			continue
		}

		if envelope.OK() {
			return envelope, nil
		}

		apiErr := envelope.Err(api)
		if e, ok := oedomain.AsAPIError(apiErr); ok && e.IsThrottled() {
			lastErr = apiErr
			continue
		}
		return nil, apiErr
	}

	return nil, lastErr
}

func (c *OEClient) request(ctx context.Context, method, baseURL, path string, query url.Values, payload interface{}) (*oedomain.Envelope, error) {
	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	token, err := c.tokens.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	fullURL := baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request payload")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Access-Token", token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "sending request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.WithField("path", path).Debugf("Platform response: %s", utils.PrettyJson(respBody))
	}

	// Non-200 responses usually still carry the platform envelope.
	envelope := &oedomain.Envelope{}
	if err := json.Unmarshal(respBody, envelope); err != nil {
		return nil, errors.Wrapf(err, "non-JSON response (status %d)", resp.StatusCode)
	}
	return envelope, nil
}
