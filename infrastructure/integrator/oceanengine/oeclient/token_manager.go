package oeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oedomain"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
)

// Access tokens within this margin of expiry are treated as expired, so a
// token never dies mid-request.
const tokenSafetyMargin = 120 * time.Second

const (
	refreshTokenPath = "/open_api/oauth2/refresh_token/"
	accessTokenPath  = "/open_api/oauth2/access_token/"
)

// TokenManager owns the OAuth2 token lifecycle: cache, refresh grant and
// auth-code bootstrap. All platform calls go through EnsureToken first.
type TokenManager struct {
	cfg        *config.Config
	store      TokenStore
	httpClient *http.Client

	mu     sync.Mutex
	cached *CachedToken
	now    func() time.Time
}

func NewTokenManager(cfg *config.Config, store TokenStore, httpClient *http.Client) *TokenManager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.OceanEngine.HTTPTimeout}
	}
	return &TokenManager{
		cfg:        cfg,
		store:      store,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// EnsureToken returns a usable access token, refreshing or bootstrapping as
// needed. It is safe for concurrent use; only one refresh runs at a time.
func (tm *TokenManager) EnsureToken(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	now := tm.now()

	if tm.cached.AccessTokenValid(now, tokenSafetyMargin) {
		return tm.cached.AccessToken, nil
	}

	if tm.cached == nil {
		cached, err := tm.store.Load()
		if err != nil {
			logrus.WithError(err).Warn("Failed to load token cache, continuing without it")
		}
		tm.cached = cached
		if tm.cached.AccessTokenValid(now, tokenSafetyMargin) {
			return tm.cached.AccessToken, nil
		}
	}

	return tm.obtainToken(ctx, now)
}

// Invalidate drops the in-memory access token so the next call refreshes.
// Used when the platform rejects a token the cache still considers valid.
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.cached != nil {
		tm.cached.AccessToken = ""
		tm.cached.ExpiresAtEpoch = 0
	}
}

// obtainToken runs the grant chain: refresh-token candidates in priority
// order, then the one-shot auth code. Caller holds the mutex.
func (tm *TokenManager) obtainToken(ctx context.Context, now time.Time) (string, error) {
	var lastErr error

	for _, candidate := range tm.refreshCandidates(now) {
		data, err := tm.grantRefreshToken(ctx, candidate)
		if err != nil {
			logrus.WithError(err).Warn("Refresh token grant failed, trying next candidate")
			lastErr = err
			continue
		}
		return tm.adoptToken(data, oedomain.TokenSourceRefresh, now)
	}

	if tm.cfg.OceanEngine.AuthCode != "" {
		data, err := tm.grantAuthCode(ctx, tm.cfg.OceanEngine.AuthCode)
		if err != nil {
			logrus.WithError(err).Error("Auth code grant failed")
			return "", errors.Wrap(oedomain.ErrAuthRequired, err.Error())
		}
		return tm.adoptToken(data, oedomain.TokenSourceAuthCode, now)
	}

	if lastErr != nil {
		return "", errors.Wrap(oedomain.ErrAuthRequired, lastErr.Error())
	}
	return "", errors.Wrap(oedomain.ErrAuthRequired, "no refresh token or auth code configured")
}

// refreshCandidates returns distinct refresh tokens in priority order: the
// configured token first, then whatever the cache rotated to.
func (tm *TokenManager) refreshCandidates(now time.Time) []string {
	seen := map[string]bool{}
	var out []string

	if rt := tm.cfg.OceanEngine.RefreshToken; rt != "" && !seen[rt] {
		seen[rt] = true
		out = append(out, rt)
	}
	if tm.cached.RefreshTokenValid(now, tokenSafetyMargin) && !seen[tm.cached.RefreshToken] {
		seen[tm.cached.RefreshToken] = true
		out = append(out, tm.cached.RefreshToken)
	}
	return out
}

func (tm *TokenManager) adoptToken(data *oedomain.TokenData, source string, now time.Time) (string, error) {
	tm.cached = &CachedToken{
		AccessToken:           data.AccessToken,
		RefreshToken:          data.RefreshToken,
		ExpiresAtEpoch:        now.Unix() + data.ExpiresIn,
		RefreshExpiresAtEpoch: 0,
		AppID:                 tm.cfg.OceanEngine.AppID,
		TokenSource:           source,
		UpdatedAt:             now.Format(time.RFC3339),
	}
	if refreshIn := data.RefreshExpiresIn(); refreshIn > 0 {
		tm.cached.RefreshExpiresAtEpoch = now.Unix() + refreshIn
	}

	if err := tm.store.Save(tm.cached); err != nil {
		logrus.WithError(err).Warn("Failed to persist token cache")
	}

	logrus.WithFields(logrus.Fields{
		"source":     source,
		"expires_at": time.Unix(tm.cached.ExpiresAtEpoch, 0).Format(time.RFC3339),
	}).Info("Access token obtained")

	return tm.cached.AccessToken, nil
}

func (tm *TokenManager) grantRefreshToken(ctx context.Context, refreshToken string) (*oedomain.TokenData, error) {
	return tm.grant(ctx, refreshTokenPath, map[string]interface{}{
		"app_id":        tm.cfg.OceanEngine.AppID,
		"secret":        tm.cfg.OceanEngine.AppSecret,
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	})
}

func (tm *TokenManager) grantAuthCode(ctx context.Context, authCode string) (*oedomain.TokenData, error) {
	return tm.grant(ctx, accessTokenPath, map[string]interface{}{
		"app_id":     tm.cfg.OceanEngine.AppID,
		"secret":     tm.cfg.OceanEngine.AppSecret,
		"grant_type": "auth_code",
		"auth_code":  authCode,
	})
}

func (tm *TokenManager) grant(ctx context.Context, path string, payload map[string]interface{}) (*oedomain.TokenData, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encoding grant request")
	}

	url := tm.cfg.OceanEngine.OAuthBaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "building grant request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling oauth endpoint")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading oauth response")
	}

	envelope := &oedomain.Envelope{}
	if err := json.Unmarshal(respBody, envelope); err != nil {
		return nil, errors.Wrapf(err, "decoding oauth response (status %d)", resp.StatusCode)
	}
	if err := envelope.Err(path); err != nil {
		return nil, err
	}

	data := &oedomain.TokenData{}
	if err := json.Unmarshal(oedomain.DigData(envelope.Data), data); err != nil {
		return nil, errors.Wrap(err, "decoding token payload")
	}
	if data.AccessToken == "" {
		return nil, errors.New("oauth response missing access_token")
	}
	return data, nil
}
