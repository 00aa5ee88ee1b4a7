package oeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oedomain"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
)

func testConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	return &config.Config{
		OceanEngine: config.OceanEngine{
			OAuthBaseURL:     serverURL,
			APIBaseURL:       serverURL,
			AdBaseURL:        serverURL,
			AppID:            "app-1",
			AppSecret:        "secret-1",
			RefreshToken:     "refresh-1",
			TokenCachePath:   filepath.Join(t.TempDir(), "token.json"),
			RequestSpacing:   0,
			RetryMaxAttempts: 6,
			RetryBaseDelay:   time.Millisecond,
			RetryMaxDelay:    5 * time.Millisecond,
			PageSize:         2,
			PageDepthCeiling: 10000,
			HTTPTimeout:      5 * time.Second,
		},
	}
}

func newTestClient(t *testing.T, serverURL string) *OEClient {
	t.Helper()
	cfg := testConfig(t, serverURL)
	store := NewFileTokenStore(cfg.OceanEngine.TokenCachePath)
	tm := NewTokenManager(cfg, store, &http.Client{Timeout: 5 * time.Second})
	client := NewClient(cfg, tm)
	client.sleep = func(context.Context, time.Duration) error { return nil }
	return client
}

func writeEnvelope(w http.ResponseWriter, code int, data interface{}) {
	payload, _ := json.Marshal(data)
	resp := map[string]interface{}{
		"code":       code,
		"message":    "",
		"request_id": "req-1",
		"data":       json.RawMessage(payload),
	}
	json.NewEncoder(w).Encode(resp)
}

func tokenHandler(w http.ResponseWriter) {
	writeEnvelope(w, 0, map[string]interface{}{
		"access_token":             "token-xyz",
		"expires_in":               86400,
		"refresh_token":            "refresh-2",
		"refresh_token_expires_in": 2592000,
	})
}

func TestCommentsRetriesThrottleThenSucceeds(t *testing.T) {
	var commentCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshTokenPath:
			tokenHandler(w)
		case commentGetPath:
			call := atomic.AddInt32(&commentCalls, 1)
			if call <= 2 {
				writeEnvelope(w, oedomain.CodeSystemThrottle, nil)
				return
			}
			writeEnvelope(w, 0, map[string]interface{}{
				"comment_list": []map[string]interface{}{
					{"comment_id": "101", "text": "bad product", "emotion_type": "NEGATIVE"},
				},
				"page_info": map[string]interface{}{"page": 1, "page_size": 2, "total_page": 1},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	comments, err := client.Comments(context.Background(), 900001, "2026-08-30", "2026-08-31", oedomain.CommentHideFilterNotHidden)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "bad product", comments[0].EffectiveText())
	assert.Equal(t, int32(3), atomic.LoadInt32(&commentCalls))
}

func TestCommentsThrottleExhaustsRetryBudget(t *testing.T) {
	var commentCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshTokenPath:
			tokenHandler(w)
		case commentGetPath:
			atomic.AddInt32(&commentCalls, 1)
			writeEnvelope(w, oedomain.CodeSystemThrottle, nil)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Comments(context.Background(), 900001, "2026-08-30", "2026-08-31", oedomain.CommentHideFilterNotHidden)
	require.Error(t, err)

	apiErr, ok := oedomain.AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsThrottled())
	assert.Equal(t, int32(6), atomic.LoadInt32(&commentCalls))
}

func TestCommentsPermissionDeniedFailsFast(t *testing.T) {
	var commentCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshTokenPath:
			tokenHandler(w)
		case commentGetPath:
			atomic.AddInt32(&commentCalls, 1)
			writeEnvelope(w, oedomain.CodePermissionDenied, nil)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Comments(context.Background(), 900001, "2026-08-30", "2026-08-31", oedomain.CommentHideFilterNotHidden)
	require.Error(t, err)
	assert.True(t, oedomain.IsPermissionDenied(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&commentCalls), "permission denial must not be retried")
}

func TestCommentsStopsAtTotalPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshTokenPath:
			tokenHandler(w)
		case commentGetPath:
			page, err := strconv.Atoi(r.URL.Query().Get("page"))
			require.NoError(t, err)
			writeEnvelope(w, 0, map[string]interface{}{
				"comment_list": []map[string]interface{}{
					{"comment_id": fmt.Sprintf("%d01", page)},
					{"comment_id": fmt.Sprintf("%d02", page)},
				},
				"page_info": map[string]interface{}{"page": page, "page_size": 2, "total_page": 3},
			})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	comments, err := client.Comments(context.Background(), 900001, "2026-08-30", "2026-08-31", oedomain.CommentHideFilterAll)
	require.NoError(t, err)
	assert.Len(t, comments, 6, "three pages of two comments each")
}

func TestCommentsStopsOnShortPageWithoutTotalPage(t *testing.T) {
	var commentCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshTokenPath:
			tokenHandler(w)
		case commentGetPath:
			atomic.AddInt32(&commentCalls, 1)
			writeEnvelope(w, 0, map[string]interface{}{
				"comment_list": []map[string]interface{}{
					{"comment_id": "101"},
				},
			})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	comments, err := client.Comments(context.Background(), 900001, "2026-08-30", "2026-08-31", oedomain.CommentHideFilterAll)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&commentCalls))
}

func TestCommentsStopsAtDepthCeiling(t *testing.T) {
	var commentCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshTokenPath:
			tokenHandler(w)
		case commentGetPath:
			atomic.AddInt32(&commentCalls, 1)
			// Full pages forever, no total_page: only the ceiling stops us.
			writeEnvelope(w, 0, map[string]interface{}{
				"comment_list": []map[string]interface{}{
					{"comment_id": "101"},
					{"comment_id": "102"},
				},
			})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.cfg.OceanEngine.PageDepthCeiling = 6

	comments, err := client.Comments(context.Background(), 900001, "2026-08-30", "2026-08-31", oedomain.CommentHideFilterAll)
	require.NoError(t, err, "hitting the ceiling truncates, it does not fail")
	assert.Len(t, comments, 6)
	assert.Equal(t, int32(3), atomic.LoadInt32(&commentCalls), "page 4 would exceed the ceiling")
}

func TestHideCommentsRejectsOversizedBatch(t *testing.T) {
	client := newTestClient(t, "http://unreachable.invalid")

	ids := make([]int64, HideBatchLimit+1)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	_, err := client.HideComments(context.Background(), 900001, ids)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds platform limit")
}

func TestHideCommentsPartitionsSuccessIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshTokenPath:
			tokenHandler(w)
		case commentHidePath:
			var payload struct {
				AdvertiserID int64   `json:"advertiser_id"`
				CommentIDs   []int64 `json:"comment_ids"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, int64(900001), payload.AdvertiserID)
			writeEnvelope(w, 0, map[string]interface{}{
				"success_comment_ids": []string{"1", "3"},
			})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.HideComments(context.Background(), 900001, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, result.SuccessIDs())
}

func TestAuthorizedAccountsPaginates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshTokenPath:
			tokenHandler(w)
		case advertiserGetPath:
			page := r.URL.Query().Get("page")
			if page == "1" {
				writeEnvelope(w, 0, map[string]interface{}{
					"list": []map[string]interface{}{
						{"advertiser_id": 11, "advertiser_name": "shop-a", "account_role": "PLATFORM_ROLE_SHOP_ACCOUNT"},
						{"advertiser_id": 12, "advertiser_name": "adv-b"},
					},
				})
				return
			}
			writeEnvelope(w, 0, map[string]interface{}{
				"list": []map[string]interface{}{
					{"advertiser_id": 13, "advertiser_name": "adv-c"},
				},
			})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	accounts, err := client.AuthorizedAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.True(t, accounts[0].IsShop())
	assert.Equal(t, int64(13), accounts[2].EffectiveID())
}
