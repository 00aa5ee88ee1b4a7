package feishuclient

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Notifier interface {
	SendText(ctx context.Context, text string) error
	SendCard(ctx context.Context, card *Card) error
	Enabled() bool
}

// FeishuClient posts messages to a Feishu custom-bot webhook, attaching the
// HMAC signature and keyword prefix the bot's security settings require.
type FeishuClient struct {
	cfg        *config.Config
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(cfg *config.Config) *FeishuClient {
	return &FeishuClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
}

func (c *FeishuClient) Enabled() bool {
	return c.cfg.Feishu.Enabled && c.cfg.Feishu.WebhookURL != ""
}

// SendText posts a plain text message. The configured keyword, when set, is
// prefixed on its own line so the bot's keyword filter passes.
func (c *FeishuClient) SendText(ctx context.Context, text string) error {
	if keyword := c.cfg.Feishu.Keyword; keyword != "" {
		text = keyword + "\n" + text
	}
	payload := map[string]interface{}{
		"msg_type": "text",
		"content":  map[string]string{"text": text},
	}
	return c.post(ctx, payload)
}

// SendCard posts an interactive card message.
func (c *FeishuClient) SendCard(ctx context.Context, card *Card) error {
	payload := map[string]interface{}{
		"msg_type": "interactive",
		"card":     card,
	}
	return c.post(ctx, payload)
}

func (c *FeishuClient) post(ctx context.Context, payload map[string]interface{}) error {
	if !c.Enabled() {
		logrus.Warn("Feishu notifications disabled, skipping send")
		return nil
	}

	if secret := c.cfg.Feishu.Secret; secret != "" {
		timestamp := strconv.FormatInt(c.now().Unix(), 10)
		payload["timestamp"] = timestamp
		payload["sign"] = Sign(secret, timestamp)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encoding feishu payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Feishu.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building feishu request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending feishu webhook")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("feishu webhook rejected: status=%d body=%s", resp.StatusCode, respBody)
	}

	var result struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && result.Code != 0 {
		return errors.Errorf("feishu webhook error: code=%d msg=%s", result.Code, result.Msg)
	}
	return nil
}

// Sign computes the custom-bot signature:
// base64(hmac_sha256(secret, "{timestamp}\n{secret}")).
func Sign(secret, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%s\n%s", timestamp, secret)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
