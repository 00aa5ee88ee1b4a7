package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	OceanEngine OceanEngine `mapstructure:",squash"`
	Feishu      Feishu      `mapstructure:",squash"`
	AccountSync AccountSync `mapstructure:",squash"`
	CommentSync CommentSync `mapstructure:",squash"`
	AlertRules  AlertRules  `mapstructure:",squash"`
	NotifyJob   NotifyJob   `mapstructure:",squash"`
	Healthcheck Healthcheck `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"app_timezone"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// OceanEngine holds platform credentials, token bootstrap material and the
// pacing/retry knobs shared by every endpoint call.
type OceanEngine struct {
	OAuthBaseURL   string `mapstructure:"oe_oauth_base_url"`
	APIBaseURL     string `mapstructure:"oe_api_base_url"`
	AdBaseURL      string `mapstructure:"oe_ad_base_url"`
	AppID          string `mapstructure:"oe_app_id"`
	AppSecret      string `mapstructure:"oe_app_secret"`
	RefreshToken   string `mapstructure:"oe_refresh_token"`
	AuthCode       string `mapstructure:"oe_auth_code"`
	TokenCachePath string `mapstructure:"oe_token_cache_path"`

	ShopID  int64 `mapstructure:"oe_shop_id"`
	AgentID int64 `mapstructure:"oe_agent_id"`

	RequestSpacing   time.Duration `mapstructure:"oe_request_spacing"`
	RequestJitterPct int           `mapstructure:"oe_request_jitter_pct"`

	RetryMaxAttempts int           `mapstructure:"oe_retry_max_attempts"`
	RetryBaseDelay   time.Duration `mapstructure:"oe_retry_base_delay"`
	RetryMaxDelay    time.Duration `mapstructure:"oe_retry_max_delay"`

	PageSize         int `mapstructure:"oe_page_size"`
	PageDepthCeiling int `mapstructure:"oe_page_depth_ceiling"`

	HTTPTimeout time.Duration `mapstructure:"oe_http_timeout"`
}

type Feishu struct {
	WebhookURL string `mapstructure:"feishu_webhook_url"`
	Secret     string `mapstructure:"feishu_secret"`
	Keyword    string `mapstructure:"feishu_keyword"`
	Enabled    bool   `mapstructure:"feishu_enabled"`
}

type AccountSync struct {
	CronSchedule        string `mapstructure:"account_sync_cron"`
	Enabled             bool   `mapstructure:"account_sync_enabled"`
	FinanceLookbackDays int    `mapstructure:"account_sync_finance_lookback_days"`
}

type CommentSync struct {
	CronSchedule  string `mapstructure:"comment_sync_cron"`
	Enabled       bool   `mapstructure:"comment_sync_enabled"`
	LookbackHours int    `mapstructure:"comment_sync_lookback_hours"`
	HideEnabled   bool   `mapstructure:"comment_hide_enabled"`
}

type AlertRules struct {
	CronSchedule    string `mapstructure:"alert_rules_cron"`
	Enabled         bool   `mapstructure:"alert_rules_enabled"`
	MaxNotifyPerDay int    `mapstructure:"alert_max_notify_per_day"`
}

type NotifyJob struct {
	CronSchedule string `mapstructure:"notify_digest_cron"`
	Enabled      bool   `mapstructure:"notify_digest_enabled"`
	BatchSize    int    `mapstructure:"notify_digest_batch_size"`
	WindowHours  int    `mapstructure:"notify_digest_window_hours"`
}

type Healthcheck struct {
	BalanceMaxAge      time.Duration `mapstructure:"healthcheck_balance_max_age"`
	CommentMaxAge      time.Duration `mapstructure:"healthcheck_comment_max_age"`
	HideBacklogWarning int           `mapstructure:"healthcheck_hide_backlog_warning"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/qianchuan")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("OE_OAUTH_BASE_URL", "https://ad.oceanengine.com")
	viper.SetDefault("OE_API_BASE_URL", "https://api.oceanengine.com")
	viper.SetDefault("OE_AD_BASE_URL", "https://ad.oceanengine.com")
	viper.SetDefault("OE_APP_ID", "")
	viper.SetDefault("OE_APP_SECRET", "")
	viper.SetDefault("OE_REFRESH_TOKEN", "")
	viper.SetDefault("OE_AUTH_CODE", "")
	viper.SetDefault("OE_TOKEN_CACHE_PATH", ".oe_token_cache.json")
	viper.SetDefault("OE_SHOP_ID", 0)
	viper.SetDefault("OE_AGENT_ID", 0)

	viper.SetDefault("OE_REQUEST_SPACING", "250ms")
	viper.SetDefault("OE_REQUEST_JITTER_PCT", 30)
	viper.SetDefault("OE_RETRY_MAX_ATTEMPTS", 6)
	viper.SetDefault("OE_RETRY_BASE_DELAY", "1s")
	viper.SetDefault("OE_RETRY_MAX_DELAY", "20s")
	viper.SetDefault("OE_PAGE_SIZE", 100)
	viper.SetDefault("OE_PAGE_DEPTH_CEILING", 10000)
	viper.SetDefault("OE_HTTP_TIMEOUT", "30s")

	viper.SetDefault("FEISHU_WEBHOOK_URL", "")
	viper.SetDefault("FEISHU_SECRET", "")
	viper.SetDefault("FEISHU_KEYWORD", "")
	viper.SetDefault("FEISHU_ENABLED", false)

	viper.SetDefault("ACCOUNT_SYNC_CRON", "15 */2 * * *")
	viper.SetDefault("ACCOUNT_SYNC_ENABLED", false)
	viper.SetDefault("ACCOUNT_SYNC_FINANCE_LOOKBACK_DAYS", 7)

	viper.SetDefault("COMMENT_SYNC_CRON", "*/30 * * * *")
	viper.SetDefault("COMMENT_SYNC_ENABLED", false)
	viper.SetDefault("COMMENT_SYNC_LOOKBACK_HOURS", 48)
	viper.SetDefault("COMMENT_HIDE_ENABLED", false)

	viper.SetDefault("ALERT_RULES_CRON", "*/30 * * * *")
	viper.SetDefault("ALERT_RULES_ENABLED", false)
	viper.SetDefault("ALERT_MAX_NOTIFY_PER_DAY", 3)

	viper.SetDefault("NOTIFY_DIGEST_CRON", "*/10 * * * *")
	viper.SetDefault("NOTIFY_DIGEST_ENABLED", false)
	viper.SetDefault("NOTIFY_DIGEST_BATCH_SIZE", 50)
	viper.SetDefault("NOTIFY_DIGEST_WINDOW_HOURS", 24)

	viper.SetDefault("HEALTHCHECK_BALANCE_MAX_AGE", "3h")
	viper.SetDefault("HEALTHCHECK_COMMENT_MAX_AGE", "2h")
	viper.SetDefault("HEALTHCHECK_HIDE_BACKLOG_WARNING", 20)

	viper.SetDefault("APP_TIMEZONE", "Asia/Shanghai")
	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Using variables loaded by godotenv (viper could not read .env):", err)
	} else {
		logrus.Info(".env file read by viper")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		logrus.Warnf("invalid APP_TIMEZONE %q, falling back to UTC", c.App.Timezone)
		return time.UTC
	}
	return loc
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not determine current directory:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info(".env file loaded from:", location)
			return
		}
	}

	logrus.Warn("no .env file found in any known location")
}
