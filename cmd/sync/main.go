package main

import (
	"context"
	"net/http"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/feishu/feishuclient"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oeclient"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/repository"
	"github.com/vfg2006/qianchuan-sync-api/internal/api"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/scheduler"
	"github.com/vfg2006/qianchuan-sync-api/internal/usecases/alerting"
	"github.com/vfg2006/qianchuan-sync-api/internal/usecases/moderating"
	"github.com/vfg2006/qianchuan-sync-api/internal/usecases/syncing"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level: %s, falling back to 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Log level set to: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	stores := repository.NewProvider(pgConn)

	tokenStore := oeclient.NewFileTokenStore(cfg.OceanEngine.TokenCachePath)
	tokenManager := oeclient.NewTokenManager(cfg, tokenStore, &http.Client{
		Timeout: cfg.OceanEngine.HTTPTimeout,
	})

	platformClient := oeclient.NewClient(cfg, tokenManager)

	notifier := feishuclient.NewClient(cfg)

	syncService := syncing.NewService(cfg, platformClient, stores)
	moderationService := moderating.NewService(cfg, platformClient, stores)
	alertService := alerting.NewService(cfg, stores, notifier)

	accountSyncService := scheduler.NewAccountSyncService(cfg, syncService)
	commentSyncService := scheduler.NewCommentSyncService(cfg, moderationService)
	alertRuleService := scheduler.NewAlertRuleService(cfg, alertService)
	notifyDigestService := scheduler.NewNotifyDigestService(cfg, alertService)

	if err := accountSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start account sync scheduler")
	} else {
		logrus.Info("Account sync scheduler started")
	}

	if err := commentSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start comment sync scheduler")
	} else {
		logrus.Info("Comment sync scheduler started")
	}

	if err := alertRuleService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start alert rule scheduler")
	} else {
		logrus.Info("Alert rule scheduler started")
	}

	if err := notifyDigestService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start notify digest scheduler")
	} else {
		logrus.Info("Notify digest scheduler started")
	}

	server, err := api.New(
		cfg,
		stores.Store(),
		accountSyncService,
		commentSyncService,
		alertRuleService,
		notifyDigestService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to ping PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
