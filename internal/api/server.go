package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/repository"
	"github.com/vfg2006/qianchuan-sync-api/internal/api/handler"
	"github.com/vfg2006/qianchuan-sync-api/internal/api/handler/router"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/scheduler"
	"github.com/vfg2006/qianchuan-sync-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	store *repository.Store,
	accountSyncService *scheduler.AccountSyncService,
	commentSyncService *scheduler.CommentSyncService,
	alertRuleService *scheduler.AlertRuleService,
	notifyDigestService *scheduler.NotifyDigestService,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		AccountSync:  accountSyncService,
		CommentSync:  commentSyncService,
		AlertRules:   alertRuleService,
		NotifyDigest: notifyDigestService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(store, config.Healthcheck)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Server stopped unexpectedly")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Interrupt signal received")
	case <-ctx.Done():
		logrus.Info("Application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Starting graceful shutdown")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Error during server shutdown")
		return err
	}

	logrus.Info("Server shut down cleanly")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("HTTP server shut down")
	return nil
}
