package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/autobase/webfront/internal/auth"
	"github.com/autobase/webfront/internal/config"
	"github.com/autobase/webfront/internal/repository/mongodb"
	"github.com/autobase/webfront/internal/repository/sheets"
	"github.com/autobase/webfront/internal/scheduler"
	"github.com/autobase/webfront/internal/server/handlers"
	"github.com/autobase/webfront/internal/server/router"
	"github.com/autobase/webfront/internal/server/views"
	reportingsvc "github.com/autobase/webfront/internal/service/reporting"
	"github.com/autobase/webfront/pkg/clients/dealership"
	"github.com/autobase/webfront/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.Env))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	backend := dealership.NewClient(cfg.Backend, baseLogger.Named("client.dealership"))
	resolver := auth.NewResolver(baseLogger.Named("auth"))
	handler := handlers.New(backend, resolver, handlers.Options{
		SessionSecret: cfg.Server.SessionSecret,
		SecureCookies: cfg.Server.Env == "production",
	}, baseLogger.Named("handlers"))
	engine := router.New(handler, views.Must(views.New()), baseLogger.Named("router"))

	var sinks []reportingsvc.Sink

	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoRepo, err := mongodb.Connect(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		sinks = append(sinks, mongoRepo)
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sinks = append(sinks, sheets.NewSnapshotWriter(sheetsRepo))
	}

	switch {
	case !cfg.Reporting.Enabled():
		baseLogger.Warn("report credentials missing, snapshots disabled")
	case len(sinks) == 0:
		baseLogger.Warn("no snapshot store configured, snapshots disabled")
	default:
		reportingSvc := reportingsvc.NewService(reportingsvc.ManagerLogin{
			Client:   backend,
			Username: cfg.Reporting.Username,
			Password: cfg.Reporting.Password,
		}, sinks, baseLogger.Named("svc.reporting"))

		sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Backend.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Backend.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
