package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	gosmtp "github.com/emersion/go-smtp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"aliasgate/backend/internal/auth"
	"aliasgate/backend/internal/config"
	"aliasgate/backend/internal/health"
	"aliasgate/backend/internal/logger"
	"aliasgate/backend/internal/middleware"
	"aliasgate/backend/internal/monitoring"
	"aliasgate/backend/internal/service"
	"aliasgate/backend/internal/smtp"
	"aliasgate/backend/internal/storage"
	"aliasgate/backend/internal/storage/memory"
	"aliasgate/backend/internal/storage/postgres"
	httptransport "aliasgate/backend/internal/transport/http"
	"aliasgate/backend/internal/wordlist"
)

// main 启动同时包含管理 API 与 SMTP 入口的别名网关。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	gin.SetMode(cfg.Server.Mode)

	log, err := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		FilePath:    cfg.Log.FilePath,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting alias gateway",
		zap.String("domain", cfg.Gateway.Domain),
		zap.Int("targets", len(cfg.Gateway.TargetEmails)),
		zap.String("storage", cfg.Database.Type),
	)

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	metrics := monitoring.NewMetrics()

	healthChecker := health.NewHealthChecker(store, log)

	generator := service.NewGenerator(wordlist.Words())
	aliasService := service.NewAliasService(store, generator, &cfg.Gateway)
	aliasService.OnConflict(metrics.AllocationConflicts.Inc)
	suggestEngine := service.NewSuggestionEngine(generator)
	mailRouter := service.NewMailRouter(store, &cfg.Gateway)

	verifier := auth.NewVerifier(cfg.Auth.Salt, cfg.Auth.Hash)

	router := httptransport.NewRouter(httptransport.RouterOptions{
		Handler:        httptransport.NewAliasHandler(aliasService, suggestEngine, cfg.Gateway.Domain, metrics),
		Auth:           middleware.NewSecretAuth(verifier),
		Metrics:        metrics,
		Health:         healthChecker,
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var forwarder smtp.Forwarder = smtp.NewSMTPForwarder(cfg.SMTP.RelayAddr)

	smtpBackend := smtp.NewBackend(mailRouter, forwarder, metrics, log, cfg.SMTP.MaxMessageBytes)
	smtpServer := gosmtp.NewServer(smtpBackend)
	smtpServer.Addr = cfg.SMTP.BindAddr
	smtpServer.Domain = cfg.SMTP.Hostname
	smtpServer.ReadTimeout = 30 * time.Second
	smtpServer.WriteTimeout = 30 * time.Second
	smtpServer.MaxMessageBytes = cfg.SMTP.MaxMessageBytes
	smtpServer.MaxRecipients = 50

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		log.Info("starting SMTP server",
			zap.String("address", cfg.SMTP.BindAddr),
			zap.String("hostname", cfg.SMTP.Hostname),
			zap.String("relay", cfg.SMTP.RelayAddr),
		)
		return smtpServer.ListenAndServe()
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}
		if err := smtpServer.Close(); err != nil {
			log.Warn("SMTP server close warning", zap.Error(err))
		}
		return nil
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		log.Fatal("server error", zap.Error(err))
	}

	log.Info("server exited cleanly")
}

// openStore 按配置选择存储后端。
func openStore(cfg *config.Config) (storage.Store, error) {
	opts := postgres.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	switch cfg.Database.Type {
	case "postgres":
		return postgres.NewStore(cfg.Database.DSN, opts)
	case "mysql":
		return postgres.NewMySQLStore(cfg.Database.DSN, opts)
	default:
		return memory.NewStore(), nil
	}
}
