package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"alumnihub/internal/config"
	"alumnihub/internal/httpapi"
	"alumnihub/internal/identity"
	"alumnihub/internal/jobs"
	"alumnihub/internal/profile"
	"alumnihub/internal/session"
	"alumnihub/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	var (
		machine    *session.Machine
		profileSvc *profile.Synchronizer
		jobsSvc    *jobs.Service
		dbPing     func(context.Context) error
	)

	if cfg.DBDSN != "" {
		pool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := postgres.Init(context.Background(), pool); err != nil {
			logger.Error("db init failed", "err", err)
			os.Exit(1)
		}

		docs := postgres.NewDocumentStore(pool, logger)
		profileSvc = profile.NewSynchronizer(docs, logger)
		jobsSvc = jobs.NewService(docs, logger)
		dbPing = pool.Ping
	} else {
		logger.Info("db disabled: profile and jobs endpoints unavailable")
	}

	if cfg.IdentityAPIKey != "" {
		var cache *identity.TokenCache
		if cfg.SessionCachePath != "" {
			cache, err = identity.NewTokenCache(cfg.SessionCachePath, cfg.SessionCacheKey)
			if err != nil {
				logger.Error("session cache init failed", "err", err)
				os.Exit(1)
			}
		}

		idc, err := identity.NewGoogleClient(context.Background(), cfg.IdentityAPIKey, cache, logger)
		if err != nil {
			logger.Error("identity client init failed", "err", err)
			os.Exit(1)
		}
		idc.Restore(context.Background())

		machine = session.NewMachine(idc, logger)
		machine.GoogleWebClientID = cfg.GoogleWebClientID
		machine.AppleServiceID = cfg.AppleServiceID
		if cfg.GoogleWebClientID != "" {
			machine.VerifyGoogleIDToken = identity.VerifyGoogleIDToken
		}
		if cfg.AppleServiceID != "" {
			machine.VerifyAppleIDToken = identity.VerifyAppleIDToken
		}
	} else {
		logger.Info("identity disabled: session endpoints unavailable")
	}

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:  logger,
		IsProd:  cfg.IsProd(),
		DBPing:  dbPing,
		Session: machine,
		Profile: profileSvc,
		Jobs:    jobsSvc,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
