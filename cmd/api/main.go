package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	scs "github.com/alexedwards/scs/v2"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/dmaher/shoplite/internal/cache"
	"github.com/dmaher/shoplite/internal/config"
	"github.com/dmaher/shoplite/internal/email"
	"github.com/dmaher/shoplite/internal/http/routes"
	"github.com/dmaher/shoplite/internal/report"
	"github.com/dmaher/shoplite/internal/store"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	// Sessions
	sess := scs.New()
	sess.Lifetime = 12 * time.Hour
	sess.Cookie.HttpOnly = true
	sess.Cookie.SameSite = http.SameSiteLaxMode

	// Caches: one store per value shape, janitors owned here so shutdown
	// stops them.
	pages := cache.New[[]byte](cfg.Cache.TTL)
	pages.SetLogger(logger.With().Str("cache", "pages").Logger())
	pages.StartJanitor(cfg.Cache.CleanupInterval)
	defer pages.Stop()

	reports := cache.New[report.Snapshot](cfg.Cache.TTL)
	reports.SetLogger(logger.With().Str("cache", "reports").Logger())
	reports.StartJanitor(cfg.Cache.CleanupInterval)
	defer reports.Stop()

	// Background jobs
	jobsClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close asynq client")
		}
	}()

	s := routes.New(routes.ServerOptions{
		Sess:    sess,
		DB:      db,
		Cfg:     cfg,
		Email:   email.NewSMTPSender(cfg.SMTPAddr, cfg.EmailFrom),
		Jobs:    jobsClient,
		Log:     logger,
		Pages:   pages,
		Reports: reports,
	})
	h := hlog.NewHandler(logger)(s.Router)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: sess.LoadAndSave(h)}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("serve")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("api stopped")
}
