package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-marketplace/config"
	httpapi "food-marketplace/market-svc/internal/api/http"
	"food-marketplace/market-svc/internal/service"
	"food-marketplace/market-svc/internal/storage"
	"food-marketplace/market-svc/migrations"
	"food-marketplace/pkg/logger"
	"food-marketplace/pkg/metrics"
	"food-marketplace/pkg/session"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logger.New("market-svc")
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(cfg)
	defer db.Close()
	if err := storage.Migrate(ctx, db, migrations.FS, log); err != nil {
		log.Error("migration_failed", "startup", "Failed to apply migrations", err, nil)
		os.Exit(1)
	}

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	writer := config.NewKafkaWriter(cfg)
	defer writer.Close()

	repo := storage.NewPostgresRepository(db)
	ledger := service.NewLedger(
		storage.NewLedgerRepository(db),
		storage.NewKafkaPublisher(writer),
		service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL},
		log,
	)
	sessions := session.NewManager(session.NewRedisStore(rdb), cfg.SessionSecret, cfg.SessionTTL)

	handler := &httpapi.Handler{
		Accounts:   service.NewAccountService(repo, service.BcryptHasher{}),
		Catalog:    service.NewCatalogService(repo),
		Settings:   service.NewSettingsService(repo, repo),
		Ledger:     ledger,
		Sessions:   sessions,
		Log:        log,
		AdminToken: cfg.AdminToken,
		UploadDir:  cfg.UploadDir,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(handler, httpapi.RouterConfig{
			Gate:        sessions.Gate,
			Metrics:     metrics.NewServerMetrics("market-svc", reg),
			Gatherer:    reg,
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server_started", "startup", "Market service listening on "+cfg.HTTPAddr, nil)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server_stopped", "shutdown", "Market service stopped with error", err, nil)
		os.Exit(1)
	}
	log.Info("server_stopped", "shutdown", "Market service stopped", nil)
}
