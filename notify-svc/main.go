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
	httpapi "food-marketplace/notify-svc/internal/api/http"
	"food-marketplace/notify-svc/internal/service"
	"food-marketplace/notify-svc/internal/storage"
	"food-marketplace/pkg/logger"
	"food-marketplace/pkg/metrics"
	"food-marketplace/pkg/session"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logger.New("notify-svc")
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg, "notify-svc-consumer")
	defer reader.Close()

	hub := service.NewHub()
	buffer := storage.NewRedisBuffer(rdb)
	consumer := service.NewConsumer(reader, hub, buffer, log)
	sessions := session.NewManager(session.NewRedisStore(rdb), cfg.SessionSecret, cfg.SessionTTL)

	reg := prometheus.NewRegistry()
	server := &http.Server{
		Addr: cfg.NotifyHTTPAddr,
		Handler: httpapi.NewRouter(httpapi.NewHandler(hub, buffer, cfg.CORSOrigins, log), httpapi.RouterConfig{
			Gate:     sessions.Gate,
			Metrics:  metrics.NewServerMetrics("notify-svc", reg),
			Gatherer: reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Start(gctx)
	})
	g.Go(func() error {
		log.Info("server_started", "startup", "Notify service listening on "+cfg.NotifyHTTPAddr, nil)
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
		log.Error("server_stopped", "shutdown", "Notify service stopped with error", err, nil)
		os.Exit(1)
	}
	log.Info("server_stopped", "shutdown", "Notify service stopped", nil)
}
