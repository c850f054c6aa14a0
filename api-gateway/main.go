package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-marketplace/api-gateway/internal/gateway"
	"food-marketplace/config"
	"food-marketplace/pkg/logger"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logger.New("api-gateway")
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := gateway.NewGateway(gateway.Config{
		MarketSvcURL: cfg.MarketSvcURL,
		NotifySvcURL: cfg.NotifySvcURL,
		FrontendDir:  cfg.FrontendDir,
	}, &http.Client{Timeout: 30 * time.Second}, log)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID", "X-Admin-Token"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              cfg.GatewayAddr,
		Handler:           c.Handler(gw.SetupRoutes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server_started", "startup", "API gateway listening on "+cfg.GatewayAddr, map[string]any{
			"market_svc": cfg.MarketSvcURL,
			"notify_svc": cfg.NotifySvcURL,
		})
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
		log.Error("server_stopped", "shutdown", "API gateway stopped with error", err, nil)
		os.Exit(1)
	}
	log.Info("server_stopped", "shutdown", "API gateway stopped", nil)
}
