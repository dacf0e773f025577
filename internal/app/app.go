// Package app wires the storefront and catalog stub servers.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/remote"
	"github.com/xenking/storefront/internal/store"
	"github.com/xenking/storefront/pkg/health"
)

// Run creates all dependencies, serves the view API and handles graceful
// shutdown. The catalog loads in the background and the service reports
// ready once that load finished, successfully or not.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("remote", cfg.Remote.BaseURL),
	)

	client, err := remote.New(
		remote.Config{BaseURL: cfg.Remote.BaseURL, Timeout: cfg.Remote.Timeout},
		remote.WithTracerProvider(m.TracerProvider()),
		remote.WithMeterProvider(m.MeterProvider()),
	)
	if err != nil {
		return errors.Wrap(err, "create remote client")
	}

	st, err := store.New(
		store.Config{
			OrderNoticeTTL: cfg.OrderNotice.TTL,
			RequireLogin:   cfg.Navigation.RequireLogin,
		},
		catalog.NewLoader(client),
		client,
		lg.Named("store"),
		m.MeterProvider().Meter("github.com/xenking/storefront/internal/store"),
	)
	if err != nil {
		return errors.Wrap(err, "create store")
	}
	defer st.Close()

	healthSvc := health.New(lg.Named("health"))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		// Auth calls may wait for the full remote timeout.
		WriteTimeout:   cfg.Remote.Timeout + 5*time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
		Addr:           cfg.Addr,
		Handler:        NewRouter(lg, m, st, healthSvc, cfg.CORS),
	}

	g, gctx := errgroup.WithContext(ctx)
	healthSvc.Start(gctx, 10*time.Second)

	g.Go(func() error {
		// A failed load leaves the catalog empty; the server keeps running.
		_ = st.Init(zctx.Base(gctx, lg))
		if gctx.Err() == nil {
			healthSvc.SetReady(true)
		}
		return nil
	})
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(lg, server, healthSvc, cfg.Graceful)
	})
	return g.Wait()
}

// shutdown drops readiness, waits for load balancers to notice, then
// drains the server.
func shutdown(lg *zap.Logger, server *http.Server, healthSvc *health.Health, cfg GracefulConfig) error {
	healthSvc.SetReady(false)
	lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.ReadinessDelay))
	time.Sleep(cfg.ReadinessDelay)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	lg.Info("Shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))
	defer healthSvc.Stop()
	if err := server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
