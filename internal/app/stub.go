package app

import (
	"context"
	"net/http"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/stub"
	"github.com/xenking/storefront/pkg/health"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

// StubConfig configures the in-memory catalog stub (CATALOG_STUB_ prefix).
type StubConfig struct {
	Addr     string `default:"0.0.0.0:8083" usage:"Stub listen address" validate:"required,hostname_port"`
	Seeded   bool   `default:"false" usage:"Start with the dummy products loaded"`
	Graceful GracefulConfig
}

// LoadStubConfig loads the stub configuration.
func LoadStubConfig() (*StubConfig, error) {
	var cfg StubConfig
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "CATALOG_STUB",
		Files:     []string{"stub.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewStubRouter serves the stub under /api with the standard middleware
// chain.
func NewStubRouter(lg *zap.Logger, tel httpmiddleware.TelemetryProvider, s *stub.Server, healthSvc *health.Health) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/livez", healthSvc.LiveEndpoint).Methods(http.MethodGet)
	r.HandleFunc("/readyz", healthSvc.ReadyEndpoint).Methods(http.MethodGet)
	s.Routes(r.PathPrefix("/api").Subrouter())

	find := httpmiddleware.MakeRouteFinder(r)
	return httpmiddleware.Wrap(r,
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.Recovery(),
		httpmiddleware.Instrument("catalog-stub", find, tel),
		httpmiddleware.LogRequests(find),
		httpmiddleware.Labeler(find),
	)
}

// RunStub serves the in-memory catalog stub until ctx is done.
func RunStub(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *StubConfig) error {
	s := stub.New()
	if cfg.Seeded {
		s.Add(stub.DummyProducts...)
	}

	healthSvc := health.New(lg.Named("health"))
	healthSvc.SetReady(true)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		Addr:              cfg.Addr,
		Handler:           NewStubRouter(lg, m, s, healthSvc),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Stub listening", zap.String("addr", cfg.Addr), zap.Bool("seeded", cfg.Seeded))
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
