package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/remote"
	"github.com/xenking/storefront/internal/store"
	"github.com/xenking/storefront/internal/stub"
	"github.com/xenking/storefront/pkg/health"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

// --- Helpers ---

type noopTelemetry struct{}

func (noopTelemetry) TracerProvider() trace.TracerProvider { return tracenoop.NewTracerProvider() }
func (noopTelemetry) MeterProvider() metric.MeterProvider  { return metricnoop.NewMeterProvider() }

type env struct {
	t      *testing.T
	srv    *httptest.Server
	store  *store.Store
	health *health.Health
}

func newEnv(t *testing.T, ttl time.Duration) *env {
	t.Helper()
	lg := zaptest.NewLogger(t)

	stubSrv := httptest.NewServer(NewStubRouter(lg, noopTelemetry{}, stub.New(), health.New(zap.NewNop())))
	t.Cleanup(stubSrv.Close)

	client, err := remote.New(remote.Config{BaseURL: stubSrv.URL + "/api", Timeout: 5 * time.Second})
	require.NoError(t, err)

	st, err := store.New(store.Config{OrderNoticeTTL: ttl}, catalog.NewLoader(client), client,
		lg, metricnoop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	hs := health.New(lg)
	srv := httptest.NewServer(NewRouter(lg, noopTelemetry{}, st, hs, CORSConfig{Origins: []string{"*"}}))
	t.Cleanup(srv.Close)

	return &env{t: t, srv: srv, store: st, health: hs}
}

func (e *env) do(method, path, body string) (*http.Response, map[string]any) {
	e.t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, strings.NewReader(body))
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.srv.Client().Do(req)
	require.NoError(e.t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)

	var out map[string]any
	require.NoError(e.t, json.Unmarshal(raw, &out), "body: %s", raw)
	return resp, out
}

func field(v map[string]any, path ...string) any {
	var cur any = v
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[p]
	}
	return cur
}

// --- Tests ---

func TestStorefront_EndToEnd(t *testing.T) {
	e := newEnv(t, 50*time.Millisecond)
	require.NoError(t, e.store.Init(context.Background()))

	// The stub starts empty, so the loader seeded it.
	_, view := e.do(http.MethodGet, "/api/view", "")
	assert.Equal(t, "ready", field(view, "catalog", "status"))
	products := field(view, "catalog", "products").([]any)
	require.Len(t, products, len(stub.DummyProducts))

	e.do(http.MethodPut, "/api/credentials", `{"username":"alice","password":"secret"}`)
	_, view = e.do(http.MethodPost, "/api/register", "")
	assert.Equal(t, stub.MsgRegistered, field(view, "session", "feedback"))
	assert.Equal(t, "login", view["page"])

	e.do(http.MethodPut, "/api/credentials", `{"username":"alice","password":"wrong"}`)
	_, view = e.do(http.MethodPost, "/api/login", "")
	assert.Equal(t, stub.MsgInvalidLogin, field(view, "session", "feedback"))
	assert.Equal(t, false, field(view, "session", "loggedIn"))

	e.do(http.MethodPut, "/api/credentials", `{"username":"alice","password":"secret"}`)
	_, view = e.do(http.MethodPost, "/api/login", "")
	assert.Equal(t, true, field(view, "session", "loggedIn"))
	assert.Equal(t, "products", view["page"])

	e.do(http.MethodPost, "/api/cart/items", `{"productId":"3"}`)
	e.do(http.MethodPost, "/api/cart/items", `{"productId":"3"}`)
	_, view = e.do(http.MethodPost, "/api/cart/items", `{"productId":"1"}`)
	assert.Equal(t, "78.99", field(view, "cart", "totalText"))

	resp, view := e.do(http.MethodPost, "/api/orders", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, order.Confirmation, view["orderMessage"])
	assert.Empty(t, field(view, "cart", "lines"))

	require.Eventually(t, func() bool {
		_, v := e.do(http.MethodGet, "/api/view", "")
		return v["orderMessage"] == ""
	}, 2*time.Second, 10*time.Millisecond)

	_, view = e.do(http.MethodPost, "/api/logout", "")
	assert.Equal(t, false, field(view, "session", "loggedIn"))
	assert.Equal(t, "home", view["page"])
}

func TestRouter_RequestIDAndCORS(t *testing.T) {
	e := newEnv(t, time.Second)

	req, err := http.NewRequest(http.MethodGet, e.srv.URL+"/api/view", nil)
	require.NoError(t, err)
	req.Header.Set(httpmiddleware.HeaderRequestID, "e2e-1")
	req.Header.Set("Origin", "https://shop.example.com")

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "e2e-1", resp.Header.Get(httpmiddleware.HeaderRequestID))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_NotFound(t *testing.T) {
	e := newEnv(t, time.Second)

	resp, body := e.do(http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", body["message"])

	resp, body = e.do(http.MethodGet, "/api/orders", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "method not allowed", body["message"])
}

func TestRouter_Readiness(t *testing.T) {
	e := newEnv(t, time.Second)

	resp, body := e.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unhealthy", body["status"])

	e.health.SetReady(true)
	resp, _ = e.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = e.do(http.MethodGet, "/livez", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
