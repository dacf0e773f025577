package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/handler"
	"github.com/xenking/storefront/pkg/health"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

// NewRouter mounts health probes and the view API on one handler wrapped
// in the standard middleware chain.
func NewRouter(
	lg *zap.Logger,
	tel httpmiddleware.TelemetryProvider,
	sf handler.Storefront,
	healthSvc *health.Health,
	cors CORSConfig,
) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/livez", healthSvc.LiveEndpoint).Methods(http.MethodGet)
	r.HandleFunc("/readyz", healthSvc.ReadyEndpoint).Methods(http.MethodGet)
	handler.NewHandler(sf).Routes(r.PathPrefix("/api").Subrouter())

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpmiddleware.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpmiddleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	find := httpmiddleware.MakeRouteFinder(r)
	return httpmiddleware.Wrap(r,
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			Origins:          cors.Origins,
			Headers:          []string{"Content-Type", httpmiddleware.HeaderRequestID},
			ExposeHeaders:    []string{httpmiddleware.HeaderRequestID, "Location"},
			AllowCredentials: cors.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.Recovery(),
		httpmiddleware.Instrument("storefront", find, tel),
		httpmiddleware.LogRequests(find),
		httpmiddleware.Labeler(find),
	)
}
