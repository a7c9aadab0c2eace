// Package httptransport assembles the public HTTP surface: the feature
// handlers, the shared middleware chain, and the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	identityhandler "veridoc/internal/identity/handler"
	issuancehandler "veridoc/internal/issuance/handler"
	onboardinghandler "veridoc/internal/onboarding/handler"
	"veridoc/internal/platform/metrics"
	"veridoc/internal/platform/middleware"
	verificationhandler "veridoc/internal/verification/handler"
	"veridoc/pkg/platform/httputil"
)

// requestTimeout bounds every API request. Verification carries its own
// internal deadlines well under this.
const requestTimeout = 30 * time.Second

// Registrar is implemented by feature handlers that mount routes.
type Registrar interface {
	Register(r chi.Router)
}

// Handlers collects the feature handlers mounted on the router.
type Handlers struct {
	Verification *verificationhandler.Handler
	Issuance     *issuancehandler.Handler
	Identity     *identityhandler.Handler
	Onboarding   *onboardinghandler.Handler
}

// NewRouter wires all endpoints behind the shared middleware chain. The
// metrics set may be nil, e.g. in handler tests.
func NewRouter(h Handlers, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(m))
	r.Use(middleware.Timeout(requestTimeout))

	for _, registrar := range []Registrar{h.Verification, h.Issuance, h.Identity, h.Onboarding} {
		registrar.Register(r)
	}

	r.Get("/healthz", handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
