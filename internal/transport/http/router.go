package http

import (
	"log/slog"
	"net/http"

	"github.com/Christopher22722/OneMillionChallenges/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles the application services the router dispatches to.
type Services struct {
	Reserver  CellReserver
	Capturer  OrderCapturer
	Drafts    DraftSaver
	Promoter  DraftPromoter
	Purchaser Purchaser
	Grid      GridReader
	Sweeper   Sweeper
}

// NewRouter wires every route with logging, recovery, CORS, and metrics.
func NewRouter(logger *slog.Logger, svcs Services, clientCfg ClientConfig, corsOrigins []string) http.Handler {
	mux := chi.NewRouter()

	mux.Use(RequestLogger(logger))
	mux.Use(Recovery(logger))
	mux.Use(CORS(corsOrigins))
	mux.Use(metrics.Middleware)

	mux.Route("/api", func(r chi.Router) {
		r.Get("/config", HandleClientConfig(clientCfg))
		r.Get("/grid", HandleGrid(svcs.Grid))
		r.Post("/reserve", HandleReserve(svcs.Reserver))
		r.Post("/capture", HandleCapture(svcs.Capturer))
		r.Post("/drafts", HandleSaveDraft(svcs.Drafts))
		r.Post("/drafts/{draftID}/promote", HandlePromoteDraft(svcs.Promoter))
		r.Post("/purchase", HandlePurchase(svcs.Purchaser))
		r.Post("/sweep", HandleSweep(svcs.Sweeper))
	})

	mux.Get("/health", HealthHandler)
	mux.Method(http.MethodGet, "/metrics", promhttp.Handler())

	mux.NotFound(NotFoundHandler().ServeHTTP)
	mux.MethodNotAllowed(MethodNotAllowedHandler().ServeHTTP)

	return mux
}
