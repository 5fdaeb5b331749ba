package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bakery-order-service/internal/api/handlers"
	"bakery-order-service/internal/platform/metrics"
	"bakery-order-service/internal/ports"
	"bakery-order-service/internal/services"
)

// Deps carries everything the HTTP layer needs from the composition
// root. Handlers stay unaware of concrete adapters.
type Deps struct {
	Products ports.ProductRepository
	Zones    ports.ZoneProvider
	Coverage *services.CoverageService
	Pricing  *services.PricingEngine
	Registry *services.CartRegistry
	Composer *services.OrderComposer
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(deps Deps) http.Handler {
	productHandler := &handlers.ProductHandler{Repo: deps.Products}
	coverageHandler := &handlers.CoverageHandler{Coverage: deps.Coverage, Zones: deps.Zones}
	quoteHandler := &handlers.QuoteHandler{Pricing: deps.Pricing}
	cartHandler := &handlers.CartHandler{
		Registry: deps.Registry,
		Composer: deps.Composer,
		Coverage: deps.Coverage,
	}
	orderHandler := &handlers.OrderHandler{Registry: deps.Registry, Composer: deps.Composer}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(metrics.Middleware)

	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/products", productHandler.List)
	r.Get("/zones", coverageHandler.ListZones)
	r.Post("/coverage", coverageHandler.Check)
	r.Post("/quote", quoteHandler.Quote)

	r.Route("/carts", func(r chi.Router) {
		r.Post("/", cartHandler.Create)
		r.Route("/{cartID}", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Put("/lines", cartHandler.UpsertLine)
			r.Delete("/lines/{productID}/{format}", cartHandler.RemoveLine)
			r.Post("/clear", cartHandler.Clear)
			r.Post("/coverage", cartHandler.AttachCoverage)
			r.Post("/order", orderHandler.Submit)
		})
	})

	return r
}
