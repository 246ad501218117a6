package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"quote-service/internal/config"
	"quote-service/internal/middleware"
	quoteHnd "quote-service/internal/quote/handler"
	"quote-service/server/http/handlers"
)

func NewRouter(cfg config.Config, deps quoteHnd.Deps, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: requestID -> recover -> logging -> cors -> limit
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health(deps.Catalog))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/catalog", quoteHnd.CatalogInfo(deps))
	r.Post("/catalog", quoteHnd.UploadCatalog(deps, 32<<20))
	r.Get("/search", quoteHnd.Search(deps))

	r.Route("/quotations", func(r chi.Router) {
		r.Post("/", quoteHnd.CreateQuotation(deps))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", quoteHnd.GetQuotation(deps))
			r.Post("/search", quoteHnd.Research(deps))
			r.Get("/export", quoteHnd.Export(deps))
			r.Put("/lines/{line}/selection", quoteHnd.SetSelection(deps))
			r.Delete("/lines/{line}/selection", quoteHnd.ClearSelection(deps))
		})
	})

	return r
}
