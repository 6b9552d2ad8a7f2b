package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/delordemm1/gooddeeds-api/internal/config"
	"github.com/delordemm1/gooddeeds-api/internal/httpx"
	mw "github.com/delordemm1/gooddeeds-api/internal/middleware"
	"github.com/delordemm1/gooddeeds-api/internal/modules/beneficiary"
	"github.com/delordemm1/gooddeeds-api/internal/modules/catalog"
	"github.com/delordemm1/gooddeeds-api/internal/modules/upload"
	"github.com/delordemm1/gooddeeds-api/internal/modules/user"
	"github.com/delordemm1/gooddeeds-api/internal/modules/verification"
	"github.com/delordemm1/gooddeeds-api/internal/modules/wishlist"
	"github.com/delordemm1/gooddeeds-api/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the module services the HTTP layer exposes.
type Services struct {
	Users         user.Service
	Verification  verification.Service
	Beneficiaries beneficiary.Service
	Catalog       catalog.Service
	Wishlist      wishlist.Service
	Uploads       upload.Service
	Sessions      session.Provider
	// Metrics is scraped on /metrics. Defaults to prometheus.DefaultGatherer.
	Metrics prometheus.Gatherer
}

type routeRegistrar interface {
	RegisterRoutes(api huma.API, guards mw.Guards)
}

// New creates the router with every module's routes mounted.
func New(cfg *config.Config, log *slog.Logger, svc *Services) chi.Router {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mw.RequestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	gatherer := svc.Metrics
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	httpx.UseProblems()
	apiConfig := huma.DefaultConfig("GoodDeeds API", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "Opaque",
		},
	}
	api := humachi.New(router, apiConfig)

	guards := mw.Guards{Auth: mw.SessionAuth(svc.Sessions, log)}
	codeTTL := time.Duration(cfg.Verification.TTLMinutes) * time.Minute

	modules := []routeRegistrar{
		user.NewHandler(svc.Users, cfg.Frontend, log),
		verification.NewHandler(svc.Verification, codeTTL, log),
		beneficiary.NewHandler(svc.Beneficiaries, log),
		catalog.NewHandler(svc.Catalog, log),
		wishlist.NewHandler(svc.Wishlist, log),
		upload.NewHandler(svc.Uploads, log),
	}
	for _, m := range modules {
		m.RegisterRoutes(api, guards)
	}

	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health Check",
		Description: "Responds with the server's health status.",
	}, func(ctx context.Context, input *struct{}) (*struct {
		Body struct {
			Status string `json:"status"`
		}
	}, error) {
		resp := &struct {
			Body struct {
				Status string `json:"status"`
			}
		}{}
		resp.Body.Status = "ok"
		return resp, nil
	})

	return router
}
