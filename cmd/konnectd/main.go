package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RaymondAhuren/swedru-konnect/internal/backend"
	"github.com/RaymondAhuren/swedru-konnect/internal/config"
	"github.com/RaymondAhuren/swedru-konnect/internal/events"
	"github.com/RaymondAhuren/swedru-konnect/internal/handler"
	"github.com/RaymondAhuren/swedru-konnect/internal/listing"
	"github.com/RaymondAhuren/swedru-konnect/internal/middleware"
	"github.com/RaymondAhuren/swedru-konnect/internal/observability"
	"github.com/RaymondAhuren/swedru-konnect/internal/session"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}
	observability.InitLogger(logLevel, logFormat)

	slog.Info("starting storefront gateway",
		slog.String("backend_url", cfg.BackendURL))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := backend.NewClient(cfg.BackendURL)

	sessions := session.NewManager(api, cfg.RefreshInterval, cfg.MaxInactivity)
	defer sessions.Close()

	listings := listing.NewManager(api, cfg.ListingPageSize)
	defer listings.Close()

	hub := events.NewHub()
	go func() {
		if err := hub.Run(ctx); err != nil && err != context.Canceled {
			slog.Error("state feed error", slog.String("error", err.Error()))
		}
	}()

	bridgeSnapshots(ctx, sessions, listings, hub)

	// Resolve the session once at boot, then keep it fresh in the
	// background while the user stays active.
	go func() {
		checkCtx, checkCancel := context.WithTimeout(ctx, 30*time.Second)
		defer checkCancel()
		sessions.CheckAuth(checkCtx, true)
	}()
	sessions.StartAutoRefresh(ctx)

	// Prime the marketplace view
	go func() {
		fetchCtx, fetchCancel := context.WithTimeout(ctx, 30*time.Second)
		defer fetchCancel()
		if err := listings.Fetch(fetchCtx); err != nil {
			slog.Warn("initial listings fetch failed", slog.String("error", err.Error()))
		}
	}()

	sessionHandler := handler.NewSessionHandler(sessions)
	listingHandler := handler.NewListingHandler(listings, api)
	stateFeedHandler := handler.NewStateFeedHandler(hub, cfg.AllowedOrigins)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(middleware.ParseOrigins(cfg.AllowedOrigins)))
	r.Use(middleware.Metrics())
	r.Use(middleware.OpenAPIValidator(middleware.DefaultOpenAPIValidatorConfig()))

	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(api))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		loginLimiter := middleware.NewRateLimiter(ctx, 5, 10)
		apiLimiter := middleware.NewRateLimiter(ctx, 20, 50)

		r.Use(middleware.Activity(sessions))

		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Middleware())
			r.Post("/session/login", sessionHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(apiLimiter.Middleware())

			r.Post("/session/logout", sessionHandler.Logout)
			r.Get("/session", sessionHandler.Get)
			r.Post("/session/recheck", sessionHandler.Recheck)

			r.Get("/listings", listingHandler.Get)
			r.Put("/listings/filters", listingHandler.UpdateFilters)
			r.Put("/listings/page", listingHandler.SetPage)
			r.Post("/listings/search", listingHandler.Search)
			r.Get("/products/{id}", listingHandler.GetProduct)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(sessions))
				r.Get("/profile", sessionHandler.Profile)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(sessions, "admin"))
				r.Get("/review/listings", listingHandler.ReviewListings)
			})
		})
	})

	r.Get("/ws/state", stateFeedHandler.Subscribe)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("gateway listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down gateway")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancel()
	time.Sleep(100 * time.Millisecond)

	slog.Info("gateway stopped gracefully")
}

// bridgeSnapshots forwards manager state changes onto the WebSocket feed
func bridgeSnapshots(ctx context.Context, sessions *session.Manager, listings *listing.Manager, hub *events.Hub) {
	sessCh, sessCancel := sessions.Subscribe()
	listCh, listCancel := listings.Subscribe()

	go func() {
		defer sessCancel()
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-sessCh:
				if !ok {
					return
				}
				payload, err := json.Marshal(snap)
				if err != nil {
					slog.Error("failed to marshal session snapshot", slog.String("error", err.Error()))
					continue
				}
				hub.Broadcast(events.TopicSession, payload)
			}
		}
	}()

	go func() {
		defer listCancel()
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-listCh:
				if !ok {
					return
				}
				payload, err := json.Marshal(snap)
				if err != nil {
					slog.Error("failed to marshal listings snapshot", slog.String("error", err.Error()))
					continue
				}
				hub.Broadcast(events.TopicListings, payload)
			}
		}
	}()
}
