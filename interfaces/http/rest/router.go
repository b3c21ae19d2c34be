package rest

import (
	"context"
	"net/http"
	"time"

	"storeadmin/application/commands/bus"
	"storeadmin/application/ports"
	querybus "storeadmin/application/queries/bus"
	"storeadmin/interfaces/http/rest/handlers"
	"storeadmin/interfaces/http/rest/middleware"
	pkgerrors "storeadmin/pkg/errors"
	"storeadmin/pkg/observability"
	"storeadmin/pkg/ratelimit"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const (
	readinessKey     = "readiness-check"
	readinessTimeout = 2 * time.Second
)

// Options toggles optional router behavior
type Options struct {
	EnableCORS bool
	// Debug includes raw error messages and stack traces in error bodies
	Debug bool
	// RateLimiter guards /api/v1. Nil disables rate limiting.
	RateLimiter ratelimit.Limiter
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	cache      ports.Cache
	metrics    observability.Metrics
	logger     *zap.Logger
	opts       Options
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	cache ports.Cache,
	metrics observability.Metrics,
	logger *zap.Logger,
	opts Options,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		opts:       opts,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	errs := pkgerrors.NewErrorHandler(rt.logger, rt.opts.Debug)
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(errs.Middleware)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	if rt.opts.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"http://localhost:3000", "https://*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if prom, ok := rt.metrics.(*observability.PrometheusMetrics); ok {
		router.Method(http.MethodGet, "/metrics", prom.Handler())
	}

	userHandler := handlers.NewUserHandler(rt.commandBus, rt.queryBus, errs, rt.logger)
	productHandler := handlers.NewProductHandler(rt.commandBus, rt.queryBus, errs, rt.logger)
	orderHandler := handlers.NewOrderHandler(rt.commandBus, rt.queryBus, errs, rt.logger)
	couponHandler := handlers.NewCouponHandler(rt.commandBus, rt.queryBus, errs, rt.logger)
	dashboardHandler := handlers.NewDashboardHandler(rt.queryBus, errs)

	router.Route("/api/v1", func(r chi.Router) {
		if rt.opts.RateLimiter != nil {
			r.Use(middleware.RateLimit(rt.opts.RateLimiter, errs, rt.logger))
		}

		r.Route("/user", func(r chi.Router) {
			r.Post("/new", userHandler.RegisterUser)
			r.Get("/all", userHandler.ListUsers)
			r.Get("/{userID}", userHandler.GetUser)
			r.Delete("/{userID}", userHandler.DeleteUser)
		})

		r.Route("/product", func(r chi.Router) {
			r.Post("/new", productHandler.CreateProduct)
			r.Get("/latest", productHandler.LatestProducts)
			r.Get("/category", productHandler.Categories)
			r.Get("/admin-product", productHandler.AdminProducts)
			r.Get("/search", productHandler.SearchProducts)
			r.Get("/allreview/{productID}", productHandler.ListReviews)
			r.Post("/review/new/{productID}", productHandler.SaveReview)
			r.Delete("/deleteReview/{reviewID}", productHandler.DeleteReview)
			r.Get("/{productID}", productHandler.GetProduct)
			r.Put("/{productID}", productHandler.UpdateProduct)
			r.Delete("/{productID}", productHandler.DeleteProduct)
		})

		r.Route("/order", func(r chi.Router) {
			r.Post("/new", orderHandler.PlaceOrder)
			r.Get("/my", orderHandler.MyOrders)
			r.Get("/all", orderHandler.AllOrders)
			r.Get("/{orderID}", orderHandler.GetOrder)
			r.Put("/{orderID}", orderHandler.ProcessOrder)
			r.Delete("/{orderID}", orderHandler.DeleteOrder)
		})

		r.Route("/coupon", func(r chi.Router) {
			r.Post("/new", couponHandler.CreateCoupon)
			r.Get("/discount", couponHandler.ApplyCoupon)
			r.Get("/all", couponHandler.ListCoupons)
			r.Get("/{couponID}", couponHandler.GetCoupon)
			r.Put("/{couponID}", couponHandler.UpdateCoupon)
			r.Delete("/{couponID}", couponHandler.DeleteCoupon)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", dashboardHandler.Stats)
			r.Get("/pie", dashboardHandler.Pie)
			r.Get("/bar", dashboardHandler.Bar)
			r.Get("/line", dashboardHandler.Line)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck writes and reads back a short-lived cache entry
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readinessTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := rt.checkCache(ctx); err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

func (rt *Router) checkCache(ctx context.Context) error {
	if err := rt.cache.Set(ctx, readinessKey, []byte("ok"), time.Minute); err != nil {
		return err
	}
	_, found, err := rt.cache.Get(ctx, readinessKey)
	if err != nil {
		return err
	}
	if !found {
		return pkgerrors.NewCacheUnavailableError("readiness", nil)
	}
	return nil
}
