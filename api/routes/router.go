package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitrineturbo/vitrineturbo-backend/api/controllers"
	cartcontrollers "github.com/vitrineturbo/vitrineturbo-backend/api/controllers/cart"
	"github.com/vitrineturbo/vitrineturbo-backend/api/middleware"
	"github.com/vitrineturbo/vitrineturbo-backend/internal/cart"
	checkoutsvc "github.com/vitrineturbo/vitrineturbo-backend/internal/checkout"
	products "github.com/vitrineturbo/vitrineturbo-backend/internal/products"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/config"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/logger"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/metrics"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	productService products.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	var redisP redis.Pinger
	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		redisP = redisClient
		idempotencyStore = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/storefront", func(r chi.Router) {
		r.Get("/{sellerId}/products", controllers.StorefrontProducts(productService, logg))
		r.Get("/products/{productId}", controllers.StorefrontProductDetail(productService, logg))
	})

	r.Post("/api/v1/pricing/quote", controllers.PricingQuote(productService, logg))
	r.Post("/api/v1/distributions/validate", controllers.DistributionsValidate(logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.BuyerSession(logg))
		r.Use(middleware.Idempotency(cfg.Cart, idempotencyStore, logg))

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Post("/items", cartcontrollers.CartAddItem(cartService, logg))
			r.Post("/items/partial", cartcontrollers.CartAddPartial(cartService, logg))
			r.Patch("/distributions/{distributionId}", cartcontrollers.CartUpdateDistribution(cartService, logg))
			r.Delete("/lines/{lineId}", cartcontrollers.CartRemoveLine(cartService, logg))
		})

		r.Post("/api/v1/checkout", controllers.Checkout(checkoutService, logg))
	})

	r.Route("/api/v1/seller", func(r chi.Router) {
		r.Use(middleware.SellerContext(logg))
		r.Use(middleware.Idempotency(cfg.Cart, idempotencyStore, logg))

		r.Post("/products", controllers.SellerCreateProduct(productService, logg))
		r.Patch("/products/{productId}", controllers.SellerUpdateProduct(productService, logg))
		r.Delete("/products/{productId}", controllers.SellerDeleteProduct(productService, logg))
		r.Put("/products/{productId}/tiers", controllers.SellerReplaceTiers(productService, logg))
	})

	return r
}
