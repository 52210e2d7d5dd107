package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/controllers"
	webhookcontrollers "github.com/abdullahdev0325-ai/followers-shop-sub000/api/controllers/webhooks"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/middleware"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/auth"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/blogs"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/cart"
	checkoutsvc "github.com/abdullahdev0325-ai/followers-shop-sub000/internal/checkout"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/orders"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/products"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/users"
	stripewebhook "github.com/abdullahdev0325-ai/followers-shop-sub000/internal/webhooks/stripe"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/wishlist"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/auth/session"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/metrics"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/redis"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/stripe"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Sessions sessionManager
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer

	Auth     auth.Service
	Users    users.Service
	Products products.Service
	Blogs    blogs.Service
	Cart     cart.Service
	Wishlist wishlist.Service
	Checkout checkoutsvc.Service
	Orders   orders.Service

	Stripe        *stripe.Client
	StripeWebhook *stripewebhook.Service
	StripeGuard   *stripewebhook.EventGuard
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	// Typed nils must not reach the interface-typed middleware parameters.
	var (
		rateStore   middleware.RateLimiterStore
		idemStore   redis.IdempotencyStore
		readyChecks = map[string]controllers.Pinger{}
	)
	if deps.DB != nil {
		readyChecks["db"] = deps.DB
	}
	if deps.Redis != nil {
		rateStore = deps.Redis
		idemStore = deps.Redis
		readyChecks["redis"] = deps.Redis
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, logg, readyChecks))
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if deps.StripeWebhook != nil && deps.Stripe != nil && deps.StripeGuard != nil {
		r.Post("/api/v1/webhooks/stripe", webhookcontrollers.StripeWebhook(deps.StripeWebhook, deps.Stripe, deps.StripeGuard, logg))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(otpPolicy, rateStore, logg)).Post("/verify-otp", controllers.AuthVerifyOTP(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(otpPolicy, rateStore, logg)).Post("/resend-otp", controllers.AuthResendOTP(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Products, logg))
		r.Get("/products/{idOrSlug}", controllers.GetProduct(deps.Products, logg))
		r.Get("/categories", controllers.ListCategories(deps.Products, logg))
		r.Get("/occasions", controllers.ListOccasions(deps.Products, logg))
		r.Get("/blogs", controllers.ListBlogs(deps.Blogs, logg))
		r.Get("/blogs/{slug}", controllers.GetBlog(deps.Blogs, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Get("/users/me", controllers.UserMe(deps.Users, logg))

			r.Get("/cart", controllers.CartGet(deps.Cart, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.Idempotency(idemStore, middleware.IdempotencyPolicy{}, logg))
				r.Post("/cart/add", controllers.CartAdd(deps.Cart, logg))
				r.Post("/cart/update", controllers.CartUpdate(deps.Cart, logg))
			})

			r.Get("/wishlist", controllers.WishlistGet(deps.Wishlist, logg))
			r.Post("/wishlist/toggle", controllers.WishlistToggle(deps.Wishlist, logg))

			r.With(middleware.Idempotency(idemStore, middleware.IdempotencyPolicy{
				TTL:      middleware.CheckoutIdempotencyTTL,
				Required: true,
			}, logg)).Post("/checkout", controllers.Checkout(deps.Checkout, logg))

			r.Get("/orders", controllers.ListMyOrders(deps.Orders, logg))
			r.Get("/orders/{id}", controllers.GetMyOrder(deps.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Get("/orders", controllers.AdminListOrders(deps.Orders, logg))
		r.Get("/orders/{id}", controllers.AdminGetOrder(deps.Orders, logg))
		r.Patch("/orders/{id}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))

		r.Get("/products", controllers.AdminListProducts(deps.Products, logg))
		r.Post("/products", controllers.AdminCreateProduct(deps.Products, logg))
		r.Patch("/products/{id}", controllers.AdminUpdateProduct(deps.Products, logg))
		r.Delete("/products/{id}", controllers.AdminDeleteProduct(deps.Products, logg))

		r.Post("/categories", controllers.AdminCreateCategory(deps.Products, logg))
		r.Delete("/categories/{id}", controllers.AdminDeleteCategory(deps.Products, logg))
		r.Post("/occasions", controllers.AdminCreateOccasion(deps.Products, logg))
		r.Delete("/occasions/{id}", controllers.AdminDeleteOccasion(deps.Products, logg))

		r.Get("/blogs", controllers.AdminListBlogs(deps.Blogs, logg))
		r.Post("/blogs", controllers.AdminCreateBlog(deps.Blogs, logg))
		r.Patch("/blogs/{id}", controllers.AdminUpdateBlog(deps.Blogs, logg))
		r.Delete("/blogs/{id}", controllers.AdminDeleteBlog(deps.Blogs, logg))
	})

	return r
}
