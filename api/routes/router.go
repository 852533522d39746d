package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/tienda-backend/api/controllers"
	"github.com/angelmondragon/tienda-backend/api/middleware"
	"github.com/angelmondragon/tienda-backend/internal/auth"
	"github.com/angelmondragon/tienda-backend/internal/cart"
	product "github.com/angelmondragon/tienda-backend/internal/products"
	"github.com/angelmondragon/tienda-backend/internal/tickets"
	"github.com/angelmondragon/tienda-backend/pkg/config"
	"github.com/angelmondragon/tienda-backend/pkg/enums"
	"github.com/angelmondragon/tienda-backend/pkg/logger"
	"github.com/angelmondragon/tienda-backend/pkg/metrics"
)

// redisStore is the Redis surface the HTTP layer needs: health, revocation
// checks and rate limit counters.
type redisStore interface {
	controllers.Pinger
	middleware.RevocationChecker
	middleware.RateLimitStore
}

// Deps bundles everything NewRouter wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       redisStore
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
	Auth        auth.Service
	Products    product.Service
	Carts       cart.Service
	Tickets     tickets.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

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

	var rateStore middleware.RateLimitStore
	var revocations middleware.RevocationChecker
	deps := map[string]controllers.Pinger{}
	if d.DB != nil {
		deps["db"] = d.DB
	}
	if d.Redis != nil {
		rateStore = d.Redis
		revocations = d.Redis
		deps["redis"] = d.Redis
	}

	requireAuth := middleware.Auth(cfg.JWT, cfg.App.CookieName, revocations, logg)
	requireAdmin := middleware.RequireRole(enums.UserRoleAdmin, logg)
	cookie := controllers.SessionCookie{Name: cfg.App.CookieName, Secure: cfg.App.IsProd()}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(d.Products, logg))
		r.Get("/{id}", controllers.ProductGet(d.Products, logg))
		r.Get("/code/{code}", controllers.ProductGetByCode(d.Products, logg))
		r.Get("/category/{category}", controllers.ProductListByCategory(d.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/create", controllers.ProductCreate(d.Products, logg))
			r.Put("/update/{id}", controllers.ProductUpdate(d.Products, logg))
			r.Delete("/delete/{id}", controllers.ProductDelete(d.Products, logg))
			r.Delete("/delete/code/{code}", controllers.ProductDeleteByCode(d.Products, logg))
		})
	})

	r.Route("/api/carts", func(r chi.Router) {
		r.Get("/", controllers.CartGet(d.Carts, logg))
		r.Get("/{id}", controllers.CartGet(d.Carts, logg))
		r.Post("/{cid}/product/{pid}", controllers.CartAdd(d.Carts, logg))
		r.Post("/{cid}/product/{pid}/{quantity}", controllers.CartAdd(d.Carts, logg))
		r.Put("/increase/{cid}/product/{pid}/{quantity}", controllers.CartIncrease(d.Carts, logg))
		r.Put("/decrease/{cid}/product/{pid}/{quantity}", controllers.CartDecrease(d.Carts, logg))
		r.Delete("/delete/{cid}/product/{pid}", controllers.CartRemoveLine(d.Carts, logg))
		r.Delete("/clear/{cid}", controllers.CartClear(d.Carts, logg))
	})

	r.Route("/api/payments", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/tickets", controllers.TicketCreate(d.Tickets, logg))
		r.Get("/ticket", controllers.TicketList(d.Tickets, logg))
		r.Get("/ticket/{id}", controllers.TicketGet(d.Tickets, logg))
		r.With(requireAdmin).Put("/tickets/{id}/status", controllers.TicketMarkReady(d.Tickets, logg))
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/register", controllers.SessionRegister(d.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.SessionLogin(d.Auth, cookie, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", controllers.SessionLogout(d.Auth, cookie, logg))
			r.Put("/resetPassword", controllers.SessionResetPassword(d.Auth, logg))
			r.Get("/current", controllers.SessionCurrent(d.Auth, logg))
			r.With(requireAdmin).Get("/user/{email}", controllers.SessionUserByEmail(d.Auth, logg))
		})
	})

	return r
}
