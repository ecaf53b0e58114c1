package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecoswap/ecoswap-backend/api/controllers"
	"github.com/ecoswap/ecoswap-backend/api/middleware"
	"github.com/ecoswap/ecoswap-backend/internal/auth"
	exchange "github.com/ecoswap/ecoswap-backend/internal/exchanges"
	product "github.com/ecoswap/ecoswap-backend/internal/products"
	"github.com/ecoswap/ecoswap-backend/internal/users"
	"github.com/ecoswap/ecoswap-backend/pkg/auth/session"
	"github.com/ecoswap/ecoswap-backend/pkg/config"
	"github.com/ecoswap/ecoswap-backend/pkg/db"
	"github.com/ecoswap/ecoswap-backend/pkg/logger"
	"github.com/ecoswap/ecoswap-backend/pkg/redis"
	"github.com/ecoswap/ecoswap-backend/pkg/storage/gcs"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsClient gcs.Pinger,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	registerService auth.RegisterService,
	usersRepo *users.Repository,
	productService product.Service,
	exchangeService exchange.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient, gcsClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/products", controllers.ListProducts(productService, logg))
		r.Get("/products/{productId}", controllers.GetProduct(productService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Get("/users/me", controllers.Me(usersRepo, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, cfg.Images, logg))
			r.Get("/mine", controllers.MyProducts(productService, logg))
			r.Get("/{productId}", controllers.GetProduct(productService, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(productService, logg))
			r.Get("/{productId}/exchanges", controllers.ListProductExchanges(exchangeService, logg))
		})

		r.Route("/exchanges", func(r chi.Router) {
			r.Post("/", controllers.ProposeExchange(exchangeService, logg))
			r.Post("/{exchangeId}/select", controllers.SelectExchange(exchangeService, logg))
			r.Post("/{exchangeId}/reject", controllers.RejectExchange(exchangeService, logg))
		})
	})

	return r
}
