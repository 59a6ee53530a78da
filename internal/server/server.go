package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"halalfood-backend/internal/config"
	"halalfood-backend/internal/usecase"
)

// Deps is everything the handlers need. It is built once at startup and
// shared by reference; handlers never reach for package-level state.
type Deps struct {
	Tokens  *usecase.TokenService
	Users   *usecase.UserService
	Orders  *usecase.OrderService
	Carts   *usecase.CartService
	Catalog *usecase.CatalogService
	Log     *slog.Logger
}

type Server struct {
	cfg     config.Config
	deps    Deps
	log     *slog.Logger
	router  *gin.Engine
	limiter *ipRateLimiter
}

func New(cfg config.Config, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		log:    log,
		router: gin.New(),
	}
	// With no trusted proxies ClientIP is the peer address, so a forged
	// X-Forwarded-For cannot pick the rate limit bucket.
	if err := s.router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Warn("ignoring trusted proxies", "proxies", cfg.TrustedProxies, "err", err)
		_ = s.router.SetTrustedProxies(nil)
	}
	if cfg.RateRPS > 0 {
		s.limiter = newIPRateLimiter(cfg.RateRPS, cfg.RateBurst)
	}
	s.router.Use(gin.Recovery(), requestLogger(log), cors())
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "halalfood backend is running")
	})

	r.POST("/jwt", s.rateLimit, s.handleIssueToken)

	users := r.Group("/users")
	{
		users.POST("", s.rateLimit, s.handleRegisterUser)
		users.GET("", s.authenticate, s.authorizeAdmin, s.handleListUsers)
		users.GET("/admin/:email", s.authenticate, s.handleCheckAdmin)
		users.PATCH("/admin/:id", s.authenticate, s.authorizeAdmin, s.handlePromoteUser)
	}

	r.GET("/menu", s.handleListMenu)
	r.GET("/reviews", s.handleListReviews)

	carts := r.Group("/carts")
	{
		carts.GET("", s.authenticate, s.handleListCart)
		carts.POST("", s.handleAddCartItem)
		carts.DELETE("/:id", s.handleRemoveCartItem)
	}

	r.POST("/orders", s.rateLimit, s.handleCheckout)
	r.GET("/orders", s.authenticate, s.authorizeAdmin, s.handleListOrders)

	// Gateway callbacks are registered once here, independent of checkout.
	payment := r.Group("/payment")
	{
		payment.POST("/success/:tranId", s.handlePaymentSuccess)
		payment.POST("/fail/:tranId", s.handlePaymentFail)
		payment.POST("/cancel/:tranId", s.handlePaymentCancel)
	}
}
