package httpserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"heritage-boutique/internal/antispam"
	"heritage-boutique/internal/domain"
	cartsvc "heritage-boutique/internal/service/cart"
	checkoutsvc "heritage-boutique/internal/service/checkout"
	customersvc "heritage-boutique/internal/service/customer"
	estimationsvc "heritage-boutique/internal/service/estimation"
	reservationsvc "heritage-boutique/internal/service/reservation"
)

type anonymousService interface {
	Issue(ctx context.Context) (accessToken, refreshToken, anonymousID string, err error)
	LookupByToken(ctx context.Context, token string) (string, error)
	AccessTTLSeconds() int
}

type customerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	AccessTTLSeconds() int
}

type cartService interface {
	Load(ctx context.Context, sess cartsvc.Session) (domain.Cart, error)
	AddItem(ctx context.Context, sess cartsvc.Session, productID string, quantity int) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, sess cartsvc.Session, productID string, quantity int) (domain.Cart, error)
	RemoveItem(ctx context.Context, sess cartsvc.Session, productID string) (domain.Cart, error)
	Clear(ctx context.Context, sess cartsvc.Session) (domain.Cart, error)
	SyncOnLogin(ctx context.Context, anonymousID, customerID string) (domain.Cart, error)
}

type checkoutService interface {
	Checkout(ctx context.Context, sess cartsvc.Session, req checkoutsvc.Request) (*domain.Order, error)
}

type estimationService interface {
	Create(ctx context.Context, req estimationsvc.Request) (*domain.Estimation, error)
}

type reservationService interface {
	Create(ctx context.Context, req reservationsvc.Request) (*domain.Reservation, error)
	Get(ctx context.Context, id, email string) (*domain.Reservation, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Reservation, error)
	Update(ctx context.Context, id string, req reservationsvc.Request) (*domain.Reservation, error)
	Cancel(ctx context.Context, id, email string) (*domain.Reservation, error)
}

type productReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByKey(ctx context.Context, key string) (*domain.Product, error)
	List(ctx context.Context, limit, offset int) ([]domain.Product, error)
}

type formLimiter interface {
	Allow(ctx context.Context, identifier string) (bool, error)
	RemainingTime(ctx context.Context, identifier string) (time.Duration, error)
}

type spamGate interface {
	CanAttempt(ip string) antispam.Verdict
}

// Deps carries everything the router needs. Tests swap stubs in here.
type Deps struct {
	AnonymousSvc   anonymousService
	CustomerSvc    customerService
	CartSvc        cartService
	CheckoutSvc    checkoutService
	EstimationSvc  estimationService
	ReservationSvc reservationService
	Products       productReader
	Limiter        formLimiter
	Gate           spamGate
	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), metricsMiddleware())

	corsCfg := cors.DefaultConfig()
	if len(deps.AllowedOrigins) == 1 && deps.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Anonymous-Token")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", metricsHandler())

	router.POST("/anonymous/token", anonymousTokenHandler(deps))
	router.POST("/me/signup", signupHandler(deps))
	router.POST("/me/login", loginHandler(deps, logger))
	router.GET("/me", meHandler(deps))

	router.GET("/products", listProductsHandler(deps))
	router.GET("/products/:id", getProductHandler(deps))

	cart := router.Group("/me/cart", requireSession(deps))
	{
		cart.GET("", getCartHandler(deps))
		cart.DELETE("", clearCartHandler(deps))
		cart.POST("/items", addCartItemHandler(deps))
		cart.PATCH("/items/:productId", updateCartItemHandler(deps))
		cart.DELETE("/items/:productId", removeCartItemHandler(deps))
		cart.POST("/sync", syncCartHandler(deps))
	}

	router.GET("/forms/honeypot", honeypotHandler)

	guarded := router.Group("", formGuard(deps, logger))
	{
		guarded.POST("/checkout", requireSession(deps), checkoutHandler(deps))
		guarded.POST("/estimation", estimationHandler(deps))
		guarded.POST("/reservations", createReservationHandler(deps))
	}

	router.GET("/reservations", listReservationsHandler(deps))
	router.GET("/reservations/:id", getReservationHandler(deps))
	router.PUT("/reservations/:id", updateReservationHandler(deps))
	router.DELETE("/reservations/:id", cancelReservationHandler(deps))

	return router
}
