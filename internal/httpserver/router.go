package httpserver

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	cartstore "storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/pricing"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	categorysvc "storefront/internal/service/category"
	checkoutsvc "storefront/internal/service/checkout"
	"storefront/internal/service/session"
)

type sessionService interface {
	Issue(ctx context.Context) (*session.Session, error)
	Lookup(ctx context.Context, token string) (*session.Session, error)
	End(ctx context.Context, token string)
	TTLSeconds() int
}

type catalogService interface {
	List(ctx context.Context, category domain.Category) ([]domain.ProductRecord, error)
	Page(ctx context.Context, cursor string) (catalogsvc.PageResult, error)
	Lookup(ctx context.Context, productID string) (domain.ProductRecord, error)
	Refresh(ctx context.Context) (catalog.Report, error)
}

type categoryService interface {
	List(ctx context.Context) ([]categorysvc.Count, error)
}

type cartService interface {
	Quote(ctx context.Context, productID string, sel domain.SelectedVariant) (domain.ProductRecord, pricing.Resolution, error)
	AddItem(ctx context.Context, store *cartstore.Store, productID string, sel domain.SelectedVariant, quantity int) (domain.CartLineItem, error)
	Update(ctx context.Context, store *cartstore.Store, in cartsvc.UpdateInput) (cartsvc.Summary, error)
}

type checkoutService interface {
	ApplyPromo(ctx context.Context, sess *session.Session, code string) (checkoutsvc.PromoOutcome, error)
	RemovePromo(sess *session.Session)
	Preview(sess *session.Session) checkoutsvc.Totals
	Checkout(ctx context.Context, sess *session.Session, customer checkout.Customer) (checkoutsvc.Result, error)
}

// Deps are the services the router dispatches to.
type Deps struct {
	SessionSvc  sessionService
	CatalogSvc  catalogService
	CategorySvc categoryService
	CartSvc     cartService
	CheckoutSvc checkoutService
	CORSOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.SessionSvc == nil:
		return errors.New("session service required")
	case d.CatalogSvc == nil:
		return errors.New("catalog service required")
	case d.CategorySvc == nil:
		return errors.New("category service required")
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.CheckoutSvc == nil:
		return errors.New("checkout service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(corsMiddleware(deps.CORSOrigins))
	}

	h := &handlers{deps: deps, logger: logger}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/sessions", h.createSession)

	router.GET("/categories", h.listCategories)
	router.GET("/catalog", h.listCatalog)
	router.GET("/catalog/page", h.catalogPage)
	router.GET("/catalog/products/:id", h.getProduct)
	router.GET("/catalog/products/:id/price", h.quotePrice)
	router.POST("/catalog/refresh", h.refreshCatalog)

	shopper := router.Group("/", sessionMiddleware(deps.SessionSvc))
	shopper.DELETE("/sessions/current", h.endSession)
	shopper.GET("/cart", h.getCart)
	shopper.POST("/cart", h.updateCart)
	shopper.POST("/cart/items", h.addCartItem)
	shopper.PATCH("/cart/items/:id", h.changeCartItem)
	shopper.DELETE("/cart/items/:id", h.removeCartItem)
	shopper.POST("/promo", h.applyPromo)
	shopper.DELETE("/promo", h.removePromo)
	shopper.GET("/checkout/preview", h.previewCheckout)
	shopper.POST("/checkout", h.checkout)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", sessionHeader},
		ExposeHeaders:    []string{sessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
