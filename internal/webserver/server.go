package webserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/registrapos/registra/config"
	"github.com/registrapos/registra/internal/catalog"
	"github.com/registrapos/registra/internal/checkout"
)

// WebServer serves the register-facing HTTP API.
type WebServer struct {
	root     *echo.Echo
	cfg      *config.AppConfig
	products catalog.ProductRepository
	checkout *checkout.Service
}

type webValidator struct {
	validate *validator.Validate
}

func (v *webValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// jsonSerializer routes echo's JSON handling through json-iterator.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := jsoniter.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

func NewWebServer(cfg *config.AppConfig, products catalog.ProductRepository, co *checkout.Service) *WebServer {
	s := &WebServer{
		root:     echo.New(),
		cfg:      cfg,
		products: products,
		checkout: co,
	}

	s.root.HideBanner = true
	s.root.JSONSerializer = jsonSerializer{}
	s.root.Validator = &webValidator{validate: validator.New()}

	s.root.Use(middleware.Recover())
	s.root.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.Web.AllowOrigin},
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	s.root.Use(echoprometheus.NewMiddleware("registra"))

	s.initRoutes()
	return s
}

func (s *WebServer) initRoutes() {
	s.root.GET("/test", s.healthcheck)
	s.root.GET("/metrics", echoprometheus.NewHandler())

	s.root.POST("/search", s.searchProduct)

	// one purchase handler, three route names across front-end revisions
	s.root.POST("/purchase", s.purchase)
	s.root.POST("/add", s.purchase)
	s.root.POST("/buy", s.purchase)

	s.root.GET("/transactions/export", s.exportTransactions)
	s.root.GET("/transactions/:id", s.getTransaction)
}

// Echo exposes the underlying engine (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Start listens on the configured address until the server is shut down.
func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.S().Infof("Starting web server %s", addr)
	err := s.root.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}
