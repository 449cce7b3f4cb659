package fakeapi

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

func (s *Server) newRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = s.errorHandler

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			s.log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "findbuddy_dev",
		Registerer: s.registry,
	}))

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{s.registry, prometheus.DefaultGatherer},
	}))

	api := e.Group("/api")
	api.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "FindBuddy API is running!", "status": "healthy"})
	})

	// --- User auth ---
	api.POST("/auth/register", s.registerUser)
	api.POST("/auth/login", s.loginUser)
	api.GET("/auth/me", s.me, s.requireUser)

	// --- Activities ---
	api.GET("/activities", s.listActivities)
	api.POST("/activities", s.createActivity, s.requireUser)
	api.GET("/activities/feed", s.feed, s.requireUser)
	api.GET("/activities/around-me", s.aroundMe, s.requireUser)
	api.GET("/activities/my", s.myActivities, s.requireUser)
	api.POST("/activities/join", s.joinActivity, s.requireUser)
	api.GET("/activities/:id/likes", s.getLikes, s.requireUser)
	api.POST("/activities/:id/like", s.toggleLike, s.requireUser)
	api.GET("/activities/:id/comments", s.listComments)
	api.POST("/activities/:id/comment", s.addComment, s.requireUser)

	// --- Merchants ---
	api.POST("/merchants/register", s.registerMerchant)
	api.POST("/merchants/login", s.loginMerchant)
	api.GET("/merchants/me", s.merchantMe, s.requireMerchant)
	api.POST("/merchants/discounts", s.createOffer, s.requireMerchant)
	api.GET("/merchants/near-me", s.nearMe, s.requireUser)
	api.GET("/discounts/all", s.allOffers)

	return e
}
