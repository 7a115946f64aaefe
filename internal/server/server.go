package server

import (
	"context"
	"log/slog"

	"github.com/jo-hoe/imagedepot/internal/backend"
	"github.com/jo-hoe/imagedepot/internal/common"
	"github.com/jo-hoe/imagedepot/internal/core"
	"github.com/jo-hoe/imagedepot/internal/frontend"
	"github.com/jo-hoe/imagedepot/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const methodOverrideField = "_method"

// New builds the echo instance with middleware and every route registered.
func New(coreService *core.CoreService, m metrics.Metrics) *echo.Echo {
	e := defineServer()

	backend.NewAPIService(coreService, m).SetRoutes(e)
	frontend.NewFrontendService(coreService).SetRoutes(e)

	return e
}

func defineServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Configure request logger to skip the probe endpoint
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/probe"
		},
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogHost:      true,
		LogUserAgent: true,
		LogRoutePath: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.String("route", v.RoutePath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("host", v.Host),
				slog.String("user_agent", v.UserAgent),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			slog.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())
	// HTML forms can only POST; the listing page deletes via _method=DELETE.
	e.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm(methodOverrideField),
	}))

	e.Validator = &common.GenericEchoValidator{}

	return e
}
