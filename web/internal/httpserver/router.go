package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/logitrack/clients/pkg/apiclient"
	"github.com/logitrack/clients/web/internal/middleware"
)

type Deps struct {
	API    *apiclient.Client
	Logger *slog.Logger
}

func Register(e *echo.Echo, d *Deps) error {
	renderer, err := NewRenderer()
	if err != nil {
		return err
	}
	e.Renderer = renderer

	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.Guard())

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	h := NewHandlers(d.API)

	e.GET("/", h.Root)
	e.GET("/login", h.LoginPage)
	e.POST("/login", h.Login)
	e.GET("/register", h.RegisterPage)
	e.POST("/register", h.Register)
	e.GET("/reset-password", h.ResetPasswordPage)
	e.POST("/reset-password", h.ResetPassword)
	e.POST("/logout", h.Logout)

	e.GET("/dashboard", h.Dashboard)
	e.GET("/ots/new", h.NewOTPage)
	e.POST("/ots", h.CreateOT)
	e.GET("/ots/:id", h.OTDetail)
	e.POST("/ots/:id/status", h.UpdateOTStatus)

	return nil
}
