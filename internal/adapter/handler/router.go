package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/mom-generator/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	minutesHandler *Minutes
	authMW         echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, minutesHandler *Minutes, authMW echo.MiddlewareFunc) *Router {
	return &Router{
		cfg:            cfg,
		minutesHandler: minutesHandler,
		authMW:         authMW,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	if !rt.cfg.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupMinutesRoutes(v1)
}

// setupMinutesRoutes configures minutes routes
func (rt *Router) setupMinutesRoutes(g *echo.Group) {
	mg := g.Group("/minutes")
	if rt.authMW != nil {
		mg.Use(rt.authMW)
	}

	if rt.minutesHandler == nil {
		mg.Any("/*", rt.notImplemented)
		return
	}
	h := rt.minutesHandler

	mg.POST("/sessions", h.OpenSession)
	mg.GET("/sessions/:sid", h.GetSession)
	mg.DELETE("/sessions/:sid", h.CloseSession)
	mg.PUT("/sessions/:sid/input", h.UpdateInput)
	mg.POST("/sessions/:sid/generate", h.Generate)
	mg.POST("/sessions/:sid/edit", h.EditInputs)
	mg.PATCH("/sessions/:sid/discussions/:idx", h.UpdateDiscussion)
	mg.PATCH("/sessions/:sid/action-items/:idx", h.UpdateActionItem)
	mg.POST("/sessions/:sid/comments", h.AddComment)
	mg.POST("/sessions/:sid/save", h.Save)
	mg.GET("/sessions/:sid/view", h.View)
	mg.GET("/sessions/:sid/export.pdf", h.ExportPDF)
	mg.GET("/sessions/:sid/print", h.Print)
	mg.GET("/sessions/:sid/share", h.Share)

	mg.POST("/sessions/:sid/conversion", h.BeginConversion)
	mg.PUT("/sessions/:sid/conversion/overrides/:idx", h.SetOverride)
	mg.POST("/sessions/:sid/conversion/batch", h.ApplyBatch)
	mg.POST("/sessions/:sid/conversion/commit", h.CommitConversion)
	mg.DELETE("/sessions/:sid/conversion", h.CancelConversion)

	mg.POST("/documents/:id/reopen", h.Reopen)
	mg.GET("/documents/:id/activities", h.Activities)

	mg.POST("/transcribe", h.Transcribe)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
