package httpserver

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/lo"

	"NewsPortal/internal/infrastructure/images"
)

func (s *Server) registerRoutes() {
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(s.setupCORSMiddleware())
	s.echo.Use(ErrorHandlingMiddleware(s.logger))

	s.registerHealthRoutes()

	if s.websocketHandler != nil {
		s.echo.GET("/ws", echo.WrapHandler(s.websocketHandler))
	}

	api := s.echo.Group("/api")
	api.GET("/", s.handleRoot)
	api.GET("/categories", s.handleCategories)

	if s.imagesDir != "" {
		s.echo.Static(strings.TrimSuffix(images.PublicPrefix, "/"), s.imagesDir)
	}

	s.registerNewsRoutes(api)
	s.registerBreakingRoutes(api)
	s.registerEditionRoutes(api)
	s.registerAdminRoutes(api.Group("/admin", s.adminAuthMiddleware()))
}

func (s *Server) setupCORSMiddleware() echo.MiddlewareFunc {
	origins := s.server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: !lo.Contains(origins, "*"),
	})
}
