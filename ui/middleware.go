package ui

import (
	"barstack/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		s.router.Use(gin.Logger())
	}
}

// requireDatasets guards routes that read the registry.
func (s *Server) requireDatasets() gin.HandlerFunc {
	return middleware.RequireDatasets(func() error { return s.loadErr })
}
