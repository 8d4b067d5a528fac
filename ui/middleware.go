package ui

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"

	"qreport/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Logger(), gin.Recovery())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	log.Printf("[Static] Serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

// uploadLimit caps bodies on the routes that accept a file
func (s *Server) uploadLimit() gin.HandlerFunc {
	return middleware.LimitBody(s.config.MaxUploadBytes)
}
