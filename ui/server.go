package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"qreport/app"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static/css/*.css content/*.md
var embeddedFiles embed.FS

// Server serves the upload page, the rendered report and its download
type Server struct {
	router    *gin.Engine
	service   *app.ReportService
	templates *template.Template
	help      template.HTML
	config    Config
}

// Config holds UI server configuration
type Config struct {
	GinMode        string
	MaxUploadBytes int64
}

// NewServer creates a new web server instance
func NewServer(service *app.ReportService, config Config) (*Server, error) {
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}

	templates, err := parseTemplates(embeddedFiles)
	if err != nil {
		return nil, err
	}

	help, err := loadHelp(embeddedFiles, "content/help.md")
	if err != nil {
		return nil, fmt.Errorf("failed to load help text: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		service:   service,
		templates: templates,
		help:      help,
		config:    config,
	}

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/upload", s.uploadLimit(), s.handleUpload)
	s.router.POST("/download", s.uploadLimit(), s.handleDownload)
	s.router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}

// Handler exposes the router for an http.Server or tests
func (s *Server) Handler() http.Handler {
	return s.router
}
