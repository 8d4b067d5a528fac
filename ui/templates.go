package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
)

func parseTemplates(files fs.FS) (*template.Template, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"percent": func(f float64) string {
			return fmt.Sprintf("%.0f%%", f*100)
		},
		"decimal": func(f float64) string {
			return fmt.Sprintf("%.1f", f)
		},
		"join": strings.Join,
	}

	templatesFS, err := fs.Sub(files, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return templates, nil
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	// Render into a buffer first; a failed execute writes nothing
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		log.Printf("Template error for %s: %v", templateName, err)
		log.Printf("Template data type: %T", data)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	if !bytes.Contains(buf.Bytes(), []byte("</html>")) {
		log.Printf("WARNING: Rendered template %s appears truncated - missing </html> tag (length %d)", templateName, buf.Len())
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		log.Printf("Error writing template response: %v", err)
	}
}
