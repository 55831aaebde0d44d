package frontend

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/emotion-detector/internal/security"
)

// IndexTemplateName is the landing page file inside the templates filesystem
const IndexTemplateName = "emotion.html"

// LoadIndexTemplate parses the landing page from the given filesystem
func LoadIndexTemplate(templates fs.FS) (*template.Template, error) {
	tmpl, err := template.ParseFS(templates, IndexTemplateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}

// RenderIndex renders the landing page with the provided nonce
func RenderIndex(c *gin.Context, tmpl *template.Template, nonce string) error {
	var buf bytes.Buffer

	data := map[string]interface{}{
		"Nonce":    nonce,
		"Endpoint": "/detect_emotion",
	}

	if err := tmpl.ExecuteTemplate(&buf, IndexTemplateName, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	return nil
}

// NewIndexHandler serves the landing page. It expects security.CSPMiddleware
// to run first and falls back to a fresh nonce when it did not.
func NewIndexHandler(tmpl *template.Template) gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce := security.GetNonce(c)
		if nonce == "" {
			slog.Warn("CSP nonce not found in context, generating new one")
			var err error
			nonce, err = security.GenerateNonce()
			if err != nil {
				slog.Error("Failed to generate nonce", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
		}

		if err := RenderIndex(c, tmpl, nonce); err != nil {
			slog.Error("Failed to render landing page", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to render page"})
		}
	}
}
