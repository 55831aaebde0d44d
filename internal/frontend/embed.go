package frontend

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templatesFS embed.FS

// GetTemplatesFS returns the embedded page templates
func GetTemplatesFS() (fs.FS, error) {
	return fs.Sub(templatesFS, "templates")
}
