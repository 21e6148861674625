package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Assets holds the report template contents loaded once at startup and
// injected into the handler, rather than read from ambient filesystem paths
// at request time.
type Assets struct {
	Template string // report.html contents; empty disables rendering
	CSS      string // style.css contents, inlined into the document head
	LogoURL  string // file:// URL substituted for the {{logo}} token
}

// LoadAssets reads report.html, style.css and logo.png from dir. The
// stylesheet and logo are optional; a missing template is reported but not
// fatal, so the API can still serve record operations.
func LoadAssets(dir string) *Assets {
	assets := &Assets{}

	tmplPath := filepath.Join(dir, "report.html")
	if raw, err := os.ReadFile(tmplPath); err == nil {
		assets.Template = string(raw)
	} else {
		log.Warn().Str("path", tmplPath).Err(err).Msg("Report template not found, PDF generation disabled")
	}

	if raw, err := os.ReadFile(filepath.Join(dir, "style.css")); err == nil {
		assets.CSS = string(raw)
	}

	logoPath := filepath.Join(dir, "logo.png")
	if _, err := os.Stat(logoPath); err == nil {
		if abs, err := filepath.Abs(logoPath); err == nil {
			assets.LogoURL = fmt.Sprintf("file://%s", abs)
		}
	}

	return assets
}
