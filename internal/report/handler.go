package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tinyhearts/records-service/internal/telemetry"
)

var filenamePattern = regexp.MustCompile(`[^a-zA-Z0-9]`)

type Handler struct {
	renderer Renderer
	assets   *Assets
	metrics  *telemetry.Metrics
}

func NewHandler(renderer Renderer, assets *Assets, metrics *telemetry.Metrics) *Handler {
	return &Handler{
		renderer: renderer,
		assets:   assets,
		metrics:  metrics,
	}
}

// GeneratePDF accepts a flat field mapping, composes the report template and
// streams back the rasterized PDF as an attachment.
func (h *Handler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	name := stringValue(payload["name"])
	if name == "" {
		respondError(w, http.StatusBadRequest, "Patient name required")
		return
	}

	if h.assets.Template == "" {
		respondError(w, http.StatusInternalServerError, "PDF generation failed: HTML template not found")
		return
	}

	fields := flattenFields(payload)
	fields["dob"] = FormatReportDate(fields["dob"])
	fields["review_date"] = FormatReportDate(fields["review_date"])
	if formatted := FormatReportDate(fields["report_date"]); formatted != "" {
		fields["report_date"] = formatted
	} else {
		fields["report_date"] = time.Now().Format("02/01/2006")
	}
	if h.assets.LogoURL != "" {
		fields["logo"] = h.assets.LogoURL
	}

	html := Compose(h.assets.Template, h.assets.CSS, fields)

	start := time.Now()
	pdf, err := h.renderer.Render(r.Context(), html)
	h.metrics.RecordRender(r.Context(), float64(time.Since(start).Milliseconds()), err != nil)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("PDF render failed")
		respondError(w, http.StatusInternalServerError, "PDF generation failed: "+err.Error())
		return
	}

	filename := "TinyHeartsReport-" + filenamePattern.ReplaceAllString(name, "_") + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(pdf)
}

// flattenFields renders every payload value as a plain string for token
// substitution.
func flattenFields(payload map[string]interface{}) map[string]string {
	fields := make(map[string]string, len(payload))
	for key, value := range payload {
		fields[key] = stringValue(value)
	}
	return fields
}

func stringValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
