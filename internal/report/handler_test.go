package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testTemplate = `<html><head></head><body>
<p>{{name}} | {{patient_id}} | {{weight}}</p>
<p>DOB: {{dob}} Review: {{review_date}} Report: {{report_date}}</p>
<img src="{{logo}}">
</body></html>`

// mockRenderer captures the composed HTML instead of driving a browser
type mockRenderer struct {
	renderFunc func(ctx context.Context, html string) ([]byte, error)
	lastHTML   string
}

func (m *mockRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	m.lastHTML = html
	if m.renderFunc != nil {
		return m.renderFunc(ctx, html)
	}
	return []byte("%PDF-1.4 fake"), nil
}

func newTestHandler(renderer *mockRenderer) *Handler {
	assets := &Assets{
		Template: testTemplate,
		CSS:      "body { margin: 0; }",
		LogoURL:  "file:///srv/web/logo.png",
	}
	return NewHandler(renderer, assets, nil)
}

func postPDF(t *testing.T, handler *Handler, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/generate-pdf", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.GeneratePDF(rec, req)
	return rec
}

// TestGeneratePDF_Success tests the happy path headers and body
func TestGeneratePDF_Success(t *testing.T) {
	renderer := &mockRenderer{}
	handler := newTestHandler(renderer)

	rec := postPDF(t, handler, map[string]interface{}{
		"name":       "Baby Arun (Jr.)",
		"patient_id": "KUM-1",
		"weight":     3.2,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected Content-Type application/pdf, got '%s'", ct)
	}

	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "TinyHeartsReport-Baby_Arun__Jr__.pdf") {
		t.Errorf("Expected sanitized filename in disposition, got '%s'", disposition)
	}

	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("Expected PDF bytes in response body")
	}
}

// TestGeneratePDF_ComposedHTML tests that fields reach the renderer
// substituted and formatted
func TestGeneratePDF_ComposedHTML(t *testing.T) {
	renderer := &mockRenderer{}
	handler := newTestHandler(renderer)

	rec := postPDF(t, handler, map[string]interface{}{
		"name":        "Baby Priya",
		"patient_id":  "TIR-4",
		"weight":      4.5,
		"dob":         "2024-03-15",
		"review_date": "2025-01-10",
		"report_date": "2025-06-01",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	html := renderer.lastHTML
	for _, want := range []string{
		"Baby Priya | TIR-4 | 4.5",
		"DOB: 15/03/2024",
		"Review: 10/01/2025",
		"Report: 01/06/2025",
		`src="file:///srv/web/logo.png"`,
		"<style>body { margin: 0; }</style></head>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected composed HTML to contain %q, got: %s", want, html)
		}
	}
}

// TestGeneratePDF_DefaultReportDate tests that a missing report_date
// falls back to today rather than rendering blank
func TestGeneratePDF_DefaultReportDate(t *testing.T) {
	renderer := &mockRenderer{}
	handler := newTestHandler(renderer)

	rec := postPDF(t, handler, map[string]interface{}{"name": "Baby Arun"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	if strings.Contains(renderer.lastHTML, "Report: <") || strings.Contains(renderer.lastHTML, "Report:  ") {
		t.Errorf("Expected report_date defaulted, got: %s", renderer.lastHTML)
	}
	if strings.Contains(renderer.lastHTML, "{{report_date}}") {
		t.Error("Raw report_date placeholder leaked into output")
	}
}

// TestGeneratePDF_MissingName tests the required-name rejection
func TestGeneratePDF_MissingName(t *testing.T) {
	handler := newTestHandler(&mockRenderer{})

	rec := postPDF(t, handler, map[string]interface{}{"patient_id": "KUM-1"})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var response map[string]string
	json.NewDecoder(rec.Body).Decode(&response)
	if response["error"] != "Patient name required" {
		t.Errorf("Expected 'Patient name required', got '%s'", response["error"])
	}
}

// TestGeneratePDF_MissingTemplate tests the unconfigured-assets case
func TestGeneratePDF_MissingTemplate(t *testing.T) {
	handler := NewHandler(&mockRenderer{}, &Assets{}, nil)

	rec := postPDF(t, handler, map[string]interface{}{"name": "Baby Arun"})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
}

// TestGeneratePDF_RenderFailure tests the browser-failure mapping
func TestGeneratePDF_RenderFailure(t *testing.T) {
	renderer := &mockRenderer{
		renderFunc: func(ctx context.Context, html string) ([]byte, error) {
			return nil, errors.New("chrome crashed")
		},
	}
	handler := newTestHandler(renderer)

	rec := postPDF(t, handler, map[string]interface{}{"name": "Baby Arun"})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}

	var response map[string]string
	json.NewDecoder(rec.Body).Decode(&response)
	if !strings.Contains(response["error"], "PDF generation failed") {
		t.Errorf("Expected render failure message, got '%s'", response["error"])
	}
}
