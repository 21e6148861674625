package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/tinyhearts/records-service/internal/clinic"
	"github.com/tinyhearts/records-service/internal/db"
	"github.com/tinyhearts/records-service/internal/messaging"
	"github.com/tinyhearts/records-service/internal/patient"
	"github.com/tinyhearts/records-service/internal/report"
	"github.com/tinyhearts/records-service/internal/testutil"
)

// stubRenderer avoids driving a real browser in router tests
type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

// TestRouterPreflight_MatchedPath tests that a browser preflight for a
// registered path gets CORS headers even though no route handles OPTIONS
func TestRouterPreflight_MatchedPath(t *testing.T) {
	router := SetupRouter(nil, clinic.Default(), nil, stubRenderer{}, &report.Assets{}, nil, "")

	req := httptest.NewRequest(http.MethodOptions, "/patients/KUM-1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin '*', got '%s'", origin)
	}
	if methods := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, "PATCH") {
		t.Errorf("Expected PATCH in Access-Control-Allow-Methods, got '%s'", methods)
	}
}

// TestRouterPreflight_UnknownPath tests that preflights for unregistered
// paths also carry CORS headers
func TestRouterPreflight_UnknownPath(t *testing.T) {
	router := SetupRouter(nil, clinic.Default(), nil, stubRenderer{}, &report.Assets{}, nil, "")

	req := httptest.NewRequest(http.MethodOptions, "/nonexistent", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin '*', got '%s'", origin)
	}
}

// setupTestServer starts the full router against the test database.
// Skipped when TEST_DATABASE_URL is not set.
func setupTestServer(t *testing.T) (*testutil.HTTPTestClient, *testutil.MockPublisher) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	testutil.CleanupPatients(t, conn)
	t.Cleanup(func() {
		testutil.CleanupPatients(t, conn)
	})

	pub := testutil.NewMockPublisher()
	assets := &report.Assets{
		Template: "<html><head></head><body>{{name}}</body></html>",
	}
	router := SetupRouter(conn, clinic.Default(), pub, stubRenderer{}, assets, nil, "")

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return testutil.NewHTTPTestClient(server.URL), pub
}

// TestRouterEndToEnd_RecordLifecycle drives a record through every route:
// create, duplicate conflict, validation, list, read, allocate, update,
// empty update, delete.
func TestRouterEndToEnd_RecordLifecycle(t *testing.T) {
	client, pub := setupTestServer(t)

	create := map[string]interface{}{
		"patient_id": "KUM-1",
		"name":       "Baby Arun",
		"dob":        "2024-03-15",
		"phone1":     "9876543210",
		"location":   "Arthi Hospital, Kumbakonam",
	}

	resp := client.POST(t, "/patients", create)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	pub.AssertEventPublished(t, messaging.EventRecordCreated)

	resp = client.POST(t, "/patients", create)
	testutil.AssertStatusCode(t, resp, http.StatusConflict)

	invalid := map[string]interface{}{
		"patient_id": "KUM-2",
		"name":       "Baby Priya",
		"phone1":     "12345",
	}
	resp = client.POST(t, "/patients", invalid)
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	if body := testutil.ReadBody(t, resp); !strings.Contains(body, "phone1") {
		t.Errorf("Expected phone1 validation error, got: %s", body)
	}

	resp = client.GET(t, "/patients")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var summaries []patient.PatientSummary
	testutil.DecodeJSON(t, resp, &summaries)
	if len(summaries) != 1 || summaries[0].PatientID != "KUM-1" {
		t.Errorf("Expected one summary for KUM-1, got %v", summaries)
	}

	resp = client.GET(t, "/patients/KUM-1")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var record patient.PatientResponse
	testutil.DecodeJSON(t, resp, &record)
	if record.Name != "Baby Arun" {
		t.Errorf("Expected name 'Baby Arun', got '%s'", record.Name)
	}
	if record.DOB == nil || *record.DOB != "2024-03-15" {
		t.Errorf("Expected dob '2024-03-15', got %v", record.DOB)
	}

	location := url.QueryEscape("Arthi Hospital, Kumbakonam")
	resp = client.GET(t, "/generate-patient-id?location="+location)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var alloc map[string]string
	testutil.DecodeJSON(t, resp, &alloc)
	if alloc["patient_id"] != "KUM-2" {
		t.Errorf("Expected candidate 'KUM-2', got '%s'", alloc["patient_id"])
	}

	resp = client.PATCH(t, "/patients/KUM-1", map[string]interface{}{"weight": 4.2})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	pub.AssertEventPublished(t, messaging.EventRecordUpdated)

	resp = client.GET(t, "/patients/KUM-1")
	testutil.DecodeJSON(t, resp, &record)
	if record.Weight == nil || *record.Weight != 4.2 {
		t.Errorf("Expected weight 4.2, got %v", record.Weight)
	}

	resp = client.PATCH(t, "/patients/KUM-1", map[string]interface{}{})
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)

	resp = client.DELETE(t, "/patients/KUM-1")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	pub.AssertEventPublished(t, messaging.EventRecordDeleted)

	resp = client.GET(t, "/patients/KUM-1")
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

// TestRouterEndToEnd_HealthAndPDF covers the two non-record routes
func TestRouterEndToEnd_HealthAndPDF(t *testing.T) {
	client, _ := setupTestServer(t)

	resp := client.GET(t, "/health")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = client.POST(t, "/generate-pdf", map[string]interface{}{"name": "Baby Arun"})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected Content-Type application/pdf, got '%s'", ct)
	}
}
