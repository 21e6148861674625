package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/tinyhearts/records-service/internal/clinic"
	"github.com/tinyhearts/records-service/internal/messaging"
	"github.com/tinyhearts/records-service/internal/patient"
	"github.com/tinyhearts/records-service/internal/report"
	"github.com/tinyhearts/records-service/internal/telemetry"
)

// SetupRouter initializes all routes for the application
func SetupRouter(
	db *sql.DB,
	clinics *clinic.Table,
	publisher messaging.PublisherInterface,
	renderer report.Renderer,
	assets *report.Assets,
	metrics *telemetry.Metrics,
	webDir string,
) *mux.Router {
	patientRepo := patient.NewRepository(db)
	patientService := patient.NewService(patientRepo, clinics, publisher, metrics)
	patientHandler := patient.NewHandler(patientService)

	reportHandler := report.NewHandler(renderer, assets, metrics)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("records-service"))
	r.Use(CORSMiddleware)
	r.Use(MetricsMiddleware(metrics))

	// mux only runs r.Use middleware on matched routes, and no route
	// registers OPTIONS. Browser preflights for PATCH/DELETE/JSON-POST land
	// on these fallback handlers, so they need the CORS wrap too.
	r.MethodNotAllowedHandler = CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	r.NotFoundHandler = CORSMiddleware(http.NotFoundHandler())

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"records-service"}`))
	}).Methods("GET")

	r.HandleFunc("/patients", patientHandler.CreatePatient).Methods("POST")
	r.HandleFunc("/patients", patientHandler.ListPatients).Methods("GET")
	r.HandleFunc("/patients/{id}", patientHandler.GetPatient).Methods("GET")
	r.HandleFunc("/patients/{id}", patientHandler.UpdatePatient).Methods("PATCH")
	r.HandleFunc("/patients/{id}", patientHandler.DeletePatient).Methods("DELETE")

	r.HandleFunc("/generate-patient-id", patientHandler.GeneratePatientID).Methods("GET")
	r.HandleFunc("/generate-pdf", reportHandler.GeneratePDF).Methods("POST")

	// Static assets for the browser form collaborator
	if webDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(webDir))).Methods("GET")
	}

	return r
}
