package patient

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tinyhearts/records-service/internal/clinic"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

type statusResponse struct {
	Status string `json:"status"`
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	if err := h.service.Create(r.Context(), req); err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			respondValidationErrors(w, verr)
		case errors.Is(err, ErrDuplicateID):
			respondError(w, http.StatusConflict, "Patient ID already exists")
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, summaries)
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, http.StatusNotFound, "Patient not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		var verr *ValidationError
		switch {
		case errors.Is(err, ErrNoFields):
			respondError(w, http.StatusBadRequest, "No fields to update")
		case errors.As(err, &verr):
			respondValidationErrors(w, verr)
		case errors.Is(err, ErrNotFound):
			respondError(w, http.StatusNotFound, "Patient not found")
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, http.StatusNotFound, "Patient not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

// GeneratePatientID allocates a candidate patient ID for the clinic location
// given in the query string. The candidate is advisory: a concurrent create
// may claim it first, in which case the client re-requests a fresh one.
func (h *Handler) GeneratePatientID(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		respondError(w, http.StatusBadRequest, "Location required")
		return
	}

	id, err := h.service.NextPatientID(r.Context(), location)
	if err != nil {
		if errors.Is(err, clinic.ErrInvalidLocation) {
			respondError(w, http.StatusBadRequest, "Invalid location")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"patient_id": id})
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}

func respondValidationErrors(w http.ResponseWriter, verr *ValidationError) {
	respondJSON(w, http.StatusBadRequest, map[string][]FieldError{"errors": verr.Fields})
}
