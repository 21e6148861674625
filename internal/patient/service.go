package patient

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tinyhearts/records-service/internal/clinic"
	"github.com/tinyhearts/records-service/internal/messaging"
	"github.com/tinyhearts/records-service/internal/telemetry"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

type Service struct {
	repo      RepositoryInterface
	clinics   *clinic.Table
	publisher messaging.PublisherInterface
	metrics   *telemetry.Metrics
}

func NewService(repo RepositoryInterface, clinics *clinic.Table, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *Service {
	return &Service{
		repo:      repo,
		clinics:   clinics,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Create validates and persists a new patient record. The age field is
// always derived server-side from dob when dob is present.
func (s *Service) Create(ctx context.Context, req CreatePatientRequest) error {
	if verr := validateCreate(&req); verr != nil {
		return verr
	}

	if req.DOB != "" {
		dob, _ := time.Parse(dateLayout, req.DOB) // validated above
		req.Age = ageAt(dob, time.Now())
	} else {
		req.Age = ""
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return err
	}

	s.metrics.RecordRecordOperation(ctx, "create")
	s.publishEvent(ctx, messaging.EventRecordCreated,
		messaging.NewRecordCreatedEvent(req.PatientID, req.Name, req.Location))

	log.Info().Str("patient_id", req.PatientID).Msg("Patient record created")
	return nil
}

// Get returns the full record for id.
func (s *Service) Get(ctx context.Context, id string) (*PatientResponse, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordRecordOperation(ctx, "read")
	return p, nil
}

// List returns summaries for all records, most recent first.
func (s *Service) List(ctx context.Context) ([]PatientSummary, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update. Only supplied fields are validated and
// changed; age is recomputed only when dob is resupplied.
func (s *Service) Update(ctx context.Context, id string, req UpdatePatientRequest) error {
	if req.IsEmpty() {
		return ErrNoFields
	}
	if verr := validateUpdate(&req); verr != nil {
		return verr
	}

	if req.DOB != nil && *req.DOB != "" {
		dob, _ := time.Parse(dateLayout, *req.DOB) // validated above
		age := ageAt(dob, time.Now())
		req.Age = &age
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		return err
	}

	s.metrics.RecordRecordOperation(ctx, "update")
	s.publishEvent(ctx, messaging.EventRecordUpdated,
		messaging.NewRecordUpdatedEvent(id, updatedFields(&req)))

	log.Info().Str("patient_id", id).Msg("Patient record updated")
	return nil
}

// Delete removes the record for id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.RecordRecordOperation(ctx, "delete")
	s.publishEvent(ctx, messaging.EventRecordDeleted, messaging.NewRecordDeletedEvent(id))

	log.Info().Str("patient_id", id).Msg("Patient record deleted")
	return nil
}

// NextPatientID derives a candidate identifier for the given clinic
// location: the numeric suffix of the most recently created ID with that
// clinic's prefix, plus one. The candidate is advisory, not reserved; two
// concurrent callers may be offered the same value and the loser of the
// subsequent insert race gets ErrDuplicateID.
func (s *Service) NextPatientID(ctx context.Context, location string) (string, error) {
	code, err := s.clinics.CodeFor(location)
	if err != nil {
		return "", err
	}

	last, err := s.repo.LatestIDWithPrefix(ctx, code+"-")
	if err != nil {
		return "", err
	}

	next := 1
	if last != "" {
		suffix := last[strings.LastIndex(last, "-")+1:]
		if n, err := strconv.Atoi(suffix); err == nil {
			next = n + 1
		} else {
			// A hand-entered non-numeric suffix resets the sequence to 1.
			log.Warn().Str("patient_id", last).Str("code", code).
				Msg("Latest patient ID has non-numeric suffix, restarting sequence")
		}
	}

	s.metrics.RecordIDAllocation(ctx, code)
	return fmt.Sprintf("%s-%d", code, next), nil
}

// publishEvent is best-effort: a broker failure is logged, never surfaced.
func (s *Service) publishEvent(ctx context.Context, routingKey string, event interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Error().Err(err).Str("routing_key", routingKey).Msg("Failed to publish event")
	}
}

func validateCreate(req *CreatePatientRequest) error {
	var fields []FieldError

	if strings.TrimSpace(req.PatientID) == "" {
		fields = append(fields, FieldError{Field: "patient_id", Message: "patient_id is required"})
	}
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "name is required"})
	}
	fields = append(fields, validateCommon(req.DOB, req.ReviewDate, req.Weight, req.Phone1, req.Phone2)...)

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validateUpdate(req *UpdatePatientRequest) error {
	var fields []FieldError

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "name cannot be empty"})
	}
	fields = append(fields, validateCommon(
		strOrEmpty(req.DOB), strOrEmpty(req.ReviewDate), req.Weight,
		strOrEmpty(req.Phone1), strOrEmpty(req.Phone2))...)

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// validateCommon checks the optional constrained fields. Empty strings are
// skipped, matching the legacy checkFalsy validation behavior.
func validateCommon(dob, reviewDate string, weight *float64, phone1, phone2 string) []FieldError {
	var fields []FieldError

	if dob != "" {
		if _, err := time.Parse(dateLayout, dob); err != nil {
			fields = append(fields, FieldError{Field: "dob", Message: "must be an ISO 8601 date (YYYY-MM-DD)"})
		}
	}
	if reviewDate != "" {
		if _, err := time.Parse(dateLayout, reviewDate); err != nil {
			fields = append(fields, FieldError{Field: "review_date", Message: "must be an ISO 8601 date (YYYY-MM-DD)"})
		}
	}
	if weight != nil && *weight < 0 {
		fields = append(fields, FieldError{Field: "weight", Message: "must be non-negative"})
	}
	if phone1 != "" && !phonePattern.MatchString(phone1) {
		fields = append(fields, FieldError{Field: "phone1", Message: "must be exactly 10 digits"})
	}
	if phone2 != "" && !phonePattern.MatchString(phone2) {
		fields = append(fields, FieldError{Field: "phone2", Message: "must be exactly 10 digits"})
	}

	return fields
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// updatedFields lists the column names touched by an update, for the
// record.updated event payload.
func updatedFields(req *UpdatePatientRequest) []string {
	var fields []string
	add := func(name string, set bool) {
		if set {
			fields = append(fields, name)
		}
	}

	add("name", req.Name != nil)
	add("dob", req.DOB != nil)
	add("age", req.Age != nil)
	add("review_date", req.ReviewDate != nil)
	add("sex", req.Sex != nil)
	add("weight", req.Weight != nil)
	add("phone1", req.Phone1 != nil)
	add("phone2", req.Phone2 != nil)
	add("location", req.Location != nil)
	add("diagnosis", req.Diagnosis != nil)
	add("situs_loop", req.SitusLoop != nil)
	add("systemic_veins", req.SystemicVeins != nil)
	add("pulmonary_veins", req.PulmonaryVeins != nil)
	add("atria", req.Atria != nil)
	add("atrial_septum", req.AtrialSeptum != nil)
	add("av_valves", req.AVValves != nil)
	add("ventricles", req.Ventricles != nil)
	add("ventricular_septum", req.VentricularSeptum != nil)
	add("outflow_tracts", req.OutflowTracts != nil)
	add("pulmonary_arteries", req.PulmonaryArteries != nil)
	add("aortic_arch", req.AorticArch != nil)
	add("others_field", req.OthersField != nil)
	add("impression", req.Impression != nil)

	return fields
}
