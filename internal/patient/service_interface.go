package patient

import "context"

// ServiceInterface defines the contract for patient record business logic
type ServiceInterface interface {
	Create(ctx context.Context, req CreatePatientRequest) error
	Get(ctx context.Context, id string) (*PatientResponse, error)
	List(ctx context.Context) ([]PatientSummary, error)
	Update(ctx context.Context, id string, req UpdatePatientRequest) error
	Delete(ctx context.Context, id string) error

	// NextPatientID returns an advisory candidate identifier for a clinic
	// location; it is not reserved until a subsequent create succeeds.
	NextPatientID(ctx context.Context, location string) (string, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
