package patient

import "context"

// RepositoryInterface defines the contract for patient data access
type RepositoryInterface interface {
	// Create persists a new record. Returns ErrDuplicateID when the
	// patient_id primary key is already taken.
	Create(ctx context.Context, req CreatePatientRequest) error

	// Get retrieves the full record. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*PatientResponse, error)

	// List returns summaries for all records, most recently created first.
	List(ctx context.Context) ([]PatientSummary, error)

	// Update applies the non-nil fields of req. Returns ErrNotFound if no
	// row matches and ErrNoFields when req carries nothing.
	Update(ctx context.Context, id string, req UpdatePatientRequest) error

	// Delete removes the record. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// LatestIDWithPrefix returns the most recently created patient_id with
	// the given prefix, or "" when none exists.
	LatestIDWithPrefix(ctx context.Context, prefix string) (string, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
