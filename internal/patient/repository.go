package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code raised when an insert hits the
// patient_id primary key.
const uniqueViolation = "23505"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, req CreatePatientRequest) error {
	query := `
		INSERT INTO patients
		(patient_id, name, dob, age, review_date, sex, weight, phone1, phone2, location,
		 diagnosis, situs_loop, systemic_veins, pulmonary_veins, atria,
		 atrial_septum, av_valves, ventricles, ventricular_septum,
		 outflow_tracts, pulmonary_arteries, aortic_arch, others_field, impression)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	_, err := r.db.ExecContext(ctx, query,
		req.PatientID,
		req.Name,
		nullString(req.DOB),
		nullString(req.Age),
		nullString(req.ReviewDate),
		nullString(req.Sex),
		nullFloat(req.Weight),
		nullString(req.Phone1),
		nullString(req.Phone2),
		nullString(req.Location),
		nullString(req.Diagnosis),
		nullString(req.SitusLoop),
		nullString(req.SystemicVeins),
		nullString(req.PulmonaryVeins),
		nullString(req.Atria),
		nullString(req.AtrialSeptum),
		nullString(req.AVValves),
		nullString(req.Ventricles),
		nullString(req.VentricularSeptum),
		nullString(req.OutflowTracts),
		nullString(req.PulmonaryArteries),
		nullString(req.AorticArch),
		nullString(req.OthersField),
		nullString(req.Impression),
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("failed to insert patient: %w", err)
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*PatientResponse, error) {
	query := `
		SELECT patient_id, name, dob, age, review_date, sex, weight, phone1, phone2, location,
		       diagnosis, situs_loop, systemic_veins, pulmonary_veins, atria,
		       atrial_septum, av_valves, ventricles, ventricular_septum,
		       outflow_tracts, pulmonary_arteries, aortic_arch, others_field, impression,
		       created_at
		FROM patients
		WHERE patient_id = $1
	`

	var p PatientResponse
	var dob, reviewDate sql.NullTime
	var age, sex, phone1, phone2, location sql.NullString
	var weight sql.NullFloat64
	var diagnosis, situsLoop, systemicVeins, pulmonaryVeins, atria sql.NullString
	var atrialSeptum, avValves, ventricles, ventricularSeptum sql.NullString
	var outflowTracts, pulmonaryArteries, aorticArch, othersField, impression sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.PatientID,
		&p.Name,
		&dob,
		&age,
		&reviewDate,
		&sex,
		&weight,
		&phone1,
		&phone2,
		&location,
		&diagnosis,
		&situsLoop,
		&systemicVeins,
		&pulmonaryVeins,
		&atria,
		&atrialSeptum,
		&avValves,
		&ventricles,
		&ventricularSeptum,
		&outflowTracts,
		&pulmonaryArteries,
		&aorticArch,
		&othersField,
		&impression,
		&p.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}

	if dob.Valid {
		s := dob.Time.Format(dateLayout)
		p.DOB = &s
	}
	if reviewDate.Valid {
		s := reviewDate.Time.Format(dateLayout)
		p.ReviewDate = &s
	}
	if weight.Valid {
		p.Weight = &weight.Float64
	}
	p.Age = age.String
	p.Sex = sex.String
	p.Phone1 = phone1.String
	p.Phone2 = phone2.String
	p.Location = location.String
	p.Diagnosis = diagnosis.String
	p.SitusLoop = situsLoop.String
	p.SystemicVeins = systemicVeins.String
	p.PulmonaryVeins = pulmonaryVeins.String
	p.Atria = atria.String
	p.AtrialSeptum = atrialSeptum.String
	p.AVValves = avValves.String
	p.Ventricles = ventricles.String
	p.VentricularSeptum = ventricularSeptum.String
	p.OutflowTracts = outflowTracts.String
	p.PulmonaryArteries = pulmonaryArteries.String
	p.AorticArch = aorticArch.String
	p.OthersField = othersField.String
	p.Impression = impression.String

	return &p, nil
}

func (r *Repository) List(ctx context.Context) ([]PatientSummary, error) {
	query := `
		SELECT patient_id, name, age, location
		FROM patients
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	summaries := []PatientSummary{}
	for rows.Next() {
		var s PatientSummary
		var age, location sql.NullString

		if err := rows.Scan(&s.PatientID, &s.Name, &age, &location); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}

		s.Age = age.String
		s.Location = location.String
		summaries = append(summaries, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}

	return summaries, nil
}

func (r *Repository) Update(ctx context.Context, id string, req UpdatePatientRequest) error {
	var updates []string
	var args []interface{}
	argIndex := 1

	set := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}
	setString := func(column string, value *string) {
		if value != nil {
			set(column, nullString(*value))
		}
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	setString("dob", req.DOB)
	setString("age", req.Age)
	setString("review_date", req.ReviewDate)
	setString("sex", req.Sex)
	if req.Weight != nil {
		set("weight", *req.Weight)
	}
	setString("phone1", req.Phone1)
	setString("phone2", req.Phone2)
	setString("location", req.Location)
	setString("diagnosis", req.Diagnosis)
	setString("situs_loop", req.SitusLoop)
	setString("systemic_veins", req.SystemicVeins)
	setString("pulmonary_veins", req.PulmonaryVeins)
	setString("atria", req.Atria)
	setString("atrial_septum", req.AtrialSeptum)
	setString("av_valves", req.AVValves)
	setString("ventricles", req.Ventricles)
	setString("ventricular_septum", req.VentricularSeptum)
	setString("outflow_tracts", req.OutflowTracts)
	setString("pulmonary_arteries", req.PulmonaryArteries)
	setString("aortic_arch", req.AorticArch)
	setString("others_field", req.OthersField)
	setString("impression", req.Impression)

	if len(updates) == 0 {
		return ErrNoFields
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE patients
		SET %s
		WHERE patient_id = $%d
	`, strings.Join(updates, ", "), argIndex)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE patient_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// LatestIDWithPrefix returns the most recently created patient_id starting
// with prefix, or "" when no such record exists. Ordering is by creation
// time, not by numeric suffix, so manually entered out-of-order IDs do not
// corrupt the sequence for well-formed ones.
func (r *Repository) LatestIDWithPrefix(ctx context.Context, prefix string) (string, error) {
	query := `
		SELECT patient_id FROM patients
		WHERE patient_id LIKE $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var id string
	err := r.db.QueryRowContext(ctx, query, prefix+"%").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest patient ID: %w", err)
	}

	return id, nil
}

// nullString maps "" to SQL NULL, matching the legacy insert semantics.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
