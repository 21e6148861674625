package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

const createPatientsTable = `
	CREATE TABLE IF NOT EXISTS patients (
		patient_id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		dob DATE,
		age TEXT,
		review_date DATE,
		sex VARCHAR(10),
		weight NUMERIC(5,2),
		phone1 VARCHAR(10),
		phone2 VARCHAR(10),
		location TEXT,
		diagnosis TEXT,
		situs_loop TEXT,
		systemic_veins TEXT,
		pulmonary_veins TEXT,
		atria TEXT,
		atrial_septum TEXT,
		av_valves TEXT,
		ventricles TEXT,
		ventricular_septum TEXT,
		outflow_tracts TEXT,
		pulmonary_arteries TEXT,
		aortic_arch TEXT,
		others_field TEXT,
		impression TEXT,
		created_at TIMESTAMP DEFAULT NOW()
	)
`

// Migrate creates the patients table if it does not exist. It is idempotent
// and safe to run at every startup.
func Migrate(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, createPatientsTable); err != nil {
		return fmt.Errorf("failed to create patients table: %w", err)
	}

	log.Info().Msg("Table 'patients' ready")
	return nil
}
