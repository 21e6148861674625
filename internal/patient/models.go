package patient

import "time"

// CreatePatientRequest carries a full patient record for creation.
// Unrecognized JSON fields are ignored by decoding.
type CreatePatientRequest struct {
	PatientID  string   `json:"patient_id"`
	Name       string   `json:"name"`
	DOB        string   `json:"dob"` // Format: YYYY-MM-DD
	Age        string   `json:"age"`
	ReviewDate string   `json:"review_date"`
	Sex        string   `json:"sex"`
	Weight     *float64 `json:"weight"`
	Phone1     string   `json:"phone1"`
	Phone2     string   `json:"phone2"`
	Location   string   `json:"location"`

	Diagnosis         string `json:"diagnosis"`
	SitusLoop         string `json:"situs_loop"`
	SystemicVeins     string `json:"systemic_veins"`
	PulmonaryVeins    string `json:"pulmonary_veins"`
	Atria             string `json:"atria"`
	AtrialSeptum      string `json:"atrial_septum"`
	AVValves          string `json:"av_valves"`
	Ventricles        string `json:"ventricles"`
	VentricularSeptum string `json:"ventricular_septum"`
	OutflowTracts     string `json:"outflow_tracts"`
	PulmonaryArteries string `json:"pulmonary_arteries"`
	AorticArch        string `json:"aortic_arch"`
	OthersField       string `json:"others_field"`
	Impression        string `json:"impression"`
}

// UpdatePatientRequest carries a partial update: only non-nil fields change.
// patient_id is deliberately absent; it is immutable after creation.
type UpdatePatientRequest struct {
	Name       *string  `json:"name,omitempty"`
	DOB        *string  `json:"dob,omitempty"`
	Age        *string  `json:"age,omitempty"`
	ReviewDate *string  `json:"review_date,omitempty"`
	Sex        *string  `json:"sex,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`
	Phone1     *string  `json:"phone1,omitempty"`
	Phone2     *string  `json:"phone2,omitempty"`
	Location   *string  `json:"location,omitempty"`

	Diagnosis         *string `json:"diagnosis,omitempty"`
	SitusLoop         *string `json:"situs_loop,omitempty"`
	SystemicVeins     *string `json:"systemic_veins,omitempty"`
	PulmonaryVeins    *string `json:"pulmonary_veins,omitempty"`
	Atria             *string `json:"atria,omitempty"`
	AtrialSeptum      *string `json:"atrial_septum,omitempty"`
	AVValves          *string `json:"av_valves,omitempty"`
	Ventricles        *string `json:"ventricles,omitempty"`
	VentricularSeptum *string `json:"ventricular_septum,omitempty"`
	OutflowTracts     *string `json:"outflow_tracts,omitempty"`
	PulmonaryArteries *string `json:"pulmonary_arteries,omitempty"`
	AorticArch        *string `json:"aortic_arch,omitempty"`
	OthersField       *string `json:"others_field,omitempty"`
	Impression        *string `json:"impression,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (r *UpdatePatientRequest) IsEmpty() bool {
	return r.Name == nil && r.DOB == nil && r.Age == nil && r.ReviewDate == nil &&
		r.Sex == nil && r.Weight == nil && r.Phone1 == nil && r.Phone2 == nil &&
		r.Location == nil && r.Diagnosis == nil && r.SitusLoop == nil &&
		r.SystemicVeins == nil && r.PulmonaryVeins == nil && r.Atria == nil &&
		r.AtrialSeptum == nil && r.AVValves == nil && r.Ventricles == nil &&
		r.VentricularSeptum == nil && r.OutflowTracts == nil &&
		r.PulmonaryArteries == nil && r.AorticArch == nil &&
		r.OthersField == nil && r.Impression == nil
}

// PatientResponse represents the full patient record returned to clients
type PatientResponse struct {
	PatientID  string   `json:"patient_id"`
	Name       string   `json:"name"`
	DOB        *string  `json:"dob"`
	Age        string   `json:"age"`
	ReviewDate *string  `json:"review_date"`
	Sex        string   `json:"sex"`
	Weight     *float64 `json:"weight"`
	Phone1     string   `json:"phone1"`
	Phone2     string   `json:"phone2"`
	Location   string   `json:"location"`

	Diagnosis         string `json:"diagnosis"`
	SitusLoop         string `json:"situs_loop"`
	SystemicVeins     string `json:"systemic_veins"`
	PulmonaryVeins    string `json:"pulmonary_veins"`
	Atria             string `json:"atria"`
	AtrialSeptum      string `json:"atrial_septum"`
	AVValves          string `json:"av_valves"`
	Ventricles        string `json:"ventricles"`
	VentricularSeptum string `json:"ventricular_septum"`
	OutflowTracts     string `json:"outflow_tracts"`
	PulmonaryArteries string `json:"pulmonary_arteries"`
	AorticArch        string `json:"aortic_arch"`
	OthersField       string `json:"others_field"`
	Impression        string `json:"impression"`

	CreatedAt time.Time `json:"created_at"`
}

// PatientSummary is the projection returned by the list endpoint
type PatientSummary struct {
	PatientID string `json:"patient_id"`
	Name      string `json:"name"`
	Age       string `json:"age"`
	Location  string `json:"location"`
}
