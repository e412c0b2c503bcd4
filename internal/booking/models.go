// Package booking talks to the clinic's Supabase backend: dentists, patients,
// appointment slots and idempotent appointment creation.
package booking

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Patient is a patient record in the remote store. Email is the unique merge
// key: upserting with an existing email updates that record in place.
type Patient struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// PatientInput is the payload for creating or merging a patient.
type PatientInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Dentist is a provider record. Availability carries the raw weekly schedule
// JSONB ({"monday": ["09:00", "14:00"], ...}) when the dentist uses structured
// availability, or null when slots live in the normalized table instead.
type Dentist struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Specialization string          `json:"specialization"`
	Rating         float64         `json:"rating"`
	Availability   json.RawMessage `json:"availability"`
	CreatedAt      time.Time       `json:"created_at"`
}

// WeeklySchedule decodes the structured availability mapping. Returns nil when
// the field is absent, null, or not a day-name to time-list object.
func (d Dentist) WeeklySchedule() map[string][]string {
	if len(d.Availability) == 0 {
		return nil
	}
	var schedule map[string][]string
	if err := json.Unmarshal(d.Availability, &schedule); err != nil {
		return nil
	}
	return schedule
}

// Slot is a bookable opening. Dates are "2006-01-02", times "15:04".
// Slots are computed on demand and never persisted by this service.
type Slot struct {
	DentistID uuid.UUID `json:"dentist_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Available bool      `json:"is_available"`
}

// Appointment is a booked appointment. At most one appointment exists per
// idempotency key; repeated creates with the same key return the original
// record unchanged.
type Appointment struct {
	ID               uuid.UUID `json:"id"`
	PatientID        uuid.UUID `json:"patient_id"`
	DentistID        uuid.UUID `json:"dentist_id"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Status           string    `json:"status"`
	Symptoms         string    `json:"symptoms"`
	CauseIdentified  bool      `json:"cause_identified"`
	UncertaintyNote  string    `json:"uncertainty_note,omitempty"`
	IdempotencyKey   string    `json:"idempotency_key"`
	BookingReference string    `json:"booking_reference"`
	CreatedAt        time.Time `json:"created_at"`
}

// AppointmentInput is the payload for creating an appointment.
type AppointmentInput struct {
	PatientID        uuid.UUID `json:"patient_id"`
	DentistID        uuid.UUID `json:"dentist_id"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Status           string    `json:"status"`
	Symptoms         string    `json:"symptoms"`
	CauseIdentified  bool      `json:"cause_identified"`
	UncertaintyNote  string    `json:"uncertainty_note,omitempty"`
	IdempotencyKey   string    `json:"idempotency_key"`
	BookingReference string    `json:"booking_reference"`
}
