package booking

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// DentistsBySpecialization returns the top-rated dentists for a care
// category, ordered by rating descending.
func (c *Client) DentistsBySpecialization(ctx context.Context, specialization string, limit int) ([]Dentist, error) {
	ctx, span := c.span(ctx, "booking.dentists_by_specialization",
		attribute.String("specialization", specialization))
	defer span.End()

	if limit <= 0 {
		limit = 3
	}
	query := url.Values{}
	query.Set("specialization", "eq."+specialization)
	query.Set("order", "rating.desc")
	query.Set("limit", strconv.Itoa(limit))

	var dentists []Dentist
	err := c.withRetry(ctx, "dentists_by_specialization", func() error {
		dentists = nil
		return c.do(ctx, http.MethodGet, "dentists", query, "", nil, &dentists)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	c.logger.Info("fetched dentists", "specialization", specialization, "count", len(dentists))
	return dentists, nil
}

// AvailableSlots returns persisted slot rows for a dentist within
// [start, start+days), restricted to available ones.
func (c *Client) AvailableSlots(ctx context.Context, dentistID uuid.UUID, start time.Time, days int) ([]Slot, error) {
	ctx, span := c.span(ctx, "booking.available_slots",
		attribute.String("dentist_id", dentistID.String()))
	defer span.End()

	end := start.AddDate(0, 0, days)
	query := url.Values{}
	query.Set("dentist_id", "eq."+dentistID.String())
	query.Set("date", "gte."+start.Format("2006-01-02"))
	query.Add("date", "lt."+end.Format("2006-01-02"))
	query.Set("is_available", "eq.true")

	var slots []Slot
	if err := c.do(ctx, http.MethodGet, "dentist_slots", query, "", nil, &slots); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return slots, nil
}

// UpsertPatient creates a patient or merges into the existing record with the
// same email. Safe to call repeatedly with identical input.
func (c *Client) UpsertPatient(ctx context.Context, in PatientInput) (*Patient, error) {
	ctx, span := c.span(ctx, "booking.upsert_patient")
	defer span.End()

	query := url.Values{}
	query.Set("on_conflict", "email")

	var patients []Patient
	err := c.withRetry(ctx, "upsert_patient", func() error {
		patients = nil
		return c.do(ctx, http.MethodPost, "patients", query,
			"resolution=merge-duplicates,return=representation", in, &patients)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(patients) == 0 {
		return nil, fmt.Errorf("booking: upsert patient returned no record")
	}
	c.logger.Info("patient upserted", "patient_id", patients[0].ID)
	return &patients[0], nil
}

// CreateAppointment books an appointment, enforcing idempotency: when an
// appointment with the same idempotency key already exists, the original
// record is returned and no new write is issued. The existence check and the
// insert are not atomic; concurrent creates with the same key can race
// (the store's uniqueness constraint, when present, decides the winner).
func (c *Client) CreateAppointment(ctx context.Context, in AppointmentInput) (*Appointment, error) {
	ctx, span := c.span(ctx, "booking.create_appointment",
		attribute.String("idempotency_key", in.IdempotencyKey))
	defer span.End()

	if existing, err := c.FindAppointmentByIdempotencyKey(ctx, in.IdempotencyKey); err == nil && existing != nil {
		c.logger.Info("duplicate appointment detected, returning existing",
			"appointment_id", existing.ID,
			"idempotency_key", in.IdempotencyKey,
		)
		c.metrics.ObserveBooking("duplicate")
		return existing, nil
	}

	if in.Status == "" {
		in.Status = "confirmed"
	}
	if in.BookingReference == "" {
		in.BookingReference = GenerateBookingReference()
	}

	var appointments []Appointment
	err := c.withRetry(ctx, "create_appointment", func() error {
		appointments = nil
		return c.do(ctx, http.MethodPost, "appointments", nil,
			"return=representation", in, &appointments)
	})
	if err != nil {
		span.RecordError(err)
		c.metrics.ObserveBooking("failed")
		return nil, err
	}
	if len(appointments) == 0 {
		c.metrics.ObserveBooking("failed")
		return nil, fmt.Errorf("booking: create appointment returned no record")
	}
	c.logger.Info("appointment created",
		"appointment_id", appointments[0].ID,
		"booking_reference", appointments[0].BookingReference,
	)
	c.metrics.ObserveBooking("created")
	return &appointments[0], nil
}

// FindAppointmentByIdempotencyKey looks up an appointment by its idempotency
// key. Lookup failures are logged and reported as not-found: the flow fails
// open toward allowing creation rather than blocking the booking.
func (c *Client) FindAppointmentByIdempotencyKey(ctx context.Context, key string) (*Appointment, error) {
	ctx, span := c.span(ctx, "booking.find_by_idempotency_key")
	defer span.End()

	query := url.Values{}
	query.Set("idempotency_key", "eq."+key)

	var appointments []Appointment
	if err := c.do(ctx, http.MethodGet, "appointments", query, "", nil, &appointments); err != nil {
		span.RecordError(err)
		c.logger.Error("idempotency key lookup failed, treating as not found",
			"idempotency_key", key,
			"error", err,
		)
		return nil, nil
	}
	if len(appointments) == 0 {
		return nil, nil
	}
	return &appointments[0], nil
}
