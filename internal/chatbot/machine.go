package chatbot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yousiff139-lang/aqua-dent-link-main/internal/booking"
	"github.com/yousiff139-lang/aqua-dent-link-main/internal/session"
	"github.com/yousiff139-lang/aqua-dent-link-main/pkg/logging"
)

// Session data keys for collected fields.
const (
	dataName             = "name"
	dataEmail            = "email"
	dataPhone            = "phone"
	dataSymptoms         = "symptoms"
	dataCauseIdentified  = "cause_identified"
	dataSpecialization   = "specialization"
	dataDentistID        = "dentist_id"
	dataDentistName      = "dentist_name"
	dataProposedSlots    = "proposed_slots"
	dataChosenDate       = "chosen_date"
	dataChosenTime       = "chosen_time"
	dataIdempotencyKey   = "idempotency_key"
	dataBookingReference = "booking_reference"
)

const maxProposedSlots = 8

// DentistDirectory looks up providers for a care category.
type DentistDirectory interface {
	DentistsBySpecialization(ctx context.Context, specialization string, limit int) ([]booking.Dentist, error)
}

// AvailabilityResolver produces candidate slots for a dentist. Absence of
// slots is a valid outcome, not an error.
type AvailabilityResolver interface {
	Resolve(ctx context.Context, dentist booking.Dentist, start time.Time, days int) []booking.Slot
}

// Gateway writes patients and appointments to the remote store.
type Gateway interface {
	UpsertPatient(ctx context.Context, in booking.PatientInput) (*booking.Patient, error)
	CreateAppointment(ctx context.Context, in booking.AppointmentInput) (*booking.Appointment, error)
}

// Reply is the outbound side of a turn.
type Reply struct {
	Message  string
	Options  []string
	Metadata map[string]any
	Step     Step
}

// Machine drives the scripted booking dialog. A turn is a pure function of
// the current step, collected data and input; external calls happen only in
// the terminal steps (availability fetch, appointment save). The machine
// mutates the session it is handed; on error the caller must discard the
// session instead of persisting it, which keeps the stored step unchanged and
// the turn retryable.
type Machine struct {
	intents         *IntentClassifier
	specializations *SpecializationMapper
	directory       DentistDirectory
	availability    AvailabilityResolver
	gateway         Gateway
	logger          *logging.Logger
	windowDays      int
	dentistLimit    int
}

// NewMachine creates a conversation state machine.
func NewMachine(
	intents *IntentClassifier,
	specializations *SpecializationMapper,
	directory DentistDirectory,
	availability AvailabilityResolver,
	gateway Gateway,
	logger *logging.Logger,
) *Machine {
	if logger == nil {
		logger = logging.Default()
	}
	return &Machine{
		intents:         intents,
		specializations: specializations,
		directory:       directory,
		availability:    availability,
		gateway:         gateway,
		logger:          logger,
		windowDays:      7,
		dentistLimit:    3,
	}
}

// WithSearchWindow overrides the forward availability window in days.
func (m *Machine) WithSearchWindow(days int) *Machine {
	if days > 0 {
		m.windowDays = days
	}
	return m
}

// WithDentistLimit overrides how many top-rated dentists are considered.
func (m *Machine) WithDentistLimit(n int) *Machine {
	if n > 0 {
		m.dentistLimit = n
	}
	return m
}

// ProcessTurn consumes one user message and advances the conversation.
func (m *Machine) ProcessTurn(ctx context.Context, sess *session.Session, text string) (*Reply, error) {
	text = strings.TrimSpace(text)

	reply, err := m.handle(ctx, sess, text)
	if err != nil {
		return nil, err
	}
	reply.Step = Step(sess.Step)
	return reply, nil
}

func (m *Machine) handle(ctx context.Context, sess *session.Session, text string) (*Reply, error) {
	switch Step(sess.Step) {
	case StepStart:
		sess.Step = string(nextStep(StepStart, inputAny))
		// On first contact an unrecognized message gets the greeting menu
		// rather than the clarification prompt.
		return m.handleIntent(sess, text, msgGreeting)
	case StepIntentDetected:
		return m.handleIntent(sess, text, msgUnknownIntent)
	case StepCollectName:
		return m.handleName(sess, text)
	case StepCollectEmail:
		return m.handleEmail(sess, text)
	case StepCollectPhone:
		return m.handlePhone(sess, text)
	case StepCollectSymptoms:
		return m.handleSymptoms(ctx, sess, text)
	case StepProposeSlot:
		return m.handleSlotSelection(sess, text)
	case StepConfirmSlot:
		return m.handleConfirmation(ctx, sess, text)
	case StepPaymentOffer:
		sess.Step = string(nextStep(StepPaymentOffer, inputAny))
		return &Reply{Message: msgGoodbye}, nil
	case StepDone:
		return nil, ErrSessionNotFound(sess.ID)
	default:
		return nil, &Error{
			Kind:    KindInternal,
			Message: "An unexpected error occurred.",
			Err:     fmt.Errorf("chatbot: session %s at unknown step %q", sess.ID, sess.Step),
		}
	}
}

func (m *Machine) handleIntent(sess *session.Session, text, fallback string) (*Reply, error) {
	intent := m.intents.Classify(text)
	m.logger.Info("intent detected", "session_id", sess.ID, "intent", string(intent))

	switch intent {
	case IntentBooking:
		sess.Step = string(nextStep(StepIntentDetected, inputBooking))
		return &Reply{Message: msgAskName}, nil
	case IntentDentistInfo:
		sess.Step = string(nextStep(StepIntentDetected, inputOtherIntent))
		return &Reply{Message: msgDentistInfo}, nil
	case IntentPayment:
		sess.Step = string(nextStep(StepIntentDetected, inputOtherIntent))
		return &Reply{Message: msgPaymentInfo}, nil
	case IntentGeneralInquiry:
		sess.Step = string(nextStep(StepIntentDetected, inputOtherIntent))
		return &Reply{Message: msgGeneralInfo}, nil
	default:
		// Unknown intent re-prompts; the step does not move.
		return &Reply{Message: fallback}, nil
	}
}

func (m *Machine) handleName(sess *session.Session, text string) (*Reply, error) {
	if text == "" {
		return &Reply{Message: msgInvalidName}, nil
	}
	sess.Data[dataName] = text
	sess.Step = string(nextStep(StepCollectName, inputValid))
	return &Reply{Message: msgAskEmail(text)}, nil
}

func (m *Machine) handleEmail(sess *session.Session, text string) (*Reply, error) {
	if !validEmail(text) {
		return &Reply{Message: msgInvalidEmail}, nil
	}
	sess.Data[dataEmail] = strings.TrimSpace(text)
	sess.Step = string(nextStep(StepCollectEmail, inputValid))
	return &Reply{Message: msgAskPhone}, nil
}

func (m *Machine) handlePhone(sess *session.Session, text string) (*Reply, error) {
	if !validPhone(text) {
		return &Reply{Message: msgInvalidPhone}, nil
	}
	sess.Data[dataPhone] = normalizePhone(text)
	sess.Step = string(nextStep(StepCollectPhone, inputValid))
	return &Reply{Message: msgAskSymptoms}, nil
}

// handleSymptoms stores the symptom text and cascades through the automatic
// steps: specialization mapping, dentist lookup and slot resolution all run
// within this turn without further user input.
func (m *Machine) handleSymptoms(ctx context.Context, sess *session.Session, text string) (*Reply, error) {
	if text == "" {
		return &Reply{Message: msgAskSymptoms}, nil
	}
	sess.Data[dataSymptoms] = text
	sess.Data[dataCauseIdentified] = strconv.FormatBool(causeIdentified(text))
	sess.Step = string(nextStep(StepCollectSymptoms, inputValid))

	m.suggestSpecialization(sess)
	return m.fetchAvailability(ctx, sess)
}

func (m *Machine) suggestSpecialization(sess *session.Session) {
	specialization := m.specializations.Map(sess.Data[dataSymptoms])
	sess.Data[dataSpecialization] = specialization
	sess.Step = string(nextStep(StepSuggestSpecialization, inputNone))
	m.logger.Info("specialization suggested",
		"session_id", sess.ID, "specialization", specialization)
}

func (m *Machine) fetchAvailability(ctx context.Context, sess *session.Session) (*Reply, error) {
	specialization := sess.Data[dataSpecialization]

	dentists, err := m.directory.DentistsBySpecialization(ctx, specialization, m.dentistLimit)
	if err != nil {
		return nil, ErrUpstream(err)
	}
	if len(dentists) == 0 {
		sess.Step = string(nextStep(StepFetchAvailability, inputInvalid))
		return &Reply{Message: msgNoAvailability}, nil
	}

	top := dentists[0]
	start := time.Now().UTC()
	slots := m.availability.Resolve(ctx, top, start, m.windowDays)
	if len(slots) == 0 {
		sess.Step = string(nextStep(StepFetchAvailability, inputInvalid))
		return &Reply{Message: msgNoAvailability}, nil
	}
	if len(slots) > maxProposedSlots {
		slots = slots[:maxProposedSlots]
	}

	encoded, err := json.Marshal(slots)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: "An unexpected error occurred.", Err: err}
	}
	sess.Data[dataProposedSlots] = string(encoded)
	sess.Data[dataDentistID] = top.ID.String()
	sess.Data[dataDentistName] = top.Name
	sess.Step = string(nextStep(StepFetchAvailability, inputNone))

	return &Reply{
		Message:  msgProposeSlots(top.Name, specialization),
		Options:  slotOptions(slots),
		Metadata: map[string]any{"specialization": specialization, "dentist_id": top.ID.String()},
	}, nil
}

func (m *Machine) handleSlotSelection(sess *session.Session, text string) (*Reply, error) {
	slots, err := m.proposedSlots(sess)
	if err != nil {
		return nil, err
	}

	idx, ok := parseSelection(text, len(slots))
	if !ok {
		return &Reply{Message: msgInvalidSlot, Options: slotOptions(slots)}, nil
	}

	chosen := slots[idx]
	sess.Data[dataChosenDate] = chosen.Date
	sess.Data[dataChosenTime] = chosen.Time
	sess.Step = string(nextStep(StepProposeSlot, inputValid))

	return &Reply{
		Message: msgConfirmSlot(chosen.Date, chosen.Time, sess.Data[dataDentistName]),
		Options: []string{"yes", "no"},
	}, nil
}

func (m *Machine) handleConfirmation(ctx context.Context, sess *session.Session, text string) (*Reply, error) {
	switch {
	case isAffirmative(text):
		sess.Step = string(nextStep(StepConfirmSlot, inputAffirm))
		return m.saveAppointment(ctx, sess)
	case isNegative(text):
		sess.Step = string(nextStep(StepConfirmSlot, inputReject))
		slots, err := m.proposedSlots(sess)
		if err != nil {
			return nil, err
		}
		return &Reply{
			Message: msgProposeSlots(sess.Data[dataDentistName], sess.Data[dataSpecialization]),
			Options: slotOptions(slots),
		}, nil
	default:
		return &Reply{Message: msgConfirmAgain, Options: []string{"yes", "no"}}, nil
	}
}

// saveAppointment upserts the patient and books the chosen slot. The
// idempotency key is derived deterministically from the session and slot, so
// a retried turn converges on the same appointment.
func (m *Machine) saveAppointment(ctx context.Context, sess *session.Session) (*Reply, error) {
	key := idempotencyKey(sess.ID, sess.Data[dataDentistID], sess.Data[dataChosenDate], sess.Data[dataChosenTime])
	sess.Data[dataIdempotencyKey] = key

	patient, err := m.gateway.UpsertPatient(ctx, booking.PatientInput{
		Name:  sess.Data[dataName],
		Email: sess.Data[dataEmail],
		Phone: sess.Data[dataPhone],
	})
	if err != nil {
		return nil, ErrUpstream(err)
	}

	dentistID, err := uuid.Parse(sess.Data[dataDentistID])
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: "An unexpected error occurred.", Err: err}
	}

	identified := sess.Data[dataCauseIdentified] != "false"
	input := booking.AppointmentInput{
		PatientID:       patient.ID,
		DentistID:       dentistID,
		Date:            sess.Data[dataChosenDate],
		Time:            sess.Data[dataChosenTime],
		Status:          "confirmed",
		Symptoms:        sess.Data[dataSymptoms],
		CauseIdentified: identified,
		IdempotencyKey:  key,
	}
	if !identified {
		input.UncertaintyNote = "Patient reports symptoms but is unsure of the cause."
	}

	appointment, err := m.gateway.CreateAppointment(ctx, input)
	if err != nil {
		return nil, ErrUpstream(err)
	}

	sess.Data[dataBookingReference] = appointment.BookingReference
	sess.Step = string(nextStep(StepSaveAppointment, inputNone))

	return &Reply{
		Message: msgBooked(appointment.BookingReference, appointment.Date, appointment.Time, sess.Data[dataDentistName]),
		Metadata: map[string]any{
			"appointment_id":    appointment.ID.String(),
			"booking_reference": appointment.BookingReference,
		},
	}, nil
}

func (m *Machine) proposedSlots(sess *session.Session) ([]booking.Slot, error) {
	var slots []booking.Slot
	if err := json.Unmarshal([]byte(sess.Data[dataProposedSlots]), &slots); err != nil || len(slots) == 0 {
		return nil, &Error{
			Kind:    KindInternal,
			Message: "An unexpected error occurred.",
			Err:     fmt.Errorf("chatbot: session %s has no proposed slots: %w", sess.ID, err),
		}
	}
	return slots, nil
}

// parseSelection accepts a 1-based option number, bare or as a "3." style
// prefix.
func parseSelection(text string, n int) (int, bool) {
	text = strings.TrimSpace(text)
	if dot := strings.IndexAny(text, ". )"); dot > 0 {
		text = text[:dot]
	}
	idx, err := strconv.Atoi(text)
	if err != nil || idx < 1 || idx > n {
		return 0, false
	}
	return idx - 1, true
}

func slotOptions(slots []booking.Slot) []string {
	options := make([]string, 0, len(slots))
	for i, s := range slots {
		options = append(options, fmt.Sprintf("%d. %s at %s", i+1, s.Date, s.Time))
	}
	return options
}

// idempotencyKey is stable across retries of the same turn: same session and
// slot always derive the same key.
func idempotencyKey(sessionID, dentistID, date, timeOfDay string) string {
	sum := sha256.Sum256([]byte(sessionID + "|" + dentistID + "|" + date + "|" + timeOfDay))
	return hex.EncodeToString(sum[:])
}
