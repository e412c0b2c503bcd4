package chatbot

// Step identifies where a conversation stands. Progression is a fixed linear
// script with a single back-edge (slot rejection).
type Step string

const (
	StepStart                 Step = "START"
	StepIntentDetected        Step = "INTENT_DETECTED"
	StepCollectName           Step = "COLLECT_NAME"
	StepCollectEmail          Step = "COLLECT_EMAIL"
	StepCollectPhone          Step = "COLLECT_PHONE"
	StepCollectSymptoms       Step = "COLLECT_SYMPTOMS"
	StepSuggestSpecialization Step = "SUGGEST_SPECIALIZATION"
	StepFetchAvailability     Step = "FETCH_AVAILABILITY"
	StepProposeSlot           Step = "PROPOSE_SLOT"
	StepConfirmSlot           Step = "CONFIRM_SLOT"
	StepSaveAppointment       Step = "SAVE_APPOINTMENT"
	StepPaymentOffer          Step = "PAYMENT_OFFER"
	StepDone                  Step = "DONE"
)

// inputClass is the validated category of user input at a step. The transition
// table maps (current step, input class) to the next step; everything else
// about a step (messages, side effects) lives in its handler.
type inputClass int

const (
	// inputAny covers steps that advance regardless of content.
	inputAny inputClass = iota
	// inputValid is input that passed the step's validation.
	inputValid
	// inputInvalid re-prompts the same step.
	inputInvalid
	// inputBooking through inputUnknownIntent classify the detected intent.
	inputBooking
	inputOtherIntent
	inputUnknownIntent
	// inputAffirm and inputReject classify a yes/no answer.
	inputAffirm
	inputReject
	// inputNone drives auto-steps that consume no user input.
	inputNone
)

// transitions is the canonical step order. Pairs absent from the table keep
// the current step (re-prompt).
var transitions = map[Step]map[inputClass]Step{
	StepStart: {
		inputAny: StepIntentDetected,
	},
	StepIntentDetected: {
		inputBooking:     StepCollectName,
		inputOtherIntent: StepDone,
	},
	StepCollectName: {
		inputValid: StepCollectEmail,
	},
	StepCollectEmail: {
		inputValid: StepCollectPhone,
	},
	StepCollectPhone: {
		inputValid: StepCollectSymptoms,
	},
	StepCollectSymptoms: {
		inputValid: StepSuggestSpecialization,
	},
	StepSuggestSpecialization: {
		inputNone: StepFetchAvailability,
	},
	StepFetchAvailability: {
		inputNone:    StepProposeSlot,
		inputInvalid: StepDone, // no providers or no slots to offer
	},
	StepProposeSlot: {
		inputValid: StepConfirmSlot,
	},
	StepConfirmSlot: {
		inputAffirm: StepSaveAppointment,
		inputReject: StepProposeSlot,
	},
	StepSaveAppointment: {
		inputNone: StepPaymentOffer,
	},
	StepPaymentOffer: {
		inputAny: StepDone,
	},
}

// nextStep resolves the transition table; unmapped inputs stay put.
func nextStep(current Step, in inputClass) Step {
	if row, ok := transitions[current]; ok {
		if next, ok := row[in]; ok {
			return next
		}
	}
	return current
}
