package chatbot

import "strings"

// Intent classifies what the user wants from their free-text message.
type Intent string

const (
	IntentBooking        Intent = "BOOKING"
	IntentDentistInfo    Intent = "DENTIST_INFO"
	IntentPayment        Intent = "PAYMENT"
	IntentGeneralInquiry Intent = "GENERAL_INQUIRY"
	IntentUnknown        Intent = "UNKNOWN"
)

// IntentRule pairs an intent with the keywords that trigger it. Rules are
// evaluated in declaration order; the first rule with a matching keyword wins.
type IntentRule struct {
	Intent   Intent
	Keywords []string
}

// DefaultIntentRules returns the built-in keyword table.
func DefaultIntentRules() []IntentRule {
	return []IntentRule{
		{IntentBooking, []string{"book", "appointment", "schedule", "reserve", "visit"}},
		{IntentDentistInfo, []string{"dentist", "doctor", "specialist", "who", "available"}},
		{IntentPayment, []string{"pay", "payment", "cost", "price", "insurance", "bill"}},
		{IntentGeneralInquiry, []string{"help", "question", "info", "information", "tell me"}},
	}
}

// IntentClassifier maps free text to an intent by case-insensitive substring
// matching against an ordered rule table. Deterministic and side-effect-free.
//
// The rule table is fixed at construction so a model-backed classifier can be
// substituted without touching the state machine.
type IntentClassifier struct {
	rules []IntentRule
}

// NewIntentClassifier creates a classifier over the given ordered rules.
func NewIntentClassifier(rules []IntentRule) *IntentClassifier {
	return &IntentClassifier{rules: rules}
}

// Classify returns the first intent whose keyword appears in the text, or
// IntentUnknown when nothing matches.
func (c *IntentClassifier) Classify(text string) Intent {
	lower := strings.ToLower(text)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Intent
			}
		}
	}
	return IntentUnknown
}
