package chatbot

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// validEmail reports whether the input looks like an email address.
func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	return emailPattern.MatchString(email)
}

// normalizePhone strips spaces, dashes and parentheses.
func normalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}

// validPhone reports whether the input is a 10-15 digit phone number once
// common separators are removed.
func validPhone(phone string) bool {
	return phonePattern.MatchString(normalizePhone(phone))
}

// uncertaintyPhrases signal the patient does not know the cause of their
// symptoms.
var uncertaintyPhrases = []string{
	"don't know",
	"dont know",
	"do not know",
	"not sure",
	"unsure",
	"no idea",
}

// causeIdentified reports whether the symptom text affirmatively states a
// cause, i.e. carries no uncertainty phrasing.
func causeIdentified(symptoms string) bool {
	lower := strings.ToLower(symptoms)
	for _, phrase := range uncertaintyPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}

// affirmative and negative keyword sets for slot confirmation.
var (
	affirmativeWords = []string{"yes", "yeah", "yep", "sure", "confirm", "ok", "okay"}
	negativeWords    = []string{"no", "nope", "change", "different", "another", "back"}
)

func isAffirmative(text string) bool {
	return containsWord(text, affirmativeWords)
}

func isNegative(text string) bool {
	return containsWord(text, negativeWords)
}

func containsWord(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, field := range strings.FieldsFunc(lower, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '!' || r == '?'
	}) {
		for _, w := range words {
			if field == w {
				return true
			}
		}
	}
	return false
}
