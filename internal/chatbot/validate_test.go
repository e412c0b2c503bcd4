package chatbot

import "testing"

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"jane@example.com", true},
		{"jane.doe+dental@clinic.co.uk", true},
		{"  jane@example.com  ", true},
		{"jane@example", false},
		{"jane.example.com", false},
		{"@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validEmail(tt.email); got != tt.want {
			t.Errorf("validEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"5551234567", true},
		{"555-123-4567", true},
		{"(555) 123 4567", true},
		{"+15551234567", false}, // plus sign is not a digit
		{"123456789", false},    // too short
		{"1234567890123456", false},
		{"555123456a", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validPhone(tt.phone); got != tt.want {
			t.Errorf("validPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestCauseIdentified(t *testing.T) {
	tests := []struct {
		symptoms string
		want     bool
	}{
		{"tooth pain after biting something hard", true},
		{"my tooth hurts but I don't know why", false},
		{"not sure what's wrong, it just aches", false},
		{"I have no idea what caused it", false},
		{"Dont know, started yesterday", false},
	}
	for _, tt := range tests {
		if got := causeIdentified(tt.symptoms); got != tt.want {
			t.Errorf("causeIdentified(%q) = %v, want %v", tt.symptoms, got, tt.want)
		}
	}
}

func TestAffirmativeNegative(t *testing.T) {
	if !isAffirmative("Yes, please!") {
		t.Error("expected affirmative")
	}
	if !isAffirmative("ok") {
		t.Error("expected affirmative")
	}
	if isAffirmative("nothing for me") {
		t.Error("word-boundary match should not fire inside other words")
	}
	if !isNegative("no, another time") {
		t.Error("expected negative")
	}
	if isNegative("yes") {
		t.Error("did not expect negative")
	}
}
