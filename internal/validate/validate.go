package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Contact form limits in characters, enforced by /send-email.
const (
	MaxEmailLength   = 254
	MaxMessageLength = 5000
)

const MissingFields = "Error: Missing required fields"

func checkLen(value string, max int, field string) string {
	if utf8.RuneCountInString(value) > max {
		return fmt.Sprintf("Error: %s must be %d characters or fewer", field, max)
	}
	return ""
}

func Email(s string) string {
	if msg := checkLen(s, MaxEmailLength, "email"); msg != "" {
		return msg
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return "Error: Invalid email address"
	}
	return ""
}

func Message(s string) string { return checkLen(s, MaxMessageLength, "message") }

// Contact returns the first problem with a submission, or "" when it is
// acceptable.
func Contact(email, message string) string {
	if email == "" || message == "" {
		return MissingFields
	}
	if msg := Email(email); msg != "" {
		return msg
	}
	return Message(message)
}
