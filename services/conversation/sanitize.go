package conversation

import (
	"strings"
	"unicode"
)

// Validation bounds for patient fields. These mirror Colombian cédula and
// phone formats loosely; the goal is catching typos, not verifying identity.
const (
	minNameLen   = 3
	minCedulaLen = 5
	maxCedulaLen = 12
	minPhoneLen  = 7
	maxPhoneLen  = 13
)

// digitsOnly strips everything but digits, so "300-123 4567" and "3001234567"
// normalize to the same value.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sanitizeName(s string) (string, bool) {
	name := strings.Join(strings.Fields(s), " ")
	if len([]rune(name)) < minNameLen {
		return "", false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) && r != '.' && r != '\'' && r != '-' {
			return "", false
		}
	}
	return name, true
}

func sanitizeCedula(s string) (string, bool) {
	id := digitsOnly(s)
	if len(id) < minCedulaLen || len(id) > maxCedulaLen {
		return "", false
	}
	return id, true
}

func sanitizePhone(s string) (string, bool) {
	phone := digitsOnly(s)
	if len(phone) < minPhoneLen || len(phone) > maxPhoneLen {
		return "", false
	}
	return phone, true
}
