package service

import (
	"net/mail"
	"regexp"
	"strings"
)

// maxEmailLength bounds stored emails. Longer addresses are technically
// legal but nothing legitimate sends them to a signup form.
const maxEmailLength = 100

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// normalizeEmail validates the raw address and returns its canonical form:
// trimmed and lowercased. Validation happens before any side effect, so a
// bad email never creates rows or sends mail.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || len(email) > maxEmailLength {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", ErrInvalidEmail
	}
	// Reject display-name forms like "Alice <a@b.com>"; we want a bare
	// address only.
	if addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// validateCodeFormat rejects anything that is not exactly six digits.
func validateCodeFormat(code string) error {
	if !codePattern.MatchString(code) {
		return ErrInvalidCode
	}
	return nil
}
