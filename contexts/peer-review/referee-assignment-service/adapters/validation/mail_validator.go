package validation

import (
	"net/mail"
	"strings"
)

// MailValidator accepts bare RFC 5322 addr-spec values with a dotted domain.
// Display names ("Ann <ann@x.org>") are rejected.
type MailValidator struct{}

func (MailValidator) IsEmailValid(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > 254 {
		return false
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") &&
		!strings.HasSuffix(domain, ".")
}
