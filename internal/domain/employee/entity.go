package employee

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("employee not found")

type Employee struct {
	ID          uuid.UUID
	Username    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Bio         string
}

// FromEmail builds the default record created for a user that has no
// Employee row yet. Username and first name come from the email local part.
func FromEmail(id uuid.UUID, email string) Employee {
	email = strings.ToLower(strings.TrimSpace(email))
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}
	return Employee{
		ID:        id,
		Username:  local,
		Email:     email,
		FirstName: capitalize(local),
	}
}

func (e Employee) DisplayName() string {
	name := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if name != "" {
		return name
	}
	return e.Username
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
