package employer

import (
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("employer not found")

type Employer struct {
	ID                 uuid.UUID
	Username           string
	Email              string
	CompanyName        string
	CompanyDescription string
	PhoneNumber        string
}
