package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrAlreadyApplied = errors.New("already applied to this posting")
)

type Application struct {
	ID             int64
	EmployeeID     uuid.UUID
	JobPostingID   int64
	CoverLetter    string
	ResumeURL      string
	ResumeFileName string
	Status         string
	CreatedAt      time.Time
}
