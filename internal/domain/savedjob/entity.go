package savedjob

import (
	"time"

	"github.com/google/uuid"
)

type SavedJob struct {
	EmployeeID   uuid.UUID
	JobPostingID int64
	SavedAt      time.Time
}
