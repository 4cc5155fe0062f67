package posting

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("job posting not found")
	ErrInvalidInput = errors.New("invalid job posting")
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Posting is a Job_Posting row. SalaryRange is free text and
// ExpectedSkills is stored as a JSON-encoded string array.
type Posting struct {
	ID             int64
	Title          string
	Description    string
	Location       string
	EmploymentType string
	SalaryRange    string
	Status         string
	PostedAt       time.Time
	Deadline       *time.Time
	ExpectedSkills string
	CompanyID      uuid.UUID
}

// Skills decodes ExpectedSkills. Malformed values decode to an empty list.
func (p Posting) Skills() []string {
	return DecodeSkills(p.ExpectedSkills)
}

func DecodeSkills(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}

// EncodeSkills trims, drops empties and de-duplicates (case-insensitive)
// before encoding.
func EncodeSkills(skills []string) (string, error) {
	seen := make(map[string]struct{}, len(skills))
	clean := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		clean = append(clean, s)
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (p Posting) IsOpen() bool {
	return strings.EqualFold(strings.TrimSpace(p.Status), StatusOpen)
}

// AcceptsApplications reports whether p is open and its deadline, if any,
// has not passed at now. A deadline at midnight is a date and lasts the day.
func (p Posting) AcceptsApplications(now time.Time) bool {
	if !p.IsOpen() {
		return false
	}
	if p.Deadline == nil {
		return true
	}
	closes := p.Deadline.UTC()
	if closes.Equal(closes.Truncate(24 * time.Hour)) {
		closes = closes.Add(24 * time.Hour)
	}
	return now.UTC().Before(closes)
}

// Validate checks the fields the posting form requires.
func (p Posting) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(p.EmploymentType) == "" {
		return ErrInvalidInput
	}
	if p.CompanyID == uuid.Nil {
		return ErrInvalidInput
	}
	if p.Deadline != nil && !p.PostedAt.IsZero() && p.Deadline.Before(p.PostedAt) {
		return ErrInvalidInput
	}
	return nil
}
