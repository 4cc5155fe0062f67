package posting

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEncodeDecodeSkills(t *testing.T) {
	raw, err := EncodeSkills([]string{" Go ", "go", "", "PostgreSQL"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if raw != `["Go","PostgreSQL"]` {
		t.Fatalf("unexpected encoding %s", raw)
	}

	skills := Posting{ExpectedSkills: raw}.Skills()
	if len(skills) != 2 || skills[1] != "PostgreSQL" {
		t.Fatalf("unexpected decode %v", skills)
	}
}

func TestDecodeSkills_Malformed(t *testing.T) {
	if got := DecodeSkills("Go, Docker"); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	ok := Posting{Title: "Engineer", EmploymentType: "Full-time", CompanyID: uuid.New(), PostedAt: now}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	missingTitle := ok
	missingTitle.Title = " "
	if err := missingTitle.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	badDeadline := ok
	badDeadline.Deadline = &past
	if err := badDeadline.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for deadline, got %v", err)
	}
}

func TestAcceptsApplications(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	at := func(tm time.Time) *time.Time { return &tm }

	cases := []struct {
		name string
		p    Posting
		want bool
	}{
		{"open without deadline", Posting{Status: StatusOpen}, true},
		{"closed", Posting{Status: StatusClosed}, false},
		{"deadline ahead", Posting{Status: StatusOpen, Deadline: at(now.Add(time.Hour))}, true},
		{"deadline passed", Posting{Status: StatusOpen, Deadline: at(now.Add(-time.Hour))}, false},
		{"date deadline today", Posting{Status: StatusOpen, Deadline: at(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))}, true},
		{"date deadline yesterday", Posting{Status: StatusOpen, Deadline: at(time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC))}, false},
	}
	for _, tc := range cases {
		if got := tc.p.AcceptsApplications(now); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
