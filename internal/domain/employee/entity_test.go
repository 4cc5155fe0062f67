package employee

import (
	"testing"

	"github.com/google/uuid"
)

func TestFromEmail(t *testing.T) {
	id := uuid.New()
	e := FromEmail(id, "  Jane.Doe@Example.com ")

	if e.ID != id {
		t.Fatalf("unexpected id")
	}
	if e.Username != "jane.doe" {
		t.Fatalf("expected username jane.doe, got %q", e.Username)
	}
	if e.FirstName != "Jane.doe" {
		t.Fatalf("expected first name Jane.doe, got %q", e.FirstName)
	}
	if e.Email != "jane.doe@example.com" {
		t.Fatalf("unexpected email %q", e.Email)
	}
}

func TestDisplayName(t *testing.T) {
	if got := (Employee{Username: "jd"}).DisplayName(); got != "jd" {
		t.Fatalf("expected username fallback, got %q", got)
	}
	if got := (Employee{FirstName: "Jane", LastName: "Doe"}).DisplayName(); got != "Jane Doe" {
		t.Fatalf("unexpected display name %q", got)
	}
}
