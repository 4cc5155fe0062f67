package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"teamleopard/internal/domain/employer"
	"teamleopard/internal/domain/session"
)

func TestProfiles_Employee_GetProvisionsAndUpdate(t *testing.T) {
	employees := newMockEmployeeRepo()
	uc := NewProfilesUsecase(employees, newMockEmployerRepo(), NewEmployeeProvisioner(employees, nil, nil), nil)
	sess := employeeSession()

	got, err := uc.Get(context.Background(), sess)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Employee == nil || got.Employer != nil {
		t.Fatalf("expected employee profile, got %+v", got)
	}

	updated, err := uc.Update(context.Background(), sess, ProfileInput{Bio: "Gopher", FirstName: "  ", CompanyName: "ignored"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Employee.Bio != "Gopher" {
		t.Fatalf("expected bio to be updated")
	}
	if updated.Employee.FirstName != got.Employee.FirstName {
		t.Fatalf("expected blank first name to keep the stored value")
	}
}

func TestProfiles_Employer(t *testing.T) {
	employers := newMockEmployerRepo()
	id := uuid.New()
	employers.rows[id] = employer.Employer{ID: id, CompanyName: "Leopard"}
	uc := NewProfilesUsecase(newMockEmployeeRepo(), employers, nil, nil)
	sess := session.Session{UserID: id, Role: session.RoleEmployer}

	updated, err := uc.Update(context.Background(), sess, ProfileInput{CompanyDescription: "Big cats", Bio: "ignored"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Employer.CompanyDescription != "Big cats" || updated.Employer.CompanyName != "Leopard" {
		t.Fatalf("unexpected employer: %+v", updated.Employer)
	}

	missing := session.Session{UserID: uuid.New(), Role: session.RoleEmployer}
	if _, err := uc.Get(context.Background(), missing); !errors.Is(err, employer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
