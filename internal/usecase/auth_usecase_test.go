package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"teamleopard/internal/domain/session"
	"teamleopard/internal/infrastructure/authclient"
)

func TestAuth_SignUp_Employee(t *testing.T) {
	client := &fakeAuthClient{user: authclient.User{ID: uuid.New()}}
	employees := newMockEmployeeRepo()
	uc := NewAuthUsecase(client, employees, newMockEmployerRepo(), nil)

	res, err := uc.SignUp(context.Background(), SignUpInput{Email: " Jane@Example.com ", Password: "secret1", LastName: "Doe"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Role != session.RoleEmployee || res.HomeRoute != session.EmployeeDashboardRoute {
		t.Fatalf("unexpected result: %+v", res)
	}
	if client.metadata["role"] != "employee" {
		t.Fatalf("expected role metadata, got %v", client.metadata)
	}
	row, ok := employees.rows[client.user.ID]
	if !ok {
		t.Fatalf("expected employee row")
	}
	if row.Email != "jane@example.com" || row.Username != "jane" || row.LastName != "Doe" {
		t.Fatalf("unexpected employee row: %+v", row)
	}
}

func TestAuth_SignUp_Employer(t *testing.T) {
	client := &fakeAuthClient{user: authclient.User{ID: uuid.New()}}
	employers := newMockEmployerRepo()
	uc := NewAuthUsecase(client, newMockEmployeeRepo(), employers, nil)

	if _, err := uc.SignUp(context.Background(), SignUpInput{Email: "hr@acme.io", Password: "secret1", Role: session.RoleEmployer}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without company name, got %v", err)
	}

	res, err := uc.SignUp(context.Background(), SignUpInput{Email: "hr@acme.io", Password: "secret1", Role: session.RoleEmployer, CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.HomeRoute != session.EmployerDashboardRoute {
		t.Fatalf("unexpected home route %q", res.HomeRoute)
	}
	if employers.rows[client.user.ID].CompanyName != "Acme" {
		t.Fatalf("expected employer row")
	}
}

func TestAuth_SignUp_Errors(t *testing.T) {
	uc := NewAuthUsecase(&fakeAuthClient{signUpErr: authclient.ErrUserExists}, newMockEmployeeRepo(), newMockEmployerRepo(), nil)

	if _, err := uc.SignUp(context.Background(), SignUpInput{Email: "not-an-email", Password: "secret1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.SignUp(context.Background(), SignUpInput{Email: "a@b.co", Password: "123"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
	if _, err := uc.SignUp(context.Background(), SignUpInput{Email: "a@b.co", Password: "secret1"}); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestAuth_SignIn(t *testing.T) {
	id := uuid.New()
	client := &fakeAuthClient{session: authclient.Session{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600, User: authclient.User{ID: id}}}
	uc := NewAuthUsecase(client, newMockEmployeeRepo(), newMockEmployerRepo(), nil)

	res, err := uc.SignIn(context.Background(), SignInInput{Email: "a@b.co", Password: "x"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.AccessToken != "a" || res.Role != session.RoleEmployee || res.UserID != id {
		t.Fatalf("unexpected result: %+v", res)
	}

	client.signInErr = authclient.ErrInvalidCredentials
	if _, err := uc.SignIn(context.Background(), SignInInput{Email: "a@b.co", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
