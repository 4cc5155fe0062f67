package dto

import (
	"github.com/google/uuid"

	"teamleopard/internal/domain/employee"
	"teamleopard/internal/domain/employer"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/usecase"
)

type SessionResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	HomeRoute string    `json:"home_route"`
}

func NewSessionResponse(s session.Session) SessionResponse {
	return SessionResponse{UserID: s.UserID, Email: s.Email, Role: string(s.Role), HomeRoute: s.HomeRoute()}
}

type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresIn    int       `json:"expires_in,omitempty"`
	HomeRoute    string    `json:"home_route"`
}

func NewAuthResponse(r usecase.AuthResult) AuthResponse {
	return AuthResponse{
		UserID:       r.UserID,
		Email:        r.Email,
		Role:         string(r.Role),
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    r.ExpiresIn,
		HomeRoute:    r.HomeRoute,
	}
}

type EmployeeProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	Bio         string    `json:"bio"`
	DisplayName string    `json:"display_name"`
}

type EmployerProfileResponse struct {
	ID                 uuid.UUID `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	CompanyName        string    `json:"company_name"`
	CompanyDescription string    `json:"company_description"`
	PhoneNumber        string    `json:"phone_number"`
}

type ProfileResponse struct {
	Role     string                   `json:"role"`
	Employee *EmployeeProfileResponse `json:"employee,omitempty"`
	Employer *EmployerProfileResponse `json:"employer,omitempty"`
}

func NewProfileResponse(p usecase.Profile) ProfileResponse {
	out := ProfileResponse{Role: string(p.Role)}
	if p.Employee != nil {
		out.Employee = newEmployeeProfile(*p.Employee)
	}
	if p.Employer != nil {
		out.Employer = newEmployerProfile(*p.Employer)
	}
	return out
}

func newEmployeeProfile(e employee.Employee) *EmployeeProfileResponse {
	return &EmployeeProfileResponse{
		ID:          e.ID,
		Username:    e.Username,
		Email:       e.Email,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		PhoneNumber: e.PhoneNumber,
		Bio:         e.Bio,
		DisplayName: e.DisplayName(),
	}
}

func newEmployerProfile(e employer.Employer) *EmployerProfileResponse {
	return &EmployerProfileResponse{
		ID:                 e.ID,
		Username:           e.Username,
		Email:              e.Email,
		CompanyName:        e.CompanyName,
		CompanyDescription: e.CompanyDescription,
		PhoneNumber:        e.PhoneNumber,
	}
}
