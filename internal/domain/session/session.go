// Package session describes the signed-in user as resolved once per request.
package session

import (
	"github.com/google/uuid"

	"teamleopard/internal/domain/notification"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleEmployer Role = "employer"
)

const (
	LoginRoute             = "/login"
	EmployeeDashboardRoute = "/dashboard"
	EmployerDashboardRoute = "/employer/dashboard"
)

type Session struct {
	UserID      uuid.UUID
	Email       string
	Role        Role
	AccessToken string
}

// HomeRoute is where the portal sends the user after sign-in.
func (s Session) HomeRoute() string {
	if s.UserID == uuid.Nil {
		return LoginRoute
	}
	if s.Role == RoleEmployer {
		return EmployerDashboardRoute
	}
	return EmployeeDashboardRoute
}

func (s Session) IsEmployer() bool {
	return s.Role == RoleEmployer
}

// Receiver addresses the session user's side of the Notifications table.
func (s Session) Receiver() notification.Receiver {
	if s.IsEmployer() {
		return notification.EmployerReceiver(s.UserID)
	}
	return notification.EmployeeReceiver(s.UserID)
}
