package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"teamleopard/internal/database"
	"teamleopard/internal/domain/employee"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/infrastructure/authclient"
	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/repository"
)

// EmployeeProvisioner creates the Employee row for users who signed up
// before the row existed or through another client.
type EmployeeProvisioner struct {
	employees repository.EmployeeRepository
	auth      authclient.Client
	logger    *zap.Logger
}

func NewEmployeeProvisioner(employees repository.EmployeeRepository, auth authclient.Client, log *zap.Logger) *EmployeeProvisioner {
	return &EmployeeProvisioner{employees: employees, auth: auth, logger: logger.OrNop(log)}
}

// EnsureEmployeeRecord is a no-op when the row exists. Otherwise it fetches
// the auth profile and inserts a row derived from the email address.
func (p *EmployeeProvisioner) EnsureEmployeeRecord(ctx context.Context, sess session.Session) error {
	exists, err := p.employees.Exists(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	email := sess.Email
	if p.auth != nil && sess.AccessToken != "" {
		usr, err := p.auth.GetUser(ctx, sess.AccessToken)
		if err != nil {
			return err
		}
		if v := strings.TrimSpace(usr.Email); v != "" {
			email = v
		}
	}

	e := employee.FromEmail(sess.UserID, email)
	if err := p.employees.Create(ctx, e); err != nil {
		// Another request created it first.
		if database.IsUniqueViolation(err) {
			return nil
		}
		return err
	}
	p.logger.Info("employee record created", zap.Stringer("user_id", sess.UserID), zap.String("username", e.Username))
	return nil
}
