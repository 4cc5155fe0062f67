package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"teamleopard/internal/domain/employee"
	"teamleopard/internal/domain/employer"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/repository"
)

// Profile holds exactly one of Employee and Employer, matching Role.
type Profile struct {
	Role     session.Role
	Employee *employee.Employee
	Employer *employer.Employer
}

// ProfileInput fields that do not apply to the session's role are ignored.
type ProfileInput struct {
	Username           string
	PhoneNumber        string
	FirstName          string
	LastName           string
	Bio                string
	CompanyName        string
	CompanyDescription string
}

type Profiles struct {
	employees   repository.EmployeeRepository
	employers   repository.EmployerRepository
	provisioner *EmployeeProvisioner
	logger      *zap.Logger
}

func NewProfilesUsecase(employees repository.EmployeeRepository, employers repository.EmployerRepository, provisioner *EmployeeProvisioner, log *zap.Logger) *Profiles {
	return &Profiles{employees: employees, employers: employers, provisioner: provisioner, logger: logger.OrNop(log)}
}

func (u *Profiles) Get(ctx context.Context, sess session.Session) (Profile, error) {
	if sess.IsEmployer() {
		e, err := u.employers.GetByID(ctx, sess.UserID)
		if err != nil {
			return Profile{}, u.mapErr(err, employer.ErrNotFound)
		}
		return Profile{Role: session.RoleEmployer, Employer: &e}, nil
	}

	if err := u.provisioner.EnsureEmployeeRecord(ctx, sess); err != nil {
		u.logger.Error("ensure employee record failed", zap.Stringer("user_id", sess.UserID), zap.Error(err))
		return Profile{}, ErrInternal
	}
	e, err := u.employees.GetByID(ctx, sess.UserID)
	if err != nil {
		return Profile{}, u.mapErr(err, employee.ErrNotFound)
	}
	return Profile{Role: session.RoleEmployee, Employee: &e}, nil
}

func (u *Profiles) Update(ctx context.Context, sess session.Session, in ProfileInput) (Profile, error) {
	current, err := u.Get(ctx, sess)
	if err != nil {
		return Profile{}, err
	}

	if current.Employer != nil {
		e := *current.Employer
		setIfPresent(&e.Username, in.Username)
		setIfPresent(&e.PhoneNumber, in.PhoneNumber)
		setIfPresent(&e.CompanyName, in.CompanyName)
		setIfPresent(&e.CompanyDescription, in.CompanyDescription)
		if strings.TrimSpace(e.CompanyName) == "" {
			return Profile{}, ErrInvalidInput
		}
		updated, err := u.employers.Update(ctx, e)
		if err != nil {
			return Profile{}, u.mapErr(err, employer.ErrNotFound)
		}
		return Profile{Role: session.RoleEmployer, Employer: &updated}, nil
	}

	e := *current.Employee
	setIfPresent(&e.Username, in.Username)
	setIfPresent(&e.PhoneNumber, in.PhoneNumber)
	setIfPresent(&e.FirstName, in.FirstName)
	setIfPresent(&e.LastName, in.LastName)
	setIfPresent(&e.Bio, in.Bio)
	updated, err := u.employees.Update(ctx, e)
	if err != nil {
		return Profile{}, u.mapErr(err, employee.ErrNotFound)
	}
	return Profile{Role: session.RoleEmployee, Employee: &updated}, nil
}

func (u *Profiles) mapErr(err, notFound error) error {
	if errors.Is(err, notFound) {
		return notFound
	}
	u.logger.Error("profile storage failed", zap.Error(err))
	return ErrInternal
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
