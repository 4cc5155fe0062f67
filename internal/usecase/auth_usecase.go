package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamleopard/internal/domain/employee"
	"teamleopard/internal/domain/employer"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/infrastructure/authclient"
	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/repository"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)

const minPasswordLength = 6

type SignUpInput struct {
	Email       string
	Password    string
	Role        session.Role
	Username    string
	FirstName   string
	LastName    string
	CompanyName string
}

type SignInInput struct {
	Email    string
	Password string
}

// AuthResult is what the portal needs after sign-in or sign-up. AccessToken
// is empty while the auth service waits for email confirmation.
type AuthResult struct {
	UserID       uuid.UUID
	Email        string
	Role         session.Role
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	HomeRoute    string
}

type Auth struct {
	client    authclient.Client
	employees repository.EmployeeRepository
	employers repository.EmployerRepository
	logger    *zap.Logger
}

func NewAuthUsecase(client authclient.Client, employees repository.EmployeeRepository, employers repository.EmployerRepository, log *zap.Logger) *Auth {
	return &Auth{client: client, employees: employees, employers: employers, logger: logger.OrNop(log)}
}

// SignUp registers the account with the auth service and inserts the
// profile row for the chosen role.
func (u *Auth) SignUp(ctx context.Context, in SignUpInput) (AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || len(in.Password) < minPasswordLength {
		return AuthResult{}, ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = session.RoleEmployee
	}
	if role != session.RoleEmployee && role != session.RoleEmployer {
		return AuthResult{}, ErrInvalidInput
	}
	if role == session.RoleEmployer && strings.TrimSpace(in.CompanyName) == "" {
		return AuthResult{}, ErrInvalidInput
	}

	usr, sess, err := u.client.SignUp(ctx, email, in.Password, map[string]any{"role": string(role)})
	if err != nil {
		if errors.Is(err, authclient.ErrUserExists) {
			return AuthResult{}, ErrEmailAlreadyRegistered
		}
		u.logger.Error("sign up failed", zap.String("email", email), zap.Error(err))
		return AuthResult{}, ErrInternal
	}
	if usr.ID == uuid.Nil {
		return AuthResult{}, ErrInternal
	}

	if err := u.createProfile(ctx, usr.ID, email, role, in); err != nil {
		u.logger.Error("create profile row failed",
			zap.Stringer("user_id", usr.ID),
			zap.String("role", string(role)),
			zap.Error(err),
		)
		return AuthResult{}, ErrInternal
	}

	out := AuthResult{UserID: usr.ID, Email: email, Role: role}
	if sess != nil {
		out.AccessToken = sess.AccessToken
		out.RefreshToken = sess.RefreshToken
		out.ExpiresIn = sess.ExpiresIn
	}
	out.HomeRoute = session.Session{UserID: usr.ID, Role: role}.HomeRoute()
	return out, nil
}

func (u *Auth) createProfile(ctx context.Context, id uuid.UUID, email string, role session.Role, in SignUpInput) error {
	username := strings.TrimSpace(in.Username)

	if role == session.RoleEmployer {
		e := employer.Employer{
			ID:          id,
			Username:    username,
			Email:       email,
			CompanyName: strings.TrimSpace(in.CompanyName),
		}
		if e.Username == "" {
			e.Username = employee.FromEmail(id, email).Username
		}
		return u.employers.Create(ctx, e)
	}

	e := employee.FromEmail(id, email)
	if username != "" {
		e.Username = username
	}
	if v := strings.TrimSpace(in.FirstName); v != "" {
		e.FirstName = v
	}
	e.LastName = strings.TrimSpace(in.LastName)
	return u.employees.Create(ctx, e)
}

func (u *Auth) SignIn(ctx context.Context, in SignInInput) (AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return AuthResult{}, ErrInvalidInput
	}

	sess, err := u.client.SignIn(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, authclient.ErrInvalidCredentials) || errors.Is(err, authclient.ErrUnauthorized) {
			return AuthResult{}, ErrInvalidCredentials
		}
		u.logger.Error("sign in failed", zap.String("email", email), zap.Error(err))
		return AuthResult{}, ErrInternal
	}

	isEmployer, err := u.employers.Exists(ctx, sess.User.ID)
	if err != nil {
		return AuthResult{}, ErrInternal
	}
	role := session.RoleEmployee
	if isEmployer {
		role = session.RoleEmployer
	}

	return AuthResult{
		UserID:       sess.User.ID,
		Email:        email,
		Role:         role,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresIn:    sess.ExpiresIn,
		HomeRoute:    session.Session{UserID: sess.User.ID, Role: role}.HomeRoute(),
	}, nil
}

func (u *Auth) SignOut(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return ErrUnauthorized
	}
	if err := u.client.SignOut(ctx, accessToken); err != nil {
		if errors.Is(err, authclient.ErrUnauthorized) {
			return ErrUnauthorized
		}
		u.logger.Error("sign out failed", zap.Error(err))
		return ErrInternal
	}
	return nil
}

func normalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ""
	}
	return email
}
