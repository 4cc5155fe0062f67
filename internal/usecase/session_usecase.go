package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"teamleopard/internal/domain/session"
	"teamleopard/internal/pkg/jwt"
	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/repository"
)

var ErrSessionExpired = errors.New("session expired")

type SessionResolver interface {
	Resolve(ctx context.Context, accessToken string) (session.Session, error)
}

// Sessions turns an access token into the request's session. The role is
// employer when an Employer row exists for the user, employee otherwise.
type Sessions struct {
	tokens    jwt.Verifier
	employers repository.EmployerRepository
	logger    *zap.Logger
}

func NewSessions(tokens jwt.Verifier, employers repository.EmployerRepository, log *zap.Logger) *Sessions {
	return &Sessions{tokens: tokens, employers: employers, logger: logger.OrNop(log)}
}

func (u *Sessions) Resolve(ctx context.Context, accessToken string) (session.Session, error) {
	claims, err := u.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return session.Session{}, ErrSessionExpired
		}
		return session.Session{}, ErrUnauthorized
	}

	role, err := u.roleOf(ctx, claims)
	if err != nil {
		return session.Session{}, err
	}

	return session.Session{
		UserID:      claims.UserID,
		Email:       claims.Email,
		Role:        role,
		AccessToken: accessToken,
	}, nil
}

func (u *Sessions) roleOf(ctx context.Context, claims jwt.AccessClaims) (session.Role, error) {
	isEmployer, err := u.employers.Exists(ctx, claims.UserID)
	if err != nil {
		u.logger.Error("role lookup failed", zap.Stringer("user_id", claims.UserID), zap.Error(err))
		return "", ErrInternal
	}
	if isEmployer {
		return session.RoleEmployer, nil
	}
	return session.RoleEmployee, nil
}

var _ SessionResolver = (*Sessions)(nil)
