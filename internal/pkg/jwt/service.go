package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AudienceAuthenticated is the audience the auth service stamps on access
// tokens of signed-in users.
const AudienceAuthenticated = "authenticated"

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`

	jwtlib.RegisteredClaims
}

type AccessClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

type Verifier interface {
	ValidateAccessToken(tokenString string) (AccessClaims, error)
}

// HMACService verifies access tokens issued by the hosted auth service. It
// can also mint tokens with the same secret, which the local tooling and
// tests use.
type HMACService struct {
	secret []byte
	now    func() time.Time
}

func NewHMACService(secret string) *HMACService {
	return &HMACService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (s *HMACService) ValidateAccessToken(tokenString string) (AccessClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" || len(s.secret) == 0 {
		return AccessClaims{}, ErrTokenInvalid
	}

	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return AccessClaims{}, ErrTokenExpired
		}
		return AccessClaims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return AccessClaims{}, ErrTokenInvalid
	}
	if c.ExpiresAt == nil {
		return AccessClaims{}, ErrTokenInvalid
	}
	if !hasAudience(c.Audience, AudienceAuthenticated) {
		return AccessClaims{}, ErrTokenInvalid
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil || userID == uuid.Nil {
		return AccessClaims{}, ErrTokenInvalid
	}

	return AccessClaims{
		UserID:    userID,
		Email:     strings.ToLower(strings.TrimSpace(c.Email)),
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

func (s *HMACService) IssueAccessToken(userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 || ttl <= 0 || userID == uuid.Nil {
		return "", ErrTokenInvalid
	}
	now := s.now().UTC()

	c := Claims{
		Email: email,
		Role:  AudienceAuthenticated,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID.String(),
			Audience:  jwtlib.ClaimStrings{AudienceAuthenticated},
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(s.secret)
}

func hasAudience(aud jwtlib.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
