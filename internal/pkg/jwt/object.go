package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const objectAudience = "storage-object"

type objectClaims struct {
	Path string `json:"path"`

	jwtlib.RegisteredClaims
}

// ObjectSigner signs storage object paths so they can be fetched without a
// session until the token expires.
type ObjectSigner struct {
	secret []byte
	now    func() time.Time
}

func NewObjectSigner(secret string) *ObjectSigner {
	return &ObjectSigner{secret: []byte(secret), now: time.Now}
}

func (s *ObjectSigner) Sign(path string, ttl time.Duration) (string, time.Time, error) {
	path = strings.TrimSpace(path)
	if path == "" || ttl <= 0 || len(s.secret) == 0 {
		return "", time.Time{}, ErrTokenInvalid
	}
	now := s.now().UTC()
	exp := now.Add(ttl)

	c := objectClaims{
		Path: path,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Audience:  jwtlib.ClaimStrings{objectAudience},
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
		},
	}
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// Verify returns the object path the token grants access to.
func (s *ObjectSigner) Verify(tokenString string) (string, error) {
	if strings.TrimSpace(tokenString) == "" || len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}

	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
		jwtlib.WithAudience(objectAudience),
	)

	var c objectClaims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if tok == nil || !tok.Valid || c.ExpiresAt == nil || c.Path == "" {
		return "", ErrTokenInvalid
	}
	return c.Path, nil
}
