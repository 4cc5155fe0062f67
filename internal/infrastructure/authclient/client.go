package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamleopard/internal/config"
	"teamleopard/internal/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserExists         = errors.New("user already registered")
)

// User is the auth service's view of an account.
type User struct {
	ID           uuid.UUID      `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Client is the subset of the hosted auth API the backend calls.
type Client interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (User, *Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (User, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg config.AuthConfig, log *zap.Logger) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpClient{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  cfg.AnonKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.OrNop(log),
	}
}

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// signUpResponse covers both shapes the service answers with: a bare user
// when email confirmation is pending, or a session when it is not.
type signUpResponse struct {
	User
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	SessionUser  *User  `json:"user"`
}

func (c *httpClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (User, *Session, error) {
	var out signUpResponse
	body := credentials{Email: strings.TrimSpace(email), Password: password, Data: metadata}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, &out); err != nil {
		return User{}, nil, err
	}

	if out.AccessToken == "" {
		return out.User, nil, nil
	}
	s := &Session{
		AccessToken:  out.AccessToken,
		TokenType:    out.TokenType,
		ExpiresIn:    out.ExpiresIn,
		RefreshToken: out.RefreshToken,
	}
	if out.SessionUser != nil {
		s.User = *out.SessionUser
	}
	return s.User, s, nil
}

func (c *httpClient) SignIn(ctx context.Context, email, password string) (Session, error) {
	var out Session
	body := credentials{Email: strings.TrimSpace(email), Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &out); err != nil {
		return Session{}, err
	}
	return out, nil
}

func (c *httpClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

func (c *httpClient) GetUser(ctx context.Context, accessToken string) (User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

func (c *httpClient) do(ctx context.Context, method, path, bearer string, in, out any) error {
	if c == nil || c.client == nil {
		return errors.New("nil auth client")
	}
	endpoint := c.baseURL + path

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		c.logger.Warn("auth request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", bodyStr),
		)
		return statusError(resp.StatusCode, bodyStr)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(status int, body string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusBadRequest && strings.Contains(body, "invalid_grant"):
		return ErrInvalidCredentials
	case status == http.StatusBadRequest && strings.Contains(strings.ToLower(body), "invalid login"):
		return ErrInvalidCredentials
	case status == http.StatusUnprocessableEntity || strings.Contains(strings.ToLower(body), "already registered"):
		return ErrUserExists
	}
	return fmt.Errorf("auth service: status=%d body=%s", status, body)
}

var _ Client = (*httpClient)(nil)
