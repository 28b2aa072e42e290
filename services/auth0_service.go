package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/config"
)

// Auth0UserInfo represents the user information returned from Auth0's /userinfo endpoint
type Auth0UserInfo struct {
	Sub           string `json:"sub"` // Auth0 user ID
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Auth0Error is a non-200 answer from Auth0
type Auth0Error struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *Auth0Error) Error() string {
	return fmt.Sprintf("auth0 returned status %d (%s): %s", e.StatusCode, e.Code, e.Description)
}

// Message returns the user-facing message for this error
func (e *Auth0Error) Message() string {
	return AuthErrorMessage(e.Code)
}

// UserInfoFetcher looks up the profile behind an access token
type UserInfoFetcher interface {
	GetUserInfo(ctx context.Context, accessToken string) (*Auth0UserInfo, error)
}

// Auth0Service handles interactions with Auth0 API
type Auth0Service struct {
	domain     string
	httpClient *http.Client
}

// NewAuth0Service creates a new Auth0 service instance
func NewAuth0Service(cfg *config.Config) *Auth0Service {
	return &Auth0Service{
		domain: cfg.Auth0Domain,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetUserInfo fetches user information from Auth0's /userinfo endpoint
// accessToken is the JWT access token from the Authorization header
func (s *Auth0Service) GetUserInfo(ctx context.Context, accessToken string) (*Auth0UserInfo, error) {
	// If domain already includes a protocol (for testing), use it as-is
	var url string
	if strings.HasPrefix(s.domain, "http://") || strings.HasPrefix(s.domain, "https://") {
		url = fmt.Sprintf("%s/userinfo", strings.TrimSuffix(s.domain, "/"))
	} else {
		url = fmt.Sprintf("https://%s/userinfo", s.domain)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, parseAuth0Error(resp.StatusCode, body)
	}

	var userInfo Auth0UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	if userInfo.Sub == "" {
		return nil, fmt.Errorf("userinfo response has no subject")
	}

	return &userInfo, nil
}

// parseAuth0Error reads both the OAuth ({"error": ...}) and the management
// API ({"code": ...}) error shapes.
func parseAuth0Error(status int, body []byte) *Auth0Error {
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Code             string `json:"code"`
		Description      string `json:"description"`
		Message          string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	e := &Auth0Error{StatusCode: status}
	switch {
	case payload.Code != "":
		e.Code = payload.Code
		e.Description = firstNonEmpty(payload.Description, payload.Message)
	case payload.Error != "":
		e.Code = payload.Error
		e.Description = firstNonEmpty(payload.ErrorDescription, payload.Message)
	case status == http.StatusUnauthorized:
		e.Code = "invalid_token"
		e.Description = strings.TrimSpace(string(body))
	default:
		e.Description = strings.TrimSpace(string(body))
	}
	return e
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
