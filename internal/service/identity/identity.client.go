package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agricure-auth-service/internal/domain"
)

// Provider is the outbound surface of the backend identity provider. It owns
// user records, password hashing, OTP issuance and delivery, and token
// issuance; this service never implements any of those itself.
type Provider interface {
	SendOTP(ctx context.Context, req OTPRequest) error
	VerifyOTP(ctx context.Context, req VerifyRequest) (*domain.Session, error)
	PasswordGrant(ctx context.Context, req PasswordGrantRequest) (*domain.Session, error)
	GetUser(ctx context.Context, accessToken string) (*domain.User, error)
	UpdateUserMetadata(ctx context.Context, accessToken string, metadata map[string]string) error
	Logout(ctx context.Context, accessToken string) error
}

// OTPRequest asks the provider to generate and deliver a one-time passcode.
// Exactly one of Email/Phone is set. Metadata rides along on signup so the
// provider-side insert trigger sees it at user-creation time.
type OTPRequest struct {
	Email        string            `json:"email,omitempty"`
	Phone        string            `json:"phone,omitempty"`
	AllowNewUser bool              `json:"create_user"`
	Metadata     map[string]string `json:"data,omitempty"`
}

// VerifyRequest submits a user-supplied code for the given identifier.
type VerifyRequest struct {
	Type  string `json:"type"` // "email" or "sms"
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Token string `json:"token"`
}

// PasswordGrantRequest is a traditional email/phone + password sign-in.
type PasswordGrantRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// ProviderError is a structured (non-2xx) provider response. Code carries the
// provider's machine-readable error code when it exposes one; Message is the
// human-readable body. Classify maps these onto the domain error taxonomy.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("provider error %d: %s", e.Status, e.Message)
}

// Client is the default HTTP implementation of Provider against a GoTrue-style
// REST surface.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *Client) SendOTP(ctx context.Context, req OTPRequest) error {
	return c.post(ctx, "/otp", "", req, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, req VerifyRequest) (*domain.Session, error) {
	var out struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int64  `json:"expires_in"`
		User         struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := c.post(ctx, "/verify", "", req, &out); err != nil {
		return nil, err
	}
	return &domain.Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		TokenType:    out.TokenType,
		ExpiresIn:    out.ExpiresIn,
		UserID:       out.User.ID,
	}, nil
}

func (c *Client) PasswordGrant(ctx context.Context, req PasswordGrantRequest) (*domain.Session, error) {
	var out struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int64  `json:"expires_in"`
		User         struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := c.post(ctx, "/token?grant_type=password", "", req, &out); err != nil {
		return nil, err
	}
	return &domain.Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		TokenType:    out.TokenType,
		ExpiresIn:    out.ExpiresIn,
		UserID:       out.User.ID,
	}, nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*domain.User, error) {
	var out struct {
		ID       string            `json:"id"`
		Email    string            `json:"email"`
		Phone    string            `json:"phone"`
		Metadata map[string]string `json:"user_metadata"`
	}
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:       out.ID,
		Email:    domain.StrPtr(out.Email),
		Phone:    domain.StrPtr(out.Phone),
		Metadata: out.Metadata,
	}, nil
}

func (c *Client) UpdateUserMetadata(ctx context.Context, accessToken string, metadata map[string]string) error {
	body := map[string]interface{}{"data": metadata}
	return c.do(ctx, http.MethodPut, "/user", accessToken, body, nil)
}

func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (c *Client) post(ctx context.Context, path, token string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, token, body, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failure; Classify treats it as transient.
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return parseProviderError(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// parseProviderError tolerates the several error body shapes the provider has
// used over time: {error_code, msg}, {code, message} and {error,
// error_description}.
func parseProviderError(status int, raw []byte) *ProviderError {
	var body struct {
		ErrorCode   string      `json:"error_code"`
		Msg         string      `json:"msg"`
		Code        json.Number `json:"code"`
		Message     string      `json:"message"`
		ErrorField  string      `json:"error"`
		Description string      `json:"error_description"`
	}
	pe := &ProviderError{Status: status, Message: strings.TrimSpace(string(raw))}
	if err := json.Unmarshal(raw, &body); err != nil {
		return pe
	}
	switch {
	case body.ErrorCode != "":
		pe.Code = body.ErrorCode
	case body.ErrorField != "":
		pe.Code = body.ErrorField
	case body.Code.String() != "" && !isNumeric(body.Code.String()):
		pe.Code = body.Code.String()
	}
	switch {
	case body.Msg != "":
		pe.Message = body.Msg
	case body.Message != "":
		pe.Message = body.Message
	case body.Description != "":
		pe.Message = body.Description
	}
	return pe
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
