package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Token struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type Tokens struct {
	AccessToken  Token `json:"accessToken"`
	RefreshToken Token `json:"refreshToken"`
}

// Provider is the remote authentication service. Credential checks and
// token issuance happen there; a Session only keeps the results.
type Provider interface {
	Login(ctx context.Context, user, password string) (*Tokens, error)
	Register(ctx context.Context, user, email, password string) error
	Logout(ctx context.Context, refreshToken string) error
}

// HTTPProvider talks to an auth service's JSON API.
type HTTPProvider struct {
	HTTP    http.Client
	BaseURL string
}

var _ Provider = (*HTTPProvider)(nil)

func DefaultProvider(baseURL string) HTTPProvider {
	return HTTPProvider{
		HTTP:    http.Client{Timeout: 10 * time.Second},
		BaseURL: baseURL,
	}
}

func (p *HTTPProvider) Login(
	ctx context.Context,
	user string,
	password string,
) (*Tokens, error) {
	var tokens Tokens
	if err := p.post(
		ctx,
		"/api/login",
		struct {
			User     string `json:"user"`
			Password string `json:"password"`
		}{user, password},
		http.StatusOK,
		&tokens,
	); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &tokens, nil
}

func (p *HTTPProvider) Register(
	ctx context.Context,
	user string,
	email string,
	password string,
) error {
	if err := p.post(
		ctx,
		"/api/register",
		struct {
			User     string `json:"user"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}{user, email, password},
		http.StatusCreated,
		nil,
	); err != nil {
		return fmt.Errorf("registering: %w", err)
	}
	return nil
}

func (p *HTTPProvider) Logout(ctx context.Context, refreshToken string) error {
	if err := p.post(
		ctx,
		"/api/logout",
		struct {
			RefreshToken string `json:"refreshToken"`
		}{refreshToken},
		http.StatusOK,
		nil,
	); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

func (p *HTTPProvider) post(
	ctx context.Context,
	path string,
	payload interface{},
	wantedStatus int,
	out interface{},
) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.BaseURL+path,
		bytes.NewReader(data),
	)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	rsp, err := p.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()

	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if rsp.StatusCode != wantedStatus {
		return &StatusErr{
			Wanted:  wantedStatus,
			Found:   rsp.StatusCode,
			Message: string(bytes.TrimSpace(body)),
		}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("invalid response payload: %w", err)
		}
	}
	return nil
}

type StatusErr struct {
	Wanted  int
	Found   int
	Message string
}

func (err *StatusErr) Error() string {
	return fmt.Sprintf(
		"response status: wanted `%d`; found `%d`: %s",
		err.Wanted,
		err.Found,
		err.Message,
	)
}
