package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"coursefinder/internal/model"
)

// AuthResult is the credential exchange outcome of login and Google sign-in.
type AuthResult struct {
	Tokens model.Tokens
	User   model.User
}

// authResponse accepts both "token" (password login) and "access_token"
// (federated login) spellings.
type authResponse struct {
	Token        string     `json:"token"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	User         model.User `json:"user"`
}

func (r authResponse) result() (*AuthResult, error) {
	access := r.AccessToken
	if access == "" {
		access = r.Token
	}
	if access == "" {
		return nil, errors.New("auth response carries no access token")
	}
	return &AuthResult{
		Tokens: model.Tokens{AccessToken: access, RefreshToken: r.RefreshToken},
		User:   r.User,
	}, nil
}

// Login exchanges email and password for tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body, err := c.postJSON(ctx, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return resp.result()
}

// Registration is the payload of POST /api/auth/register.
type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserType  string `json:"user_type"`
}

// Register creates an account. The backend sends a verification email, so
// no session is created here.
func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	body, err := c.postJSON(ctx, "/api/auth/register", "", reg)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	var resp struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &resp)
	return resp.Message, nil
}

// FirebaseLogin exchanges a Google/Firebase ID token for backend tokens.
// The backend creates the account on first sign-in.
func (c *Client) FirebaseLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	body, err := c.postJSON(ctx, "/api/auth/firebase", "", map[string]string{"idToken": idToken})
	if err != nil {
		return nil, fmt.Errorf("google sign-in: %w", err)
	}
	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode google sign-in response: %w", err)
	}
	return resp.result()
}

// StudentProfile fetches GET /api/student/profile for the token's owner.
func (c *Client) StudentProfile(ctx context.Context, token string) (*model.StudentProfile, error) {
	body, err := c.get(ctx, "/api/student/profile", token)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	var p model.StudentProfile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}
