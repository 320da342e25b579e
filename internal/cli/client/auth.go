package client

import (
	"net/http"
	"net/url"
)

// LoginUser exchanges end-user credentials for a token. The token is handed
// back to the caller; storing it is the user session's job.
func (c *Client) LoginUser(email, password string) (*TokenResponse, error) {
	form := url.Values{
		"email":    {email},
		"password": {password},
	}
	var resp TokenResponse
	if err := c.doForm("/auth/login/user", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoginAdmin exchanges administrator credentials for a token.
func (c *Client) LoginAdmin(username, password string) (*TokenResponse, error) {
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	var resp TokenResponse
	if err := c.doForm("/auth/login/admin", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegisterRequest is the body for creating an end-user account.
type RegisterRequest struct {
	Nickname    string `json:"nickname"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Register creates a new end-user account.
func (c *Client) Register(req RegisterRequest) (*User, error) {
	var user User
	if err := c.do(http.MethodPost, "/auth/register", domainNone, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetupRequest is the body for the one-time first-admin setup.
type SetupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Setup creates the first administrator account on a fresh deployment.
func (c *Client) Setup(req SetupRequest) error {
	return c.do(http.MethodPost, "/setup", domainNone, req, nil)
}
