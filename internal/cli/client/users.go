package client

import (
	"fmt"
	"net/http"
)

// UpdateProfileRequest is a partial update of the caller's own profile. Nil
// fields are left unchanged.
type UpdateProfileRequest struct {
	Nickname    *string `json:"nickname,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Password    *string `json:"password,omitempty"`
}

// GetOwnProfile fetches the logged-in user's own account.
func (c *Client) GetOwnProfile() (*User, error) {
	var user User
	if err := c.do(http.MethodGet, "/users/me", DomainUser, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateOwnProfile applies a partial update to the caller's own account.
func (c *Client) UpdateOwnProfile(req UpdateProfileRequest) (*User, error) {
	var user User
	if err := c.do(http.MethodPut, "/users/me", DomainUser, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserRequest is an admin-side partial update of any user account.
type UpdateUserRequest struct {
	Nickname      *string `json:"nickname,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	EmailVerified *bool   `json:"email_verified,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
	IsAdmin       *bool   `json:"is_admin,omitempty"`
}

// ListUsers returns every end-user account. Admin domain.
func (c *Client) ListUsers() ([]User, error) {
	var users []User
	if err := c.do(http.MethodGet, "/users", DomainAdmin, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one user account by ID. Admin domain.
func (c *Client) GetUser(id string) (*User, error) {
	var user User
	if err := c.do(http.MethodGet, fmt.Sprintf("/users/%s", id), DomainAdmin, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update to a user account. Admin domain.
func (c *Client) UpdateUser(id string, req UpdateUserRequest) (*User, error) {
	var user User
	if err := c.do(http.MethodPut, fmt.Sprintf("/users/%s", id), DomainAdmin, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user account. Admin domain.
func (c *Client) DeleteUser(id string) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/users/%s", id), DomainAdmin, nil, nil)
}
