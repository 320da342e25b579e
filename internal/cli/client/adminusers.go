package client

import (
	"fmt"
	"net/http"
)

// CreateAdminUserRequest is the body for creating an administrator account.
type CreateAdminUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateAdminUserRequest is a partial update of an administrator account.
type UpdateAdminUserRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

// ListAdminUsers returns every administrator account.
func (c *Client) ListAdminUsers() ([]AdminUser, error) {
	var admins []AdminUser
	if err := c.do(http.MethodGet, "/admin_users", DomainAdmin, nil, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

// CreateAdminUser creates a new administrator account.
func (c *Client) CreateAdminUser(req CreateAdminUserRequest) (*AdminUser, error) {
	var admin AdminUser
	if err := c.do(http.MethodPost, "/admin_users", DomainAdmin, req, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetOwnAdminProfile fetches the logged-in administrator's own account. This
// is how the admin domain learns its identity: the admin token is never
// decoded client-side.
func (c *Client) GetOwnAdminProfile() (*AdminUser, error) {
	var admin AdminUser
	if err := c.do(http.MethodGet, "/admin_users/me", DomainAdmin, nil, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetAdminUser fetches one administrator account by ID.
func (c *Client) GetAdminUser(id string) (*AdminUser, error) {
	var admin AdminUser
	if err := c.do(http.MethodGet, fmt.Sprintf("/admin_users/%s", id), DomainAdmin, nil, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// UpdateAdminUser applies a partial update to an administrator account.
func (c *Client) UpdateAdminUser(id string, req UpdateAdminUserRequest) (*AdminUser, error) {
	var admin AdminUser
	if err := c.do(http.MethodPut, fmt.Sprintf("/admin_users/%s", id), DomainAdmin, req, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// DeleteAdminUser removes an administrator account.
func (c *Client) DeleteAdminUser(id string) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/admin_users/%s", id), DomainAdmin, nil, nil)
}
