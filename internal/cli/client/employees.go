package client

import (
	"fmt"
	"net/http"
)

// UpdateEmployeeRequest is a partial update of an AI employee persona. The
// roster itself is fixed: personas can be tuned but never created or deleted.
type UpdateEmployeeRequest struct {
	Role         *string `json:"role,omitempty"`
	Email        *string `json:"email,omitempty"`
	SystemPrompt *string `json:"system_prompt,omitempty"`
	Model        *string `json:"model,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// ListEmployees returns the AI employee roster.
func (c *Client) ListEmployees() ([]Employee, error) {
	var employees []Employee
	if err := c.do(http.MethodGet, "/employees", DomainAdmin, nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// GetEmployee fetches one employee persona by ID.
func (c *Client) GetEmployee(id string) (*Employee, error) {
	var employee Employee
	if err := c.do(http.MethodGet, fmt.Sprintf("/employees/%s", id), DomainAdmin, nil, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

// UpdateEmployee applies a partial update to an employee persona.
func (c *Client) UpdateEmployee(id string, req UpdateEmployeeRequest) (*Employee, error) {
	var employee Employee
	if err := c.do(http.MethodPut, fmt.Sprintf("/employees/%s", id), DomainAdmin, req, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

// TestAIConnections asks the backend to ping the AI provider once per active
// employee and report per-employee results.
func (c *Client) TestAIConnections() ([]ConnectionTestResult, error) {
	var results []ConnectionTestResult
	if err := c.do(http.MethodGet, "/employees/test_ai_connections", DomainAdmin, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}
