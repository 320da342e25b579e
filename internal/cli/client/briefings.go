package client

import (
	"fmt"
	"net/http"
)

// CreateBriefingRequest is the body for starting a new briefing.
type CreateBriefingRequest struct {
	Title string `json:"title"`
}

// UpdateBriefingRequest is a partial update of a briefing.
type UpdateBriefingRequest struct {
	Title   *string        `json:"title,omitempty"`
	Content map[string]any `json:"content,omitempty"`
}

// ChatRequest is one user turn sent to an AI employee.
type ChatRequest struct {
	UserMessage string `json:"user_message"`
}

// ListBriefings returns the caller's briefings.
func (c *Client) ListBriefings() ([]Briefing, error) {
	var briefings []Briefing
	if err := c.do(http.MethodGet, "/briefings", DomainUser, nil, &briefings); err != nil {
		return nil, err
	}
	return briefings, nil
}

// CreateBriefing starts a new briefing with the given title.
func (c *Client) CreateBriefing(title string) (*Briefing, error) {
	var briefing Briefing
	if err := c.do(http.MethodPost, "/briefings", DomainUser, CreateBriefingRequest{Title: title}, &briefing); err != nil {
		return nil, err
	}
	return &briefing, nil
}

// GetBriefing fetches one briefing with its full conversation history.
func (c *Client) GetBriefing(id string) (*Briefing, error) {
	var briefing Briefing
	if err := c.do(http.MethodGet, fmt.Sprintf("/briefings/%s", id), DomainUser, nil, &briefing); err != nil {
		return nil, err
	}
	return &briefing, nil
}

// UpdateBriefing applies a partial update to a briefing.
func (c *Client) UpdateBriefing(id string, req UpdateBriefingRequest) (*Briefing, error) {
	var briefing Briefing
	if err := c.do(http.MethodPut, fmt.Sprintf("/briefings/%s", id), DomainUser, req, &briefing); err != nil {
		return nil, err
	}
	return &briefing, nil
}

// DeleteBriefing removes a briefing and its conversation history.
func (c *Client) DeleteBriefing(id string) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/briefings/%s", id), DomainUser, nil, nil)
}

// Chat sends one user message to the named employee and returns the reply.
func (c *Client) Chat(briefingID, employeeName, message string) (*ChatResponse, error) {
	var resp ChatResponse
	path := fmt.Sprintf("/briefings/%s/chat/%s", briefingID, employeeName)
	if err := c.do(http.MethodPost, path, DomainUser, ChatRequest{UserMessage: message}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Compile asks the backend to compile the briefing. Compilation is
// asynchronous: the returned briefing is in the "compiling" status and the
// caller polls GetBriefing until it settles.
func (c *Client) Compile(id string) (*Briefing, error) {
	var briefing Briefing
	if err := c.do(http.MethodPost, fmt.Sprintf("/briefings/%s/compile", id), DomainUser, nil, &briefing); err != nil {
		return nil, err
	}
	return &briefing, nil
}
