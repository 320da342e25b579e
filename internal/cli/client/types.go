package client

import "time"

// TokenResponse is the body of a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is an end-user account as the API returns it.
type User struct {
	ID            string     `json:"id"`
	Nickname      string     `json:"nickname"`
	Email         string     `json:"email"`
	PhoneNumber   string     `json:"phone_number,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	IsActive      bool       `json:"is_active"`
	IsAdmin       bool       `json:"is_admin"`
	LastLogin     *time.Time `json:"last_login"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AdminUser is an administrator account.
type AdminUser struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Employee is an AI employee persona.
type Employee struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Email        string    `json:"email"`
	SystemPrompt string    `json:"system_prompt"`
	Model        string    `json:"model"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ConnectionTestResult is one employee's AI connectivity check outcome.
type ConnectionTestResult struct {
	Employee string `json:"employee"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// ConversationMessage is one turn of a briefing chat.
type ConversationMessage struct {
	ID             string    `json:"id"`
	EmployeeName   string    `json:"employee_name"`
	SenderType     string    `json:"sender_type"`
	MessageContent string    `json:"message_content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Briefing is a content briefing with its conversation history.
type Briefing struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	Title           string                `json:"title"`
	Status          string                `json:"status"`
	Content         map[string]any        `json:"content,omitempty"`
	CompiledContent map[string]any        `json:"compiled_content,omitempty"`
	LastEditedBy    string                `json:"last_edited_by"`
	CompileError    string                `json:"compile_error,omitempty"`
	Messages        []ConversationMessage `json:"conversation_history,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ChatResponse is the employee's reply to one chat turn.
type ChatResponse struct {
	Reply             string `json:"reply"`
	InterviewComplete bool   `json:"interview_complete"`
}
