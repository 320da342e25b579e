package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Briefing lifecycle statuses
const (
	BriefingStatusInProgress    = "in_progress"
	BriefingStatusCompiling     = "compiling"
	BriefingStatusCompleted     = "completed"
	BriefingStatusCompileFailed = "compile_failed"
)

// Conversation message sender types
const (
	SenderUser     = "user"
	SenderEmployee = "employee"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// JSONMap stores a free-form JSON object in a text column. Briefing content
// is schemaless by design: the AI employees shape it during the interview.
type JSONMap map[string]any

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON column: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}

	if len(data) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}

// Config represents the global configuration for the deployment.
// This is a singleton model (only one row should exist).
type Config struct {
	BaseModel
	// Authentication configuration
	JWTSecret string `json:"-" gorm:"type:varchar(64);not null"` // Auto-generated on first setup (64 hex chars)

	// AI connection health check schedule (cron expression, empty = disabled)
	HealthCheckSchedule string     `json:"health_check_schedule"`
	LastHealthCheckAt   *time.Time `json:"last_health_check_at"`
	NextHealthCheckAt   *time.Time `json:"next_health_check_at"`
}

// User represents an end-user account
type User struct {
	BaseModel
	Nickname      string     `json:"nickname" gorm:"not null"`
	Email         string     `json:"email" gorm:"unique;not null"`
	PhoneNumber   string     `json:"phone_number,omitempty"`
	PasswordHash  string     `json:"-" gorm:"not null"`
	EmailVerified bool       `json:"email_verified" gorm:"not null;default:false"`
	IsActive      bool       `json:"is_active" gorm:"not null;default:true"`
	IsAdmin       bool       `json:"is_admin" gorm:"not null;default:false"`
	LastLogin     *time.Time `json:"last_login"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// AdminUser represents an administrator account, kept in a separate table so
// admin credentials never mix with end-user accounts
type AdminUser struct {
	BaseModel
	Username     string     `json:"username" gorm:"unique;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	LastLogin    *time.Time `json:"last_login"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// Employee represents an AI employee persona. The roster is fixed: employees
// are seeded at startup and can be updated but never created or deleted
// through the API.
type Employee struct {
	BaseModel
	Name         string    `json:"name" gorm:"unique;not null"`
	Role         string    `json:"role" gorm:"not null"`
	Email        string    `json:"email"`
	SystemPrompt string    `json:"-" gorm:"type:text;not null"`
	Model        string    `json:"model"` // Optional per-employee model override
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Briefing represents a content briefing owned by a user
type Briefing struct {
	BaseModel
	UserID          string    `json:"user_id" gorm:"not null;index"`
	Title           string    `json:"title" gorm:"not null"`
	Status          string    `json:"status" gorm:"not null;default:in_progress"`
	Content         JSONMap   `json:"content,omitempty" gorm:"type:text"`
	CompiledContent JSONMap   `json:"compiled_content,omitempty" gorm:"type:text"`
	LastEditedBy    string    `json:"last_edited_by"`
	CompileError    string    `json:"compile_error,omitempty"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User     *User                 `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Messages []ConversationMessage `json:"conversation_history,omitempty" gorm:"foreignKey:BriefingID;constraint:OnDelete:CASCADE"`
}

// ConversationMessage is one turn of a briefing's chat with an AI employee
type ConversationMessage struct {
	BaseModel
	BriefingID     string `json:"-" gorm:"not null;index"`
	EmployeeName   string `json:"employee_name"`
	SenderType     string `json:"sender_type" gorm:"not null"` // "user", "employee"
	MessageContent string `json:"message_content" gorm:"type:text;not null"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&Config{}, &User{}, &AdminUser{}, &Employee{}, &Briefing{}, &ConversationMessage{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}
